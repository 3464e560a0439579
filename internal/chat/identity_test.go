package chat

import (
	"strings"
	"testing"
)

func TestIdentityStable(t *testing.T) {
	a := NewMessage("16/04/2024, 11:59:24", "Alice", "Hello there", nil)
	b := NewMessage("16/04/2024, 11:59:24", "Alice", "Hello there", nil)
	if a.Identity == "" {
		t.Fatal("identity is empty")
	}
	if a.Identity != b.Identity {
		t.Errorf("same input produced different identities: %q vs %q", a.Identity, b.Identity)
	}
}

func TestIdentityShape(t *testing.T) {
	m := NewMessage("16/04/2024, 11:59:24", "Alice", "Hello", nil)
	parts := strings.Split(m.Identity, "-")
	if len(parts) != 3 {
		t.Fatalf("identity %q has %d parts, want 3", m.Identity, len(parts))
	}
	if parts[0] != "20240416115924" {
		t.Errorf("timestamp part = %q, want 20240416115924", parts[0])
	}
	if parts[1] != "Alice" {
		t.Errorf("sender part = %q, want Alice", parts[1])
	}
	if len(parts[2]) != 8 {
		t.Errorf("content hash part = %q, want 8 hex chars", parts[2])
	}
}

func TestIdentitySenderCleaning(t *testing.T) {
	m := NewMessage("16/04/2024, 11:59:24", "~ Maria José da Silva", "oi", nil)
	parts := strings.Split(m.Identity, "-")
	if len(parts[1]) > senderPrefixLen {
		t.Errorf("sender part %q longer than %d", parts[1], senderPrefixLen)
	}
	if strings.ContainsAny(parts[1], "~ é") {
		t.Errorf("sender part %q not cleaned", parts[1])
	}
}

func TestIdentitySenderFallbackHash(t *testing.T) {
	// A sender with no alphanumerics falls back to a hash, never an empty part.
	m := NewMessage("16/04/2024, 11:59:24", "«...»", "oi", nil)
	parts := strings.Split(m.Identity, "-")
	if len(parts) != 3 {
		t.Fatalf("identity %q has %d parts, want 3", m.Identity, len(parts))
	}
	if len(parts[1]) != 8 {
		t.Errorf("sender part = %q, want an 8 char hash", parts[1])
	}
}

func TestIdentityUnparseableTimestamp(t *testing.T) {
	a := NewMessage("garbage", "Alice", "Hello", nil)
	b := NewMessage("garbage", "Alice", "Hello", nil)
	c := NewMessage("other garbage", "Alice", "Hello", nil)
	if a.Identity != b.Identity {
		t.Error("same raw timestamp produced different identities")
	}
	if a.Identity == c.Identity {
		t.Error("different raw timestamps produced the same identity")
	}
}

func TestIdentityMediaOnly(t *testing.T) {
	a := NewMessage("16/04/2024, 11:59:24", "Alice", "", []MediaRef{{Kind: KindPhoto, Filename: "a.jpg"}})
	b := NewMessage("16/04/2024, 11:59:24", "Alice", "", []MediaRef{{Kind: KindPhoto, Filename: "b.jpg"}})
	if a.Identity == b.Identity {
		t.Error("different media produced the same identity")
	}
}

func TestIdentityLongContentTruncated(t *testing.T) {
	prefix := strings.Repeat("x", contentHashChars)
	a := NewMessage("16/04/2024, 11:59:24", "Alice", prefix+"tail one", nil)
	b := NewMessage("16/04/2024, 11:59:24", "Alice", prefix+"different tail", nil)
	if a.Identity != b.Identity {
		t.Error("content beyond the hashed prefix changed the identity")
	}
}
