package media

import (
	"os"
	"path/filepath"
	"testing"
)

func fixtureListing(t *testing.T, names ...string) *Listing {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	l, err := NewListing(root)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestResolveExact(t *testing.T) {
	l := fixtureListing(t, "IMG-20250425-WA0051.jpg", "other.jpg")
	path, ok := l.Resolve("IMG-20250425-WA0051.jpg")
	if !ok {
		t.Fatal("no match")
	}
	if filepath.Base(path) != "IMG-20250425-WA0051.jpg" {
		t.Errorf("got %q", path)
	}
}

func TestResolveSubdirectory(t *testing.T) {
	l := fixtureListing(t, filepath.Join("media", "photos", "a.jpg"))
	if _, ok := l.Resolve("a.jpg"); !ok {
		t.Error("file in subdirectory not found")
	}
}

func TestResolveBaseAnyExtension(t *testing.T) {
	l := fixtureListing(t, "00000179-PHOTO-2025-04-24-16-21-11.webp")
	path, ok := l.Resolve("00000179-PHOTO-2025-04-24-16-21-11.jpg")
	if !ok {
		t.Fatal("no match")
	}
	if filepath.Base(path) != "00000179-PHOTO-2025-04-24-16-21-11.webp" {
		t.Errorf("got %q", path)
	}
}

func TestResolveNumericIDConvention(t *testing.T) {
	l := fixtureListing(t,
		"00000179-PHOTO-2025-04-25-09-00-00.jpg",
		"00000180-PHOTO-2025-04-25-09-00-00.jpg",
	)
	// Same ID and type, different recorded time.
	path, ok := l.Resolve("00000179-PHOTO-2025-04-24-16-21-11.jpg")
	if !ok {
		t.Fatal("no match")
	}
	if filepath.Base(path) != "00000179-PHOTO-2025-04-25-09-00-00.jpg" {
		t.Errorf("got %q", path)
	}
}

func TestResolveNumericIDPrefersMatchingExtension(t *testing.T) {
	l := fixtureListing(t,
		"00000179-PHOTO-2025-04-25.webp",
		"00000179-PHOTO-2025-04-26.jpg",
	)
	path, ok := l.Resolve("00000179-PHOTO-2025-04-24.jpg")
	if !ok {
		t.Fatal("no match")
	}
	if filepath.Base(path) != "00000179-PHOTO-2025-04-26.jpg" {
		t.Errorf("got %q, want the candidate with the matching extension", path)
	}
}

func TestResolveMobileTokens(t *testing.T) {
	l := fixtureListing(t,
		"IMG-20250426-WA0007.jpg",
		"VID-20250425-WA0051.mp4",
	)
	// The WA token matches the second file even though the prefix differs.
	path, ok := l.Resolve("IMG-20250425-WA0051.jpg")
	if !ok {
		t.Fatal("no match")
	}
	if filepath.Base(path) != "VID-20250425-WA0051.mp4" {
		t.Errorf("got %q, want the candidate sharing date and WA tokens", path)
	}
}

func TestResolveSubstringLastResort(t *testing.T) {
	l := fixtureListing(t, "backup-of-holiday.jpg")
	if _, ok := l.Resolve("holiday.jpg"); !ok {
		t.Error("substring tier did not match")
	}
}

func TestResolveNoMatch(t *testing.T) {
	l := fixtureListing(t, "a.jpg")
	if _, ok := l.Resolve("completely-unrelated.png"); ok {
		t.Error("unexpected match")
	}
	if _, ok := l.Resolve(""); ok {
		t.Error("empty filename should not match")
	}
}

func TestResolveConvenience(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := Resolve(root, "a.jpg"); !ok {
		t.Error("no match")
	}
}
