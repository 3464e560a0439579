package chat

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	senderPrefixLen  = 10
	contentHashChars = 128
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// deriveIdentity produces the content-based fingerprint used to deduplicate
// messages across independently parsed exports of the same conversation.
//
// The fingerprint is timestamp + sender prefix + short content hash joined
// with "-". It is deliberately approximate: two messages from the same sender
// in the same second with identical leading content collide, and the later
// one is treated as a duplicate during merge. Making it strictly unique would
// break merge idempotence, so it stays a best-effort fingerprint.
func (m *Message) deriveIdentity() string {
	var timestampPart string
	if !m.When.IsZero() {
		timestampPart = m.When.Format("20060102150405")
	} else {
		timestampPart = shortHash(m.RawTimestamp)
	}

	senderPart := nonAlnum.ReplaceAllString(m.Sender, "")
	if len(senderPart) > senderPrefixLen {
		senderPart = senderPart[:senderPrefixLen]
	}
	if senderPart == "" {
		senderPart = shortHash(m.Sender)
	}

	var contentPart string
	if m.Content != "" {
		contentPart = shortHash(truncateRunes(m.Content, contentHashChars))
	} else {
		// Media-only message: fingerprint the media kinds and filenames.
		parts := make([]string, 0, len(m.Media))
		for _, ref := range m.Media {
			parts = append(parts, string(ref.Kind)+ref.Filename)
		}
		contentPart = shortHash(strings.Join(parts, "-"))
	}

	return timestampPart + "-" + senderPart + "-" + contentPart
}

// shortHash returns the first 8 hex characters of the md5 of s. md5 is fine
// here: the identity is a dedup fingerprint, not a security boundary.
func shortHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
