package chat

import (
	"strings"
	"time"
)

// MediaKind classifies an attachment into a coarse display category.
type MediaKind string

const (
	KindPhoto    MediaKind = "photo"
	KindVideo    MediaKind = "video"
	KindAudio    MediaKind = "audio"
	KindVoice    MediaKind = "voice_message"
	KindDocument MediaKind = "document"
	KindUnknown  MediaKind = "unknown"

	// Kinds recorded from omission markers. These carry the word the export
	// itself used ("image omitted", "<Media omitted>") rather than a kind
	// derived from a file extension, since no file exists to classify.
	KindImage MediaKind = "image"
	KindGIF   MediaKind = "gif"
	KindMedia MediaKind = "media"
)

// MediaRef is a parsed pointer to an attachment. Filename is empty when the
// transcript only recorded an omission marker with no retrievable file.
type MediaRef struct {
	Kind     MediaKind
	Filename string
}

// Message is a single parsed chat message.
//
// RawTimestamp is kept verbatim from the transcript: source formats are
// ambiguous (day/month order varies between export tools) and redisplay must
// match the original export. When holds the parsed timestamp and is the zero
// time when RawTimestamp did not parse under any known layout.
type Message struct {
	RawTimestamp string
	Sender       string
	Content      string
	Media        []MediaRef
	When         time.Time
	Identity     string
	IsNew        bool
}

// NewMessage builds a Message from parsed transcript data, parsing the
// timestamp and deriving the content identity.
func NewMessage(rawTimestamp, sender, content string, media []MediaRef) Message {
	m := Message{
		RawTimestamp: rawTimestamp,
		Sender:       sender,
		Content:      content,
		Media:        media,
		When:         ParseTimestamp(rawTimestamp),
	}
	m.Identity = m.deriveIdentity()
	return m
}

// systemPhrases are the membership-change phrasings WhatsApp emits without a
// real sender. Substring checks, kept deliberately loose.
var systemPhrases = []string{
	"added",
	"joined using this group's invite link",
	"left",
	"changed",
}

// IsSystem reports whether the message looks like system traffic (membership
// changes, setting changes). This is a heuristic, not a reliable classifier:
// it matches on the sender containing "System" or on membership-change
// phrasing anywhere in the content, and callers must treat it as best-effort.
func (m *Message) IsSystem() bool {
	if strings.Contains(m.Sender, "System") {
		return true
	}
	for _, phrase := range systemPhrases {
		if strings.Contains(m.Content, phrase) {
			return true
		}
	}
	return false
}
