// Package parse turns transcript text into ordered chat messages. The parser
// is a single-pass state machine: a line matching the detected timestamp
// pattern starts a new message, anything else either records a standalone
// media marker or continues the message body.
package parse

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/matheus3301/wexport/internal/chat"
	"github.com/matheus3301/wexport/internal/format"
	"github.com/matheus3301/wexport/internal/media"
)

var (
	// <attached: 00000179-PHOTO-2025-04-24-16-21-11.jpg>
	attachedTagRe = regexp.MustCompile(`<attached:\s?([^>]+)>`)
	// VID-20230822-WA0001.mp4 (file attached)
	fileAttachedRe = regexp.MustCompile(`([\w-]+\.(?:mp4|mov|avi|3gp|jpg|jpeg|png|gif|webp|mp3|wav|ogg|m4a|opus|pdf|doc|docx|xls|xlsx|ppt|pptx))\s*\(file attached\)`)
	// image omitted / video omitted / ... appearing anywhere on a line
	omittedKindRe = regexp.MustCompile(`(image|video|audio|document|GIF)\s+omitted`)
	// image omitted as the entire message content
	omittedOnlyRe   = regexp.MustCompile(`^(image|video|audio|document|GIF)\s+omitted$`)
	mediaOmittedRe  = regexp.MustCompile(`<Media omitted>`)
	mediaOmittedAll = regexp.MustCompile(`^<Media omitted>$`)
)

// omittedKinds maps the omission phrase's own word to a media kind. The
// phrase word is recorded as-is (image, not photo): there is no file whose
// extension could say otherwise.
var omittedKinds = map[string]chat.MediaKind{
	"image":    chat.KindImage,
	"video":    chat.KindVideo,
	"audio":    chat.KindAudio,
	"document": chat.KindDocument,
	"GIF":      chat.KindGIF,
}

// Parser consumes transcript lines under one detected format.
type Parser struct {
	format format.Format
}

// New creates a parser for the given transcript format.
func New(f format.Format) *Parser {
	return &Parser{format: f}
}

// builder accumulates the in-progress message between boundary lines.
type builder struct {
	rawTimestamp string
	sender       string
	segments     []string
	media        []chat.MediaRef
}

func (b *builder) finalize() chat.Message {
	return chat.NewMessage(b.rawTimestamp, b.sender, strings.Join(b.segments, "\n"), b.media)
}

// Parse runs the state machine over the whole transcript and returns the
// messages in encounter order. Lines before the first boundary that match
// nothing are dropped silently (export banner noise).
func (p *Parser) Parse(text string) []chat.Message {
	var messages []chat.Message
	var current *builder

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := p.format.Timestamp.FindStringSubmatch(line); m != nil {
			if current != nil {
				messages = append(messages, current.finalize())
			}
			current = p.startMessage(m[1], line[len(m[0]):])
			continue
		}

		if current == nil {
			continue
		}

		// Standalone media markers: some export tools put the attachment tag
		// on its own line after the message line. These extend the message's
		// media without touching its content.
		switch {
		case attachedTagRe.MatchString(line):
			name := attachedTagRe.FindStringSubmatch(line)[1]
			current.media = append(current.media, chat.MediaRef{Kind: media.Classify(name), Filename: name})
		case fileAttachedRe.MatchString(line):
			name := fileAttachedRe.FindStringSubmatch(line)[1]
			current.media = append(current.media, chat.MediaRef{Kind: media.Classify(name), Filename: name})
		case omittedKindRe.MatchString(line):
			word := omittedKindRe.FindStringSubmatch(line)[1]
			current.media = append(current.media, chat.MediaRef{Kind: omittedKinds[word]})
		case mediaOmittedRe.MatchString(line):
			current.media = append(current.media, chat.MediaRef{Kind: chat.KindMedia})
		default:
			current.segments = append(current.segments, line)
		}
	}

	if current != nil {
		messages = append(messages, current.finalize())
	}
	return messages
}

// startMessage builds the accumulator for a boundary line. remainder is the
// line text after the timestamp match.
func (p *Parser) startMessage(timestamp, remainder string) *builder {
	body := strings.TrimSpace(remainder)
	// The permissive fallback pattern consumes neither the mobile dash nor
	// the desktop colon; strip whichever is left over.
	if after, ok := strings.CutPrefix(body, "- "); ok {
		body = after
	} else if after, ok := strings.CutPrefix(body, ":"); ok {
		body = strings.TrimSpace(after)
	}

	sender := "System"
	content := body
	if idx := strings.Index(body, ":"); idx >= 0 {
		sender = strings.TrimSpace(body[:idx])
		content = strings.TrimSpace(body[idx+1:])
	}

	content, refs := extractInlineMedia(content)

	b := &builder{
		rawTimestamp: timestamp,
		sender:       sender,
		media:        refs,
	}
	if content != "" {
		b.segments = append(b.segments, content)
	}
	return b
}

// extractInlineMedia pulls attachment tags and omission phrases out of a
// message body, returning the cleaned text and the extracted references.
// Attachment tags are removed wherever they appear; an omission phrase only
// counts when it is the entire remaining content, so ordinary prose that
// happens to contain "video omitted" is left alone.
func extractInlineMedia(content string) (string, []chat.MediaRef) {
	var refs []chat.MediaRef

	for _, m := range attachedTagRe.FindAllStringSubmatch(content, -1) {
		refs = append(refs, chat.MediaRef{Kind: media.Classify(m[1]), Filename: m[1]})
	}
	content = attachedTagRe.ReplaceAllString(content, "")

	for _, m := range fileAttachedRe.FindAllStringSubmatch(content, -1) {
		refs = append(refs, chat.MediaRef{Kind: media.Classify(m[1]), Filename: m[1]})
	}
	content = fileAttachedRe.ReplaceAllString(content, "")

	content = strings.TrimSpace(content)

	if m := omittedOnlyRe.FindStringSubmatch(content); m != nil {
		refs = append(refs, chat.MediaRef{Kind: omittedKinds[m[1]]})
		content = ""
	} else if mediaOmittedAll.MatchString(content) {
		refs = append(refs, chat.MediaRef{Kind: chat.KindMedia})
		content = ""
	}

	return content, refs
}

// ParseFile reads a transcript file, detects its format and parses it.
// Invalid UTF-8 byte sequences are replaced rather than treated as fatal.
func ParseFile(path string) ([]chat.Message, format.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, format.Format{}, fmt.Errorf("read transcript: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "�")
	f := format.Detect(text)
	return New(f).Parse(text), f, nil
}
