// Package render produces the browsable HTML page for a chat dataset.
package render

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/matheus3301/wexport/internal/chat"
	"github.com/matheus3301/wexport/internal/media"
	"github.com/matheus3301/wexport/internal/workspace"
)

//go:embed page.html
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "page.html"))

// Options controls rendering behavior.
type Options struct {
	// Highlight selects how new messages are marked: none, subtle or
	// prominent.
	Highlight string
	// InfoText is the raw info.txt content shown in the info panel, if any.
	InfoText string
}

type pageData struct {
	Title     string
	InfoText  string
	JSONFile  string
	UpdatedOn string
	Days      []dayView
}

type dayView struct {
	Date     string
	Messages []messageView
}

type messageView struct {
	Class       string
	Sender      string
	ShowSender  bool
	Content     template.HTML
	Media       []mediaView
	Time        string
	MarkUpdated bool
}

type mediaView struct {
	Element string // img, video, audio, link, placeholder
	Src     string
	Label   string
}

// Render writes the chat page into the dataset directory, resolving each
// media reference against the listing. Unresolvable references render as
// placeholders; rendering never fails because a file is missing.
func Render(c *chat.Chat, listing *media.Listing, datasetDir string, opts Options) error {
	outPath := workspace.HTMLPath(datasetDir)

	data := pageData{
		Title:    c.Metadata.Title,
		InfoText: opts.InfoText,
		JSONFile: filepath.Base(workspace.MessagesPath(datasetDir)),
	}

	highlight := opts.Highlight != "" && opts.Highlight != "none"
	markedUpdate := false

	var currentDay *dayView
	for i := range c.Messages {
		msg := &c.Messages[i]
		date, clock := displayTime(msg)

		if currentDay == nil || currentDay.Date != date {
			data.Days = append(data.Days, dayView{Date: date})
			currentDay = &data.Days[len(data.Days)-1]
		}

		view := messageView{
			Class:   messageClass(msg),
			Sender:  msg.Sender,
			Content: linkify(msg.Content),
			Time:    clock,
		}
		view.ShowSender = view.Class != "system"

		if msg.IsNew && highlight {
			view.Class += " new-message-" + opts.Highlight
			if !markedUpdate {
				view.MarkUpdated = true
				data.UpdatedOn = time.Now().Format("02 January 2006, 15:04")
				markedUpdate = true
			}
		}

		for _, ref := range msg.Media {
			view.Media = append(view.Media, mediaElement(ref, listing, datasetDir))
		}

		currentDay.Messages = append(currentDay.Messages, view)
	}

	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create html output: %w", err)
	}
	execErr := pageTmpl.Execute(f, data)
	if closeErr := f.Close(); closeErr != nil && execErr == nil {
		return closeErr
	}
	if execErr != nil {
		return fmt.Errorf("render page: %w", execErr)
	}
	return nil
}

// displayTime formats a message's timestamp for display, falling back to the
// raw string's own date/time halves when it never parsed.
func displayTime(msg *chat.Message) (date, clock string) {
	if !msg.When.IsZero() {
		return msg.When.Format("02 January 2006"), msg.When.Format("15:04")
	}
	raw := msg.RawTimestamp
	if idx := strings.Index(raw, ","); idx >= 0 {
		return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+1:])
	}
	return strings.TrimSpace(raw), ""
}

// messageClass picks the display bubble for a message. Senders with a "~"
// prefix are other group participants unless the content is membership
// phrasing; anything that is not system traffic is treated as the exporting
// user's own message.
func messageClass(msg *chat.Message) string {
	if msg.Sender == "System" {
		return "system"
	}
	if strings.Contains(msg.Sender, "~") {
		if msg.IsSystem() {
			return "system"
		}
		return "other"
	}
	return "user"
}

var urlRe = regexp.MustCompile(`https?://[^\s<]+`)

// linkify escapes content and converts bare URLs into anchors.
func linkify(content string) template.HTML {
	escaped := html.EscapeString(content)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	linked := urlRe.ReplaceAllStringFunc(escaped, func(u string) string {
		return `<a href="` + u + `" target="_blank">` + u + `</a>`
	})
	return template.HTML(linked)
}

// mediaElement resolves one media reference into a displayable element.
func mediaElement(ref chat.MediaRef, listing *media.Listing, datasetDir string) mediaView {
	if ref.Filename == "" {
		return mediaView{
			Element: "placeholder",
			Label:   fmt.Sprintf("%s file not available", ref.Kind),
		}
	}

	path, ok := listing.Resolve(ref.Filename)
	if !ok {
		return mediaView{
			Element: "placeholder",
			Label:   fmt.Sprintf("%s file not found: %s", ref.Kind, ref.Filename),
		}
	}

	rel, err := filepath.Rel(datasetDir, path)
	if err != nil {
		rel = path
	}

	switch ref.Kind {
	case chat.KindPhoto, chat.KindImage, chat.KindGIF:
		return mediaView{Element: "img", Src: rel}
	case chat.KindVideo:
		return mediaView{Element: "video", Src: rel}
	case chat.KindAudio, chat.KindVoice:
		return mediaView{Element: "audio", Src: rel}
	default:
		return mediaView{
			Element: "link",
			Src:     rel,
			Label:   fmt.Sprintf("Open %s", ref.Filename),
		}
	}
}
