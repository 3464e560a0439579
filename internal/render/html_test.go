package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/wexport/internal/chat"
	"github.com/matheus3301/wexport/internal/media"
	"github.com/matheus3301/wexport/internal/workspace"
)

func renderFixture(t *testing.T, c *chat.Chat, mediaFiles []string, opts Options) string {
	t.Helper()
	datasetDir := t.TempDir()
	exportDir := workspace.ExportDir(datasetDir)
	if err := os.MkdirAll(exportDir, 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range mediaFiles {
		if err := os.WriteFile(filepath.Join(exportDir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	listing, err := media.NewListing(exportDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := Render(c, listing, datasetDir, opts); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(workspace.HTMLPath(datasetDir))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func fixtureChat(t *testing.T) *chat.Chat {
	t.Helper()
	c := chat.New(chat.NewMetadata("", "Family Group", ""))
	c.AddMessages([]chat.Message{
		chat.NewMessage("16/04/2024, 11:59:24", "Alice", "Hello everyone", nil),
		chat.NewMessage("16/04/2024, 12:00:00", "~ Bob", "hi https://example.com/x", nil),
		chat.NewMessage("17/04/2024, 09:00:00", "System", "Alice added Carol", nil),
	}, false)
	return c
}

func TestRenderBasicPage(t *testing.T) {
	html := renderFixture(t, fixtureChat(t), nil, Options{})

	for _, want := range []string{
		"Family Group",
		"Hello everyone",
		"16 April 2024",
		"17 April 2024",
		`class="message user`,
		`class="message other`,
		`class="message system`,
		"whatsapp_chat.json",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderLinkifiesURLs(t *testing.T) {
	html := renderFixture(t, fixtureChat(t), nil, Options{})
	if !strings.Contains(html, `<a href="https://example.com/x"`) {
		t.Error("URL not turned into an anchor")
	}
}

func TestRenderEscapesContent(t *testing.T) {
	c := chat.New(chat.NewMetadata("", "T", ""))
	c.AddMessages([]chat.Message{
		chat.NewMessage("16/04/2024, 11:59:24", "Alice", "<script>alert(1)</script>", nil),
	}, false)
	html := renderFixture(t, c, nil, Options{})
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("content not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("escaped form missing")
	}
}

func TestRenderHighlightMarksNewMessages(t *testing.T) {
	c := fixtureChat(t)
	c.ClearNewFlags()
	c.AddMessages([]chat.Message{
		chat.NewMessage("18/04/2024, 10:00:00", "Alice", "fresh message", nil),
	}, true)

	html := renderFixture(t, c, nil, Options{Highlight: "subtle"})
	// Class attributes only; the stylesheet mentions the class name too.
	if got := strings.Count(html, `new-message-subtle"`); got != 1 {
		t.Errorf("found %d highlighted messages, want 1", got)
	}
	if !strings.Contains(html, "Updated on") {
		t.Error("update marker missing")
	}
}

func TestRenderNoHighlightByDefault(t *testing.T) {
	html := renderFixture(t, fixtureChat(t), nil, Options{})
	if strings.Contains(html, `new-message-subtle"`) || strings.Contains(html, `new-message-prominent"`) {
		t.Error("messages highlighted without a highlight option")
	}
	if strings.Contains(html, "Updated on") {
		t.Error("update marker present without highlighting")
	}
}

func TestRenderMediaElements(t *testing.T) {
	c := chat.New(chat.NewMetadata("", "T", ""))
	c.AddMessages([]chat.Message{
		chat.NewMessage("16/04/2024, 11:59:24", "Alice", "", []chat.MediaRef{{Kind: chat.KindPhoto, Filename: "pic.jpg"}}),
		chat.NewMessage("16/04/2024, 11:59:30", "Alice", "", []chat.MediaRef{{Kind: chat.KindVideo, Filename: "clip.mp4"}}),
		chat.NewMessage("16/04/2024, 11:59:40", "Alice", "", []chat.MediaRef{{Kind: chat.KindVoice, Filename: "note.opus"}}),
		chat.NewMessage("16/04/2024, 11:59:50", "Alice", "", []chat.MediaRef{{Kind: chat.KindDocument, Filename: "doc.pdf"}}),
	}, false)

	html := renderFixture(t, c, []string{"pic.jpg", "clip.mp4", "note.opus", "doc.pdf"}, Options{})
	for _, want := range []string{"<img", "<video", "<audio", "doc.pdf"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q element", want)
		}
	}
}

func TestRenderMissingMediaPlaceholder(t *testing.T) {
	c := chat.New(chat.NewMetadata("", "T", ""))
	c.AddMessages([]chat.Message{
		chat.NewMessage("16/04/2024, 11:59:24", "Alice", "", []chat.MediaRef{{Kind: chat.KindPhoto, Filename: "gone.jpg"}}),
		chat.NewMessage("16/04/2024, 11:59:30", "Alice", "", []chat.MediaRef{{Kind: chat.KindImage}}),
	}, false)

	html := renderFixture(t, c, nil, Options{})
	if !strings.Contains(html, "file not found: gone.jpg") {
		t.Error("missing-file placeholder absent")
	}
	if !strings.Contains(html, "file not available") {
		t.Error("omission placeholder absent")
	}
}

func TestRenderUnparseableTimestampFallsBackToRaw(t *testing.T) {
	c := chat.New(chat.NewMetadata("", "T", ""))
	c.AddMessages([]chat.Message{
		chat.NewMessage("sometime, later", "Alice", "hello", nil),
	}, false)
	html := renderFixture(t, c, nil, Options{})
	if !strings.Contains(html, "sometime") {
		t.Error("raw timestamp halves not displayed")
	}
}

func TestRenderInfoPanel(t *testing.T) {
	html := renderFixture(t, fixtureChat(t), nil, Options{InfoText: "Title: Family Group\nThe family chat."})
	if !strings.Contains(html, "The family chat.") {
		t.Error("info panel missing")
	}
}
