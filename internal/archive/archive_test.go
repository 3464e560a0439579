package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"_chat.txt":              "[16/04/2024, 11:59:24] Alice: Hello",
		"media/IMG-0001-WA0.jpg": "jpegbytes",
	})
	dest := filepath.Join(t.TempDir(), "out")

	if err := Extract(zipPath, dest); err != nil {
		t.Fatal(err)
	}
	for _, rel := range []string{"_chat.txt", filepath.Join("media", "IMG-0001-WA0.jpg")} {
		if _, err := os.Stat(filepath.Join(dest, rel)); err != nil {
			t.Errorf("missing extracted file %s: %v", rel, err)
		}
	}
}

func TestExtractRejectsEscapingEntry(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"../evil.txt": "nope",
	})
	dest := filepath.Join(t.TempDir(), "out")

	if err := Extract(zipPath, dest); err == nil {
		t.Error("expected error for entry escaping the extract dir")
	}
}

func TestExtractMissingZip(t *testing.T) {
	if err := Extract(filepath.Join(t.TempDir(), "absent.zip"), t.TempDir()); err == nil {
		t.Error("expected error for missing zip")
	}
}

func TestFindChatFilePrefersChatSuffix(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"notes.txt":              "misc",
		"WhatsApp Chat_chat.txt": "transcript",
		"info.txt":               "Title: X",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	path, err := FindChatFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "WhatsApp Chat_chat.txt" {
		t.Errorf("got %q, want the _chat.txt file", path)
	}
}

func TestFindChatFileFallsBackToAnyTxt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conversation.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	path, err := FindChatFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "conversation.txt" {
		t.Errorf("got %q", path)
	}
}

func TestFindChatFileNone(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "info.txt"), []byte("Title: X"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := FindChatFile(dir); err == nil {
		t.Error("expected error when only info.txt exists")
	}
}

func TestFindInfoFileCustomPath(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "my-info.txt")
	if err := os.WriteFile(custom, []byte("Title: X"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindInfoFile(t.TempDir(), custom); got != custom {
		t.Errorf("got %q, want %q", got, custom)
	}
}

func TestFindInfoFileInTree(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0700); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(sub, "info.txt")
	if err := os.WriteFile(want, []byte("Title: X"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindInfoFile(dir, ""); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindInfoFileAbsent(t *testing.T) {
	if got := FindInfoFile(t.TempDir(), ""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestReadInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.txt")
	body := "Title: Family Group\r\nA chat with the family.\r\nSecond line."
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	title, desc := ReadInfo(path)
	if title != "Family Group" {
		t.Errorf("title = %q", title)
	}
	if desc != "A chat with the family.\nSecond line." {
		t.Errorf("description = %q", desc)
	}
}

func TestReadInfoNoTitlePrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.txt")
	if err := os.WriteFile(path, []byte("just some text"), 0600); err != nil {
		t.Fatal(err)
	}
	title, desc := ReadInfo(path)
	if title != "" || desc != "" {
		t.Errorf("got (%q, %q), want empty", title, desc)
	}
}
