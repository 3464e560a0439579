// Package archive handles WhatsApp export zip intake: extraction and
// locating the transcript and optional info file inside the extracted tree.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks a WhatsApp export zip into destDir, creating it as needed.
// Entries that would escape destDir are rejected.
func Extract(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open export zip: %w", err)
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(destDir, 0700); err != nil {
		return fmt.Errorf("create extract dir: %w", err)
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes extract dir: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0700); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// FindChatFile locates the chat transcript inside an extracted export.
// Desktop exports name it *_chat.txt; failing that, any .txt file that is
// not info.txt is taken.
func FindChatFile(dir string) (string, error) {
	var txtFiles []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, ".txt") && !strings.EqualFold(name, "info.txt") {
			txtFiles = append(txtFiles, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan extract dir: %w", err)
	}
	if len(txtFiles) == 0 {
		return "", fmt.Errorf("no chat transcript found in %s", dir)
	}

	for _, path := range txtFiles {
		if strings.HasSuffix(filepath.Base(path), "_chat.txt") {
			return path, nil
		}
	}
	return txtFiles[0], nil
}

// FindInfoFile locates the optional info.txt. Precedence: the custom path if
// given, then the current working directory, then the extracted tree.
// Returns "" when no info file exists; the chat just gets default metadata.
func FindInfoFile(dir, customPath string) string {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, "info.txt")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(d.Name(), "info.txt") {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// ReadInfo parses an info.txt body into a title and description. The first
// line carries "Title: X"; remaining lines form the description.
func ReadInfo(path string) (title, description string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ""
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "Title:") {
		title = strings.TrimSpace(strings.TrimPrefix(lines[0], "Title:"))
		if len(lines) > 1 {
			description = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}
	return title, description
}
