// Package workspace defines the on-disk layout under ~/.wexport: one
// directory per chat dataset, a shared sqlite index and log/config files.
package workspace

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.wexport.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wexport")
}

// DatasetDir returns the directory holding one chat's outputs and snapshot.
func DatasetDir(root, name string) string {
	return filepath.Join(root, name)
}

// ExportDir returns the directory a dataset's zips are extracted into. Media
// from earlier exports accumulates here so references to files a later zip
// no longer carries stay resolvable.
func ExportDir(datasetDir string) string {
	return filepath.Join(datasetDir, "export")
}

// SnapshotPath returns the dataset's durable snapshot file.
func SnapshotPath(datasetDir string) string {
	return filepath.Join(datasetDir, "chat_data.json")
}

// HTMLPath returns the rendered chat page path.
func HTMLPath(datasetDir string) string {
	return filepath.Join(datasetDir, "whatsapp_chat.html")
}

// MessagesPath returns the legacy message-list JSON path.
func MessagesPath(datasetDir string) string {
	return filepath.Join(datasetDir, "whatsapp_chat.json")
}

// MetadataPath returns the metadata JSON path.
func MetadataPath(datasetDir string) string {
	return filepath.Join(datasetDir, "metadata.json")
}

// IndexDBPath returns the shared sqlite index path.
func IndexDBPath() string {
	return filepath.Join(BaseDir(), "index.db")
}

// LogPath returns the shared log file path.
func LogPath() string {
	return filepath.Join(BaseDir(), "logs", "wexport.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDataset creates a dataset directory tree.
func EnsureDataset(root, name string) (string, error) {
	dir := DatasetDir(root, name)
	for _, d := range []string{dir, ExportDir(dir)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return "", err
		}
	}
	return dir, nil
}
