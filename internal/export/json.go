// Package export writes a chat's JSON output files into a dataset directory.
package export

import (
	"fmt"
	"os"

	"github.com/matheus3301/wexport/internal/chat"
	"github.com/matheus3301/wexport/internal/workspace"
)

// WriteAll writes the three JSON outputs for a dataset: the legacy message
// list (no internal fields, kept byte-compatible with the original consumer
// format), the metadata file, and the full snapshot.
func WriteAll(c *chat.Chat, datasetDir string) error {
	legacy, err := c.MarshalLegacyMessages()
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	if err := os.WriteFile(workspace.MessagesPath(datasetDir), legacy, 0600); err != nil {
		return fmt.Errorf("write messages json: %w", err)
	}

	meta, err := c.MarshalMetadata()
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(workspace.MetadataPath(datasetDir), meta, 0600); err != nil {
		return fmt.Errorf("write metadata json: %w", err)
	}

	if err := c.SaveSnapshot(workspace.SnapshotPath(datasetDir)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
