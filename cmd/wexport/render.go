package main

import (
	"fmt"
	"os"

	"github.com/matheus3301/wexport/internal/archive"
	"github.com/matheus3301/wexport/internal/chat"
	"github.com/matheus3301/wexport/internal/media"
	"github.com/matheus3301/wexport/internal/render"
	"github.com/matheus3301/wexport/internal/workspace"
	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var highlight string

	cmd := &cobra.Command{
		Use:   "render <dataset>",
		Short: "Re-render an existing dataset's HTML page from its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name := args[0]
			if err := workspace.ValidateName(name); err != nil {
				return err
			}

			datasetDir := workspace.DatasetDir(cfg.DatasetRoot, name)
			c, err := chat.LoadSnapshot(workspace.SnapshotPath(datasetDir))
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("dataset %q has no snapshot, run convert first", name)
			}

			exportDir := workspace.ExportDir(datasetDir)
			listing, err := media.NewListing(exportDir)
			if err != nil {
				return fmt.Errorf("scan media: %w", err)
			}

			var infoText string
			if p := archive.FindInfoFile(exportDir, ""); p != "" {
				if data, err := os.ReadFile(p); err == nil {
					infoText = string(data)
				}
			}

			if err := render.Render(c, listing, datasetDir, render.Options{
				Highlight: highlight,
				InfoText:  infoText,
			}); err != nil {
				return err
			}
			fmt.Println(workspace.HTMLPath(datasetDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&highlight, "highlight", "none", "how to mark new messages: none, subtle or prominent")
	return cmd
}
