package main

import (
	"fmt"

	"github.com/matheus3301/wexport/internal/pipeline"
	"github.com/matheus3301/wexport/internal/workspace"
	"github.com/spf13/cobra"
)

func updateCmd() *cobra.Command {
	var dataset, info, highlight string

	cmd := &cobra.Command{
		Use:   "update <export.zip>",
		Short: "Merge a newer export of the same chat into an existing dataset",
		Long: `Merge a newer export zip into a dataset. Messages already present are
recognized by content and skipped; only genuinely new ones are added, and the
rendered page marks where the update begins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name, err := workspace.ResolveName(dataset, args[0])
			if err != nil {
				return err
			}

			logger := newLogger(name)
			defer func() { _ = logger.Sync() }()
			db := openStore(logger)
			if db != nil {
				defer func() { _ = db.Close() }()
			}

			pipe := pipeline.New(cfg, db, nil, logger)
			res, err := pipe.Update(args[0], name, info, highlight)
			if err != nil {
				return err
			}

			if res.IsUpdate {
				fmt.Printf("updated %q: %d new of %d messages\n", res.Dataset, res.Added, res.Total)
			} else {
				fmt.Printf("no existing dataset, converted %q: %d messages\n", res.Dataset, res.Total)
			}
			fmt.Println(res.HTMLPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (default: derived from the zip name)")
	cmd.Flags().StringVar(&info, "info-file", "", "path to an info.txt with chat title and description")
	cmd.Flags().StringVar(&highlight, "highlight", "", "how to mark new messages: none, subtle or prominent (default: from config)")
	return cmd
}
