package main

import (
	"fmt"

	"github.com/matheus3301/wexport/internal/pipeline"
	"github.com/matheus3301/wexport/internal/workspace"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var dataset, info string

	cmd := &cobra.Command{
		Use:   "convert <export.zip>",
		Short: "Convert a WhatsApp export zip into a new dataset",
		Args:  cobra.ExactArgs(1),
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
			res, err := pipe.Convert(args[0], name, info)
			if err != nil {
				return err
			}

			fmt.Printf("converted %q: %d messages\n", res.Dataset, res.Total)
			fmt.Println(res.HTMLPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (default: derived from the zip name)")
	cmd.Flags().StringVar(&info, "info-file", "", "path to an info.txt with chat title and description")
	return cmd
}
