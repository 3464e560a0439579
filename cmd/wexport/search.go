package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func searchCmd() *cobra.Command {
	var dataset string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openStore(zap.NewNop())
			if db == nil {
				return fmt.Errorf("index unavailable, convert an export first")
			}
			defer func() { _ = db.Close() }()

			chatID := ""
			if dataset != "" {
				c, err := db.GetChatByDataset(dataset)
				if err != nil {
					return err
				}
				if c == nil {
					return fmt.Errorf("unknown dataset %q", dataset)
				}
				chatID = c.ChatID
			}

			results, err := db.SearchMessages(args[0], chatID, limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}

			for _, r := range results {
				when := r.Message.RawTimestamp
				if r.Message.Timestamp > 0 {
					when = time.UnixMilli(r.Message.Timestamp).Format("2006-01-02 15:04")
				}
				snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
				fmt.Printf("[%s] %s: %s\n", when, r.Message.Sender, snippet)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "restrict the search to one dataset")
	cmd.Flags().IntVar(&limit, "limit", 50, "max results")
	return cmd
}
