package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexed chat datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openStore(zap.NewNop())
			if db == nil {
				return fmt.Errorf("index unavailable, convert an export first")
			}
			defer func() { _ = db.Close() }()

			chats, err := db.ListChats()
			if err != nil {
				return err
			}
			if len(chats) == 0 {
				fmt.Println("no datasets indexed yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tTITLE\tMESSAGES\tPARTICIPANTS\tLAST ACTIVITY")
			for _, c := range chats {
				last := "-"
				if c.LastTs > 0 {
					last = time.UnixMilli(c.LastTs).Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					c.Dataset, c.Title, c.MessageCount, c.ParticipantCount, last)
			}
			return w.Flush()
		},
	}
}
