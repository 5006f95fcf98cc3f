package main

import (
	"fmt"
	"text/tabwriter"

	"facewatch/internal/repository/sqlite"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

func (c *cli) listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions with their counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := sqlite.NewSessionRepository(c.db).GetAll(limit)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found in database.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tENDED\tBLINKS\tMOUTHS\tEYEBROWS")
			fmt.Fprintln(w, "--\t-------\t-----\t------\t------\t--------")
			for _, s := range sessions {
				ended := "running"
				if s.EndedAt != nil {
					ended = s.EndedAt.Local().Format(timeLayout)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n", s.ID, s.StartedAt.Local().Format(timeLayout), ended, s.Blinks, s.Mouths, s.Eyebrows)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show")
	return cmd
}
