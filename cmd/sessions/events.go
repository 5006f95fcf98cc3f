package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"facewatch/internal/dto"
	"facewatch/internal/repository/sqlite"
	"facewatch/internal/tracker"

	"github.com/spf13/cobra"
)

func (c *cli) eventsCmd() *cobra.Command {
	var (
		kind  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "events <session-id>",
		Short: "Show the events recorded in a session, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			if kind != "" && !tracker.EventKind(kind).Valid() {
				return fmt.Errorf("unknown event kind %q (want one of %v)", kind, tracker.Kinds)
			}

			events, err := sqlite.NewEventRepository(c.db).GetAll(&dto.EventFilters{SessionID: id, Kind: kind, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintf(out, "No events found for session %d.\n", id)
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tKIND\tCOUNT\tFACE\tSNAPSHOT")
			fmt.Fprintln(w, "----\t----\t-----\t----\t--------")
			for _, e := range events {
				face := fmt.Sprintf("%dx%d@%d,%d", e.FaceWidth, e.FaceHeight, e.FaceX, e.FaceY)
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.OccurredAt.Local().Format(timeLayout+".000"), e.Kind, e.Count, face, e.Snapshot)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only show events of this kind (blink, mouth_open, eyebrow_raise)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of events to show")
	return cmd
}

func parseSessionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}
