package main

import (
	"errors"
	"fmt"

	"facewatch/internal/repository/sqlite"

	"github.com/spf13/cobra"
)

func (c *cli) purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <session-id>",
		Short: "Delete a session and all of its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			err = sqlite.NewSessionRepository(c.db).Delete(id)
			if errors.Is(err, sqlite.ErrSessionNotFound) {
				return fmt.Errorf("session %d not found", id)
			}
			if err != nil {
				return fmt.Errorf("failed to purge session %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %d purged.\n", id)
			return nil
		},
	}
}
