package main

import (
	"fmt"
	"os"
	"path/filepath"

	"facewatch/internal/repository/sqlite"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli holds the database shared by subcommands for one invocation.
type cli struct {
	dbPath string
	db     *sqlite.DB
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "sessions",
		Short:         "Inspect recorded facewatch sessions and events",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.dbPath == "" {
				_ = godotenv.Load()
				c.dbPath = os.Getenv("DATABASE_PATH")
			}
			if c.dbPath == "" {
				c.dbPath = filepath.Join("data", "facewatch.db")
			}

			db, err := sqlite.New(c.dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			c.db = db
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.db != nil {
				c.db.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (default: $DATABASE_PATH or data/facewatch.db)")

	root.AddCommand(c.listCmd(), c.eventsCmd(), c.purgeCmd())
	return root
}
