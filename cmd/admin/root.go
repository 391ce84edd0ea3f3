package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/Thiht/transactor"
	txStdLib "github.com/Thiht/transactor/stdlib"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/sqlite"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	isProd bool
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "nurture-admin",
	Short: "Maintenance tasks for the nursing tracker bot",
	Long: `nurture-admin registers the bot's slash commands and moves history
in and out of the bot's SQLite database.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		nurture.LoadEnv(isProd)
		if dbPath == "" {
			dbPath = nurture.DatabaseURL()
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&isProd, "prod", "p", false, "load .env instead of .env.dev")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (Default: $NURTURE_DB_PATH)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statusCmd)
}

type store struct {
	db   *sql.DB
	tx   transactor.Transactor
	repo *sqlite.Repo
}

func openStore(path string) (*store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed database open: %w", err)
	}
	tx, dbGetter := txStdLib.NewTransactor(db, txStdLib.NestedTransactionsSavepoints)
	logger := log.Default().With("cmd", "admin")
	return &store{
		db:   db,
		tx:   tx,
		repo: sqlite.NewRepo(dbGetter, logger),
	}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}
