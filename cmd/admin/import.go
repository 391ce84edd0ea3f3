package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bill2712/nursing-tracker/backup"
	"github.com/spf13/cobra"
)

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge an exported JSON history, skipping entries that already exist",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importPath, "in", "", "input file")
	_ = importCmd.MarkFlagRequired("in")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(importPath)
	if err != nil {
		return err
	}
	defer f.Close() //nolint

	s, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close() //nolint

	n, err := importLogs(cmd.Context(), s, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d new entries\n", n)
	return nil
}

// importLogs merges r into the store in one transaction.
func importLogs(ctx context.Context, s *store, r io.Reader) (int, error) {
	var n int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.ListLogs(ctx, 0)
		if err != nil {
			return err
		}
		logs, err := backup.Merge(existing, r)
		if err != nil {
			return err
		}
		for _, l := range logs {
			if _, err := s.repo.InsertLogWithID(ctx, l.ID, l.LogRecord); err != nil {
				return fmt.Errorf("failed to insert %s: %w", l.ID, err)
			}
		}
		n = len(logs)
		return nil
	})
	return n, err
}
