package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bill2712/nursing-tracker/backup"
	"github.com/spf13/cobra"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole history as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "out", "", "output file (Default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close() //nolint

	var w io.Writer = cmd.OutOrStdout()
	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close() //nolint
		w = f
	}

	n, err := exportLogs(cmd.Context(), s, w)
	if err != nil {
		return err
	}
	if exportPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d entries to %s\n", n, exportPath)
	}
	return nil
}

func exportLogs(ctx context.Context, s *store, w io.Writer) (int, error) {
	logs, err := s.repo.ListLogs(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list logs: %w", err)
	}
	if err := backup.Export(w, logs); err != nil {
		return 0, fmt.Errorf("failed to write export: %w", err)
	}
	return len(logs), nil
}
