package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer and the last activity of each type",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close() //nolint

	snap, err := loadSnapshot(cmd.Context(), s)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderStatus(snap, time.Now()))
	return nil
}

type snapshot struct {
	active *models.ActiveTimer
	latest map[nurture.ActivityType]nurture.ExistingLogRecord
	config nurture.ReminderConfig
}

func loadSnapshot(ctx context.Context, s *store) (snapshot, error) {
	var snap snapshot
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetActiveTimer(ctx)
		if err != nil {
			return err
		}
		if record != nil {
			timer := models.TimerFromRecord(*record)
			snap.active = &timer
		}
		if snap.latest, err = s.repo.LatestLogs(ctx); err != nil {
			return err
		}
		snap.config, err = s.repo.GetReminderConfig(ctx)
		return err
	})
	return snap, err
}

func renderStatus(snap snapshot, now time.Time) string {
	timer := pausedStyle.Render("idle")
	if snap.active != nil {
		style := runningStyle
		if snap.active.IsPaused() {
			style = pausedStyle
		}
		elapsed := time.Duration(snap.active.ElapsedSeconds(now)) * time.Second
		timer = style.Render(fmt.Sprintf("%s %s (%s)", snap.active.Type(), elapsed, snap.active.State()))
	}

	lines := []string{headerStyle.Render("Timer"), timer, "", headerStyle.Render("Last activity")}
	for _, t := range nurture.ActivityTypes {
		l, ok := snap.latest[t]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-8s %s ago", t, models.FormatElapsed(now.Sub(l.ReferenceTime()))))
	}

	reminders := "off"
	if snap.config.Enabled {
		reminders = "on"
	}
	lines = append(lines, "", headerStyle.Render("Reminders")+" "+reminders)
	return panelStyle.Render(strings.Join(lines, "\n"))
}
