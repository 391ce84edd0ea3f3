package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/bill2712/nursing-tracker/growth"
	"github.com/bill2712/nursing-tracker/health"
	"github.com/bwmarrin/discordgo"
)

type DiscordMessenger interface {
	EditChannelMessage(channelID, messageID string, components ...discordgo.MessageComponent) (*discordgo.Message, error)
	Respond(it *discordgo.Interaction, wait bool, components ...discordgo.MessageComponent) (*discordgo.Message, error)
	DeferMessageCreate(it *discordgo.Interaction) (followup, error)
	DeferMessageUpdate(it *discordgo.Interaction) (followup, error)
}

func NewDiscordMessenger(client *discordgo.Session) DiscordMessenger {
	return &messenger{
		client: client,
	}
}

type messenger struct {
	client *discordgo.Session
}

func (m *messenger) EditChannelMessage(channelID, messageID string, components ...discordgo.MessageComponent) (*discordgo.Message, error) {
	return m.client.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Flags:      discordgo.MessageFlagsIsComponentsV2,
		Components: &components,
	})
}

// Respond returns message only when wait == true
func (m *messenger) Respond(it *discordgo.Interaction, wait bool, components ...discordgo.MessageComponent) (*discordgo.Message, error) {
	if err := m.client.InteractionRespond(it, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:      discordgo.MessageFlagsIsComponentsV2,
			Components: components,
		},
	}); err != nil {
		return nil, err
	}
	if wait {
		return m.client.InteractionResponse(it)
	}
	return nil, nil
}

type followup func(components ...discordgo.MessageComponent) (*discordgo.Message, error)

func (m *messenger) DeferMessageCreate(it *discordgo.Interaction) (followup, error) {
	if err := m.client.InteractionRespond(it, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return nil, err
	}
	return func(components ...discordgo.MessageComponent) (*discordgo.Message, error) {
		return m.client.FollowupMessageCreate(it, true, &discordgo.WebhookParams{
			Components: components,
			Flags:      discordgo.MessageFlagsIsComponentsV2,
		})
	}, nil
}

func (m *messenger) DeferMessageUpdate(it *discordgo.Interaction) (followup, error) {
	if err := m.client.InteractionRespond(it, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		return nil, err
	}
	return func(components ...discordgo.MessageComponent) (*discordgo.Message, error) {
		return m.client.FollowupMessageEdit(it, it.Message.ID, &discordgo.WebhookEdit{
			Components: &components,
		})
	}, nil
}

// statusMessage remembers the last posted timer message so it can be
// refreshed when the scheduler resumes a snoozed timer.
type statusMessage struct {
	mu                   sync.Mutex
	channelID, messageID string
}

func (s *statusMessage) Set(channelID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelID, s.messageID = channelID, messageID
}

func (s *statusMessage) Get() (channelID, messageID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID, s.messageID, s.messageID != ""
}

const timerTarget = "timer"

type InteractionID struct {
	Type, Target string
}

func FromCustomID(customID string) (InteractionID, error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 2 {
		return InteractionID{}, fmt.Errorf("invalid customID: %s", customID)
	}
	return InteractionID{
		Type:   parts[0],
		Target: parts[1],
	}, nil
}

func (id InteractionID) ToCustomID() string {
	return fmt.Sprintf("%s:%s", id.Type, id.Target)
}

type Color int

const (
	ColorGreen     Color = 0x57f287
	ColorBlue      Color = 0x3498db
	ColorYellow    Color = 0xfee75c
	ColorPurple    Color = 0x9b59b6
	ColorOrange    Color = 0xe67e22
	ColorLightGrey Color = 0xbcc0c0
)

func (c Color) ToInt() *int {
	i := int(c)
	return &i
}

func TextDisplay(content string) discordgo.TextDisplay {
	return discordgo.TextDisplay{
		Content: content,
	}
}

func activityColor(t nurture.ActivityType) Color {
	switch t {
	case nurture.Feeding:
		return ColorBlue
	case nurture.Sleep:
		return ColorPurple
	case nurture.Diaper:
		return ColorYellow
	case nurture.Pumping:
		return ColorOrange
	default:
		return ColorGreen
	}
}

func timerButton(action, label string, style discordgo.ButtonStyle) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: InteractionID{Type: action, Target: timerTarget}.ToCustomID(),
	}
}

// TimerMessageComponents renders the active timer with its controls, or the
// last activity of each type when idle.
func TimerMessageComponents(state AppState) []discordgo.MessageComponent {
	if state.Active == nil {
		return []discordgo.MessageComponent{
			TextDisplay("No timer running."),
			lastActivityContainer(state),
		}
	}

	timer := state.Active
	lines := []string{
		fmt.Sprintf("### %s", titleCase(timer.Type().String())),
		fmt.Sprintf("**%s** %s", formatClock(timer.ElapsedSeconds(state.Now)), timer.State()),
		fmt.Sprintf("Started %s", timer.StartTime().Local().Format(time.Kitchen)),
	}
	if summary := timer.Details().Summary(); summary != "" {
		lines = append(lines, summary)
	}
	if timer.IsSnoozed() {
		lines = append(lines, fmt.Sprintf("Resumes at %s", timer.SnoozeEndTime().Local().Format(time.Kitchen)))
	}

	accent := activityColor(timer.Type())
	pauseLabel := "Pause"
	if timer.IsPaused() {
		accent = ColorLightGrey
		pauseLabel = "Resume"
	}
	snooze := timerButton("snooze", snoozeLabel(state.SnoozeWindow), discordgo.SecondaryButton)
	snooze.Disabled = timer.IsSnoozed()

	return []discordgo.MessageComponent{
		discordgo.Container{
			Components: []discordgo.MessageComponent{
				TextDisplay(strings.Join(lines, "\n")),
			},
			AccentColor: accent.ToInt(),
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				timerButton("pause", pauseLabel, discordgo.PrimaryButton),
				snooze,
				timerButton("stop", "Stop", discordgo.SuccessButton),
				timerButton("cancel", "Cancel", discordgo.DangerButton),
			},
		},
	}
}

// snoozeLabel falls back to the default window when none is set.
func snoozeLabel(window time.Duration) string {
	if window <= 0 {
		window = models.DefaultSnoozeWindow
	}
	return "Snooze " + models.FormatElapsed(window)
}

func lastActivityContainer(state AppState) discordgo.Container {
	lines := []string{"### Last activity"}
	for _, t := range nurture.ActivityTypes {
		l, ok := state.Latest[t]
		if !ok {
			continue
		}
		ago := models.FormatElapsed(state.Now.Sub(l.ReferenceTime()))
		lines = append(lines, fmt.Sprintf("%s: %s ago", titleCase(t.String()), ago))
	}
	if len(lines) == 1 {
		lines = append(lines, "Nothing logged yet.")
	}
	return discordgo.Container{
		Components: []discordgo.MessageComponent{
			TextDisplay(strings.Join(lines, "\n")),
		},
		AccentColor: ColorGreen.ToInt(),
	}
}

func StoppedMessage(l nurture.ExistingLogRecord, saved bool) discordgo.MessageComponent {
	if !saved {
		return TextDisplay(fmt.Sprintf("Timer stopped. It ran for under %d seconds so nothing was saved.", models.MinLogSeconds+1))
	}
	return TextDisplay(fmt.Sprintf("Saved %s: %s. (`%s`)", l.Type, formatClock(*l.DurationSeconds), l.ID))
}

func HistoryText(logs []nurture.ExistingLogRecord) string {
	if len(logs) == 0 {
		return "No history yet."
	}
	lines := make([]string, 0, len(logs)+1)
	lines = append(lines, "### History")
	for _, l := range logs {
		line := fmt.Sprintf("`%s` %s %s", l.ID, l.StartTime.Local().Format("Jan 2 15:04"), l.Type)
		if l.DurationSeconds != nil {
			line += " " + formatClock(*l.DurationSeconds)
		}
		if summary := l.Details.Summary(); summary != "" {
			line += " (" + summary + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func ReminderText(cfg nurture.ReminderConfig) string {
	state := "off"
	if cfg.Enabled {
		state = "on"
	}
	lines := []string{fmt.Sprintf("Reminders are %s.", state)}
	for _, t := range nurture.ReminderTypes {
		if m := cfg.Intervals[t]; m > 0 {
			lines = append(lines, fmt.Sprintf("%s: every %s", titleCase(t.String()), models.FormatElapsed(time.Duration(m)*time.Minute)))
		} else {
			lines = append(lines, fmt.Sprintf("%s: off", titleCase(t.String())))
		}
	}
	return strings.Join(lines, "\n")
}

func GrowthText(p nurture.BabyProfile, g nurture.GrowthRecord, assessments []growth.Assessment) string {
	lines := []string{fmt.Sprintf("### %s on %s", p.Name, g.Date.Local().Format("Jan 2, 2006"))}
	for _, a := range assessments {
		var value string
		if a.Metric == growth.Weight {
			value = growth.FormatWeight(a.Value, p.WeightUnit)
		} else {
			value = growth.FormatLength(a.Value, p.LengthUnit)
		}
		lines = append(lines, fmt.Sprintf("%s: %s, %s", titleCase(a.Metric.String()), value, a.Band))
	}
	if len(assessments) == 0 {
		lines = append(lines, "Saved. No WHO reference for this age.")
	}
	return strings.Join(lines, "\n")
}

func GrowthHistoryText(p nurture.BabyProfile, entries []nurture.ExistingGrowthRecord) string {
	if len(entries) == 0 {
		return "No growth measurements yet."
	}
	lines := []string{fmt.Sprintf("### %s's growth", p.Name)}
	for _, g := range entries {
		var parts []string
		if g.WeightKg > 0 {
			parts = append(parts, growth.FormatWeight(g.WeightKg, p.WeightUnit))
		}
		if g.LengthCm > 0 {
			parts = append(parts, growth.FormatLength(g.LengthCm, p.LengthUnit))
		}
		if g.HeadCircumferenceCm > 0 {
			parts = append(parts, "head "+growth.FormatLength(g.HeadCircumferenceCm, p.LengthUnit))
		}
		lines = append(lines, fmt.Sprintf("`%s` %s %s", g.ID, g.Date.Local().Format("Jan 2, 2006"), strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}

// StashText lists the stash oldest first and flags bags close to expiry.
func StashText(entries []nurture.ExistingStashRecord, now time.Time) string {
	if len(entries) == 0 {
		return "The stash is empty."
	}
	lines := []string{fmt.Sprintf("### Milk stash: %.0fml in %d bags", models.StashTotal(entries), len(entries))}
	for _, e := range entries {
		storage := "fridge"
		if e.Frozen {
			storage = "frozen"
		}
		line := fmt.Sprintf("`%s` %s %.0fml %s, use by %s",
			e.ID, e.Date.Local().Format("Jan 2"), e.AmountMl, storage, models.StashExpiry(e.StashRecord).Local().Format("Jan 2"))
		if models.ExpiringSoon(e.StashRecord, now) {
			line += " **expiring**"
		}
		if e.Notes != "" {
			line += " (" + e.Notes + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func SummaryText(s Summary) string {
	today := s.Today
	lines := []string{
		fmt.Sprintf("### Today, %s", today.Day.Format("Jan 2")),
		fmt.Sprintf("Sleep: %s of %s (%d%%)",
			models.FormatElapsed(time.Duration(today.SleepSeconds)*time.Second), models.FormatElapsed(today.Goal.Duration()), today.GoalPercent()),
		fmt.Sprintf("Feedings: %d", today.Feedings),
		fmt.Sprintf("Diapers: %d", today.Diapers),
		"### Sleep, last 7 days",
	}
	for _, d := range s.Trend {
		lines = append(lines, fmt.Sprintf("%s %s", d.Day.Format("Mon"), models.FormatElapsed(time.Duration(d.SleepSeconds)*time.Second)))
	}
	return strings.Join(lines, "\n")
}

func ChecklistText(c Checklist) string {
	done, total := health.Progress(c.Items)
	lines := []string{fmt.Sprintf("### %ss: %d / %d completed", titleCase(c.Kind.String()), done, total)}
	for _, it := range c.Items {
		mark := "[ ]"
		if it.Done() {
			mark = "[x]"
		}
		name := it.Name
		if it.Category != "" {
			name += " (" + string(it.Category) + ")"
		}
		line := fmt.Sprintf("%s `%s` %s, %d months", mark, it.ID, name, it.AgeMonths)
		switch {
		case it.Done():
			line += ", done " + it.Completed.Local().Format("Jan 2")
		case it.Overdue(c.AgeMonths):
			line += " **due**"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// formatClock renders seconds as H:MM:SS, or M:SS below one hour.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
