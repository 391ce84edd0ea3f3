package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/bill2712/nursing-tracker/health"
	"github.com/bill2712/nursing-tracker/sqlite"
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

const (
	defaultErrorMsg = "Looks like something went wrong. Try again in a bit."
	noTimerMsg      = "No timer is running. Start one with /start."
	defaultHistory  = 10
)

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionsOf(data discordgo.ApplicationCommandInteractionData) commandOptions {
	opts := make(commandOptions, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (o commandOptions) Text(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (o commandOptions) Int(name string, fallback int) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}
	return fallback
}

func (o commandOptions) Float(name string) float64 {
	if opt, ok := o[name]; ok {
		return opt.FloatValue()
	}
	return 0
}

func (o commandOptions) Bool(name string) *bool {
	if opt, ok := o[name]; ok {
		v := opt.BoolValue()
		return &v
	}
	return nil
}

// Details reads the activity detail options into a patch.
func (o commandOptions) Details() nurture.Details {
	d := nurture.Details{
		FeedingType: nurture.FeedingType(o.Text(nurture.FeedingTypeOption)),
		Side:        nurture.FeedingSide(o.Text(nurture.SideOption)),
		AmountMl:    o.Float(nurture.AmountOption),
		DiaperState: nurture.DiaperState(o.Text(nurture.DiaperOption)),
		Notes:       o.Text(nurture.NotesOption),
	}
	if foods := o.Text(nurture.FoodsOption); foods != "" {
		for _, f := range strings.Split(foods, ",") {
			if f = strings.TrimSpace(f); f != "" {
				d.Foods = append(d.Foods, f)
			}
		}
	}
	return d
}

// subcommandOf returns the invoked subcommand and its options.
func subcommandOf(data discordgo.ApplicationCommandInteractionData) (string, commandOptions) {
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", commandOptions{}
	}
	sub := data.Options[0]
	opts := make(commandOptions, len(sub.Options))
	for _, opt := range sub.Options {
		opts[opt.Name] = opt
	}
	return sub.Name, opts
}

// span turns the minutes_ago and optional duration options into a range.
// A missing duration yields a zero end.
func (o commandOptions) span(now time.Time) (start, end time.Time) {
	start = now.Add(-time.Duration(o.Int(nurture.MinutesAgoOption, 0)) * time.Minute)
	if _, ok := o[nurture.DurationOption]; ok {
		end = start.Add(time.Duration(o.Int(nurture.DurationOption, 0)) * time.Minute)
	}
	return start, end
}

func commandName(m *discordgo.InteractionCreate) (string, bool) {
	if m.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	return m.ApplicationCommandData().Name, true
}

func respondText(dm DiscordMessenger, m *discordgo.InteractionCreate, content string) {
	if _, err := dm.Respond(m.Interaction, false, TextDisplay(content)); err != nil {
		log.Error(err)
	}
}

func StartTimer(ctx context.Context, ctrl TimerController, dm DiscordMessenger, board *statusMessage, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.StartCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	t, err := nurture.ParseActivityType(opts.Text(nurture.ActivityOption))
	if err != nil {
		respondText(dm, m, "Unknown activity.")
		return true
	}

	timer, err := ctrl.Start(ctx, t)
	if errors.Is(err, nurture.ErrTimerActive) {
		respondText(dm, m, "A timer is already running. Stop or cancel it first.")
		return true
	}
	if err != nil {
		log.Error("failed to start timer", "type", t, "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}

	state, err := ctrl.Status(ctx)
	if err != nil {
		log.Error("failed to load status", "err", err)
		state = AppState{Active: &timer, Now: timer.StartTime()}
	}
	msg, err := dm.Respond(m.Interaction, true, TimerMessageComponents(state)...)
	if err != nil {
		log.Error(err)
		return true
	}
	board.Set(m.ChannelID, msg.ID)
	return true
}

// TimerAction handles /pause, /snooze, /stop, /cancel and the matching buttons.
func TimerAction(ctx context.Context, ctrl TimerController, dm DiscordMessenger, board *statusMessage, m *discordgo.InteractionCreate) bool {
	var (
		action   string
		isButton bool
	)
	switch m.Type {
	case discordgo.InteractionApplicationCommand:
		action = m.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		id, err := FromCustomID(m.MessageComponentData().CustomID)
		if err != nil || id.Target != timerTarget {
			return false
		}
		action, isButton = id.Type, true
	default:
		return false
	}
	switch action {
	case nurture.PauseCommand.Name, nurture.SnoozeCommand.Name, nurture.StopCommand.Name, nurture.CancelCommand.Name:
	default:
		return false
	}

	// buttons edit the message they belong to
	send := func(components ...discordgo.MessageComponent) (*discordgo.Message, error) {
		return dm.Respond(m.Interaction, true, components...)
	}
	if isButton {
		var err error
		if send, err = dm.DeferMessageUpdate(m.Interaction); err != nil {
			log.Error(err)
			return true
		}
	}

	var (
		notes []discordgo.MessageComponent
		err   error
	)
	switch action {
	case nurture.PauseCommand.Name:
		_, err = ctrl.TogglePause(ctx)
	case nurture.SnoozeCommand.Name:
		var snoozed bool
		if _, snoozed, err = ctrl.Snooze(ctx); err == nil && !snoozed {
			notes = append(notes, TextDisplay("Already snoozed."))
		}
	case nurture.StopCommand.Name:
		var (
			l     nurture.ExistingLogRecord
			saved bool
		)
		if l, saved, err = ctrl.Stop(ctx); err == nil {
			notes = append(notes, StoppedMessage(l, saved))
		}
	case nurture.CancelCommand.Name:
		if _, err = ctrl.Cancel(ctx); err == nil {
			notes = append(notes, TextDisplay("Timer cancelled, nothing was saved."))
		}
	}
	if errors.Is(err, nurture.ErrNoActiveTimer) {
		if _, err := send(TextDisplay(noTimerMsg)); err != nil {
			log.Error(err)
		}
		return true
	}
	if err != nil {
		log.Error("failed timer action", "action", action, "err", err)
		if _, err := send(TextDisplay(defaultErrorMsg)); err != nil {
			log.Error(err)
		}
		return true
	}
	log.Info("timer action", "action", action, "button", isButton)

	state, err := ctrl.Status(ctx)
	if err != nil {
		log.Error("failed to load status", "err", err)
		if _, err := send(notes...); err != nil {
			log.Error(err)
		}
		return true
	}
	msg, err := send(append(TimerMessageComponents(state), notes...)...)
	if err != nil {
		log.Error(err)
		return true
	}
	if msg != nil && state.Active != nil {
		board.Set(msg.ChannelID, msg.ID)
	}
	return true
}

func ShowStatus(ctx context.Context, ctrl TimerController, dm DiscordMessenger, board *statusMessage, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.StatusCommand.Name {
		return false
	}

	state, err := ctrl.Status(ctx)
	if err != nil {
		log.Error("failed to load status", "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}
	msg, err := dm.Respond(m.Interaction, true, TimerMessageComponents(state)...)
	if err != nil {
		log.Error(err)
		return true
	}
	if state.Active != nil {
		board.Set(m.ChannelID, msg.ID)
	}
	return true
}

func UpdateDetails(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.DetailsCommand.Name {
		return false
	}

	patch := optionsOf(m.ApplicationCommandData()).Details()
	timer, err := ctrl.UpdateDetails(ctx, patch)
	switch {
	case errors.Is(err, nurture.ErrNoActiveTimer):
		respondText(dm, m, noTimerMsg)
	case err != nil:
		log.Error("failed to update details", "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, fmt.Sprintf("Updated %s: %s", timer.Type(), timer.Details().Summary()))
	}
	return true
}

func EditStart(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.EditStartCommand.Name {
		return false
	}

	minutesAgo := optionsOf(m.ApplicationCommandData()).Int(nurture.MinutesAgoOption, 0)
	start := time.Now().Add(-time.Duration(minutesAgo) * time.Minute)
	timer, err := ctrl.EditStartTime(ctx, start)
	switch {
	case errors.Is(err, nurture.ErrNoActiveTimer):
		respondText(dm, m, noTimerMsg)
	case err != nil:
		log.Error("failed to edit start time", "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, fmt.Sprintf("%s now started at %s.", titleCase(timer.Type().String()), start.Local().Format(time.Kitchen)))
	}
	return true
}

func QuickSleep(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.SleepCommand.Name {
		return false
	}

	minutes := optionsOf(m.ApplicationCommandData()).Int(nurture.MinutesOption, 0)
	l, err := ctrl.QuickLogSleep(ctx, minutes)
	if err != nil {
		log.Error("failed to log sleep", "minutes", minutes, "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}
	respondText(dm, m, fmt.Sprintf("Logged %s of sleep. (`%s`)", formatClock(*l.DurationSeconds), l.ID))
	return true
}

func ManualLog(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.LogCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	t, err := nurture.ParseActivityType(opts.Text(nurture.ActivityOption))
	if err != nil {
		respondText(dm, m, "Unknown activity.")
		return true
	}
	start, end := opts.span(time.Now())

	l, err := ctrl.ManualLog(ctx, t, start, end, opts.Details())
	if errors.Is(err, nurture.ErrInvalidRange) {
		respondText(dm, m, "Duration must be at least one minute.")
		return true
	}
	if err != nil {
		log.Error("failed manual log", "type", t, "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}
	respondText(dm, m, fmt.Sprintf("Logged %s at %s. (`%s`)", t, start.Local().Format(time.Kitchen), l.ID))
	return true
}

func EditEntry(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.EditCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	id := nurture.LogID(strings.TrimSpace(opts.Text(nurture.IDOption)))
	start, end := opts.span(time.Now())
	l, err := ctrl.EditLog(ctx, id, start, end)
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		respondText(dm, m, fmt.Sprintf("No entry with id `%s`.", id))
	case errors.Is(err, nurture.ErrInvalidRange):
		respondText(dm, m, "Duration must be at least one minute.")
	case err != nil:
		log.Error("failed to edit log", "id", id, "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, "Updated:\n"+HistoryText([]nurture.ExistingLogRecord{l}))
	}
	return true
}

func ShowHistory(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.HistoryCommand.Name {
		return false
	}

	followup, err := dm.DeferMessageCreate(m.Interaction)
	if err != nil {
		log.Error(err)
		return true
	}
	limit := optionsOf(m.ApplicationCommandData()).Int(nurture.CountOption, defaultHistory)
	logs, err := ctrl.History(ctx, limit)
	content := HistoryText(logs)
	if err != nil {
		log.Error("failed to list history", "err", err)
		content = defaultErrorMsg
	}
	if _, err := followup(TextDisplay(content)); err != nil {
		log.Error(err)
	}
	return true
}

func DeleteEntry(ctx context.Context, ctrl TimerController, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.DeleteCommand.Name {
		return false
	}

	id := nurture.LogID(strings.TrimSpace(optionsOf(m.ApplicationCommandData()).Text(nurture.IDOption)))
	l, err := ctrl.DeleteLog(ctx, id)
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		respondText(dm, m, fmt.Sprintf("No entry with id `%s`.", id))
	case err != nil:
		log.Error("failed to delete log", "id", id, "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, fmt.Sprintf("Deleted %s from %s.", l.Type, l.StartTime.Local().Format("Jan 2 15:04")))
	}
	return true
}

func ConfigureReminders(ctx context.Context, scheduler ReminderScheduler, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.RemindersCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	update := ReminderUpdate{
		Enabled:   opts.Bool(nurture.EnabledOption),
		Intervals: make(map[nurture.ActivityType]int),
	}
	for t, name := range map[nurture.ActivityType]string{
		nurture.Feeding: nurture.FeedingOption,
		nurture.Sleep:   nurture.SleepOption,
		nurture.Diaper:  nurture.DiaperOption,
	} {
		if _, ok := opts[name]; ok {
			update.Intervals[t] = opts.Int(name, 0)
		}
	}

	cfg, err := scheduler.Configure(ctx, update)
	switch {
	case errors.Is(err, ErrPermissionDenied):
		respondText(dm, m, "I can't post in the reminder channel, so reminders stay off. Check my permissions and try again.")
	case err != nil:
		log.Error("failed to configure reminders", "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, ReminderText(cfg))
	}
	return true
}

func UpdateProfile(ctx context.Context, tracker GrowthTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.ProfileCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	update := ProfileUpdate{
		Name:       opts.Text(nurture.NameOption),
		Sex:        nurture.Sex(opts.Text(nurture.SexOption)),
		WeightUnit: opts.Text(nurture.WeightUnitOption),
		LengthUnit: opts.Text(nurture.LengthUnitOption),
	}
	if raw := opts.Text(nurture.BirthDateOption); raw != "" {
		birth, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			respondText(dm, m, "Birth date must look like 2024-05-31.")
			return true
		}
		update.BirthDate = birth
	}

	p, err := tracker.UpdateProfile(ctx, update)
	if err != nil {
		log.Error("failed to update profile", "err", err)
		respondText(dm, m, "Couldn't update the profile: "+err.Error())
		return true
	}
	respondText(dm, m, fmt.Sprintf("%s (%s), born %s. Units: %s, %s.", p.Name, p.Sex, p.BirthDate.Format("Jan 2, 2006"), p.WeightUnit, p.LengthUnit))
	return true
}

func RecordGrowth(ctx context.Context, tracker GrowthTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.GrowthCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	measurement := Measurement{
		Weight:            opts.Float(nurture.WeightOption),
		Length:            opts.Float(nurture.LengthOption),
		HeadCircumference: opts.Float(nurture.HeadOption),
	}
	inserted, assessments, err := tracker.Record(ctx, measurement)
	if err != nil {
		log.Error("failed to record growth", "err", err)
		respondText(dm, m, "Couldn't record growth: "+err.Error())
		return true
	}
	p, err := tracker.Profile(ctx)
	if err != nil {
		log.Error("failed to load profile", "err", err)
		p = nurture.DefaultBabyProfile()
	}
	respondText(dm, m, GrowthText(p, inserted.GrowthRecord, assessments))
	return true
}

func ShowGrowthHistory(ctx context.Context, tracker GrowthTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.GrowthHistoryCommand.Name {
		return false
	}

	entries, err := tracker.History(ctx)
	if err != nil {
		log.Error("failed to list growth", "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}
	p, err := tracker.Profile(ctx)
	if err != nil {
		log.Error("failed to load profile", "err", err)
		p = nurture.DefaultBabyProfile()
	}
	respondText(dm, m, GrowthHistoryText(p, entries))
	return true
}

func DeleteGrowth(ctx context.Context, tracker GrowthTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.GrowthDeleteCommand.Name {
		return false
	}

	id := nurture.GrowthID(strings.TrimSpace(optionsOf(m.ApplicationCommandData()).Text(nurture.IDOption)))
	g, err := tracker.Delete(ctx, id)
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		respondText(dm, m, fmt.Sprintf("No measurement with id `%s`.", id))
	case err != nil:
		log.Error("failed to delete growth", "id", id, "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, fmt.Sprintf("Deleted the measurement from %s.", g.Date.Local().Format("Jan 2, 2006")))
	}
	return true
}

func ManageStash(ctx context.Context, care CareTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.StashCommand.Name {
		return false
	}

	sub, opts := subcommandOf(m.ApplicationCommandData())
	var err error
	switch sub {
	case nurture.StashAddSubcommand:
		frozen := true
		if v := opts.Bool(nurture.FrozenOption); v != nil {
			frozen = *v
		}
		var e nurture.ExistingStashRecord
		e, err = care.AddStash(ctx, nurture.StashRecord{
			Date:     time.Now().AddDate(0, 0, -opts.Int(nurture.DaysAgoOption, 0)),
			AmountMl: opts.Float(nurture.AmountOption),
			Frozen:   frozen,
			Notes:    opts.Text(nurture.NotesOption),
		})
		if err == nil {
			respondText(dm, m, fmt.Sprintf("Added %.0fml to the stash. (`%s`)", e.AmountMl, e.ID))
			return true
		}
	case nurture.StashUseSubcommand:
		id := nurture.StashID(strings.TrimSpace(opts.Text(nurture.IDOption)))
		var e nurture.ExistingStashRecord
		e, err = care.UseStash(ctx, id)
		if errors.Is(err, sqlite.ErrNotFound) {
			respondText(dm, m, fmt.Sprintf("No bag with id `%s`.", id))
			return true
		}
		if err == nil {
			respondText(dm, m, fmt.Sprintf("Used %.0fml from %s.", e.AmountMl, e.Date.Local().Format("Jan 2")))
			return true
		}
	case nurture.StashListSubcommand:
		var entries []nurture.ExistingStashRecord
		if entries, err = care.Stash(ctx); err == nil {
			respondText(dm, m, StashText(entries, time.Now()))
			return true
		}
	default:
		respondText(dm, m, "Unknown stash action.")
		return true
	}
	log.Error("failed stash action", "action", sub, "err", err)
	respondText(dm, m, defaultErrorMsg)
	return true
}

func ShowSummary(ctx context.Context, care CareTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.SummaryCommand.Name {
		return false
	}

	s, err := care.Summary(ctx)
	if err != nil {
		log.Error("failed to load summary", "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}
	respondText(dm, m, SummaryText(s))
	return true
}

func SetSleepGoal(ctx context.Context, care CareTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.SleepGoalCommand.Name {
		return false
	}

	opts := optionsOf(m.ApplicationCommandData())
	goal, err := care.SetSleepGoal(ctx, opts.Int(nurture.HoursOption, 0), opts.Int(nurture.MinutesOption, 0))
	switch {
	case errors.Is(err, nurture.ErrInvalidRange):
		respondText(dm, m, "The sleep goal must be between 0 and 24 hours.")
	case err != nil:
		log.Error("failed to set sleep goal", "err", err)
		respondText(dm, m, defaultErrorMsg)
	default:
		respondText(dm, m, "Sleep goal set to "+models.FormatElapsed(goal.Duration())+" a day.")
	}
	return true
}

func HealthChecklist(ctx context.Context, care CareTracker, dm DiscordMessenger, m *discordgo.InteractionCreate) bool {
	if name, ok := commandName(m); !ok || name != nurture.HealthCommand.Name {
		return false
	}

	sub, opts := subcommandOf(m.ApplicationCommandData())
	if sub == nurture.HealthCheckSubcommand {
		status, err := care.ToggleHealthItem(ctx, opts.Text(nurture.IDOption))
		switch {
		case errors.Is(err, ErrUnknownItem):
			respondText(dm, m, "Unknown item. Use an id from /health vaccines or /health milestones.")
		case err != nil:
			log.Error("failed to toggle health item", "err", err)
			respondText(dm, m, defaultErrorMsg)
		case status.Done():
			respondText(dm, m, fmt.Sprintf("Marked %s done.", status.Name))
		default:
			respondText(dm, m, fmt.Sprintf("Marked %s not done.", status.Name))
		}
		return true
	}

	kind, err := health.ParseKind(sub)
	if err != nil {
		respondText(dm, m, "Unknown checklist.")
		return true
	}
	list, err := care.Checklist(ctx, kind)
	if err != nil {
		log.Error("failed to load checklist", "kind", kind, "err", err)
		respondText(dm, m, defaultErrorMsg)
		return true
	}
	respondText(dm, m, ChecklistText(list))
	return true
}
