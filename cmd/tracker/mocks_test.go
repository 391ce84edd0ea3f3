package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Thiht/transactor"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/sqlite"
	"github.com/bwmarrin/discordgo"
)

// mockTransactor is a mock implementation of transactor.Transactor
type mockTransactor struct {
	withinTransactionFunc func(context.Context, func(context.Context) error) error
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	if m.withinTransactionFunc != nil {
		return m.withinTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ transactor.Transactor = (*mockTransactor)(nil)

// memRepo keeps every repo in memory.
type memRepo struct {
	mu      sync.Mutex
	timer   *nurture.ActiveTimerRecord
	logs    map[nurture.LogID]nurture.ExistingLogRecord
	cfg     nurture.ReminderConfig
	growth  []nurture.ExistingGrowthRecord
	profile *nurture.BabyProfile
	stash   []nurture.ExistingStashRecord
	checks  map[string]time.Time
	goal    *nurture.SleepGoal
	nextID  int

	saveTimerErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		logs:   make(map[nurture.LogID]nurture.ExistingLogRecord),
		cfg:    nurture.DefaultReminderConfig(),
		checks: make(map[string]time.Time),
	}
}

var (
	_ nurture.TimerRepo    = (*memRepo)(nil)
	_ nurture.LogRepo      = (*memRepo)(nil)
	_ nurture.ReminderRepo = (*memRepo)(nil)
	_ nurture.GrowthRepo   = (*memRepo)(nil)
	_ nurture.ProfileRepo  = (*memRepo)(nil)
	_ nurture.StashRepo    = (*memRepo)(nil)
	_ nurture.HealthRepo   = (*memRepo)(nil)
	_ nurture.GoalRepo     = (*memRepo)(nil)
)

func (r *memRepo) GetActiveTimer(context.Context) (*nurture.ActiveTimerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		return nil, nil
	}
	copy := *r.timer
	return &copy, nil
}

func (r *memRepo) SaveActiveTimer(_ context.Context, record nurture.ActiveTimerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveTimerErr != nil {
		return r.saveTimerErr
	}
	r.timer = &record
	return nil
}

func (r *memRepo) ClearActiveTimer(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timer = nil
	return nil
}

func (r *memRepo) InsertLog(ctx context.Context, record nurture.LogRecord) (nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	r.nextID++
	id := nurture.LogID(fmt.Sprintf("log-%d", r.nextID))
	r.mu.Unlock()
	return r.InsertLogWithID(ctx, id, record)
}

func (r *memRepo) InsertLogWithID(_ context.Context, id nurture.LogID, record nurture.LogRecord) (nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := nurture.ExistingLogRecord{
		ExistingRecord: nurture.NewExistingRecord[nurture.LogID](string(id)),
		LogRecord:      record,
	}
	r.logs[id] = l
	return l, nil
}

func (r *memRepo) UpdateLog(_ context.Context, id nurture.LogID, record nurture.LogRecord) (nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nurture.ExistingLogRecord{}, sqlite.ErrNotFound
	}
	l.LogRecord = record
	r.logs[id] = l
	return l, nil
}

func (r *memRepo) DeleteLog(_ context.Context, id nurture.LogID) (nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nurture.ExistingLogRecord{}, sqlite.ErrNotFound
	}
	delete(r.logs, id)
	return l, nil
}

func (r *memRepo) GetLog(_ context.Context, id nurture.LogID) (nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nurture.ExistingLogRecord{}, sqlite.ErrNotFound
	}
	return l, nil
}

func (r *memRepo) ListLogs(_ context.Context, limit int) ([]nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]nurture.ExistingLogRecord, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) ListLogsBetween(_ context.Context, from, to time.Time) ([]nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []nurture.ExistingLogRecord
	for _, l := range r.logs {
		if !l.StartTime.Before(from) && l.StartTime.Before(to) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) LatestLogs(context.Context) (map[nurture.ActivityType]nurture.ExistingLogRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[nurture.ActivityType]nurture.ExistingLogRecord)
	for _, l := range r.logs {
		if prev, ok := latest[l.Type]; !ok || l.StartTime.After(prev.StartTime) {
			latest[l.Type] = l
		}
	}
	return latest, nil
}

func (r *memRepo) GetReminderConfig(context.Context) (nurture.ReminderConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg := nurture.DefaultReminderConfig()
	cfg.Enabled = r.cfg.Enabled
	for t, v := range r.cfg.Intervals {
		cfg.Intervals[t] = v
	}
	for t, v := range r.cfg.LastNotified {
		cfg.LastNotified[t] = v
	}
	return cfg, nil
}

func (r *memRepo) SaveReminderConfig(_ context.Context, cfg nurture.ReminderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	return nil
}

func (r *memRepo) SetLastNotified(_ context.Context, t nurture.ActivityType, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.LastNotified[t] = at
	return nil
}

func (r *memRepo) InsertGrowth(_ context.Context, g nurture.GrowthRecord) (nurture.ExistingGrowthRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e := nurture.ExistingGrowthRecord{
		ExistingRecord: nurture.NewExistingRecord[nurture.GrowthID](fmt.Sprintf("growth-%d", r.nextID)),
		GrowthRecord:   g,
	}
	r.growth = append(r.growth, e)
	return e, nil
}

func (r *memRepo) DeleteGrowth(_ context.Context, id nurture.GrowthID) (nurture.ExistingGrowthRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, g := range r.growth {
		if g.ID == id {
			r.growth = append(r.growth[:i], r.growth[i+1:]...)
			return g, nil
		}
	}
	return nurture.ExistingGrowthRecord{}, sqlite.ErrNotFound
}

func (r *memRepo) ListGrowth(context.Context) ([]nurture.ExistingGrowthRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]nurture.ExistingGrowthRecord(nil), r.growth...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memRepo) GetProfile(context.Context) (nurture.BabyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profile == nil {
		return nurture.DefaultBabyProfile(), nil
	}
	return *r.profile, nil
}

func (r *memRepo) SaveProfile(_ context.Context, p nurture.BabyProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = &p
	return nil
}

func (r *memRepo) InsertStash(_ context.Context, e nurture.StashRecord) (nurture.ExistingStashRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	inserted := nurture.ExistingStashRecord{
		ExistingRecord: nurture.NewExistingRecord[nurture.StashID](fmt.Sprintf("stash-%d", r.nextID)),
		StashRecord:    e,
	}
	r.stash = append(r.stash, inserted)
	return inserted, nil
}

func (r *memRepo) DeleteStash(_ context.Context, id nurture.StashID) (nurture.ExistingStashRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.stash {
		if e.ID == id {
			r.stash = append(r.stash[:i], r.stash[i+1:]...)
			return e, nil
		}
	}
	return nurture.ExistingStashRecord{}, sqlite.ErrNotFound
}

func (r *memRepo) ListStash(context.Context) ([]nurture.ExistingStashRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]nurture.ExistingStashRecord(nil), r.stash...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memRepo) CompletedHealthItems(context.Context) (map[string]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	done := make(map[string]time.Time, len(r.checks))
	for id, at := range r.checks {
		done[id] = at
	}
	return done, nil
}

func (r *memRepo) SetHealthItem(_ context.Context, id string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if completedAt.IsZero() {
		delete(r.checks, id)
		return nil
	}
	r.checks[id] = completedAt
	return nil
}

func (r *memRepo) GetSleepGoal(context.Context) (nurture.SleepGoal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.goal == nil {
		return nurture.DefaultSleepGoal(), nil
	}
	return *r.goal, nil
}

func (r *memRepo) SaveSleepGoal(_ context.Context, g nurture.SleepGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goal = &g
	return nil
}

type shownNotification struct {
	title, body string
}

type mockNotifier struct {
	mu      sync.Mutex
	granted bool
	showErr error
	shown   []shownNotification
}

func (n *mockNotifier) RequestPermission(context.Context) (bool, error) {
	return n.granted, nil
}

func (n *mockNotifier) Show(_ context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, shownNotification{title, body})
	return n.showErr
}

func (n *mockNotifier) Shown() []shownNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]shownNotification(nil), n.shown...)
}

var errDeliveryFailed = errors.New("delivery failed")

// fakeMessenger records every message it is asked to send.
type fakeMessenger struct {
	mu   sync.Mutex
	sent [][]discordgo.MessageComponent
}

var _ DiscordMessenger = (*fakeMessenger)(nil)

func (f *fakeMessenger) record(components []discordgo.MessageComponent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, components)
}

func (f *fakeMessenger) EditChannelMessage(channelID, messageID string, components ...discordgo.MessageComponent) (*discordgo.Message, error) {
	f.record(components)
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *fakeMessenger) Respond(it *discordgo.Interaction, wait bool, components ...discordgo.MessageComponent) (*discordgo.Message, error) {
	f.record(components)
	if !wait {
		return nil, nil
	}
	return &discordgo.Message{ID: "msg-1", ChannelID: it.ChannelID}, nil
}

func (f *fakeMessenger) DeferMessageCreate(*discordgo.Interaction) (followup, error) {
	return func(components ...discordgo.MessageComponent) (*discordgo.Message, error) {
		f.record(components)
		return &discordgo.Message{ID: "msg-2"}, nil
	}, nil
}

func (f *fakeMessenger) DeferMessageUpdate(it *discordgo.Interaction) (followup, error) {
	return func(components ...discordgo.MessageComponent) (*discordgo.Message, error) {
		f.record(components)
		return &discordgo.Message{ID: "msg-3", ChannelID: it.ChannelID}, nil
	}, nil
}

// LastText joins the text displays of the last message sent.
func (f *fakeMessenger) LastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return componentText(f.sent[len(f.sent)-1])
}

func componentText(components []discordgo.MessageComponent) string {
	var lines []string
	for _, c := range components {
		switch c := c.(type) {
		case discordgo.TextDisplay:
			lines = append(lines, c.Content)
		case discordgo.Container:
			lines = append(lines, componentText(c.Components))
		}
	}
	return strings.Join(lines, "\n")
}

func commandInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "channel-1",
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

// intOpt mirrors the JSON decoding of integer options into float64.
func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

func numberOpt(name string, value float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionNumber, Value: value}
}

func subcommand(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts}
}
