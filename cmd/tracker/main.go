package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bill2712/nursing-tracker/cmd/tracker/models"
	"github.com/bill2712/nursing-tracker/sqlite"
	dg "github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

const (
	RepoURL = "https://github.com/bill2712/nursing-tracker"
	Version = "0.1.0"
)

func main() {
	isProd := flag.Bool("p", false, "load .env instead of .env.dev")
	flag.Parse()

	// logger
	log.SetLevel(log.DebugLevel)
	if *isProd {
		log.SetLevel(log.InfoLevel)
	}
	log.SetReportCaller(true)
	topCtx, topCtxC := context.WithCancel(context.Background())
	initTimeout, initTimeoutC := context.WithTimeout(topCtx, 10*time.Second)

	// config
	cfg, err := nurture.LoadConfig(*isProd)
	if err != nil {
		log.Fatal(err)
	}

	// db
	log.Info("opening db", "url", cfg.DatabaseURL)
	db, err := sqlite.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed database open", "err", err)
	}
	defer db.Close() //nolint

	tx, dbGetter := txStdLib.NewTransactor(
		db,
		txStdLib.NestedTransactionsSavepoints,
	)
	repo := sqlite.NewRepo(dbGetter, log.Default())
	panicif(seedReminders(initTimeout, repo, cfg.Settings.Reminders))

	// set up discord cl
	cl, err := dg.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatal(err)
	}
	cl.ShouldRetryOnRateLimit = false
	cl.Client = &http.Client{Timeout: (20 * time.Second)}
	cl.UserAgent = fmt.Sprintf("%s (%s, v%s)", cfg.BotName, RepoURL, Version)

	dm := NewDiscordMessenger(cl)
	var notifier Notifier = NewLogNotifier(log.Default())
	if cfg.NotifyChannelID != "" {
		notifier = NewDiscordNotifier(cl, cfg.NotifyChannelID)
	}

	// controllers
	var stateMu sync.Mutex
	ctrl := NewTimerController(repo, repo, tx, cfg.Settings.SnoozeWindow, &stateMu)
	tracker := NewGrowthTracker(repo, repo, tx)
	care := NewCareTracker(repo, repo, repo, repo, repo, tx)
	scheduler := NewReminderScheduler(topCtx, repo, repo, repo, tx, notifier, cfg.Settings.TickRate, &stateMu)

	var board statusMessage
	scheduler.OnResume(func(ctx context.Context, timer models.ActiveTimer) {
		channelID, messageID, ok := board.Get()
		if !ok {
			return
		}
		state := AppState{Active: &timer, Now: time.Now(), SnoozeWindow: cfg.Settings.SnoozeWindow}
		if _, err := dm.EditChannelMessage(channelID, messageID, TimerMessageComponents(state)...); err != nil {
			log.Error("failed to edit discord channel message", "channelID", channelID, "messageID", messageID, "err", err)
		}
	})

	// discord event hooks
	cl.AddHandler(func(s *dg.Session, m *dg.InteractionCreate) {
		_ = StartTimer(topCtx, ctrl, dm, &board, m) ||
			TimerAction(topCtx, ctrl, dm, &board, m) ||
			ShowStatus(topCtx, ctrl, dm, &board, m) ||
			UpdateDetails(topCtx, ctrl, dm, m) ||
			EditStart(topCtx, ctrl, dm, m) ||
			QuickSleep(topCtx, ctrl, dm, m) ||
			ManualLog(topCtx, ctrl, dm, m) ||
			EditEntry(topCtx, ctrl, dm, m) ||
			ShowHistory(topCtx, ctrl, dm, m) ||
			DeleteEntry(topCtx, ctrl, dm, m) ||
			ConfigureReminders(topCtx, scheduler, dm, m) ||
			UpdateProfile(topCtx, tracker, dm, m) ||
			RecordGrowth(topCtx, tracker, dm, m) ||
			ShowGrowthHistory(topCtx, tracker, dm, m) ||
			DeleteGrowth(topCtx, tracker, dm, m) ||
			ManageStash(topCtx, care, dm, m) ||
			ShowSummary(topCtx, care, dm, m) ||
			SetSleepGoal(topCtx, care, dm, m) ||
			HealthChecklist(topCtx, care, dm, m)
	})

	// open connection
	if err := cl.Open(); err != nil {
		log.Fatal("Error opening connection", "err", err)
	}
	scheduler.Start()
	log.Info(cfg.BotName + " running. Press CTRL-C to exit.")

	// init done
	initTimeoutC()

	// graceful shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	log.Info("terminating " + cfg.BotName)
	topCtxC()
	shutdownTimeout, shutdownTimeoutC := context.WithTimeout(context.Background(), time.Minute)
	go func() {
		// scheduler first so no tick runs against a closed session
		if err := scheduler.Shutdown(); err != nil {
			log.Error(err)
		}
		if err := cl.Close(); err != nil {
			log.Error(err)
		}
		shutdownTimeoutC()
	}()
	<-shutdownTimeout.Done()
	if shutdownTimeout.Err() != context.Canceled {
		log.Error("failed to shut down gracefully", "err", shutdownTimeout.Err())
	}
}

// seedReminders stores the configured reminder intervals when none exist yet.
func seedReminders(ctx context.Context, repo nurture.ReminderRepo, defaults nurture.ReminderDefaults) error {
	cfg, err := repo.GetReminderConfig(ctx)
	if err != nil {
		return err
	}
	if len(cfg.Intervals) > 0 {
		return nil
	}
	seeded := defaults.ReminderConfig()
	log.Info("seeding reminder intervals", "intervals", seeded.Intervals)
	return repo.SaveReminderConfig(ctx, seeded)
}

func panicif(err error) {
	if err != nil {
		panic(err)
	}
}
