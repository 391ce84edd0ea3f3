package nurture

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL     string
	BotName         string
	BotToken        string
	NotifyChannelID string
	Settings        Settings
}

// Settings are tunables read from an optional YAML file.
type Settings struct {
	TickRate     time.Duration    `yaml:"tick_rate"`
	SnoozeWindow time.Duration    `yaml:"snooze_window"`
	Reminders    ReminderDefaults `yaml:"reminders"`
}

// ReminderDefaults seed the reminder config the first time the database is created.
type ReminderDefaults struct {
	Feeding int `yaml:"feeding"`
	Sleep   int `yaml:"sleep"`
	Diaper  int `yaml:"diaper"`
}

func DefaultSettings() Settings {
	return Settings{
		TickRate:     time.Second,
		SnoozeWindow: 5 * time.Minute,
	}
}

// LoadEnv loads .env in production and .env.dev otherwise. A missing file is ignored.
func LoadEnv(isProd bool) {
	if isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}
}

func DatabaseURL() string {
	if url := os.Getenv("NURTURE_DB_PATH"); url != "" {
		return url
	}
	return "nurture.db"
}

func LoadConfig(isProd bool) (Config, error) {
	LoadEnv(isProd)

	config := Config{
		DatabaseURL:     DatabaseURL(),
		BotName:         os.Getenv("NURTURE_BOT_NAME"),
		BotToken:        os.Getenv("NURTURE_BOT_TOKEN"),
		NotifyChannelID: os.Getenv("NURTURE_NOTIFY_CHANNEL_ID"),
	}

	if config.BotToken == "" {
		return Config{}, fmt.Errorf("required environment variable: NURTURE_BOT_TOKEN")
	}
	if config.BotName == "" {
		config.BotName = "NurtureTrack"
	}

	settings, err := LoadSettings(os.Getenv("NURTURE_SETTINGS_PATH"))
	if err != nil {
		return Config{}, err
	}
	config.Settings = settings

	return config, nil
}

// LoadSettings reads path over the defaults. An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if settings.TickRate <= 0 {
		settings.TickRate = time.Second
	}
	if settings.SnoozeWindow <= 0 {
		settings.SnoozeWindow = 5 * time.Minute
	}
	return settings, nil
}

// ReminderConfig converts the defaults into a disabled reminder config.
func (d ReminderDefaults) ReminderConfig() ReminderConfig {
	cfg := DefaultReminderConfig()
	cfg.Intervals[Feeding] = d.Feeding
	cfg.Intervals[Sleep] = d.Sleep
	cfg.Intervals[Diaper] = d.Diaper
	return cfg
}
