// Package config loads environment-driven settings for the bot.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

type Config struct {
	BotToken      string
	WebhookSecret string
	Server        ServerConfig
	Storage       StorageConfig
	Survey        SurveyConfig
	VoteEvents    VoteEventsConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	Backend         string
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
	SQLitePath      string
}

type SurveyConfig struct {
	SingleVote     bool
	Timezone       string
	RequestTimeout time.Duration
}

type VoteEventsConfig struct {
	Endpoint string
	Token    string
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("bot_token", "")
	v.SetDefault("webhook_secret_token", "")
	v.SetDefault("port", 8080)
	v.SetDefault("storage_backend", BackendSheets)
	v.SetDefault("spreadsheet_id", "")
	v.SetDefault("google_credentials", "")
	v.SetDefault("google_credentials_file", "credentials.json")
	v.SetDefault("sqlite_path", "data/votes")
	v.SetDefault("single_vote", true)
	v.SetDefault("timezone", "Asia/Tashkent")
	v.SetDefault("request_timeout_ms", 5000)
	v.SetDefault("vote_events_endpoint", "")
	v.SetDefault("vote_events_token", "")

	token := strings.TrimSpace(v.GetString("bot_token"))
	if token == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}

	port := v.GetInt("port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT: %d", port)
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("storage_backend")))
	switch backend {
	case BackendSheets:
		if strings.TrimSpace(v.GetString("spreadsheet_id")) == "" {
			return Config{}, fmt.Errorf("SPREADSHEET_ID is required for the sheets backend")
		}
	case BackendSQLite:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND: %q", backend)
	}

	tz := strings.TrimSpace(v.GetString("timezone"))
	if _, err := time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	timeoutMS := v.GetInt("request_timeout_ms")
	if timeoutMS <= 0 {
		timeoutMS = 5000
	}

	return Config{
		BotToken:      token,
		WebhookSecret: strings.TrimSpace(v.GetString("webhook_secret_token")),
		Server: ServerConfig{
			Port: port,
		},
		Storage: StorageConfig{
			Backend:         backend,
			SpreadsheetID:   strings.TrimSpace(v.GetString("spreadsheet_id")),
			CredentialsJSON: strings.TrimSpace(v.GetString("google_credentials")),
			CredentialsFile: strings.TrimSpace(v.GetString("google_credentials_file")),
			SQLitePath:      strings.TrimSpace(v.GetString("sqlite_path")),
		},
		Survey: SurveyConfig{
			SingleVote:     v.GetBool("single_vote"),
			Timezone:       tz,
			RequestTimeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		VoteEvents: VoteEventsConfig{
			Endpoint: strings.TrimSpace(v.GetString("vote_events_endpoint")),
			Token:    strings.TrimSpace(v.GetString("vote_events_token")),
		},
	}, nil
}

// Location resolves the configured deployment time zone.
func (c SurveyConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
