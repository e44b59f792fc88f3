package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SPREADSHEET_ID", "sheet-1")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected default port: %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendSheets {
		t.Fatalf("unexpected default backend: %q", cfg.Storage.Backend)
	}
	if !cfg.Survey.SingleVote {
		t.Fatalf("single vote should default on")
	}
	if cfg.Survey.Timezone != "Asia/Tashkent" {
		t.Fatalf("unexpected default timezone: %q", cfg.Survey.Timezone)
	}
	if cfg.Survey.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.Survey.RequestTimeout)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing token")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadSQLiteBackendNeedsNoSpreadsheet(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "data/test-votes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.SQLitePath != "data/test-votes" {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad timezone")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	loc := SurveyConfig{Timezone: "nope"}.Location()
	if loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
}
