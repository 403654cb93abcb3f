package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@uptrace.dev/123"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@uptrace.dev/123" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "courtsync-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "courtsync-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_SyncSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SYNC_INTERVAL", "")
		t.Setenv("SYNC_MAX_WORKERS", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SyncInterval != 30*time.Minute {
			t.Fatalf("unexpected default sync interval: %s", cfg.SyncInterval)
		}
		if cfg.SyncMaxWorkers != 4 {
			t.Fatalf("unexpected default sync workers: %d", cfg.SyncMaxWorkers)
		}
	})

	t.Run("invalid workers", func(t *testing.T) {
		t.Setenv("SYNC_MAX_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for SYNC_MAX_WORKERS=0")
		}
	})
}

func TestLoad_ProviderConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("WINNER_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Winner.Enabled {
			t.Fatalf("expected winner disabled by default")
		}
		if cfg.Winner.LeagueID != "ligat-haal" {
			t.Fatalf("unexpected default league id: %q", cfg.Winner.LeagueID)
		}
	})

	t.Run("enabled with overrides", func(t *testing.T) {
		t.Setenv("WINNER_ENABLED", "true")
		t.Setenv("WINNER_BASE_URL", "https://staging.winner.example")
		t.Setenv("WINNER_TIMEOUT", "15s")
		t.Setenv("WINNER_MAX_RETRIES", "2")
		t.Setenv("WINNER_CIRCUIT_FAILURE_COUNT", "7")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.Winner.Enabled {
			t.Fatalf("expected winner enabled")
		}
		if cfg.Winner.BaseURL != "https://staging.winner.example" {
			t.Fatalf("unexpected base url: %q", cfg.Winner.BaseURL)
		}
		if cfg.Winner.Timeout != 15*time.Second {
			t.Fatalf("unexpected timeout: %s", cfg.Winner.Timeout)
		}
		if cfg.Winner.MaxRetries != 2 {
			t.Fatalf("unexpected retries: %d", cfg.Winner.MaxRetries)
		}
		if cfg.Winner.CircuitFailureCount != 7 {
			t.Fatalf("unexpected circuit failure count: %d", cfg.Winner.CircuitFailureCount)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("EUROLEAGUE_TIMEOUT", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid EUROLEAGUE_TIMEOUT")
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
