package cfg

import (
	"os"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	for _, env := range []string{"DB_PATH", "SEED_FILE", "PORT", "WORKER_COUNT", "SCHEDULER_INTERVAL",
		"FETCH_TIMEOUT", "SERIALIZE_CYCLES", "API_ACCESS_KEY", "USER_AGENT", "DEBUG", "BASE_URL"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	t.Setenv("TZ", "UTC")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "./rss-watch.db" {
		t.Errorf("Expected default db path, got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.GetSchedulerInterval() != time.Minute {
		t.Errorf("Expected scheduler interval 1m, got %s", cfg.GetSchedulerInterval())
	}
	if cfg.GetFetchTimeout() != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %s", cfg.GetFetchTimeout())
	}
	if cfg.SerializeCycles {
		t.Error("Expected serialize-cycles to be off by default")
	}
	if cfg.APIAccessKey != "" {
		t.Errorf("Expected no API key, got '%s'", cfg.APIAccessKey)
	}
}

func TestLoadArgsFlagsAndEnv(t *testing.T) {
	t.Setenv("TZ", "UTC")
	t.Setenv("API_ACCESS_KEY", "secret")
	t.Setenv("SEED_FILE", "/etc/rss-watch/seed.yml")

	cfg, err := LoadArgs([]string{
		"--db-path", "/tmp/watch.db",
		"--scheduler-interval", "120",
		"--worker-count", "2",
		"--serialize-cycles",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "/tmp/watch.db" {
		t.Errorf("Expected db path '/tmp/watch.db', got '%s'", cfg.DBPath)
	}
	if cfg.SchedulerInterval != 120 {
		t.Errorf("Expected scheduler interval 120, got %d", cfg.SchedulerInterval)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if !cfg.SerializeCycles || !cfg.Debug {
		t.Error("Expected boolean flags to be set")
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key from environment, got '%s'", cfg.APIAccessKey)
	}
	if cfg.SeedFile != "/etc/rss-watch/seed.yml" {
		t.Errorf("Expected seed file from environment, got '%s'", cfg.SeedFile)
	}
}

func TestLoadArgsValidation(t *testing.T) {
	t.Setenv("TZ", "UTC")

	tests := []struct {
		name string
		args []string
	}{
		{"zero workers", []string{"--worker-count", "0"}},
		{"zero interval", []string{"--scheduler-interval", "0"}},
		{"zero timeout", []string{"--fetch-timeout", "0"}},
		{"unknown flag", []string{"--no-such-flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadArgs(tt.args); err == nil {
				t.Errorf("Expected error for args %v", tt.args)
			}
		})
	}
}
