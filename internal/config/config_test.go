package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Default()
	cfg.BotToken = "test-token"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.TargetURL != DefaultTargetURL {
		t.Errorf("TargetURL = %q, want %q", cfg.TargetURL, DefaultTargetURL)
	}
	if cfg.CurrentAppointment != 20260210 {
		t.Errorf("CurrentAppointment = %d, want 20260210", cfg.CurrentAppointment)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want Europe/Berlin", cfg.Timezone)
	}
	if cfg.HeartbeatHour != 9 {
		t.Errorf("HeartbeatHour = %d, want 9", cfg.HeartbeatHour)
	}
	if cfg.HeartbeatWindowMinutes != 10 {
		t.Errorf("HeartbeatWindowMinutes = %d, want 10", cfg.HeartbeatWindowMinutes)
	}
	if cfg.StateFile != "state.json" {
		t.Errorf("StateFile = %q, want state.json", cfg.StateFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terminwatch.toml")
	content := `
bot_token = "file-token"
chat_id = "12345"
heartbeat_hour = 7
check_interval = "2m"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BotToken != "file-token" {
		t.Errorf("BotToken = %q, want file-token", cfg.BotToken)
	}
	if cfg.ChatID != "12345" {
		t.Errorf("ChatID = %q, want 12345", cfg.ChatID)
	}
	if cfg.HeartbeatHour != 7 {
		t.Errorf("HeartbeatHour = %d, want 7", cfg.HeartbeatHour)
	}
	if time.Duration(cfg.CheckInterval) != 2*time.Minute {
		t.Errorf("CheckInterval = %s, want 2m", cfg.CheckInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// File must not disturb defaults it does not mention.
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want default Europe/Berlin", cfg.Timezone)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terminwatch.toml")
	if err := os.WriteFile(path, []byte(`bot_token = "file-token"`), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("MY_CURRENT_APPOINTMENT", "20270101")
	t.Setenv("HEARTBEAT_WINDOW_MINUTES", "15")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BotToken != "env-token" {
		t.Errorf("BotToken = %q, want env-token", cfg.BotToken)
	}
	if cfg.CurrentAppointment != 20270101 {
		t.Errorf("CurrentAppointment = %d, want 20270101", cfg.CurrentAppointment)
	}
	if cfg.HeartbeatWindowMinutes != 15 {
		t.Errorf("HeartbeatWindowMinutes = %d, want 15", cfg.HeartbeatWindowMinutes)
	}
}

func TestLoadBadEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric appointment", key: "MY_CURRENT_APPOINTMENT", value: "soon"},
		{name: "non-numeric hour", key: "HEARTBEAT_HOUR", value: "nine"},
		{name: "bad interval", key: "CHECK_INTERVAL", value: "five minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.BotToken = "" },
			wantErr: "bot token",
		},
		{
			name:    "hour out of range",
			mutate:  func(c *Config) { c.HeartbeatHour = 24 },
			wantErr: "heartbeat hour",
		},
		{
			name:    "window out of range",
			mutate:  func(c *Config) { c.HeartbeatWindowMinutes = 0 },
			wantErr: "heartbeat window",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr: "timezone",
		},
		{
			name:    "window not wider than interval",
			mutate:  func(c *Config) { c.CheckInterval = Duration(10 * time.Minute) },
			wantErr: "check interval",
		},
		{
			name:    "empty state path",
			mutate:  func(c *Config) { c.StateFile = "" },
			wantErr: "state file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	if cfg.Location().String() != "Europe/Berlin" {
		t.Errorf("Location() = %v, want Europe/Berlin", cfg.Location())
	}

	cfg.Timezone = "nowhere"
	if cfg.Location() != time.UTC {
		t.Error("Location() should fall back to UTC for unloadable zones")
	}
}
