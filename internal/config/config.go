// Package config assembles the immutable run configuration from
// defaults, an optional TOML file, and environment variables, in that
// order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"terminwatch/internal/appointment"
	"terminwatch/internal/logger"
)

// DefaultTargetURL is the booking page this watcher is built for. The
// navigation flow in internal/scraper is specific to this site's markup.
const DefaultTargetURL = "https://tevis.ekom21.de/fra/select2?md=35"

// Config is constructed once at startup and passed to every component.
type Config struct {
	// TargetURL is the booking page to scrape.
	TargetURL string `toml:"target_url"`

	// CurrentAppointment is the appointment the user already holds, as
	// YYYYMMDD. Only strictly earlier dates trigger alerts.
	CurrentAppointment appointment.Date `toml:"current_appointment"`

	// BotToken authenticates against the Telegram Bot API. Required.
	BotToken string `toml:"bot_token"`

	// ChatID receives heartbeats and alerts. Empty disables both;
	// command replies still go to whoever asked.
	ChatID string `toml:"chat_id"`

	// Timezone is the IANA zone heartbeat scheduling runs in.
	Timezone string `toml:"timezone"`

	// HeartbeatHour is the local hour (0-23) the daily liveness ping
	// goes out in.
	HeartbeatHour int `toml:"heartbeat_hour"`

	// HeartbeatWindowMinutes bounds the ping to the first N minutes of
	// HeartbeatHour, so a scheduler firing several times per hour sends
	// exactly once.
	HeartbeatWindowMinutes int `toml:"heartbeat_window_minutes"`

	// StateFile is the path of the persisted run state.
	StateFile string `toml:"state_file"`

	// CheckInterval is how often the external scheduler is assumed to
	// invoke the watcher. It is not acted on directly; Validate uses it
	// to prove the heartbeat window is wide enough to be hit.
	CheckInterval Duration `toml:"check_interval"`

	Log logger.Config `toml:"log"`
}

// Duration makes time.Duration decodable from TOML strings like "5m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TargetURL:              DefaultTargetURL,
		CurrentAppointment:     20260210,
		Timezone:               "Europe/Berlin",
		HeartbeatHour:          9,
		HeartbeatWindowMinutes: 10,
		StateFile:              "state.json",
		CheckInterval:          Duration(5 * time.Minute),
		Log:                    logger.Config{Level: "info"},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (if non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from the environment. Unset variables leave
// the current value alone.
func (c *Config) applyEnv() error {
	if v := os.Getenv("TARGET_URL"); v != "" {
		c.TargetURL = v
	}
	if v := os.Getenv("MY_CURRENT_APPOINTMENT"); v != "" {
		d, ok := appointment.ParseDate(v)
		if !ok {
			return fmt.Errorf("MY_CURRENT_APPOINTMENT must be a YYYYMMDD number, got %q", v)
		}
		c.CurrentAppointment = d
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.ChatID = v
	}
	if v := os.Getenv("BOT_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("HEARTBEAT_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTBEAT_HOUR must be a number, got %q", v)
		}
		c.HeartbeatHour = n
	}
	if v := os.Getenv("HEARTBEAT_WINDOW_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTBEAT_WINDOW_MINUTES must be a number, got %q", v)
		}
		c.HeartbeatWindowMinutes = n
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		c.StateFile = v
	}
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHECK_INTERVAL must be a duration like 5m, got %q", v)
		}
		c.CheckInterval = Duration(d)
	}
	return nil
}

// Validate checks the configuration is usable. A missing bot token is
// the one startup condition the whole run cannot proceed without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("bot token must be set (TELEGRAM_BOT_TOKEN)")
	}
	if c.TargetURL == "" {
		return fmt.Errorf("target URL must be set")
	}
	if c.CurrentAppointment <= 0 {
		return fmt.Errorf("current appointment must be a YYYYMMDD date")
	}
	if c.HeartbeatHour < 0 || c.HeartbeatHour > 23 {
		return fmt.Errorf("heartbeat hour must be between 0 and 23, got %d", c.HeartbeatHour)
	}
	if c.HeartbeatWindowMinutes < 1 || c.HeartbeatWindowMinutes > 60 {
		return fmt.Errorf("heartbeat window must be between 1 and 60 minutes, got %d", c.HeartbeatWindowMinutes)
	}
	if c.StateFile == "" {
		return fmt.Errorf("state file path must be set")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive")
	}

	// The heartbeat fires at most once per invocation, so a window
	// narrower than the invocation interval can miss a whole day.
	window := time.Duration(c.HeartbeatWindowMinutes) * time.Minute
	if time.Duration(c.CheckInterval) >= window {
		return fmt.Errorf("heartbeat window (%s) must be longer than the check interval (%s)",
			window, c.CheckInterval)
	}
	return nil
}

// Location returns the configured timezone. Call Validate first; an
// unloadable zone falls back to UTC here.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
