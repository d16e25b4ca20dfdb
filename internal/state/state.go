// Package state persists the small amount of bookkeeping that has to
// survive between invocations: when the last heartbeat went out, which
// Telegram updates were already handled, and which date was last
// alerted on.
package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"terminwatch/internal/appointment"
)

// RunState is the single durable record. Every field is optional; the
// zero value is the correct first-run state.
type RunState struct {
	// LastPingDate is the local calendar date (2006-01-02) of the last
	// heartbeat. Equality with today's date gates at-most-once-per-day.
	LastPingDate string `json:"last_ping_date,omitempty"`

	// LastUpdateID is the highest Telegram update id already processed.
	// The next poll uses LastUpdateID+1 as its offset.
	LastUpdateID int64 `json:"last_update_id,omitempty"`

	// LastNotifiedEarliest is the date of the last "earlier appointment"
	// alert, kept to suppress repeats for the same date.
	LastNotifiedEarliest appointment.Date `json:"last_notified_earliest,omitempty"`
}

// Store reads and writes the run state file.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the persisted state. A missing or unreadable file and
// corrupt content all yield the zero state: the first run has no file,
// and a broken one must not stop the watcher.
func (s *Store) Load() RunState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("state file unreadable, starting empty")
		}
		return RunState{}
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("state file corrupt, starting empty")
		return RunState{}
	}
	return st
}

// Save overwrites the state file. A failure here is fatal for the run:
// without it the next invocation would re-notify and re-process.
func (s *Store) Save(st RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}
