// Package bot runs one watcher pass: answer queued commands, maybe
// send the daily heartbeat, scrape the booking page, alert when an
// earlier appointment shows up, and persist the run state.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"terminwatch/internal/appointment"
	"terminwatch/internal/config"
	"terminwatch/internal/notifier"
	"terminwatch/internal/state"
	"terminwatch/internal/telegram"
)

// Checker produces the earliest visible appointment date.
type Checker interface {
	Check(ctx context.Context) (appointment.Date, bool, error)
}

// UpdatePoller fetches inbound messages starting at an offset.
type UpdatePoller interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.Update, error)
}

// Bot wires the components of one pass together.
type Bot struct {
	cfg      config.Config
	store    *state.Store
	poller   UpdatePoller
	notifier notifier.Notifier
	checker  Checker
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a Bot. The config must already be validated.
func New(cfg config.Config, store *state.Store, poller UpdatePoller, n notifier.Notifier, checker Checker, log zerolog.Logger) *Bot {
	return &Bot{
		cfg:      cfg,
		store:    store,
		poller:   poller,
		notifier: n,
		checker:  checker,
		now:      time.Now,
		log:      log,
	}
}

// Run performs one full pass and persists the state once at the end.
// Only the final save can fail; every other failure is logged and the
// pass continues degraded.
func (b *Bot) Run(ctx context.Context) error {
	st := b.store.Load()

	b.processCommands(ctx, &st)
	b.maybeHeartbeat(ctx, &st)
	b.checkAndAlert(ctx, &st)

	if err := b.store.Save(st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// checkAndAlert scrapes once and alerts the default chat when the
// earliest slot is strictly before the held appointment and was not
// already alerted on.
func (b *Bot) checkAndAlert(ctx context.Context, st *state.RunState) {
	earliest, found, err := b.checker.Check(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("appointment check failed")
		return
	}
	if !found {
		return
	}
	if !earliest.Before(b.cfg.CurrentAppointment) {
		b.log.Debug().Stringer("earliest", earliest).Msg("earliest slot is not earlier")
		return
	}
	if earliest == st.LastNotifiedEarliest {
		b.log.Debug().Stringer("earliest", earliest).Msg("already alerted for this date")
		return
	}

	text := fmt.Sprintf("✅ Earlier appointment found!\nEarliest: %s\nCurrent:  %s\n%s",
		earliest, b.cfg.CurrentAppointment, b.cfg.TargetURL)
	if err := b.notifier.Send(ctx, b.cfg.ChatID, text); err != nil {
		b.log.Error().Err(err).Msg("alert delivery failed")
	}
	// Recorded even when delivery failed: one alert attempt per date.
	st.LastNotifiedEarliest = earliest
}
