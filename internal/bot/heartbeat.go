package bot

import (
	"context"
	"fmt"

	"terminwatch/internal/state"
)

// maybeHeartbeat sends the daily liveness ping to the default chat.
// It fires at most once per local calendar day, and only inside the
// first HeartbeatWindowMinutes of HeartbeatHour. The window must be
// wider than the invocation interval (enforced by config.Validate) so
// at least one invocation lands inside it each day.
func (b *Bot) maybeHeartbeat(ctx context.Context, st *state.RunState) {
	if b.cfg.ChatID == "" {
		return
	}

	now := b.now().In(b.cfg.Location())
	today := now.Format("2006-01-02")
	if st.LastPingDate == today {
		return
	}
	if now.Hour() != b.cfg.HeartbeatHour || now.Minute() >= b.cfg.HeartbeatWindowMinutes {
		return
	}

	text := fmt.Sprintf("🤖 Still alive ✅ (%s)", now.Format("2006-01-02 15:04 MST"))
	if err := b.notifier.Send(ctx, b.cfg.ChatID, text); err != nil {
		b.log.Error().Err(err).Msg("heartbeat delivery failed")
	}
	// One attempt per day, delivered or not.
	st.LastPingDate = today
}
