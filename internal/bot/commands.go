package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"terminwatch/internal/state"
)

const usageHint = "Hi! Send /check to fetch the earliest appointment I can see."

// processCommands polls for messages queued since the last run and
// answers the recognized ones. A poll failure leaves the offset
// untouched so the same batch is retried next invocation.
func (b *Bot) processCommands(ctx context.Context, st *state.RunState) {
	updates, err := b.poller.GetUpdates(ctx, st.LastUpdateID+1, 0)
	if err != nil {
		b.log.Warn().Err(err).Msg("polling updates failed")
		return
	}

	maxID := st.LastUpdateID
	for _, u := range updates {
		// Monotonic even if the batch arrives out of order.
		if u.UpdateID > maxID {
			maxID = u.UpdateID
		}

		if u.Message == nil {
			continue
		}
		text := strings.TrimSpace(u.Message.Text)
		if text == "" {
			continue
		}

		chatID := strconv.FormatInt(u.Message.Chat.ID, 10)
		b.log.Info().Str("chat_id", chatID).Str("text", text).Msg("inbound message")
		b.dispatch(ctx, chatID, text)
	}

	st.LastUpdateID = maxID
}

func (b *Bot) dispatch(ctx context.Context, chatID, text string) {
	switch strings.ToLower(text) {
	case "/start", "start":
		b.reply(ctx, chatID, usageHint)
	case "/check", "check", "/status", "status":
		b.reply(ctx, chatID, b.statusReport(ctx))
	default:
		// Unrecognized text gets no reply.
	}
}

// statusReport runs the scraper synchronously and formats the result
// for a chat reply.
func (b *Bot) statusReport(ctx context.Context) string {
	earliest, found, err := b.checker.Check(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("on-demand check failed")
		found = false
	}
	if !found {
		return "I couldn't see any slots right now (or the page didn't load). Try again later."
	}

	verdict := "not earlier than your current appointment."
	if earliest.Before(b.cfg.CurrentAppointment) {
		verdict = "✅ earlier than your current appointment!"
	}
	return fmt.Sprintf("🗓 Latest check result:\nEarliest: %s\nCurrent:  %s\nResult:   %s\nPage: %s",
		earliest, b.cfg.CurrentAppointment, verdict, b.cfg.TargetURL)
}

func (b *Bot) reply(ctx context.Context, chatID, text string) {
	if err := b.notifier.Send(ctx, chatID, text); err != nil {
		b.log.Error().Err(err).Str("chat_id", chatID).Msg("reply delivery failed")
	}
}
