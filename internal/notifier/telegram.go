package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"terminwatch/internal/telegram"
)

// TelegramNotifier delivers messages through the Bot API
type TelegramNotifier struct {
	client *telegram.Client
	log    zerolog.Logger
}

// NewTelegram creates a Telegram-backed notifier
func NewTelegram(client *telegram.Client, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{client: client, log: log}
}

// Send delivers text to chatID. An empty chatID is a logged no-op so
// unconfigured recipients silently skip heartbeats and alerts.
func (n *TelegramNotifier) Send(ctx context.Context, chatID, text string) error {
	if chatID == "" {
		n.log.Debug().Msg("send skipped: no chat id configured")
		return nil
	}
	return n.client.SendMessage(ctx, chatID, text)
}
