package notifier

import "context"

// Notifier defines the interface for delivering outbound messages
type Notifier interface {
	// Send delivers text to the given chat. Implementations return an
	// error on delivery failure; callers decide whether that is fatal.
	Send(ctx context.Context, chatID, text string) error
}
