package notifier

import (
	"context"
	"fmt"
)

// DryRunNotifier prints what would be sent without actually sending
type DryRunNotifier struct{}

// NewDryRun creates a new dry-run notifier
func NewDryRun() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Send prints the message that would be delivered
func (n *DryRunNotifier) Send(_ context.Context, chatID, text string) error {
	if chatID == "" {
		chatID = "(unset)"
	}
	fmt.Printf("--- Would send to %s ---\n%s\n\n", chatID, text)
	return nil
}
