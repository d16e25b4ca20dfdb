// Package notifier provides the outbound-message interface and its
// implementations.
//
// The Telegram implementation delivers through the Bot API client; the
// dry-run implementation prints messages to stdout so a full watcher
// pass can be rehearsed without sending anything.
package notifier
