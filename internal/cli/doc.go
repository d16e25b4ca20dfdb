// Package cli defines the terminwatch command tree.
//
// "run" performs one orchestrated pass (answer commands, heartbeat,
// scrape, alert, persist) and exits, matching an external scheduler
// invoking the binary periodically; --schedule keeps it running under
// an internal cron instead. "check" scrapes once and prints the result
// without touching Telegram or state. "send" delivers a manual message
// to the default chat.
package cli
