// Package telegram provides the Telegram Bot API integration.
//
// Two methods are consumed: sendMessage for outbound text (with link
// previews disabled) and getUpdates for polling inbound messages by
// offset. Plain HTTP requests against the Bot API, no bot framework.
//
// Authentication requires a bot token (from @BotFather).
package telegram
