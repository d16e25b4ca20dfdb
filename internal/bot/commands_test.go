package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"terminwatch/internal/config"
	"terminwatch/internal/state"
	"terminwatch/internal/telegram"
)

func message(chatID int64, text string) *telegram.Message {
	return &telegram.Message{Chat: telegram.Chat{ID: chatID, Type: "private"}, Text: text}
}

func TestProcessCommands_OffsetIsBatchMaximum(t *testing.T) {
	poller := &fakePoller{updates: []telegram.Update{
		{UpdateID: 5, Message: message(1, "hello?")},
		{UpdateID: 3, Message: message(1, "hello again")},
		{UpdateID: 7, Message: message(1, "still there?")},
	}}
	b := newTestBot(t, testConfig(), poller, &fakeNotifier{}, &fakeChecker{})

	st := state.RunState{LastUpdateID: 2}
	b.processCommands(context.Background(), &st)

	if poller.gotOffset != 3 {
		t.Errorf("poll offset = %d, want last id + 1 = 3", poller.gotOffset)
	}
	if st.LastUpdateID != 7 {
		t.Errorf("LastUpdateID = %d, want batch maximum 7", st.LastUpdateID)
	}
}

func TestProcessCommands_PollFailureLeavesState(t *testing.T) {
	poller := &fakePoller{err: errors.New("telegram API error (status 502)")}
	b := newTestBot(t, testConfig(), poller, &fakeNotifier{}, &fakeChecker{})

	st := state.RunState{LastUpdateID: 41}
	b.processCommands(context.Background(), &st)

	if st.LastUpdateID != 41 {
		t.Errorf("LastUpdateID = %d, want unchanged 41 so the batch is retried", st.LastUpdateID)
	}
}

func TestProcessCommands_EmptyBatch(t *testing.T) {
	b := newTestBot(t, testConfig(), &fakePoller{}, &fakeNotifier{}, &fakeChecker{})

	st := state.RunState{LastUpdateID: 12}
	b.processCommands(context.Background(), &st)

	if st.LastUpdateID != 12 {
		t.Errorf("LastUpdateID = %d, want 12", st.LastUpdateID)
	}
}

func TestProcessCommands_StartReply(t *testing.T) {
	for _, text := range []string{"/start", "start", "/START", " Start "} {
		t.Run(text, func(t *testing.T) {
			poller := &fakePoller{updates: []telegram.Update{{UpdateID: 1, Message: message(42, text)}}}
			n := &fakeNotifier{}
			b := newTestBot(t, testConfig(), poller, n, &fakeChecker{})

			st := state.RunState{}
			b.processCommands(context.Background(), &st)

			if len(n.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(n.sent))
			}
			if n.sent[0].chatID != "42" {
				t.Errorf("reply went to %s, want 42", n.sent[0].chatID)
			}
			if !strings.Contains(n.sent[0].text, "/check") {
				t.Errorf("usage hint %q should mention /check", n.sent[0].text)
			}
		})
	}
}

func TestProcessCommands_CheckReply(t *testing.T) {
	tests := []struct {
		name    string
		checker *fakeChecker
		wantIn  []string
	}{
		{
			name:    "earlier slot",
			checker: &fakeChecker{date: 20260201, found: true},
			wantIn:  []string{"20260201", "20260210", "earlier than your current appointment!", config.DefaultTargetURL},
		},
		{
			name:    "later slot",
			checker: &fakeChecker{date: 20260301, found: true},
			wantIn:  []string{"20260301", "20260210", "not earlier than your current appointment."},
		},
		{
			name:    "no slots",
			checker: &fakeChecker{found: false},
			wantIn:  []string{"couldn't see any slots"},
		},
		{
			name:    "scrape failure reads like no slots",
			checker: &fakeChecker{err: errors.New("timeout")},
			wantIn:  []string{"couldn't see any slots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poller := &fakePoller{updates: []telegram.Update{{UpdateID: 1, Message: message(42, "/check")}}}
			n := &fakeNotifier{}
			b := newTestBot(t, testConfig(), poller, n, tt.checker)

			st := state.RunState{}
			b.processCommands(context.Background(), &st)

			if tt.checker.calls != 1 {
				t.Errorf("checker ran %d times, want 1", tt.checker.calls)
			}
			if len(n.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(n.sent))
			}
			for _, frag := range tt.wantIn {
				if !strings.Contains(n.sent[0].text, frag) {
					t.Errorf("reply %q should contain %q", n.sent[0].text, frag)
				}
			}
		})
	}
}

func TestProcessCommands_StatusAliases(t *testing.T) {
	for _, text := range []string{"/check", "check", "/status", "STATUS"} {
		t.Run(text, func(t *testing.T) {
			poller := &fakePoller{updates: []telegram.Update{{UpdateID: 1, Message: message(42, text)}}}
			checker := &fakeChecker{found: false}
			b := newTestBot(t, testConfig(), poller, &fakeNotifier{}, checker)

			st := state.RunState{}
			b.processCommands(context.Background(), &st)

			if checker.calls != 1 {
				t.Errorf("%q should trigger a check", text)
			}
		})
	}
}

func TestProcessCommands_IgnoresUnrecognized(t *testing.T) {
	poller := &fakePoller{updates: []telegram.Update{
		{UpdateID: 1, Message: message(42, "what's up")},
		{UpdateID: 2, Message: message(42, "")},
		{UpdateID: 3}, // update without message
	}}
	n := &fakeNotifier{}
	checker := &fakeChecker{}
	b := newTestBot(t, testConfig(), poller, n, checker)

	st := state.RunState{}
	b.processCommands(context.Background(), &st)

	if len(n.sent) != 0 {
		t.Errorf("sent %v, want no replies", n.sent)
	}
	if checker.calls != 0 {
		t.Errorf("checker ran %d times, want 0", checker.calls)
	}
	if st.LastUpdateID != 3 {
		t.Errorf("LastUpdateID = %d, want 3: ignored messages still advance the offset", st.LastUpdateID)
	}
}
