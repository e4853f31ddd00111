package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"biasbuster-backend/internal/domain"
)

type fakePusher struct {
	enabled bool
	fail    bool
	sent    []struct {
		Tokens []string
		Title  string
		Body   string
		Data   map[string]string
	}
}

func (p *fakePusher) SendMulticast(tokens []string, title, body string, data map[string]string) error {
	p.sent = append(p.sent, struct {
		Tokens []string
		Title  string
		Body   string
		Data   map[string]string
	}{tokens, title, body, data})
	if p.fail {
		return errors.New("fcm unavailable")
	}
	return nil
}

func (p *fakePusher) IsEnabled() bool { return p.enabled }

type fakeTokens struct {
	tokens []string
}

func (f *fakeTokens) TokensForCategory(category domain.Category) []string {
	return f.tokens
}

func TestNotifySendsToSubscribers(t *testing.T) {
	pusher := &fakePusher{enabled: true}
	n := NewNotifier(pusher, &fakeTokens{tokens: []string{"a", "b"}}, defaultTrail())

	pos := OpenPosition(testSpec, domain.DirectionBuy, 100, 10.0/3.0, time.Now(), time.Now())
	n.Notify(testSpec, domain.EventEntry, pos, 100)

	if len(pusher.sent) != 1 {
		t.Fatalf("Expected one push, got %d", len(pusher.sent))
	}
	msg := pusher.sent[0]
	if len(msg.Tokens) != 2 {
		t.Errorf("Expected 2 tokens, got %d", len(msg.Tokens))
	}
	if msg.Data["instrument"] != "Gold" || msg.Data["event"] != "ENTRY" || msg.Data["direction"] != "BUY" {
		t.Errorf("Unexpected payload: %v", msg.Data)
	}
}

func TestNotifySkipsWhenDisabledOrEmpty(t *testing.T) {
	disabled := &fakePusher{enabled: false}
	n := NewNotifier(disabled, &fakeTokens{tokens: []string{"a"}}, defaultTrail())
	n.Notify(testSpec, domain.EventSLHit, &domain.Position{Type: domain.DirectionBuy}, 95)
	if len(disabled.sent) != 0 {
		t.Error("Disabled pusher must not send")
	}

	enabled := &fakePusher{enabled: true}
	n = NewNotifier(enabled, &fakeTokens{}, defaultTrail())
	n.Notify(testSpec, domain.EventSLHit, &domain.Position{Type: domain.DirectionBuy}, 95)
	if len(enabled.sent) != 0 {
		t.Error("No subscribers means no send")
	}

	// A nil notifier is safe to call
	var nilNotifier *Notifier
	nilNotifier.Notify(testSpec, domain.EventSLHit, nil, 95)
}

func TestNotifyDeliveryFailureIsNonFatal(t *testing.T) {
	pusher := &fakePusher{enabled: true, fail: true}
	n := NewNotifier(pusher, &fakeTokens{tokens: []string{"a"}}, defaultTrail())
	// Must not panic or propagate the error
	n.Notify(testSpec, domain.EventTP1Hit, &domain.Position{Type: domain.DirectionBuy}, 107.5)
}

func TestNotifyBodyTracksTrailingConfig(t *testing.T) {
	pos := &domain.Position{Type: domain.DirectionBuy}

	pusher := &fakePusher{enabled: true}
	n := NewNotifier(pusher, &fakeTokens{tokens: []string{"a"}}, defaultTrail())
	n.Notify(testSpec, domain.EventTP1Hit, pos, 107.5)
	n.Notify(testSpec, domain.EventTP2Hit, pos, 115)
	if !strings.Contains(pusher.sent[0].Body, "breakeven") {
		t.Errorf("TP1 body should mention the breakeven move: %q", pusher.sent[0].Body)
	}
	if !strings.Contains(pusher.sent[1].Body, "TP1") {
		t.Errorf("TP2 body should mention the TP1 trail: %q", pusher.sent[1].Body)
	}

	// With the relocations off, the bodies must not promise stop moves
	// that never happened.
	off := &fakePusher{enabled: true}
	n = NewNotifier(off, &fakeTokens{tokens: []string{"a"}}, TrailingConfig{})
	n.Notify(testSpec, domain.EventTP1Hit, pos, 107.5)
	n.Notify(testSpec, domain.EventTP2Hit, pos, 115)
	if strings.Contains(off.sent[0].Body, "breakeven") {
		t.Errorf("TP1 body claims a disabled stop move: %q", off.sent[0].Body)
	}
	if strings.Contains(off.sent[1].Body, "TP1") {
		t.Errorf("TP2 body claims a disabled stop move: %q", off.sent[1].Body)
	}
}

func TestNotifyReentry(t *testing.T) {
	pusher := &fakePusher{enabled: true}
	n := NewNotifier(pusher, &fakeTokens{tokens: []string{"a"}}, defaultTrail())

	n.NotifyReentry(testSpec, &domain.ReentryOpportunity{
		Type:           "ADD_TO_BUY",
		Strength:       85,
		Reason:         "Price at 61.8% Fib (38.0 pips pullback)",
		SuggestedEntry: 1.1938,
		FibLevel:       "61.8%",
		RiskReward:     "1:3.2",
	})
	if len(pusher.sent) != 1 {
		t.Fatalf("Expected one push, got %d", len(pusher.sent))
	}
	if pusher.sent[0].Data["event"] != "REENTRY" {
		t.Errorf("Unexpected payload: %v", pusher.sent[0].Data)
	}

	n.NotifyReentry(testSpec, nil)
	if len(pusher.sent) != 1 {
		t.Error("Nil opportunity must not send")
	}
}
