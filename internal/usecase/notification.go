package usecase

import (
	"fmt"
	"log"

	"biasbuster-backend/internal/domain"
)

// Pusher delivers a push notification to a set of device tokens.
type Pusher interface {
	SendMulticast(tokens []string, title, body string, data map[string]string) error
	IsEnabled() bool
}

// TokenSource resolves which devices subscribe to an instrument category.
type TokenSource interface {
	TokensForCategory(category domain.Category) []string
}

// Notifier turns signal lifecycle events into push notifications.
// Delivery failures are logged, never fatal.
type Notifier struct {
	pusher Pusher
	tokens TokenSource
	trail  TrailingConfig
}

func NewNotifier(pusher Pusher, tokens TokenSource, trail TrailingConfig) *Notifier {
	return &Notifier{pusher: pusher, tokens: tokens, trail: trail}
}

func (n *Notifier) Notify(spec domain.InstrumentSpec, kind domain.EventKind, pos *domain.Position, price float64) {
	if n == nil || n.pusher == nil || !n.pusher.IsEnabled() {
		return
	}
	tokens := n.tokens.TokensForCategory(spec.Category)
	if len(tokens) == 0 {
		return
	}

	title, body := n.eventMessage(spec, kind, pos, price)
	data := map[string]string{
		"instrument": spec.Name,
		"event":      string(kind),
		"price":      fmt.Sprintf("%g", price),
	}
	if pos != nil {
		data["direction"] = string(pos.Type)
	}

	if err := n.pusher.SendMulticast(tokens, title, body, data); err != nil {
		log.Printf("[Notify] %s %s: %v", spec.Name, kind, err)
	}
}

func (n *Notifier) eventMessage(spec domain.InstrumentSpec, kind domain.EventKind, pos *domain.Position, price float64) (string, string) {
	dir := ""
	if pos != nil {
		dir = string(pos.Type)
	}
	switch kind {
	case domain.EventEntry:
		return fmt.Sprintf("%s %s Entry %s", spec.Flag, spec.Name, dir),
			fmt.Sprintf("%s signal at %g. SL %g, TP1 %g", dir, price, pos.CurrentSL, pos.TP1)
	case domain.EventTP1Hit:
		body := fmt.Sprintf("First target reached at %g.", price)
		if n.trail.MoveToBreakevenAtTP1 {
			body += " Stop moved to breakeven."
		}
		return fmt.Sprintf("%s %s TP1 Hit", spec.Flag, spec.Name), body
	case domain.EventTP2Hit:
		body := fmt.Sprintf("Second target reached at %g.", price)
		if n.trail.MoveToTP1AtTP2 {
			body += " Stop trailing at TP1."
		}
		return fmt.Sprintf("%s %s TP2 Hit", spec.Flag, spec.Name), body
	case domain.EventTP3Hit:
		return fmt.Sprintf("%s %s TP3 Hit 🎯", spec.Flag, spec.Name),
			fmt.Sprintf("Final target reached at %g. Position closed.", price)
	case domain.EventSLHit:
		return fmt.Sprintf("%s %s SL Hit", spec.Flag, spec.Name),
			fmt.Sprintf("Stopped out at %g.", price)
	case domain.EventTrailSLHit:
		return fmt.Sprintf("%s %s Trailing SL Hit", spec.Flag, spec.Name),
			fmt.Sprintf("Trailing stop hit at %g. Profits locked in.", price)
	case domain.EventReversalClose:
		return fmt.Sprintf("%s %s Reversal Close", spec.Flag, spec.Name),
			fmt.Sprintf("Bias flipped against the position. Closed at %g.", price)
	}
	return fmt.Sprintf("%s %s", spec.Flag, spec.Name), fmt.Sprintf("%s at %g", kind, price)
}

// NotifyReentry pushes a scale-in opportunity alert.
func (n *Notifier) NotifyReentry(spec domain.InstrumentSpec, opp *domain.ReentryOpportunity) {
	if n == nil || n.pusher == nil || !n.pusher.IsEnabled() || opp == nil {
		return
	}
	tokens := n.tokens.TokensForCategory(spec.Category)
	if len(tokens) == 0 {
		return
	}
	title := fmt.Sprintf("%s %s Re-entry (%d%%)", spec.Flag, spec.Name, opp.Strength)
	body := fmt.Sprintf("%s near %g (%s). R:R %s", opp.Reason, opp.SuggestedEntry, opp.FibLevel, opp.RiskReward)
	if err := n.pusher.SendMulticast(tokens, title, body, map[string]string{
		"instrument": spec.Name,
		"event":      "REENTRY",
		"type":       opp.Type,
	}); err != nil {
		log.Printf("[Notify] %s reentry: %v", spec.Name, err)
	}
}
