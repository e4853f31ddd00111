package usecase

import (
	"math"
	"time"

	"biasbuster-backend/internal/domain"
)

// RiskParams sizes the stop-loss and take-profit ladder for a category.
type RiskParams struct {
	SLATRMultiplier float64
	TPRatios        [3]float64
	FallbackPips    float64 // stop distance in pips when ATR is unavailable
}

// RiskForCategory returns the risk parameters for an instrument category.
// Scalping categories run a tighter ladder with a wider ATR stop to survive
// crypto volatility; everything else uses the standard 1.5/3/5 ladder.
func RiskForCategory(category domain.Category) RiskParams {
	switch category {
	case domain.CategoryCryptoScalping:
		return RiskParams{
			SLATRMultiplier: 2.0,
			TPRatios:        [3]float64{1.0, 2.0, 3.0},
			FallbackPips:    30,
		}
	default:
		return RiskParams{
			SLATRMultiplier: 1.5,
			TPRatios:        [3]float64{1.5, 3.0, 5.0},
			FallbackPips:    30,
		}
	}
}

// TrailingConfig controls how the stop relocates as the ladder fills.
type TrailingConfig struct {
	MoveToBreakevenAtTP1 bool
	MoveToTP1AtTP2       bool
}

// LifecycleEvent is one transition produced by evaluating a position against
// a fresh price.
type LifecycleEvent struct {
	Kind  domain.EventKind
	Price float64
	Time  time.Time
}

// BiasState is the classified market context a position is evaluated
// against.
type BiasState struct {
	Trend    domain.Bias
	Momentum domain.Bias
	Entry    domain.EntryEvent
}

// OpenPosition builds a new position at the live price. Stop distance is
// ATR-based with a fixed pip fallback when ATR is zero or missing.
func OpenPosition(spec domain.InstrumentSpec, dir domain.Direction, entry, atr float64, now, candleTime time.Time) *domain.Position {
	risk := RiskForCategory(spec.Category)

	slDist := atr * risk.SLATRMultiplier
	if slDist == 0 {
		slDist = risk.FallbackPips * spec.PipSize
	}

	pos := &domain.Position{
		Type:       dir,
		EntryPrice: entry,
		Time:       now,
		CandleTime: candleTime,
		Category:   spec.Category,
		Lifecycle:  domain.LifecycleNew,
	}

	if dir == domain.DirectionBuy {
		pos.SL = entry - slDist
		pos.TP1 = entry + slDist*risk.TPRatios[0]
		pos.TP2 = entry + slDist*risk.TPRatios[1]
		pos.TP3 = entry + slDist*risk.TPRatios[2]
	} else {
		pos.SL = entry + slDist
		pos.TP1 = entry - slDist*risk.TPRatios[0]
		pos.TP2 = entry - slDist*risk.TPRatios[1]
		pos.TP3 = entry - slDist*risk.TPRatios[2]
	}
	pos.CurrentSL = pos.SL
	return pos
}

// EvaluatePosition checks an open position against a fresh price and the
// current bias state, returning the next position state and the transitions
// that fired. A nil next position means the position closed; exactly one
// terminal event is ever produced. The input position is not mutated.
func EvaluatePosition(pos *domain.Position, price float64, bias BiasState, trail TrailingConfig, now time.Time) (*domain.Position, []LifecycleEvent) {
	next := pos.Clone()
	var events []LifecycleEvent

	buy := next.Type == domain.DirectionBuy

	// 1. Stop check comes first: the freshest price settles an exit before
	// any profit-taking or entry logic runs.
	stopHit := (buy && price <= next.CurrentSL) || (!buy && price >= next.CurrentSL)
	if stopHit {
		kind := domain.EventSLHit
		if next.Trailing() {
			kind = domain.EventTrailSLHit
		}
		events = append(events, LifecycleEvent{Kind: kind, Price: price, Time: now})
		return nil, events
	}

	// 2. TP ladder, ascending. A single large move may fill several rungs in
	// one cycle.
	tpReached := func(level float64) bool {
		if buy {
			return price >= level
		}
		return price <= level
	}

	if !next.TPHits[0] && tpReached(next.TP1) {
		next.TPHits[0] = true
		events = append(events, LifecycleEvent{Kind: domain.EventTP1Hit, Price: price, Time: now})
		if trail.MoveToBreakevenAtTP1 {
			next.CurrentSL = next.EntryPrice
			next.Lifecycle = domain.LifecycleTrailingSL
		} else {
			next.Lifecycle = domain.LifecyclePartialTP
		}
	}

	if !next.TPHits[1] && tpReached(next.TP2) {
		next.TPHits[1] = true
		events = append(events, LifecycleEvent{Kind: domain.EventTP2Hit, Price: price, Time: now})
		if trail.MoveToTP1AtTP2 {
			next.CurrentSL = next.TP1
			next.Lifecycle = domain.LifecycleTrailingSL
		}
	}

	if !next.TPHits[2] && tpReached(next.TP3) {
		next.TPHits[2] = true
		events = append(events, LifecycleEvent{Kind: domain.EventTP3Hit, Price: price, Time: now})
		// Full exit regardless of the stop.
		return nil, events
	}

	// 3. Strict reversal: both higher timeframes flipped against the
	// position and a fresh opposite cross fired. The position closes; a
	// fresh one may only open on the next cycle.
	reversed := false
	if buy {
		reversed = bias.Trend == domain.BiasBearish && bias.Momentum == domain.BiasBearish && bias.Entry == domain.EventSellCross
	} else {
		reversed = bias.Trend == domain.BiasBullish && bias.Momentum == domain.BiasBullish && bias.Entry == domain.EventBuyCross
	}
	if reversed {
		events = append(events, LifecycleEvent{Kind: domain.EventReversalClose, Price: price, Time: now})
		return nil, events
	}

	if next.Lifecycle == domain.LifecycleNew {
		next.Lifecycle = domain.LifecycleActive
	}
	return next, events
}

// CloseMetrics computes realized trade numbers for a terminal event.
func CloseMetrics(pos *domain.Position, exitPrice, pipSize float64, now time.Time) domain.TradeMetrics {
	move := exitPrice - pos.EntryPrice
	if pos.Type == domain.DirectionSell {
		move = pos.EntryPrice - exitPrice
	}

	m := domain.TradeMetrics{
		ProfitPercent:   move / pos.EntryPrice * 100,
		DurationSeconds: int(now.Sub(pos.Time).Seconds()),
	}
	if pipSize > 0 {
		m.ProfitPips = move / pipSize
	}
	if risk := math.Abs(pos.EntryPrice - pos.SL); risk > 0 {
		m.RiskReward = move / risk
	}
	return m
}

// maxSingleBarMove is the sanity threshold: a larger jump against the
// previous close is treated as a feed glitch and the previous close is used
// instead. Crypto scalping instruments legitimately move this much and are
// exempt.
const maxSingleBarMove = 0.05

// SanitizePrice guards the live price against single-bar feed spikes.
func SanitizePrice(latest, prevClose float64, category domain.Category) float64 {
	if category == domain.CategoryCryptoScalping || prevClose == 0 {
		return latest
	}
	if math.Abs(latest-prevClose)/prevClose > maxSingleBarMove {
		return prevClose
	}
	return latest
}
