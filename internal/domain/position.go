package domain

import "time"

// Direction of a position.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// LifecycleStatus labels where an open position sits in its lifecycle.
type LifecycleStatus string

const (
	LifecycleNew          LifecycleStatus = "New"
	LifecycleActive       LifecycleStatus = "Active"
	LifecyclePartialTP    LifecycleStatus = "Partial TP Hit"
	LifecycleTrailingSL   LifecycleStatus = "Trailing SL Active"
	LifecycleReentryReady LifecycleStatus = "Reentry Opportunity"
)

// Position is the unit of lifecycle state, keyed by instrument name. At most
// one open Position exists per instrument at any time.
type Position struct {
	Type       Direction       `json:"type"`
	EntryPrice float64         `json:"entryPrice"`
	SL         float64         `json:"sl"`        // original stop, fixed at open
	CurrentSL  float64         `json:"currentSl"` // only ever tightens toward profit
	TP1        float64         `json:"tp1"`
	TP2        float64         `json:"tp2"`
	TP3        float64         `json:"tp3"`
	TPHits     [3]bool         `json:"tpHits"`
	Time       time.Time       `json:"time"`       // signal generation time
	CandleTime time.Time       `json:"candleTime"` // originating closed bar
	Category   Category        `json:"category"`
	Lifecycle  LifecycleStatus `json:"lifecycleStatus"`
}

// Trailing reports whether the stop has moved from its original level.
func (p *Position) Trailing() bool {
	return p.CurrentSL != p.SL
}

// Clone returns an independent copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// EventKind identifies a lifecycle transition.
type EventKind string

const (
	EventEntry         EventKind = "ENTRY"
	EventTP1Hit        EventKind = "TP1_HIT"
	EventTP2Hit        EventKind = "TP2_HIT"
	EventTP3Hit        EventKind = "TP3_HIT"
	EventSLHit         EventKind = "SL_HIT"
	EventTrailSLHit    EventKind = "TRAIL_SL_HIT"
	EventReversalClose EventKind = "REVERSAL_CLOSE"
)

// Terminal reports whether the event closes the position.
func (k EventKind) Terminal() bool {
	switch k {
	case EventTP3Hit, EventSLHit, EventTrailSLHit, EventReversalClose:
		return true
	}
	return false
}

// TradeMetrics are the realized numbers attached to a close event.
type TradeMetrics struct {
	ProfitPips      float64 `json:"profitPips"`
	ProfitPercent   float64 `json:"profitPercent"`
	DurationSeconds int     `json:"durationSeconds"`
	RiskReward      float64 `json:"riskReward"` // achieved R, profit over original stop distance
}

// HistoryEvent is one immutable record in the lifecycle history log.
type HistoryEvent struct {
	Instrument string        `json:"instrument"`
	Event      EventKind     `json:"event"`
	Price      float64       `json:"price"`
	Time       time.Time     `json:"time"`
	Category   Category      `json:"category"`
	Direction  Direction     `json:"direction,omitempty"`
	EntryPrice *float64      `json:"entryPrice,omitempty"`
	EntryTime  *time.Time    `json:"entryTime,omitempty"`
	InitialSL  *float64      `json:"initialSl,omitempty"`
	Metrics    *TradeMetrics `json:"metrics,omitempty"`
}

// ReentryOpportunity flags a scale-in chance against an open position. It is
// recomputed every cycle and never persisted.
type ReentryOpportunity struct {
	Type           string  `json:"type"` // "ADD_TO_BUY" / "ADD_TO_SELL"
	Strength       int     `json:"strength"`
	Reason         string  `json:"reason"`
	SuggestedEntry float64 `json:"suggestedEntry"`
	RejectionZone  string  `json:"rejectionZone"`
	FibLevel       string  `json:"fibLevel"`
	FibPrice       float64 `json:"fibPrice"`
	Confirmation   string  `json:"confirmation"`
	RiskReward     string  `json:"riskReward"`
}
