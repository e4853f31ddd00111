package domain

import "time"

// Category groups instruments that share timeframes, risk parameters and
// session rules.
type Category string

const (
	CategoryForex          Category = "Forex"
	CategoryMetalsEnergy   Category = "Metals/Energy"
	CategoryCryptoScalping Category = "Crypto Scalping"
	CategoryIntradayIndian Category = "Intraday IndianMarket"
	CategoryNSEFutures     Category = "NSE Live"
)

// RuleProfile selects how strictly the bias rules are applied for an
// instrument. Resolved once at configuration load, never string-matched at
// evaluation time.
type RuleProfile string

const (
	// ProfileStandard applies the full MACD + EMA-200 + RSI rule set.
	ProfileStandard RuleProfile = "standard"
	// ProfileRelaxed drops the EMA/level conditions down to sign-only checks.
	// Used for instruments whose 200-period EMA behaviour is unreliable.
	ProfileRelaxed RuleProfile = "relaxed"
)

// InstrumentSpec is the static configuration for one tradable instrument.
// Immutable for the process lifetime.
type InstrumentSpec struct {
	Name            string      `json:"name"`
	Symbol          string      `json:"symbol"` // quote symbol, or futures base when DynamicContract
	PipSize         float64     `json:"pipSize"`
	Flag            string      `json:"flag"`
	Category        Category    `json:"category"`
	Profile         RuleProfile `json:"profile"`
	DynamicContract bool        `json:"dynamicContract"` // symbol rolls with the futures expiry calendar
}

// Bias is the directional label a timeframe resolves to.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

// EntryEvent is the discrete per-cycle event derived from the two most
// recent closed entry-timeframe histogram values.
type EntryEvent string

const (
	EventBuyCross    EntryEvent = "BUY_CROSS"
	EventSellCross   EntryEvent = "SELL_CROSS"
	EventBullishMom  EntryEvent = "BULLISH_MOM"
	EventBearishMom  EntryEvent = "BEARISH_MOM"
	EventNoDirection EntryEvent = "NEUTRAL"
)

// IndicatorSnapshot carries the indicator values for one timeframe, taken at
// the last closed bar. Prev* fields come from the bar before it.
type IndicatorSnapshot struct {
	Close         float64
	PrevClose     float64
	MACDLine      float64
	SignalLine    float64
	Histogram     float64
	PrevHistogram float64
	EMA200        *float64 // nil when the series is too short
	RSI           *float64
	ATR           float64
}

// ContractInfo is the futures rollover metadata recomputed every cycle for
// dynamic-contract instruments. It is exposed alongside the signal, never
// stored as engine state.
type ContractInfo struct {
	Contract      string `json:"contract"`      // e.g. "JAN 26"
	Expiry        string `json:"expiry"`        // e.g. "29-Jan-2026"
	DaysToExpiry  int    `json:"daysToExpiry"`
	TradingSymbol string `json:"tradingSymbol"`
}

// TrendReading is the published trend-timeframe section of a snapshot.
type TrendReading struct {
	MACDLine float64 `json:"macdLine"`
	Bias     Bias    `json:"bias"`
	Label    string  `json:"label"`
}

// MomentumReading is the published momentum-timeframe section of a snapshot.
type MomentumReading struct {
	Histogram float64 `json:"histogram"`
	Bias      Bias    `json:"bias"`
	Label     string  `json:"label"`
}

// EntryReading is the published entry-timeframe section of a snapshot.
type EntryReading struct {
	Histogram float64    `json:"histogram"`
	Status    EntryEvent `json:"status"`
	Close     float64    `json:"close"`
	Label     string     `json:"label"`
	EMA200    *float64   `json:"ema200"`
	RSI       *float64   `json:"rsi"`
}

// InstrumentSnapshot is the per-cycle output record for one instrument.
type InstrumentSnapshot struct {
	Instrument    string              `json:"instrument"`
	Flag          string              `json:"flag"`
	Price         float64             `json:"ltp"`
	Trend         TrendReading        `json:"trend"`
	Momentum      MomentumReading     `json:"momentum"`
	Entry         EntryReading        `json:"entry"`
	OverallStatus string              `json:"overallStatus"`
	Position      *Position           `json:"position"`
	Reentry       *ReentryOpportunity `json:"reentry"`
	Contract      *ContractInfo       `json:"contract,omitempty"`
	Category      Category            `json:"category"`
	Timestamp     time.Time           `json:"timestamp"`
}

// SnapshotDocument is the full published output of one evaluation cycle.
type SnapshotDocument struct {
	LastUpdated time.Time            `json:"lastUpdated"`
	Heartbeat   string               `json:"backendHeartbeat"`
	Data        []InstrumentSnapshot `json:"data"`
}
