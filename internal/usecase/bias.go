package usecase

import "biasbuster-backend/internal/domain"

// ClassifyTrend maps a trend-timeframe snapshot to a bias. The standard rule
// is MACD line sign plus price vs EMA-200; the relaxed profile uses the MACD
// sign alone. A missing EMA counts as satisfied.
func ClassifyTrend(snap *domain.IndicatorSnapshot, profile domain.RuleProfile) domain.Bias {
	if profile == domain.ProfileRelaxed {
		switch {
		case snap.MACDLine > 0:
			return domain.BiasBullish
		case snap.MACDLine < 0:
			return domain.BiasBearish
		}
		return domain.BiasNeutral
	}

	aboveEMA := snap.EMA200 == nil || snap.Close > *snap.EMA200
	belowEMA := snap.EMA200 == nil || snap.Close < *snap.EMA200

	switch {
	case snap.MACDLine > 0 && aboveEMA:
		return domain.BiasBullish
	case snap.MACDLine < 0 && belowEMA:
		return domain.BiasBearish
	}
	return domain.BiasNeutral
}

// ClassifyMomentum maps a momentum-timeframe snapshot to a bias. The
// standard rule requires the histogram to be expanding in its direction; the
// relaxed profile takes the sign alone.
func ClassifyMomentum(snap *domain.IndicatorSnapshot, profile domain.RuleProfile) domain.Bias {
	if profile == domain.ProfileRelaxed {
		switch {
		case snap.Histogram > 0:
			return domain.BiasBullish
		case snap.Histogram < 0:
			return domain.BiasBearish
		}
		return domain.BiasNeutral
	}

	switch {
	case snap.Histogram > 0 && snap.Histogram > snap.PrevHistogram:
		return domain.BiasBullish
	case snap.Histogram < 0 && snap.Histogram < snap.PrevHistogram:
		return domain.BiasBearish
	}
	return domain.BiasNeutral
}

// EntryFilters are the entry-timeframe gating booleans.
type EntryFilters struct {
	AboveEMA    bool
	BelowEMA    bool
	RSIBullish  bool
	RSIBearish  bool
	MACDBullish bool
	MACDBearish bool
}

// LongOK reports whether every long-side filter passes.
func (f EntryFilters) LongOK() bool {
	return f.AboveEMA && f.RSIBullish && f.MACDBullish
}

// ShortOK reports whether every short-side filter passes.
func (f EntryFilters) ShortOK() bool {
	return f.BelowEMA && f.RSIBearish && f.MACDBearish
}

// EvaluateEntryFilters computes the entry-timeframe filter set. Missing
// optional indicators (EMA, RSI) count as satisfied on both sides.
func EvaluateEntryFilters(snap *domain.IndicatorSnapshot, profile domain.RuleProfile) EntryFilters {
	f := EntryFilters{
		AboveEMA: snap.EMA200 == nil || snap.Close > *snap.EMA200,
		BelowEMA: snap.EMA200 == nil || snap.Close < *snap.EMA200,
	}

	// The relaxed profile widens the RSI band and drops the same-side
	// requirement on the signal line.
	if profile == domain.ProfileRelaxed {
		f.RSIBullish = snap.RSI == nil || *snap.RSI > 45
		f.RSIBearish = snap.RSI == nil || *snap.RSI < 55
		f.MACDBullish = snap.MACDLine > 0
		f.MACDBearish = snap.MACDLine < 0
		return f
	}

	f.RSIBullish = snap.RSI == nil || *snap.RSI > 50
	f.RSIBearish = snap.RSI == nil || *snap.RSI < 50
	f.MACDBullish = snap.MACDLine > 0 && snap.SignalLine > 0
	f.MACDBearish = snap.MACDLine < 0 && snap.SignalLine < 0
	return f
}

// DetectEntryEvent derives the per-cycle entry event from the last two
// closed histogram values.
func DetectEntryEvent(snap *domain.IndicatorSnapshot) domain.EntryEvent {
	switch {
	case snap.PrevHistogram < 0 && snap.Histogram > 0:
		return domain.EventBuyCross
	case snap.PrevHistogram > 0 && snap.Histogram < 0:
		return domain.EventSellCross
	case snap.Histogram > 0:
		return domain.EventBullishMom
	case snap.Histogram < 0:
		return domain.EventBearishMom
	}
	return domain.EventNoDirection
}

// FreshLongTrigger reports whether the event justifies a new long: a fresh
// cross, or continuation whose previous histogram was still non-positive.
// Continuation several bars old is stale and never re-entered.
func FreshLongTrigger(event domain.EntryEvent, snap *domain.IndicatorSnapshot) bool {
	if event == domain.EventBuyCross {
		return true
	}
	return event == domain.EventBullishMom && snap.PrevHistogram <= 0
}

// FreshShortTrigger is the short-side counterpart of FreshLongTrigger.
func FreshShortTrigger(event domain.EntryEvent, snap *domain.IndicatorSnapshot) bool {
	if event == domain.EventSellCross {
		return true
	}
	return event == domain.EventBearishMom && snap.PrevHistogram >= 0
}
