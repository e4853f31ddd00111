package usecase

import (
	"testing"

	"biasbuster-backend/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestClassifyTrendStandard(t *testing.T) {
	snap := &domain.IndicatorSnapshot{MACDLine: 1.2, Close: 110, EMA200: ptr(100)}
	if got := ClassifyTrend(snap, domain.ProfileStandard); got != domain.BiasBullish {
		t.Errorf("Expected BULLISH, got %s", got)
	}

	// Positive MACD but price below EMA is neutral, not bullish
	snap = &domain.IndicatorSnapshot{MACDLine: 1.2, Close: 90, EMA200: ptr(100)}
	if got := ClassifyTrend(snap, domain.ProfileStandard); got != domain.BiasNeutral {
		t.Errorf("Expected NEUTRAL, got %s", got)
	}

	snap = &domain.IndicatorSnapshot{MACDLine: -0.5, Close: 90, EMA200: ptr(100)}
	if got := ClassifyTrend(snap, domain.ProfileStandard); got != domain.BiasBearish {
		t.Errorf("Expected BEARISH, got %s", got)
	}

	// Missing EMA counts as satisfied on both sides
	snap = &domain.IndicatorSnapshot{MACDLine: 0.5, Close: 90}
	if got := ClassifyTrend(snap, domain.ProfileStandard); got != domain.BiasBullish {
		t.Errorf("Expected BULLISH with nil EMA, got %s", got)
	}
}

func TestClassifyTrendRelaxed(t *testing.T) {
	// Relaxed ignores the EMA entirely
	snap := &domain.IndicatorSnapshot{MACDLine: 0.8, Close: 90, EMA200: ptr(100)}
	if got := ClassifyTrend(snap, domain.ProfileRelaxed); got != domain.BiasBullish {
		t.Errorf("Expected BULLISH, got %s", got)
	}
	snap = &domain.IndicatorSnapshot{MACDLine: 0}
	if got := ClassifyTrend(snap, domain.ProfileRelaxed); got != domain.BiasNeutral {
		t.Errorf("Expected NEUTRAL at zero, got %s", got)
	}
}

func TestClassifyMomentum(t *testing.T) {
	// Standard needs the histogram rising, not just positive
	snap := &domain.IndicatorSnapshot{Histogram: 0.4, PrevHistogram: 0.6}
	if got := ClassifyMomentum(snap, domain.ProfileStandard); got != domain.BiasNeutral {
		t.Errorf("Shrinking histogram should be NEUTRAL, got %s", got)
	}
	snap = &domain.IndicatorSnapshot{Histogram: 0.6, PrevHistogram: 0.4}
	if got := ClassifyMomentum(snap, domain.ProfileStandard); got != domain.BiasBullish {
		t.Errorf("Expected BULLISH, got %s", got)
	}
	snap = &domain.IndicatorSnapshot{Histogram: -0.6, PrevHistogram: -0.4}
	if got := ClassifyMomentum(snap, domain.ProfileStandard); got != domain.BiasBearish {
		t.Errorf("Expected BEARISH, got %s", got)
	}

	// Relaxed takes the sign alone
	snap = &domain.IndicatorSnapshot{Histogram: 0.4, PrevHistogram: 0.6}
	if got := ClassifyMomentum(snap, domain.ProfileRelaxed); got != domain.BiasBullish {
		t.Errorf("Relaxed should be BULLISH on positive histogram, got %s", got)
	}
}

func TestDetectEntryEvent(t *testing.T) {
	cases := []struct {
		prev, cur float64
		want      domain.EntryEvent
	}{
		{-0.2, 0.3, domain.EventBuyCross},
		{0.2, -0.3, domain.EventSellCross},
		{0.1, 0.3, domain.EventBullishMom},
		{-0.1, -0.3, domain.EventBearishMom},
		{0, 0, domain.EventNoDirection},
	}
	for _, c := range cases {
		snap := &domain.IndicatorSnapshot{Histogram: c.cur, PrevHistogram: c.prev}
		if got := DetectEntryEvent(snap); got != c.want {
			t.Errorf("prev=%f cur=%f: expected %s, got %s", c.prev, c.cur, c.want, got)
		}
	}
}

func TestFreshTriggers(t *testing.T) {
	cross := &domain.IndicatorSnapshot{Histogram: 0.3, PrevHistogram: -0.2}
	if !FreshLongTrigger(domain.EventBuyCross, cross) {
		t.Error("BUY_CROSS should always trigger")
	}

	// Continuation with a previous positive histogram is stale
	stale := &domain.IndicatorSnapshot{Histogram: 0.5, PrevHistogram: 0.3}
	if FreshLongTrigger(domain.EventBullishMom, stale) {
		t.Error("Stale continuation should not trigger")
	}

	fresh := &domain.IndicatorSnapshot{Histogram: 0.5, PrevHistogram: 0}
	if !FreshLongTrigger(domain.EventBullishMom, fresh) {
		t.Error("Fresh continuation from zero should trigger")
	}

	staleShort := &domain.IndicatorSnapshot{Histogram: -0.5, PrevHistogram: -0.3}
	if FreshShortTrigger(domain.EventBearishMom, staleShort) {
		t.Error("Stale short continuation should not trigger")
	}
}

func TestEvaluateEntryFilters(t *testing.T) {
	snap := &domain.IndicatorSnapshot{
		Close:      110,
		EMA200:     ptr(100),
		RSI:        ptr(58),
		MACDLine:   0.4,
		SignalLine: 0.2,
	}
	f := EvaluateEntryFilters(snap, domain.ProfileStandard)
	if !f.LongOK() {
		t.Errorf("Expected long filters to pass: %+v", f)
	}
	if f.ShortOK() {
		t.Errorf("Short filters should fail: %+v", f)
	}

	// Standard requires both MACD lines on the same side
	snap.SignalLine = -0.1
	f = EvaluateEntryFilters(snap, domain.ProfileStandard)
	if f.MACDBullish {
		t.Error("Mixed-sign MACD lines should fail the standard filter")
	}

	// Relaxed only needs the MACD line sign and a wider RSI band
	snap.RSI = ptr(48)
	f = EvaluateEntryFilters(snap, domain.ProfileRelaxed)
	if !f.MACDBullish || !f.RSIBullish {
		t.Errorf("Relaxed filters should pass: %+v", f)
	}
}
