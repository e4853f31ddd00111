package usecase

import (
	"testing"
	"time"

	"biasbuster-backend/internal/domain"
)

// pullbackSeries builds a 15m series for a long that rallied off 1.1900
// and is now pulling back, ending with a rejection hammer at the 38.2%
// retracement.
func pullbackSeries() *domain.CandleSeries {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	candles := []domain.Candle{
		{Open: 1.1990, High: 1.1995, Low: 1.1985, Close: 1.1992},
		{Open: 1.1992, High: 1.1994, Low: 1.1960, Close: 1.1970},
		{Open: 1.1970, High: 1.1975, Low: 1.1940, Close: 1.1945},
		{Open: 1.1945, High: 1.1950, Low: 1.1900, Close: 1.1910},
		{Open: 1.1910, High: 1.1965, Low: 1.1905, Close: 1.1960},
		{Open: 1.1960, High: 1.1990, Low: 1.1955, Close: 1.1985},
		{Open: 1.1985, High: 1.2000, Low: 1.1980, Close: 1.1995},
		{Open: 1.1995, High: 1.2000, Low: 1.1975, Close: 1.1980},
		// rejection hammer: lower wick three times the body
		{Open: 1.1970, High: 1.1972, Low: 1.1950, Close: 1.1965},
		// still-forming bar
		{Open: 1.1965, High: 1.1968, Low: 1.1960, Close: 1.1962},
	}
	for i := range candles {
		candles[i].Time = base.Add(time.Duration(i) * 15 * time.Minute)
	}
	return &domain.CandleSeries{Symbol: "EURUSD=X", Interval: "15m", Candles: candles}
}

func reentryPosition() *domain.Position {
	return &domain.Position{
		Type:       domain.DirectionBuy,
		EntryPrice: 1.2000,
		SL:         1.1950,
		CurrentSL:  1.1950,
		TP1:        1.2075,
		TP2:        1.2150,
		TP3:        1.2250,
		Category:   domain.CategoryForex,
	}
}

func reentrySnapshot() *domain.IndicatorSnapshot {
	return &domain.IndicatorSnapshot{
		Histogram:     0.5,
		PrevHistogram: 0.3,
		RSI:           ptr(48),
	}
}

func TestScoreReentryAtFibLevel(t *testing.T) {
	opp := ScoreReentry(reentryPosition(), pullbackSeries(), reentrySnapshot(), 1.1962, 0.0001, DefaultReentryConfig())
	if opp == nil {
		t.Fatal("Expected a re-entry opportunity")
	}
	if opp.Type != "ADD_TO_BUY" {
		t.Errorf("Expected ADD_TO_BUY, got %s", opp.Type)
	}
	// 1.1962 sits on the 38.2% retracement of the 1.2000 -> 1.1900 swing
	if opp.FibLevel != "38.2%" {
		t.Errorf("Expected 38.2%% level, got %s", opp.FibLevel)
	}
	if opp.Strength < 50 {
		t.Errorf("Expected strength above threshold, got %d", opp.Strength)
	}
	if opp.RiskReward == "" {
		t.Error("Risk:reward string missing")
	}
}

func TestScoreReentryGates(t *testing.T) {
	series := pullbackSeries()
	snap := reentrySnapshot()
	cfg := DefaultReentryConfig()

	if ScoreReentry(nil, series, snap, 1.1962, 0.0001, cfg) != nil {
		t.Error("No position means no opportunity")
	}

	// Crypto scalping is excluded
	pos := reentryPosition()
	pos.Category = domain.CategoryCryptoScalping
	if ScoreReentry(pos, series, snap, 1.1962, 0.0001, cfg) != nil {
		t.Error("Crypto scalping must not score re-entries")
	}

	// Pullback below the minimum band
	if ScoreReentry(reentryPosition(), series, snap, 1.1998, 0.0001, cfg) != nil {
		t.Error("Tiny pullback should not score")
	}

	// Pullback beyond the maximum band
	if ScoreReentry(reentryPosition(), series, snap, 1.1920, 0.0001, cfg) != nil {
		t.Error("Excessive pullback should not score")
	}

	// Thin risk:reward: stop already trailed right under the price
	pos = reentryPosition()
	pos.CurrentSL = 1.1850
	pos.TP1 = 1.1965
	if ScoreReentry(pos, series, snap, 1.1962, 0.0001, cfg) != nil {
		t.Error("Risk:reward below minimum should not score")
	}

	// Histogram against the position kills the rejection confirmation,
	// and far from any level there is nothing left to trigger on
	badSnap := &domain.IndicatorSnapshot{Histogram: -0.5, PrevHistogram: -0.3, RSI: ptr(48)}
	if opp := ScoreReentry(reentryPosition(), series, badSnap, 1.1955, 0.0001, cfg); opp != nil {
		t.Errorf("Expected no opportunity without confirmation, got %+v", opp)
	}
}
