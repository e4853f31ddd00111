package usecase

import (
	"biasbuster-backend/internal/domain"
	"biasbuster-backend/internal/infrastructure/indicators"
)

// MACD spans, the standard 12/26/9 configuration.
const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	emaPeriod = 200
	rsiPeriod = 14
	atrPeriod = 14
)

// BuildSnapshot computes the indicator snapshot for a series at its last
// closed bar. Optional indicators are computed only when requested and only
// when the series is long enough; false means the series cannot support a
// decision at all.
func BuildSnapshot(series *domain.CandleSeries, withEMA, withRSI, withATR bool) (*domain.IndicatorSnapshot, bool) {
	if series == nil || series.Len() < macdSlow+2 {
		return nil, false
	}

	closes := series.Closes()
	last := len(closes) - 2 // last closed bar
	prev := len(closes) - 3

	macd := indicators.CalculateMACD(closes, macdFast, macdSlow, macdSignal)

	snap := &domain.IndicatorSnapshot{
		Close:         closes[last],
		PrevClose:     closes[prev],
		MACDLine:      macd.Line[last],
		SignalLine:    macd.Signal[last],
		Histogram:     macd.Histogram[last],
		PrevHistogram: macd.Histogram[prev],
	}

	if withEMA && len(closes) >= emaPeriod {
		ema := indicators.CalculateEMA(closes, emaPeriod)
		v := ema[last]
		snap.EMA200 = &v
	}
	if withRSI && len(closes) >= rsiPeriod+2 {
		rsi := indicators.CalculateRSI(closes, rsiPeriod)
		v := rsi[last]
		snap.RSI = &v
	}
	if withATR && len(closes) >= atrPeriod+2 {
		atr := indicators.CalculateATR(series.Highs(), series.Lows(), closes, atrPeriod)
		snap.ATR = atr[last]
	}

	return snap, true
}
