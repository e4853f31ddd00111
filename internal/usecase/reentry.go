package usecase

import (
	"fmt"
	"math"

	"biasbuster-backend/internal/domain"
)

// ReentryConfig bounds when a scale-in opportunity is considered and how
// strong it must score to surface.
type ReentryConfig struct {
	LookbackBars    int
	MinPullbackPips float64
	MaxPullbackPips float64
	ProximityPips   float64 // tolerance around a retracement level
	MinStrength     int
	MinRiskReward   float64
}

func DefaultReentryConfig() ReentryConfig {
	return ReentryConfig{
		LookbackBars:    20,
		MinPullbackPips: 5,
		MaxPullbackPips: 60,
		ProximityPips:   3,
		MinStrength:     50,
		MinRiskReward:   1.5,
	}
}

var fibRatios = []float64{0.236, 0.382, 0.5, 0.618}

// reentryEnabled lists the categories whose pullbacks are worth scaling
// into. Crypto scalping pullbacks are noise at these timeframes.
func reentryEnabled(category domain.Category) bool {
	switch category {
	case domain.CategoryCryptoScalping:
		return false
	}
	return true
}

// ScoreReentry evaluates whether the current pullback against an open
// position is a scale-in opportunity. Returns nil when no position is open,
// the category is not eligible, the pullback is out of band, nothing
// confirms the level, the strength is below threshold or the risk:reward is
// too thin.
func ScoreReentry(pos *domain.Position, series *domain.CandleSeries, snap *domain.IndicatorSnapshot, price, pipSize float64, cfg ReentryConfig) *domain.ReentryOpportunity {
	if pos == nil || pipSize <= 0 || !reentryEnabled(pos.Category) {
		return nil
	}
	if series == nil || series.Len() < 3 {
		return nil
	}

	buy := pos.Type == domain.DirectionBuy

	pullback := price - pos.EntryPrice
	if buy {
		pullback = pos.EntryPrice - price
	}
	pullbackPips := pullback / pipSize
	if pullbackPips < cfg.MinPullbackPips || pullbackPips > cfg.MaxPullbackPips {
		return nil
	}

	// Swing extreme on the pullback side over the lookback window of closed
	// bars, anchored at the entry price.
	window := series.Tail(cfg.LookbackBars + 1)
	window = window[:len(window)-1] // drop the still-forming bar
	if len(window) == 0 {
		return nil
	}

	extreme := window[0].Low
	for _, c := range window {
		if buy && c.Low < extreme {
			extreme = c.Low
		}
	}
	if !buy {
		extreme = window[0].High
		for _, c := range window {
			if c.High > extreme {
				extreme = c.High
			}
		}
	}

	span := extreme - pos.EntryPrice
	if span == 0 {
		return nil
	}

	// Nearest standard retracement level between anchor and extreme.
	nearestRatio := fibRatios[0]
	nearestPrice := pos.EntryPrice + span*fibRatios[0]
	for _, r := range fibRatios[1:] {
		level := pos.EntryPrice + span*r
		if math.Abs(price-level) < math.Abs(price-nearestPrice) {
			nearestRatio = r
			nearestPrice = level
		}
	}
	distPips := math.Abs(price-nearestPrice) / pipSize

	// Rejection candle: a wick more than twice the body, opposing the
	// pullback, with the histogram still favouring the position.
	reject := window[len(window)-1]
	body := math.Abs(reject.Close - reject.Open)
	var wick float64
	if buy {
		wick = math.Min(reject.Open, reject.Close) - reject.Low
	} else {
		wick = reject.High - math.Max(reject.Open, reject.Close)
	}
	histFavors := (buy && snap.Histogram > 0) || (!buy && snap.Histogram < 0)
	hasRejection := body > 0 && wick > 2*body && histFavors

	atLevel := distPips <= cfg.ProximityPips
	if !hasRejection && !atLevel {
		return nil
	}

	strength := fibProximityScore(distPips, cfg.ProximityPips) +
		histogramScore(snap, buy) +
		rsiScore(snap, buy) +
		wickScore(wick, body)
	if strength < cfg.MinStrength {
		return nil
	}

	// Risk:reward of adding here: distance to the current stop against
	// distance to the first target.
	risk := math.Abs(price - pos.CurrentSL)
	reward := math.Abs(pos.TP1 - price)
	if risk == 0 {
		return nil
	}
	rr := reward / risk
	if rr < cfg.MinRiskReward {
		return nil
	}

	oppType := "ADD_TO_BUY"
	if !buy {
		oppType = "ADD_TO_SELL"
	}

	zone := cfg.ProximityPips * pipSize
	rsiText := "n/a"
	if snap.RSI != nil {
		rsiText = fmt.Sprintf("%.1f", *snap.RSI)
	}

	return &domain.ReentryOpportunity{
		Type:           oppType,
		Strength:       strength,
		Reason:         fmt.Sprintf("Price at %.1f%% Fib (%.1f pips pullback)", nearestRatio*100, pullbackPips),
		SuggestedEntry: nearestPrice,
		RejectionZone:  fmt.Sprintf("%.5g - %.5g", nearestPrice-zone, nearestPrice+zone),
		FibLevel:       fmt.Sprintf("%.1f%%", nearestRatio*100),
		FibPrice:       nearestPrice,
		Confirmation:   fmt.Sprintf("Histogram: %.5g | RSI: %s | Wick: %.5g", snap.Histogram, rsiText, wick),
		RiskReward:     fmt.Sprintf("1:%.1f", rr),
	}
}

// fibProximityScore: 0-40.
func fibProximityScore(distPips, proximity float64) int {
	switch {
	case distPips <= proximity/2:
		return 40
	case distPips <= proximity:
		return 30
	case distPips <= proximity*2:
		return 15
	}
	return 5
}

// histogramScore: 0-25. Direction agreement plus expansion.
func histogramScore(snap *domain.IndicatorSnapshot, buy bool) int {
	score := 0
	if (buy && snap.Histogram > 0) || (!buy && snap.Histogram < 0) {
		score += 15
		if math.Abs(snap.Histogram) > math.Abs(snap.PrevHistogram) {
			score += 10
		}
	}
	return score
}

// rsiScore: 0-20. Rewards RSI sitting in the mean-reversion band for the
// position's direction rather than at an extreme.
func rsiScore(snap *domain.IndicatorSnapshot, buy bool) int {
	if snap.RSI == nil {
		return 10
	}
	rsi := *snap.RSI
	if buy {
		switch {
		case rsi >= 40 && rsi <= 55:
			return 20
		case rsi > 55 && rsi <= 65:
			return 10
		}
		return 0
	}
	switch {
	case rsi >= 45 && rsi <= 60:
		return 20
	case rsi >= 35 && rsi < 45:
		return 10
	}
	return 0
}

// wickScore: 0-15.
func wickScore(wick, body float64) int {
	if body <= 0 {
		return 0
	}
	switch {
	case wick > 3*body:
		return 15
	case wick > 2*body:
		return 10
	case wick > body:
		return 5
	}
	return 0
}
