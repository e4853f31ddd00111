package usecase

import (
	"log"
	"sync"
	"time"

	"biasbuster-backend/internal/domain"
)

// Fetcher pulls candle history for a symbol. Implementations fail soft,
// returning an empty series when data is unavailable.
type Fetcher interface {
	FetchSeries(symbol, interval, rng string) *domain.CandleSeries
}

// premarketCue is one global market whose overnight move feeds the Indian
// open sentiment.
type premarketCue struct {
	Name   string
	Symbol string
	Weight float64
	Invert bool // a rising dollar is a headwind
}

var premarketCues = []premarketCue{
	{Name: "S&P 500", Symbol: "^GSPC", Weight: 0.35 / 3},
	{Name: "Nasdaq", Symbol: "^IXIC", Weight: 0.35 / 3},
	{Name: "Dow Jones", Symbol: "^DJI", Weight: 0.35 / 3},
	{Name: "Nikkei 225", Symbol: "^N225", Weight: 0.25 / 2},
	{Name: "Hang Seng", Symbol: "^HSI", Weight: 0.25 / 2},
	{Name: "Nifty 50", Symbol: "^NSEI", Weight: 0.25},
	{Name: "Crude Oil", Symbol: "CL=F", Weight: 0.10},
	{Name: "Dollar Index", Symbol: "DX-Y.NYB", Weight: 0.05, Invert: true},
}

const (
	premarketBullThreshold = 0.15
	premarketBearThreshold = -0.15
)

// CueReading is one market's contribution to the premarket score.
type CueReading struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	ChangePct float64 `json:"change_pct"`
	Weight    float64 `json:"weight"`
}

// PremarketReport is the weighted overnight sentiment for the Indian open.
type PremarketReport struct {
	Sentiment   domain.Bias  `json:"sentiment"`
	Score       float64      `json:"score"`
	Cues        []CueReading `json:"cues"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// PremarketService computes and caches the overnight sentiment report.
type PremarketService struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu     sync.Mutex
	cached *PremarketReport
}

func NewPremarketService(fetcher Fetcher, ttl time.Duration) *PremarketService {
	return &PremarketService{fetcher: fetcher, ttl: ttl, now: time.Now}
}

// Report returns the cached report when fresh, otherwise recomputes it.
func (s *PremarketService) Report() *PremarketReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.cached != nil && now.Sub(s.cached.GeneratedAt) < s.ttl {
		return s.cached
	}
	s.cached = s.compute(now)
	return s.cached
}

func (s *PremarketService) compute(now time.Time) *PremarketReport {
	report := &PremarketReport{Sentiment: domain.BiasNeutral, GeneratedAt: now}

	for _, cue := range premarketCues {
		series := s.fetcher.FetchSeries(cue.Symbol, "1d", "5d")
		if series.Len() < 2 {
			log.Printf("[Premarket] No data for %s, skipping", cue.Name)
			continue
		}
		last := series.Candles[series.Len()-1].Close
		prev := series.Candles[series.Len()-2].Close
		if prev == 0 {
			continue
		}
		change := (last - prev) / prev * 100
		contribution := change * cue.Weight
		if cue.Invert {
			contribution = -contribution
		}
		report.Score += contribution
		report.Cues = append(report.Cues, CueReading{
			Name:      cue.Name,
			Symbol:    cue.Symbol,
			ChangePct: change,
			Weight:    cue.Weight,
		})
	}

	switch {
	case report.Score > premarketBullThreshold:
		report.Sentiment = domain.BiasBullish
	case report.Score < premarketBearThreshold:
		report.Sentiment = domain.BiasBearish
	}
	return report
}

// FavorsDirection reports whether the premarket sentiment allows an entry
// in the given direction. Neutral sentiment blocks nothing.
func (r *PremarketReport) FavorsDirection(dir domain.Direction) bool {
	if r == nil || r.Sentiment == domain.BiasNeutral {
		return true
	}
	if dir == domain.DirectionBuy {
		return r.Sentiment == domain.BiasBullish
	}
	return r.Sentiment == domain.BiasBearish
}
