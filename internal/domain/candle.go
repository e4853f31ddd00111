package domain

import "time"

// Candle is a single OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CandleSeries is an ordered sequence of bars for one timeframe. The last
// bar may still be forming; decisions are made on the last two closed bars.
type CandleSeries struct {
	Symbol   string
	Interval string
	Candles  []Candle
}

// Len returns the number of bars in the series.
func (s *CandleSeries) Len() int {
	return len(s.Candles)
}

// Empty reports whether the series carries no usable data.
func (s *CandleSeries) Empty() bool {
	return s == nil || len(s.Candles) == 0
}

// Latest returns the most recent bar, which may be incomplete.
func (s *CandleSeries) Latest() (Candle, bool) {
	if s.Empty() {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// LastClosed returns the most recent fully closed bar (index -2).
func (s *CandleSeries) LastClosed() (Candle, bool) {
	if s == nil || len(s.Candles) < 2 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-2], true
}

// PrevClosed returns the bar before the last closed one (index -3).
func (s *CandleSeries) PrevClosed() (Candle, bool) {
	if s == nil || len(s.Candles) < 3 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-3], true
}

// Closes returns the close prices of every bar in order.
func (s *CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Highs returns the high prices of every bar in order.
func (s *CandleSeries) Highs() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.High
	}
	return out
}

// Lows returns the low prices of every bar in order.
func (s *CandleSeries) Lows() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Low
	}
	return out
}

// Tail returns the last n bars (all bars when the series is shorter).
func (s *CandleSeries) Tail(n int) []Candle {
	if n >= len(s.Candles) {
		return s.Candles
	}
	return s.Candles[len(s.Candles)-n:]
}

// ResampleTo4H aggregates an hourly series into 4-hour buckets aligned to
// midnight UTC. Open comes from the first bar of a bucket, close from the
// last, high/low are the extremes and volume is summed.
func (s *CandleSeries) ResampleTo4H() *CandleSeries {
	out := &CandleSeries{Symbol: s.Symbol, Interval: "4h"}
	if s.Empty() {
		return out
	}

	bucketOf := func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), (t.Hour()/4)*4, 0, 0, 0, time.UTC)
	}

	var cur Candle
	var curBucket time.Time
	started := false

	for _, c := range s.Candles {
		b := bucketOf(c.Time)
		if !started || !b.Equal(curBucket) {
			if started {
				out.Candles = append(out.Candles, cur)
			}
			curBucket = b
			cur = Candle{Time: b, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume}
			started = true
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	if started {
		out.Candles = append(out.Candles, cur)
	}
	return out
}
