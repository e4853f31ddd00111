package usecase

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"biasbuster-backend/internal/domain"
)

var (
	istOnce sync.Once
	istLoc  *time.Location
)

func istLocation() *time.Location {
	istOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Kolkata")
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		istLoc = loc
	})
	return istLoc
}

// sessionGated reports whether the category only trades during the NSE
// cash session.
func sessionGated(category domain.Category) bool {
	switch category {
	case domain.CategoryIntradayIndian, domain.CategoryNSEFutures:
		return true
	}
	return false
}

// InSession reports whether entries are allowed for the category at the
// given instant. Non-Indian categories trade around the clock.
func InSession(category domain.Category, now time.Time) bool {
	if !sessionGated(category) {
		return true
	}
	t := now.In(istLocation())
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return mins >= 9*60+15 && mins <= 15*60+30
}

// DefaultPremarketWindow spans the 09:15 open through 10:30 IST.
const DefaultPremarketWindow = 75 * time.Minute

// InPremarketWindow reports whether the instant falls within the given
// span after the 09:15 IST open.
func InPremarketWindow(now time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	t := now.In(istLocation())
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	open := 9*60 + 15
	return mins >= open && mins < open+int(window.Minutes())
}

// InORBWindow reports whether the instant falls inside the opening range
// build window, 09:15 to 09:30 IST.
func InORBWindow(now time.Time) bool {
	t := now.In(istLocation())
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return mins >= 9*60+15 && mins < 9*60+30
}

// OpeningRange is one instrument's first-15-minute range for a session day.
type OpeningRange struct {
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Volume   float64 `json:"volume"`
	Breakout string  `json:"breakout,omitempty"` // UP or DOWN, set once
}

// rangePct is the minimum opening range width, as a fraction of the low,
// for a breakout to mean anything.
const minRangePct = 0.002

// OpeningRangeTracker accumulates opening ranges per instrument per day and
// flags the first breakout. State is persisted so a restart mid-session
// does not re-signal.
type OpeningRangeTracker struct {
	mu     sync.Mutex
	path   string
	ranges map[string]*OpeningRange // key: day|instrument
}

func NewOpeningRangeTracker(path string) *OpeningRangeTracker {
	t := &OpeningRangeTracker{path: path, ranges: make(map[string]*OpeningRange)}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &t.ranges); err != nil {
			log.Printf("[ORB] Corrupt state file %s, starting fresh: %v", path, err)
			t.ranges = make(map[string]*OpeningRange)
		}
	}
	return t
}

func orbKey(day, instrument string) string {
	return day + "|" + instrument
}

// Observe folds a price/volume observation into today's range while the
// build window is open.
func (t *OpeningRangeTracker) Observe(instrument string, price, volume float64, now time.Time) {
	if !InORBWindow(now) {
		return
	}
	day := now.In(istLocation()).Format("2006-01-02")

	t.mu.Lock()
	defer t.mu.Unlock()
	key := orbKey(day, instrument)
	r, ok := t.ranges[key]
	if !ok {
		t.ranges[key] = &OpeningRange{High: price, Low: price, Volume: volume}
		t.persist()
		return
	}
	if price > r.High {
		r.High = price
	}
	if price < r.Low {
		r.Low = price
	}
	r.Volume += volume
	t.persist()
}

// Breakout returns "UP" or "DOWN" the first time price leaves today's
// completed opening range, and "" otherwise. The range must be at least
// minRangePct wide and the build window must be over.
func (t *OpeningRangeTracker) Breakout(instrument string, price float64, now time.Time) string {
	if InORBWindow(now) {
		return ""
	}
	day := now.In(istLocation()).Format("2006-01-02")

	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.ranges[orbKey(day, instrument)]
	if !ok || r.Breakout != "" {
		return ""
	}
	if r.Low <= 0 || (r.High-r.Low)/r.Low < minRangePct {
		return ""
	}
	switch {
	case price > r.High:
		r.Breakout = "UP"
	case price < r.Low:
		r.Breakout = "DOWN"
	default:
		return ""
	}
	t.persist()
	return r.Breakout
}

// Range returns today's opening range for the instrument, if recorded.
func (t *OpeningRangeTracker) Range(instrument string, now time.Time) (OpeningRange, bool) {
	day := now.In(istLocation()).Format("2006-01-02")
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.ranges[orbKey(day, instrument)]
	if !ok {
		return OpeningRange{}, false
	}
	return *r, true
}

// Cleanup drops entries older than seven days.
func (t *OpeningRangeTracker) Cleanup(now time.Time) {
	cutoff := now.In(istLocation()).AddDate(0, 0, -7).Format("2006-01-02")
	t.mu.Lock()
	defer t.mu.Unlock()
	changed := false
	for key := range t.ranges {
		if day := key[:len("2006-01-02")]; day < cutoff {
			delete(t.ranges, key)
			changed = true
		}
	}
	if changed {
		t.persist()
	}
}

// persist writes state atomically. Caller holds the lock.
func (t *OpeningRangeTracker) persist() {
	if t.path == "" {
		return
	}
	data, err := json.MarshalIndent(t.ranges, "", "  ")
	if err != nil {
		log.Printf("[ORB] Marshal state: %v", err)
		return
	}
	tmp := fmt.Sprintf("%s.tmp", t.path)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("[ORB] Write state: %v", err)
		return
	}
	if err := os.Rename(tmp, t.path); err != nil {
		log.Printf("[ORB] Replace state: %v", err)
	}
}

// VolumeConfirmed reports whether the last closed bar's volume is at least
// multiple times the trailing average over window bars. Series without
// volume data confirm trivially.
func VolumeConfirmed(series *domain.CandleSeries, window int, multiple float64) bool {
	if series == nil || series.Len() < window+2 {
		return true
	}
	last := series.Candles[series.Len()-2]
	if last.Volume == 0 {
		return true
	}
	var sum float64
	n := 0
	for i := series.Len() - 2 - window; i < series.Len()-2; i++ {
		sum += series.Candles[i].Volume
		n++
	}
	if n == 0 || sum == 0 {
		return true
	}
	return last.Volume >= multiple*(sum/float64(n))
}
