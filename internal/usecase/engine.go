package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"biasbuster-backend/internal/domain"
)

// timeframePlan maps a category onto the three fetches one evaluation
// needs. Intraday categories compress everything onto intraday bars; the
// rest anchor the trend on dailies.
type timeframePlan struct {
	TrendInterval, TrendRange string
	TrendResample4H           bool
	TrendLabel                string

	MomentumInterval, MomentumRange string
	MomentumResample4H              bool
	MomentumSharesTrendFetch        bool
	MomentumLabel                   string

	EntryInterval, EntryRange string
	EntryLabel                string
}

func planForCategory(category domain.Category) timeframePlan {
	switch category {
	case domain.CategoryIntradayIndian, domain.CategoryCryptoScalping, domain.CategoryNSEFutures:
		return timeframePlan{
			TrendInterval: "1h", TrendRange: "1y", TrendResample4H: true, TrendLabel: "4H Trend",
			MomentumInterval: "1h", MomentumRange: "1y", MomentumSharesTrendFetch: true, MomentumLabel: "1H MOM",
			EntryInterval: "15m", EntryRange: "30d", EntryLabel: "15m Entry",
		}
	default:
		return timeframePlan{
			TrendInterval: "1d", TrendRange: "2y", TrendLabel: "Daily",
			MomentumInterval: "1h", MomentumRange: "1y", MomentumResample4H: true, MomentumLabel: "4H MOM",
			EntryInterval: "1h", EntryRange: "30d", EntryLabel: "1H Entry",
		}
	}
}

// Overall status labels published per instrument.
const (
	StatusWaiting        = "WAITING"
	StatusLookingForBuy  = "LOOKING_FOR_BUY"
	StatusLookingForSell = "LOOKING_FOR_SELL"
	StatusActiveBuy      = "ACTIVE_BUY"
	StatusActiveSell     = "ACTIVE_SELL"
	StatusConflict       = "CONFLICT"
)

// EngineOptions wires the engine's collaborators and tuning.
type EngineOptions struct {
	Fetcher      Fetcher
	Positions    domain.PositionStore
	History      domain.HistoryRepository
	Snapshots    domain.SnapshotRepository
	Notifier     *Notifier
	Premarket    *PremarketService
	ORB          *OpeningRangeTracker
	Instruments  []domain.InstrumentSpec
	Trailing     TrailingConfig
	Reentry      ReentryConfig
	SnapshotFile string
	PollInterval time.Duration

	// span after the 09:15 IST open during which the overnight sentiment
	// still gates NSE futures entries
	PremarketWindow time.Duration
}

// Engine runs the evaluation loop: fetch, classify, advance position
// lifecycles and publish one snapshot document per cycle.
type Engine struct {
	fetcher      Fetcher
	positions    domain.PositionStore
	history      domain.HistoryRepository
	snapshots    domain.SnapshotRepository
	notifier     *Notifier
	premarket    *PremarketService
	orb          *OpeningRangeTracker
	instruments  []domain.InstrumentSpec
	trail        TrailingConfig
	reentryCfg   ReentryConfig
	snapshotFile string
	interval     time.Duration
	premarketWin time.Duration
	now          func() time.Time

	// last re-entry level alerted per instrument, so a persisting
	// opportunity fires one notification, not one per cycle
	reentryAlerted map[string]string
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.PremarketWindow <= 0 {
		opts.PremarketWindow = DefaultPremarketWindow
	}
	return &Engine{
		fetcher:        opts.Fetcher,
		positions:      opts.Positions,
		history:        opts.History,
		snapshots:      opts.Snapshots,
		notifier:       opts.Notifier,
		premarket:      opts.Premarket,
		orb:            opts.ORB,
		instruments:    opts.Instruments,
		trail:          opts.Trailing,
		reentryCfg:     opts.Reentry,
		snapshotFile:   opts.SnapshotFile,
		interval:       opts.PollInterval,
		premarketWin:   opts.PremarketWindow,
		now:            time.Now,
		reentryAlerted: make(map[string]string),
	}
}

// Run executes cycles on the poll interval until the context is cancelled.
// The first cycle runs immediately.
func (e *Engine) Run(ctx context.Context) {
	log.Printf("[Engine] Starting, %d instruments, interval %s", len(e.instruments), e.interval)
	e.RunCycle()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Engine] Stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			e.RunCycle()
		}
	}
}

// RunCycle evaluates every instrument once and publishes the snapshot
// document. A panic in one instrument is contained to that instrument.
func (e *Engine) RunCycle() {
	start := e.now()
	results := make([]domain.InstrumentSnapshot, 0, len(e.instruments))

	for _, spec := range e.instruments {
		snap := e.evaluateSafe(spec, start)
		results = append(results, snap)
	}

	if e.orb != nil {
		e.orb.Cleanup(start)
	}

	doc := domain.SnapshotDocument{
		LastUpdated: start,
		Heartbeat:   e.now().Format(time.RFC3339),
		Data:        results,
	}
	e.snapshots.Save(doc)
	e.publishSnapshotFile(doc)

	log.Printf("[Engine] Cycle done in %s, %d instruments, %d open positions",
		time.Since(start).Round(time.Millisecond), len(results), e.positions.Count())
}

func (e *Engine) evaluateSafe(spec domain.InstrumentSpec, now time.Time) (snap domain.InstrumentSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] Panic evaluating %s: %v", spec.Name, r)
			snap = e.waitingSnapshot(spec, now)
		}
	}()
	return e.evaluate(spec, now)
}

func (e *Engine) waitingSnapshot(spec domain.InstrumentSpec, now time.Time) domain.InstrumentSnapshot {
	plan := planForCategory(spec.Category)
	return domain.InstrumentSnapshot{
		Instrument:    spec.Name,
		Flag:          spec.Flag,
		Category:      spec.Category,
		OverallStatus: StatusWaiting,
		Trend:         domain.TrendReading{Bias: domain.BiasNeutral, Label: plan.TrendLabel},
		Momentum:      domain.MomentumReading{Bias: domain.BiasNeutral, Label: plan.MomentumLabel},
		Entry:         domain.EntryReading{Status: domain.EventNoDirection, Label: plan.EntryLabel},
		Position:      e.positions.Get(spec.Name),
		Timestamp:     now,
	}
}

func (e *Engine) evaluate(spec domain.InstrumentSpec, now time.Time) domain.InstrumentSnapshot {
	plan := planForCategory(spec.Category)

	trendSeries := e.fetcher.FetchSeries(spec.Symbol, plan.TrendInterval, plan.TrendRange)
	momSeries := trendSeries
	if !plan.MomentumSharesTrendFetch {
		momSeries = e.fetcher.FetchSeries(spec.Symbol, plan.MomentumInterval, plan.MomentumRange)
	}
	entrySeries := e.fetcher.FetchSeries(spec.Symbol, plan.EntryInterval, plan.EntryRange)

	if plan.TrendResample4H {
		trendSeries = trendSeries.ResampleTo4H()
	}
	if plan.MomentumResample4H {
		momSeries = momSeries.ResampleTo4H()
	}

	trendSnap, trendOK := BuildSnapshot(trendSeries, true, false, false)
	momSnap, momOK := BuildSnapshot(momSeries, false, false, false)
	entrySnap, entryOK := BuildSnapshot(entrySeries, true, true, true)
	if !trendOK || !momOK || !entryOK {
		log.Printf("[Engine] %s: insufficient data (trend=%t momentum=%t entry=%t)", spec.Name, trendOK, momOK, entryOK)
		return e.waitingSnapshot(spec, now)
	}

	latest, _ := entrySeries.Latest()
	price := SanitizePrice(latest.Close, entrySnap.Close, spec.Category)
	candleTime := latest.Time

	if e.orb != nil && sessionGated(spec.Category) {
		e.orb.Observe(spec.Name, price, latest.Volume, now)
	}

	trendBias := ClassifyTrend(trendSnap, spec.Profile)
	momBias := ClassifyMomentum(momSnap, spec.Profile)
	entryEvent := DetectEntryEvent(entrySnap)
	filters := EvaluateEntryFilters(entrySnap, spec.Profile)
	bias := BiasState{Trend: trendBias, Momentum: momBias, Entry: entryEvent}

	var contract *domain.ContractInfo
	if spec.DynamicContract {
		contract = ActiveContract(spec, now)
	}

	pos := e.positions.Get(spec.Name)
	closedThisCycle := false

	if pos != nil {
		next, events := EvaluatePosition(pos, price, bias, e.trail, now)
		for _, ev := range events {
			e.recordEvent(spec, pos, ev)
		}
		if next == nil {
			if err := e.positions.Delete(spec.Name); err != nil {
				log.Printf("[Engine] %s: delete position: %v", spec.Name, err)
			}
			delete(e.reentryAlerted, spec.Name)
			pos = nil
			closedThisCycle = true
		} else {
			if len(events) > 0 || next.Lifecycle != pos.Lifecycle {
				if err := e.positions.Set(spec.Name, next); err != nil {
					log.Printf("[Engine] %s: save position: %v", spec.Name, err)
				}
			}
			pos = next
		}
	}

	// A close and a fresh open never share a cycle.
	if pos == nil && !closedThisCycle {
		if dir, ok := e.entrySignal(spec, bias, filters, entrySnap, entrySeries, now); ok {
			pos = OpenPosition(spec, dir, price, entrySnap.ATR, now, candleTime)
			if err := e.positions.Set(spec.Name, pos); err != nil {
				log.Printf("[Engine] %s: save position: %v", spec.Name, err)
			}
			e.recordEvent(spec, pos, LifecycleEvent{Kind: domain.EventEntry, Price: price, Time: now})
		}
	}

	var reentry *domain.ReentryOpportunity
	if pos != nil {
		reentry = e.applyReentry(spec, pos, entrySeries, entrySnap, price)
	}

	return domain.InstrumentSnapshot{
		Instrument: spec.Name,
		Flag:       spec.Flag,
		Price:      price,
		Trend: domain.TrendReading{
			MACDLine: trendSnap.MACDLine,
			Bias:     trendBias,
			Label:    plan.TrendLabel,
		},
		Momentum: domain.MomentumReading{
			Histogram: momSnap.Histogram,
			Bias:      momBias,
			Label:     plan.MomentumLabel,
		},
		Entry: domain.EntryReading{
			Histogram: entrySnap.Histogram,
			Status:    entryEvent,
			Close:     entrySnap.Close,
			Label:     plan.EntryLabel,
			EMA200:    entrySnap.EMA200,
			RSI:       entrySnap.RSI,
		},
		OverallStatus: overallStatus(pos, trendBias, momBias),
		Position:      pos,
		Reentry:       reentry,
		Contract:      contract,
		Category:      spec.Category,
		Timestamp:     now,
	}
}

// applyReentry scores a pullback scale-in for the open position and keeps
// the position's lifecycle label in step with it. A persisting opportunity
// alerts once per fib level.
func (e *Engine) applyReentry(spec domain.InstrumentSpec, pos *domain.Position, series *domain.CandleSeries, snap *domain.IndicatorSnapshot, price float64) *domain.ReentryOpportunity {
	opp := ScoreReentry(pos, series, snap, price, spec.PipSize, e.reentryCfg)

	if lc := reentryLifecycle(pos, opp); lc != pos.Lifecycle {
		pos.Lifecycle = lc
		if err := e.positions.Set(spec.Name, pos); err != nil {
			log.Printf("[Engine] %s: save position: %v", spec.Name, err)
		}
	}

	if opp != nil && e.reentryAlerted[spec.Name] != opp.FibLevel {
		e.reentryAlerted[spec.Name] = opp.FibLevel
		e.notifier.NotifyReentry(spec, opp)
	}
	return opp
}

// reentryLifecycle maps a scored opportunity onto the position's lifecycle
// label. When the opportunity lapses the label falls back to whatever the
// ladder state implies.
func reentryLifecycle(pos *domain.Position, opp *domain.ReentryOpportunity) domain.LifecycleStatus {
	if opp != nil {
		return domain.LifecycleReentryReady
	}
	if pos.Lifecycle != domain.LifecycleReentryReady {
		return pos.Lifecycle
	}
	switch {
	case pos.Trailing():
		return domain.LifecycleTrailingSL
	case pos.TPHits[0]:
		return domain.LifecyclePartialTP
	}
	return domain.LifecycleActive
}

// entrySignal decides whether a fresh position opens this cycle.
func (e *Engine) entrySignal(spec domain.InstrumentSpec, bias BiasState, filters EntryFilters, entrySnap *domain.IndicatorSnapshot, entrySeries *domain.CandleSeries, now time.Time) (domain.Direction, bool) {
	if !InSession(spec.Category, now) {
		return "", false
	}

	longSetup := bias.Trend == domain.BiasBullish && bias.Momentum == domain.BiasBullish &&
		FreshLongTrigger(bias.Entry, entrySnap) && filters.LongOK()
	shortSetup := bias.Trend == domain.BiasBearish && bias.Momentum == domain.BiasBearish &&
		FreshShortTrigger(bias.Entry, entrySnap) && filters.ShortOK()
	if !longSetup && !shortSetup {
		return "", false
	}

	dir := domain.DirectionBuy
	if shortSetup {
		dir = domain.DirectionSell
	}

	// NSE index futures carry extra confirmation: volume, the opening
	// range and the overnight global sentiment.
	if spec.Category == domain.CategoryNSEFutures {
		if !VolumeConfirmed(entrySeries, 20, 1.2) {
			log.Printf("[Engine] %s: entry skipped, no volume confirmation", spec.Name)
			return "", false
		}
		if e.orb != nil {
			price := entrySnap.Close
			if latest, ok := entrySeries.Latest(); ok {
				price = latest.Close
			}
			// Breakout records a fresh break as a side effect; Range then
			// reflects the session's breakout state either way.
			e.orb.Breakout(spec.Name, price, now)
			r, recorded := e.orb.Range(spec.Name, now)
			if recorded && r.Breakout == "" {
				log.Printf("[Engine] %s: entry skipped, price inside opening range", spec.Name)
				return "", false
			}
			if wantUp := dir == domain.DirectionBuy; recorded && r.Breakout != "" && (r.Breakout == "UP") != wantUp {
				log.Printf("[Engine] %s: entry skipped, opening range broke %s", spec.Name, r.Breakout)
				return "", false
			}
		}
		// The overnight reading is only meaningful early in the session; by
		// mid-session the market has priced it in.
		if e.premarket != nil && InPremarketWindow(now, e.premarketWin) {
			if report := e.premarket.Report(); !report.FavorsDirection(dir) {
				log.Printf("[Engine] %s: entry skipped, premarket sentiment %s", spec.Name, report.Sentiment)
				return "", false
			}
		}
	}

	return dir, true
}

// recordEvent appends the lifecycle event to history and pushes the alert.
// Terminal events carry realized trade metrics.
func (e *Engine) recordEvent(spec domain.InstrumentSpec, pos *domain.Position, ev LifecycleEvent) {
	record := domain.HistoryEvent{
		Instrument: spec.Name,
		Event:      ev.Kind,
		Price:      ev.Price,
		Time:       ev.Time,
		Category:   spec.Category,
		Direction:  pos.Type,
	}
	if ev.Kind != domain.EventEntry {
		entryPrice, entryTime, initialSL := pos.EntryPrice, pos.Time, pos.SL
		record.EntryPrice = &entryPrice
		record.EntryTime = &entryTime
		record.InitialSL = &initialSL
	}
	if ev.Kind.Terminal() {
		metrics := CloseMetrics(pos, ev.Price, spec.PipSize, ev.Time)
		record.Metrics = &metrics
	}

	if err := e.history.Append(record); err != nil {
		log.Printf("[Engine] %s: append history: %v", spec.Name, err)
	}
	e.notifier.Notify(spec, ev.Kind, pos, ev.Price)
	log.Printf("[Engine] %s: %s at %g", spec.Name, ev.Kind, ev.Price)
}

func overallStatus(pos *domain.Position, trend, momentum domain.Bias) string {
	if pos != nil {
		if pos.Type == domain.DirectionBuy {
			return StatusActiveBuy
		}
		return StatusActiveSell
	}
	switch {
	case trend == domain.BiasBullish && momentum == domain.BiasBullish:
		return StatusLookingForBuy
	case trend == domain.BiasBearish && momentum == domain.BiasBearish:
		return StatusLookingForSell
	case trend != domain.BiasNeutral && momentum != domain.BiasNeutral && trend != momentum:
		return StatusConflict
	}
	return StatusWaiting
}

// publishSnapshotFile mirrors the latest document to disk so position
// recovery has something to read after a wipe.
func (e *Engine) publishSnapshotFile(doc domain.SnapshotDocument) {
	if e.snapshotFile == "" {
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Printf("[Engine] Marshal snapshot: %v", err)
		return
	}
	tmp := fmt.Sprintf("%s.tmp", e.snapshotFile)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("[Engine] Write snapshot: %v", err)
		return
	}
	if err := os.Rename(tmp, e.snapshotFile); err != nil {
		log.Printf("[Engine] Replace snapshot: %v", err)
	}
}
