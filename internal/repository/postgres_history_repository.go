package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"biasbuster-backend/internal/domain"
)

// PostgresHistoryRepository stores lifecycle events in Postgres. Query
// failures fail soft with an empty result so the dashboard keeps serving.
type PostgresHistoryRepository struct {
	pool      *pgxpool.Pool
	maxEvents int
}

func NewPostgresHistoryRepository(pool *pgxpool.Pool, maxEvents int) *PostgresHistoryRepository {
	if maxEvents <= 0 {
		maxEvents = 100
	}
	return &PostgresHistoryRepository{pool: pool, maxEvents: maxEvents}
}

func (r *PostgresHistoryRepository) Append(event domain.HistoryEvent) error {
	var profitPips, profitPct, riskReward *float64
	var durationSeconds *int
	if event.Metrics != nil {
		profitPips = &event.Metrics.ProfitPips
		profitPct = &event.Metrics.ProfitPercent
		durationSeconds = &event.Metrics.DurationSeconds
		riskReward = &event.Metrics.RiskReward
	}

	_, err := r.pool.Exec(context.Background(), `
		insert into signal_history_events(
			instrument, event, price, occurred_at, category, direction,
			entry_price, entry_time, initial_sl,
			profit_pips, profit_percent, duration_seconds, risk_reward
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		event.Instrument,
		string(event.Event),
		event.Price,
		event.Time,
		string(event.Category),
		string(event.Direction),
		event.EntryPrice,
		event.EntryTime,
		event.InitialSL,
		profitPips,
		profitPct,
		durationSeconds,
		riskReward,
	)
	if err != nil {
		return err
	}

	// Keep the table bounded like the file log.
	_, err = r.pool.Exec(context.Background(), `
		delete from signal_history_events
		where id not in (
			select id from signal_history_events order by occurred_at desc limit $1
		)
	`, r.maxEvents)
	return err
}

func (r *PostgresHistoryRepository) Recent(limit int) []domain.HistoryEvent {
	if limit <= 0 || limit > r.maxEvents {
		limit = r.maxEvents
	}

	rows, err := r.pool.Query(context.Background(), `
		select instrument, event, price, occurred_at, category, direction,
			entry_price, entry_time, initial_sl,
			profit_pips, profit_percent, duration_seconds, risk_reward
		from signal_history_events
		order by occurred_at desc
		limit $1
	`, limit)
	if err != nil {
		return []domain.HistoryEvent{}
	}
	defer rows.Close()

	events := make([]domain.HistoryEvent, 0, limit)
	for rows.Next() {
		var (
			e               domain.HistoryEvent
			eventKind       string
			category        string
			direction       string
			occurredAt      time.Time
			profitPips      *float64
			profitPct       *float64
			durationSeconds *int
			riskReward      *float64
		)
		if scanErr := rows.Scan(
			&e.Instrument, &eventKind, &e.Price, &occurredAt, &category, &direction,
			&e.EntryPrice, &e.EntryTime, &e.InitialSL,
			&profitPips, &profitPct, &durationSeconds, &riskReward,
		); scanErr != nil {
			continue
		}
		e.Event = domain.EventKind(eventKind)
		e.Category = domain.Category(category)
		e.Direction = domain.Direction(direction)
		e.Time = occurredAt
		if profitPips != nil && profitPct != nil && durationSeconds != nil && riskReward != nil {
			e.Metrics = &domain.TradeMetrics{
				ProfitPips:      *profitPips,
				ProfitPercent:   *profitPct,
				DurationSeconds: *durationSeconds,
				RiskReward:      *riskReward,
			}
		}
		events = append(events, e)
	}
	return events
}
