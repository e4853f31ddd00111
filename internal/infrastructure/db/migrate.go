package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists signal_history_events (
			id bigserial primary key,
			instrument text not null,
			event text not null,
			price double precision not null,
			occurred_at timestamptz not null,
			category text not null default '',
			direction text not null default '',
			entry_price double precision null,
			entry_time timestamptz null,
			initial_sl double precision null,
			profit_pips double precision null,
			profit_percent double precision null,
			duration_seconds int null,
			risk_reward double precision null
		);`,
		`create index if not exists signal_history_events_time_idx on signal_history_events(occurred_at desc);`,
		`create index if not exists signal_history_events_instrument_idx on signal_history_events(instrument, occurred_at desc);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
