package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Bootstrap creates the store tables if they do not exist. It is idempotent
// and safe to run on every startup. The scoring process owns zone_scores'
// contents; this service only guarantees the table shape.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_records (
			doc_key       TEXT NOT NULL,
			seq           TEXT NOT NULL,
			doc_type      TEXT NOT NULL,
			city          TEXT NOT NULL,
			signal_type   TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			impact        TEXT NOT NULL,
			confidence    TEXT NOT NULL,
			location_hint TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (doc_key, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS signal_records_city_idx ON signal_records (city)`,
		`CREATE TABLE IF NOT EXISTS zone_scores (
			zone_id             TEXT PRIMARY KEY,
			city                TEXT,
			future_value_score  DOUBLE PRECISION,
			momentum            TEXT,
			confidence          DOUBLE PRECISION,
			data_freshness_days DOUBLE PRECISION,
			top_signals         TEXT,
			updated_at          TIMESTAMPTZ
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Error("schema bootstrap failed", "error", err)
			return err
		}
	}
	logger.Info("schema bootstrap complete")
	return nil
}
