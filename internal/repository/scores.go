package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/entity"
)

// ScoreRepository reads precomputed zone scores. The records are produced by
// an external scoring process; this service never writes them.
type ScoreRepository interface {
	GetByZone(ctx context.Context, zoneID string) (*entity.ZoneScore, error)
}

type scoreRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewScoreRepository(pool *pgxpool.Pool, logger *slog.Logger) ScoreRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &scoreRepository{pool: pool, logger: logger}
}

func (r *scoreRepository) GetByZone(ctx context.Context, zoneID string) (*entity.ZoneScore, error) {
	const q = `
SELECT zone_id, city, future_value_score, momentum, confidence, data_freshness_days, top_signals, updated_at
FROM zone_scores
WHERE zone_id = $1`

	var z entity.ZoneScore
	var city, topSignals *string
	err := r.pool.QueryRow(ctx, q, zoneID).Scan(
		&z.ZoneID, &city, &z.FutureValueScore, &z.Momentum,
		&z.Confidence, &z.DataFreshnessDays, &topSignals, &z.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("SCORE_NOT_FOUND", "no score found for zone "+zoneID, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to read zone score", "zone_id", zoneID, "error", err)
		return nil, common.WrapError(err, "query zone score")
	}

	z.City = "Paris"
	if city != nil && *city != "" {
		z.City = *city
	}
	if topSignals != nil {
		z.TopSignals = *topSignals
	}
	return &z, nil
}
