package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/entity"
)

// SignalRepository persists and reads normalized signal records.
type SignalRepository interface {
	// StoreBatch writes at most MaxSignalsPerDoc records for the document,
	// best-effort per record, and returns the count actually written.
	StoreBatch(ctx context.Context, doc entity.DocumentRef, batch entity.SignalBatch) int
	ListByDocument(ctx context.Context, docKey string) ([]entity.SignalRecord, error)
	ListByCity(ctx context.Context, city string) ([]entity.SignalRecord, error)
}

type signalRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSignalRepository(pool *pgxpool.Pool, logger *slog.Logger) SignalRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &signalRepository{pool: pool, logger: logger}
}

// BuildRecords normalizes a batch into persistable records: the batch is
// truncated to MaxSignalsPerDoc, sequence keys are zero-padded so records
// sort and overwrite deterministically, and confidence becomes a decimal
// string so the store never sees float drift. A missing confidence defaults
// to 0.5 (advisory value, matching the historical records).
func BuildRecords(doc entity.DocumentRef, batch entity.SignalBatch, now time.Time) []entity.SignalRecord {
	signals := batch.Signals
	if len(signals) > constants.MaxSignalsPerDoc {
		signals = signals[:constants.MaxSignalsPerDoc]
	}

	records := make([]entity.SignalRecord, 0, len(signals))
	for i, sig := range signals {
		confidence := "0.5"
		if sig.Confidence != nil {
			confidence = strconv.FormatFloat(*sig.Confidence, 'f', -1, 64)
		}
		records = append(records, entity.SignalRecord{
			DocKey:       doc.Key,
			Seq:          fmt.Sprintf("SIGNAL#%03d", i),
			DocType:      constants.ParseDocType(doc.DocType),
			City:         doc.City,
			SignalType:   constants.CanonicalSignalType(sig.Type),
			Description:  sig.Description,
			Impact:       constants.CanonicalImpact(sig.Impact),
			Confidence:   confidence,
			LocationHint: sig.LocationHint,
			CreatedAt:    now,
		})
	}
	return records
}

const upsertSignalSQL = `
INSERT INTO signal_records
	(doc_key, seq, doc_type, city, signal_type, description, impact, confidence, location_hint, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (doc_key, seq) DO UPDATE SET
	doc_type = EXCLUDED.doc_type,
	city = EXCLUDED.city,
	signal_type = EXCLUDED.signal_type,
	description = EXCLUDED.description,
	impact = EXCLUDED.impact,
	confidence = EXCLUDED.confidence,
	location_hint = EXCLUDED.location_hint,
	created_at = EXCLUDED.created_at`

type rowExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *signalRepository) StoreBatch(ctx context.Context, doc entity.DocumentRef, batch entity.SignalBatch) int {
	records := BuildRecords(doc, batch, time.Now().UTC())
	stored := storeRecords(ctx, r.pool, records, r.logger)

	r.logger.Info("signal batch stored",
		"doc_key", doc.Key,
		"batch_signals", len(batch.Signals),
		"stored", stored,
	)
	return stored
}

func storeRecords(ctx context.Context, db rowExecer, records []entity.SignalRecord, logger *slog.Logger) int {
	stored := 0
	for _, rec := range records {
		_, err := db.Exec(ctx, upsertSignalSQL,
			rec.DocKey, rec.Seq, string(rec.DocType), rec.City, string(rec.SignalType),
			rec.Description, string(rec.Impact), rec.Confidence, rec.LocationHint, rec.CreatedAt,
		)
		if err != nil {
			// Best-effort per record: log, skip, keep writing the rest.
			logger.Error("signal write failed", "doc_key", rec.DocKey, "seq", rec.Seq, "error", err)
			continue
		}
		stored++
	}
	return stored
}

const selectSignalSQL = `
SELECT doc_key, seq, doc_type, city, signal_type, description, impact, confidence, location_hint, created_at
FROM signal_records`

func (r *signalRepository) ListByDocument(ctx context.Context, docKey string) ([]entity.SignalRecord, error) {
	rows, err := r.pool.Query(ctx, selectSignalSQL+` WHERE doc_key = $1 ORDER BY seq`, docKey)
	if err != nil {
		r.logger.Error("failed to list signals", "doc_key", docKey, "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *signalRepository) ListByCity(ctx context.Context, city string) ([]entity.SignalRecord, error) {
	rows, err := r.pool.Query(ctx, selectSignalSQL+` WHERE city = $1 ORDER BY doc_key, seq`, city)
	if err != nil {
		r.logger.Error("failed to list signals", "city", city, "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]entity.SignalRecord, error) {
	var out []entity.SignalRecord
	for rows.Next() {
		var rec entity.SignalRecord
		var docType, signalType, impact string
		if err := rows.Scan(&rec.DocKey, &rec.Seq, &docType, &rec.City, &signalType,
			&rec.Description, &impact, &rec.Confidence, &rec.LocationHint, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.DocType = constants.DocType(docType)
		rec.SignalType = constants.SignalType(signalType)
		rec.Impact = constants.Impact(impact)
		out = append(out, rec)
	}
	return out, rows.Err()
}
