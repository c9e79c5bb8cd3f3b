package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pren-systems/pren-lite/internal/repository"
)

// Service is a tiny façade over the signal repository that produces XLSX
// bytes for analyst exports.
type Service struct {
	signals repository.SignalRepository
	logger  *slog.Logger
}

func NewService(signals repository.SignalRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{signals: signals, logger: logger}
}

// ExportSignalsXLSX returns an XLSX workbook with one row per persisted
// signal record for the given city.
func (s *Service) ExportSignalsXLSX(ctx context.Context, city string) ([]byte, error) {
	start := time.Now()

	recs, err := s.signals.ListByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Signals"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document",
		"Sequence",
		"Document Type",
		"City",
		"Signal Type",
		"Description",
		"Impact",
		"Confidence",
		"Location Hint",
		"Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.DocKey)
		write(2, r.Seq)
		write(3, string(r.DocType))
		write(4, r.City)
		write(5, string(r.SignalType))
		write(6, r.Description)
		write(7, string(r.Impact))
		write(8, r.Confidence)
		write(9, r.LocationHint)
		write(10, r.CreatedAt.UTC().Format(time.RFC3339))
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("signals export complete",
		"city", city,
		"rows", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
