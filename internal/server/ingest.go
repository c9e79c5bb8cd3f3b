package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pren-systems/pren-lite/internal/async"
	"github.com/pren-systems/pren-lite/internal/entity"
)

// HandleIngest serves POST /ingest: validates the document reference and
// queues it for asynchronous processing.
func (s *Server) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var doc entity.DocumentRef
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid JSON body",
			"example": `{"s3_key":"pdfs/plu_paris_zone1.pdf","doc_type":"zoning","city":"Paris"}`,
		})
		return
	}
	if doc.Key == "" {
		writeError(w, http.StatusBadRequest, map[string]any{
			"error":   "s3_key required",
			"example": `{"s3_key":"pdfs/plu_paris_zone1.pdf","doc_type":"zoning","city":"Paris"}`,
		})
		return
	}
	if doc.DocType == "" {
		doc.DocType = "unknown"
	}
	if doc.City == "" {
		doc.City = "Paris"
	}

	if s.queue == nil {
		writeError(w, http.StatusInternalServerError, map[string]any{
			"error": "ingest queue not configured",
		})
		return
	}

	traceID := uuid.New().String()
	_ = s.queue.Enqueue(r.Context(), async.Job{
		Doc:         doc,
		SubmittedAt: time.Now().UTC(),
		TraceID:     traceID,
	})

	writeJSON(w, http.StatusAccepted, map[string]any{
		"ok":       true,
		"queued":   doc.Key,
		"trace_id": traceID,
	})
}

// HandleExport serves GET /signals/export: an XLSX workbook of persisted
// signal records for one city.
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, map[string]any{
			"error":   "city required",
			"example": "/signals/export?city=Paris",
		})
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusInternalServerError, map[string]any{
			"error": "export service not configured",
		})
		return
	}

	b, err := s.exporter.ExportSignalsXLSX(r.Context(), city)
	if err != nil {
		s.logger.Error("signals export failed", "city", city, "error", err)
		writeError(w, http.StatusInternalServerError, map[string]any{
			"error": "export failed",
		})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="signals_`+city+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
