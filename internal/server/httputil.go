package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// IntendedUse is returned on every read-path response, including errors.
const IntendedUse = "For planning & risk management; not for discriminatory decisions or speculative targeting."

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["intended_use"] = IntendedUse
	writeJSON(w, status, fields)
}
