package handler

import (
	"encoding/json"
	"net/http"

	"facewatch/internal/dto"
	"facewatch/internal/logger"
)

// CountsProvider exposes the live counts of the running session.
type CountsProvider interface {
	Counts() dto.CountsData
}

// CountsHandler returns the current blink, mouth and eyebrow counts.
func CountsHandler(counts CountsProvider, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		if err := json.NewEncoder(w).Encode(counts.Counts()); err != nil {
			logger.Error("Error encoding counts: %v", err)
		}
	}
}
