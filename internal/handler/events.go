package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"facewatch/internal/config"
	"facewatch/internal/dto"
	"facewatch/internal/logger"
	"facewatch/internal/model"
	"facewatch/internal/repository"
	"facewatch/internal/tracker"
)

// GetEventsHandler returns a filtered, paginated list of events from the database.
func GetEventsHandler(logger *logger.Logger, eventRepo repository.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 50)

		kind := q.Get("kind")
		if kind != "" && !tracker.EventKind(kind).Valid() {
			http.Error(w, "Unknown event kind", http.StatusBadRequest)
			return
		}

		filter := &dto.EventFilters{
			SessionID:  int64(atoiDefault(q.Get("session"), 0)),
			Kind:       kind,
			DateAfter:  parseDate(q.Get("dateAfter")),
			DateBefore: endOfDay(parseDate(q.Get("dateBefore"))),
			Limit:      limit,
			Offset:     (page - 1) * limit,
		}

		events, err := eventRepo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying events from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := eventRepo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting events: %v", err)
			totalCount = len(events)
		}

		data := dto.EventsData{
			Events:      events,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}
		if data.Events == nil {
			data.Events = []model.Event{}
		}

		if filter.SessionID > 0 {
			perKind, err := eventRepo.CountByKind(filter.SessionID)
			if err != nil {
				logger.Error("Error counting events by kind: %v", err)
			} else {
				data.PerKind = perKind
			}
		}

		writeJSON(w, logger, data)
	}
}

// GetSessionsHandler returns the most recent sessions.
func GetSessionsHandler(logger *logger.Logger, sessionRepo repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 20)

		sessions, err := sessionRepo.GetAll(limit)
		if err != nil {
			logger.Error("Error querying sessions: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, sessions)
	}
}

// ViewSnapshotHandler serves a single snapshot file specified via the "name" query parameter.
func ViewSnapshotHandler(config *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Name parameter is required", http.StatusBadRequest)
			return
		}
		http.ServeFile(w, r, filepath.Join(config.SnapshotDirectory, filepath.Base(name)))
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseDate parses a date string in the format "2006-01-02" from the request (HTML input format).
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// endOfDay moves a date to its last nanosecond so "before" filters include the whole day.
func endOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}
