package repository

import (
	"time"

	"facewatch/internal/dto"
	"facewatch/internal/model"
	"facewatch/internal/tracker"
)

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	// Create operations
	Insert(session *model.Session) (int64, error)

	// Update operations
	UpdateCounts(id int64, counts tracker.Counts) error
	End(id int64, endedAt time.Time) error

	// Read operations
	GetByID(id int64) (*model.Session, error)
	GetAll(limit int) ([]model.Session, error)

	// Delete operations
	Delete(id int64) error
}

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	// Create operations
	Insert(event *model.Event) (int64, error)
	InsertBatch(events []model.Event) error

	// Read operations
	GetAll(filter *dto.EventFilters) ([]model.Event, error)
	GetTotalCount(filter *dto.EventFilters) (int, error)
	CountByKind(sessionID int64) (map[string]int, error)

	// Delete operations
	DeleteBySession(sessionID int64) error
}
