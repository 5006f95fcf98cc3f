package sqlite

import (
	"fmt"

	"facewatch/internal/dto"
	"facewatch/internal/model"
)

// EventRepository implements repository.EventRepository for SQLite.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const insertEvent = `
	INSERT INTO events (session_id, kind, count, occurred_at, face_x, face_y, face_width, face_height, snapshot)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert adds a new event record to the database.
func (r *EventRepository) Insert(e *model.Event) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(insertEvent,
		e.SessionID, e.Kind, e.Count, e.OccurredAt, e.FaceX, e.FaceY, e.FaceWidth, e.FaceHeight, e.Snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return result.LastInsertId()
}

// InsertBatch adds multiple events in a single transaction.
func (r *EventRepository) InsertBatch(events []model.Event) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertEvent)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.SessionID, e.Kind, e.Count, e.OccurredAt,
			e.FaceX, e.FaceY, e.FaceWidth, e.FaceHeight, e.Snapshot); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	return tx.Commit()
}

// whereClause builds the shared filter for GetAll and GetTotalCount.
func whereClause(filter *dto.EventFilters) (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}
	if filter == nil {
		return clause, args
	}

	if filter.SessionID > 0 {
		clause += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}

	if filter.Kind != "" {
		clause += " AND kind = ?"
		args = append(args, filter.Kind)
	}

	if !filter.DateAfter.IsZero() {
		clause += " AND occurred_at >= ?"
		args = append(args, filter.DateAfter)
	}

	if !filter.DateBefore.IsZero() {
		clause += " AND occurred_at <= ?"
		args = append(args, filter.DateBefore)
	}

	return clause, args
}

// GetAll retrieves events matching the filter, newest first.
func (r *EventRepository) GetAll(filter *dto.EventFilters) ([]model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := whereClause(filter)
	query := `
		SELECT id, session_id, kind, count, occurred_at, face_x, face_y, face_width, face_height, snapshot
		FROM events` + where + " ORDER BY occurred_at DESC, id DESC"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Count, &e.OccurredAt,
			&e.FaceX, &e.FaceY, &e.FaceWidth, &e.FaceHeight, &e.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetTotalCount returns the number of events matching the filter, ignoring pagination.
func (r *EventRepository) GetTotalCount(filter *dto.EventFilters) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := whereClause(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM events`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// CountByKind returns the number of stored events per kind for a session.
func (r *EventRepository) CountByKind(sessionID int64) (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT kind, COUNT(*) FROM events WHERE session_id = ? GROUP BY kind
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan kind count: %w", err)
		}
		counts[kind] = n
	}

	return counts, rows.Err()
}

// DeleteBySession removes all events of a session.
func (r *EventRepository) DeleteBySession(sessionID int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM events WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}
