package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"facewatch/internal/model"
	"facewatch/internal/tracker"
)

// ErrSessionNotFound is returned when an operation targets a session id that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository implements repository.SessionRepository for SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert adds a new session record to the database.
func (r *SessionRepository) Insert(s *model.Session) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO sessions (started_at, blinks, mouths, eyebrows)
		VALUES (?, ?, ?, ?)
	`, s.StartedAt, s.Blinks, s.Mouths, s.Eyebrows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}

	return result.LastInsertId()
}

// UpdateCounts stores the latest counter values of a session.
func (r *SessionRepository) UpdateCounts(id int64, counts tracker.Counts) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`
		UPDATE sessions SET blinks = ?, mouths = ?, eyebrows = ? WHERE id = ?
	`, counts.Blinks, counts.Mouths, counts.Eyebrows, id); err != nil {
		return fmt.Errorf("failed to update session counts: %w", err)
	}
	return nil
}

// End marks a session as finished.
func (r *SessionRepository) End(id int64, endedAt time.Time) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, endedAt, id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID. It returns nil when no session matches.
func (r *SessionRepository) GetByID(id int64) (*model.Session, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`
		SELECT id, started_at, ended_at, blinks, mouths, eyebrows
		FROM sessions WHERE id = ?
	`, id)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetAll retrieves the most recent sessions first. limit <= 0 returns all of them.
func (r *SessionRepository) GetAll(limit int) ([]model.Session, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT id, started_at, ended_at, blinks, mouths, eyebrows
		FROM sessions ORDER BY started_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

// Delete removes a session and, through the foreign key, its events.
func (r *SessionRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var s model.Session
	var ended sql.NullTime
	if err := row.Scan(&s.ID, &s.StartedAt, &ended, &s.Blinks, &s.Mouths, &s.Eyebrows); err != nil {
		return nil, err
	}
	if ended.Valid {
		s.EndedAt = &ended.Time
	}
	return &s, nil
}
