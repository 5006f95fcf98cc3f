package model

import "time"

// Event represents a persisted facial event.
type Event struct {
	ID         int64     `json:"id"`
	SessionID  int64     `json:"session_id"`
	Kind       string    `json:"kind"`
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
	FaceX      int       `json:"face_x"`
	FaceY      int       `json:"face_y"`
	FaceWidth  int       `json:"face_width"`
	FaceHeight int       `json:"face_height"`
	Snapshot   string    `json:"snapshot,omitempty"`
}
