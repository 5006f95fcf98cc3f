package dto

import "facewatch/internal/tracker"

// BufferedEvent holds an event and the frame it fired on before flushing to the database.
type BufferedEvent struct {
	SessionID int64
	Event     tracker.Event
	Snapshot  []byte
}
