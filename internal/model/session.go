package model

import "time"

// Session represents one run of the frame loop and its final counts.
type Session struct {
	ID        int64      `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Blinks    int        `json:"blinks"`
	Mouths    int        `json:"mouths"`
	Eyebrows  int        `json:"eyebrows"`
}
