package dto

import (
	"encoding/json"
	"time"

	"facewatch/internal/tracker"
)

// Message types pushed to viewers.
const (
	MessageFrame = "frame"
	MessageEvent = "event"
)

// CountsData is the counts payload shared by the API and the viewer messages.
type CountsData struct {
	Session int64 `json:"session"`
	tracker.Counts
}

// FrameMessage carries one annotated frame, base64-encoded by encoding/json.
type FrameMessage struct {
	Type   string         `json:"type"`
	Image  []byte         `json:"image"`
	Counts tracker.Counts `json:"counts"`
}

// EventMessage is sent as soon as a counter changes.
type EventMessage struct {
	Type   string            `json:"type"`
	Kind   tracker.EventKind `json:"kind"`
	Count  int               `json:"count"`
	At     time.Time         `json:"at"`
	Counts tracker.Counts    `json:"counts"`
}

// NewFrameMessage encodes a frame message.
func NewFrameMessage(image []byte, counts tracker.Counts) ([]byte, error) {
	return json.Marshal(FrameMessage{Type: MessageFrame, Image: image, Counts: counts})
}

// NewEventMessage encodes an event message.
func NewEventMessage(e tracker.Event, counts tracker.Counts) ([]byte, error) {
	return json.Marshal(EventMessage{
		Type:   MessageEvent,
		Kind:   e.Kind,
		Count:  e.Count,
		At:     e.At,
		Counts: counts,
	})
}
