package tracker

import "time"

// Rect is an axis-aligned box relative to the region it was detected in.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UpperHalf returns the eye search window in face coordinates.
func (r Rect) UpperHalf() Rect {
	return Rect{X: 0, Y: 0, Width: r.Width, Height: r.Height / 2}
}

// LowerHalf returns the mouth search window in face coordinates.
func (r Rect) LowerHalf() Rect {
	return Rect{X: 0, Y: r.Height / 2, Width: r.Width, Height: r.Height / 2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// FaceObservation holds one detected face and what was found inside it.
// Eyes are relative to the upper half, mouths to the lower half.
type FaceObservation struct {
	Face   Rect
	Eyes   []Rect
	Mouths []Rect
}

// Frame is the tracker input for one video frame.
type Frame struct {
	Faces []FaceObservation
	At    time.Time
}

// EventKind names a counted facial event.
type EventKind string

const (
	Blink        EventKind = "blink"
	MouthOpen    EventKind = "mouth_open"
	EyebrowRaise EventKind = "eyebrow_raise"
)

// Kinds lists every event kind in display order.
var Kinds = []EventKind{Blink, MouthOpen, EyebrowRaise}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is emitted once per counter increment. Count is the counter value after the increment.
type Event struct {
	Kind  EventKind `json:"kind"`
	Count int       `json:"count"`
	At    time.Time `json:"at"`
	Face  Rect      `json:"face"`
}

// Counts is a snapshot of the three counters.
type Counts struct {
	Blinks   int `json:"blinks"`
	Mouths   int `json:"mouths"`
	Eyebrows int `json:"eyebrows"`
}

// Of returns the counter for kind.
func (c Counts) Of(kind EventKind) int {
	switch kind {
	case Blink:
		return c.Blinks
	case MouthOpen:
		return c.Mouths
	case EyebrowRaise:
		return c.Eyebrows
	}
	return 0
}

// State exposes the cross-frame memory of the tracker.
type State struct {
	Counts
	PrevEyeCount  int
	PrevMouthOpen bool
	LastEyebrowAt time.Time // zero means never
}
