// Package tracker turns per-frame face, eye and mouth rectangles into
// debounced blink, mouth-open and eyebrow-raise counts.
//
// A Tracker is owned by a single frame loop and is not safe for concurrent use.
package tracker

import "time"

const (
	// DefaultEyebrowCooldown is the minimum time between two eyebrow events.
	DefaultEyebrowCooldown = 1000 * time.Millisecond
	// DefaultEyebrowRaiseRatio is the fraction of the face height above which an eye counts as raised.
	DefaultEyebrowRaiseRatio = 0.2
)

// Listener is called synchronously for every counter increment.
type Listener func(Event)

// Tracker holds the cross-frame state for one video session.
//
// State is shared by all faces of a frame: with several faces the last one
// processed decides prevEyeCount and prevMouthOpen for the next frame.
type Tracker struct {
	counts        Counts
	prevEyeCount  int
	prevMouthOpen bool
	lastEyebrowAt time.Time

	raiseRatio float64
	eyebrow    *Cooldown
	listener   Listener
}

// New creates a tracker. Non-positive arguments fall back to the defaults.
func New(eyebrowCooldown time.Duration, raiseRatio float64) *Tracker {
	if eyebrowCooldown <= 0 {
		eyebrowCooldown = DefaultEyebrowCooldown
	}
	if raiseRatio <= 0 {
		raiseRatio = DefaultEyebrowRaiseRatio
	}
	return &Tracker{
		raiseRatio: raiseRatio,
		eyebrow:    NewCooldown(eyebrowCooldown),
	}
}

// SetListener registers fn to receive events as they happen. nil removes it.
func (t *Tracker) SetListener(fn Listener) {
	t.listener = fn
}

// Process runs the per-face checks for one frame in detector order and
// returns the events it emitted, in emission order.
func (t *Tracker) Process(frame Frame) []Event {
	var events []Event
	for _, face := range frame.Faces {
		events = t.processFace(face, frame.At, events)
	}
	return events
}

func (t *Tracker) processFace(obs FaceObservation, now time.Time, events []Event) []Event {
	eyeCount := len(obs.Eyes)
	if eyeCount == 0 && t.prevEyeCount > 0 {
		t.counts.Blinks++
		events = t.emit(events, Event{Kind: Blink, Count: t.counts.Blinks, At: now, Face: obs.Face})
	}
	t.prevEyeCount = eyeCount

	threshold := float64(obs.Face.Height) * t.raiseRatio
	for _, eye := range obs.Eyes {
		if float64(eye.Y) >= threshold {
			continue
		}
		if !t.eyebrow.Allow(now) {
			continue
		}
		t.counts.Eyebrows++
		t.lastEyebrowAt = now
		events = t.emit(events, Event{Kind: EyebrowRaise, Count: t.counts.Eyebrows, At: now, Face: obs.Face})
	}

	mouthOpen := len(obs.Mouths) > 0
	if mouthOpen && !t.prevMouthOpen {
		t.counts.Mouths++
		events = t.emit(events, Event{Kind: MouthOpen, Count: t.counts.Mouths, At: now, Face: obs.Face})
	}
	t.prevMouthOpen = mouthOpen

	return events
}

func (t *Tracker) emit(events []Event, e Event) []Event {
	if t.listener != nil {
		t.listener(e)
	}
	return append(events, e)
}

// Counts returns the current counter values.
func (t *Tracker) Counts() Counts {
	return t.counts
}

// State returns the counters together with the cross-frame memory.
func (t *Tracker) State() State {
	return State{
		Counts:        t.counts,
		PrevEyeCount:  t.prevEyeCount,
		PrevMouthOpen: t.prevMouthOpen,
		LastEyebrowAt: t.lastEyebrowAt,
	}
}
