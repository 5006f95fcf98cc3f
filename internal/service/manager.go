package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"facewatch/internal/dto"
	"facewatch/internal/logger"
	"facewatch/internal/tracker"
)

// ErrNoFrame may be returned by a FrameSource that has nothing to deliver yet.
var ErrNoFrame = errors.New("no frame available")

// Frame is one captured image with its detections, as produced by a FrameSource.
type Frame interface {
	Observations() []tracker.FaceObservation
	Timestamp() time.Time
	Render(counts tracker.Counts) ([]byte, error)
	Close()
}

// FrameSource yields frames one at a time.
type FrameSource interface {
	NextFrame() (Frame, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() (Frame, error)

func (f FrameSourceFunc) NextFrame() (Frame, error) { return f() }

// Broadcaster delivers messages to viewers.
type Broadcaster interface {
	Broadcast(message []byte)
}

// EventSink receives the events of each processed frame.
type EventSink interface {
	AddEvents(sessionID int64, events []tracker.Event, counts tracker.Counts, snapshot []byte)
}

// Observer records frame and event statistics.
type Observer interface {
	ObserveEvent(kind tracker.EventKind)
	ObserveFrame(faces int, took time.Duration)
	FrameDropped()
}

// Manager owns the frame loop and the session's tracker.
type Manager struct {
	sessionID int64
	tracker   *tracker.Tracker
	source    FrameSource
	viewers   Broadcaster
	sink      EventSink
	metrics   Observer
	logger    *logger.Logger
	interval  time.Duration

	countsMu sync.RWMutex
	counts   tracker.Counts
}

func NewManager(sessionID int64, t *tracker.Tracker, source FrameSource, viewers Broadcaster, sink EventSink, metrics Observer, interval time.Duration, logger *logger.Logger) *Manager {
	m := &Manager{
		sessionID: sessionID,
		tracker:   t,
		source:    source,
		viewers:   viewers,
		sink:      sink,
		metrics:   metrics,
		logger:    logger,
		interval:  interval,
	}
	t.SetListener(m.onEvent)
	return m
}

// Run processes one frame per tick until ctx is done. A frame is always
// finished before the next one is read.
func (m *Manager) Run(ctx context.Context) {
	interval := m.interval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("🎬 Frame loop started for session %d", m.sessionID)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("🛑 Frame loop stopped for session %d", m.sessionID)
			return
		case <-ticker.C:
			m.step()
		}
	}
}

func (m *Manager) step() {
	frame, err := m.source.NextFrame()
	if err != nil {
		m.metrics.FrameDropped()
		if !errors.Is(err, ErrNoFrame) {
			m.logger.Warning("Skipping frame: %v", err)
		}
		return
	}
	defer frame.Close()

	m.HandleFrame(frame)
}

// HandleFrame runs the tracker on the frame, pushes the rendered frame to
// viewers and hands the frame's events to the event sink.
func (m *Manager) HandleFrame(frame Frame) {
	start := time.Now()
	faces := frame.Observations()

	events := m.tracker.Process(tracker.Frame{Faces: faces, At: frame.Timestamp()})
	counts := m.tracker.Counts()

	image, err := frame.Render(counts)
	if err != nil {
		// Events are kept; the frame itself only counts as dropped.
		m.logger.Error("Failed to render frame: %v", err)
		m.sink.AddEvents(m.sessionID, events, counts, nil)
		m.metrics.FrameDropped()
		return
	}

	msg, err := dto.NewFrameMessage(image, counts)
	if err != nil {
		m.logger.Error("Failed to encode frame message: %v", err)
	} else {
		m.viewers.Broadcast(msg)
	}

	m.sink.AddEvents(m.sessionID, events, counts, image)
	m.metrics.ObserveFrame(len(faces), time.Since(start))
}

// onEvent publishes every counter change as soon as the tracker reports it.
func (m *Manager) onEvent(e tracker.Event) {
	counts := m.tracker.Counts()

	m.countsMu.Lock()
	m.counts = counts
	m.countsMu.Unlock()

	m.metrics.ObserveEvent(e.Kind)
	m.logger.Info("%s %s detected. Total: %d", eventIcon(e.Kind), e.Kind, e.Count)

	msg, err := dto.NewEventMessage(e, counts)
	if err != nil {
		m.logger.Error("Failed to encode event message: %v", err)
		return
	}
	m.viewers.Broadcast(msg)
}

// Counts returns the latest counts. Safe for concurrent use.
func (m *Manager) Counts() dto.CountsData {
	m.countsMu.RLock()
	defer m.countsMu.RUnlock()
	return dto.CountsData{Session: m.sessionID, Counts: m.counts}
}

// SessionID returns the session this manager records into.
func (m *Manager) SessionID() int64 {
	return m.sessionID
}

func eventIcon(kind tracker.EventKind) string {
	switch kind {
	case tracker.Blink:
		return "👁️"
	case tracker.MouthOpen:
		return "👄"
	case tracker.EyebrowRaise:
		return "⬆️"
	}
	return "•"
}
