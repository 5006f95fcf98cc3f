package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"facewatch/internal/config"
	"facewatch/internal/dto"
	"facewatch/internal/logger"
	"facewatch/internal/model"
	"facewatch/internal/repository"
	"facewatch/internal/tracker"
)

const snapshotTimeFormat = "2006-01-02_15-04-05.000"

// EventBuffer buffers tracker events in memory and periodically flushes them,
// with their snapshots, to disk and the database.
type EventBuffer struct {
	snapshotDir   string
	snapshotLimit int
	interval      time.Duration

	events    []dto.BufferedEvent
	snapshots int
	counts    map[int64]tracker.Counts
	mu        sync.Mutex

	logger      *logger.Logger
	sessionRepo repository.SessionRepository
	eventRepo   repository.EventRepository
}

// NewEventBuffer creates an EventBuffer using the snapshot and flush settings from config.
func NewEventBuffer(config *config.Config, logger *logger.Logger, sessionRepo repository.SessionRepository, eventRepo repository.EventRepository) *EventBuffer {
	interval := time.Duration(config.EventFlushInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &EventBuffer{
		snapshotDir:   config.SnapshotDirectory,
		snapshotLimit: config.SnapshotLimit,
		interval:      interval,
		events:        make([]dto.BufferedEvent, 0),
		counts:        make(map[int64]tracker.Counts),
		logger:        logger,
		sessionRepo:   sessionRepo,
		eventRepo:     eventRepo,
	}
}

// Run flushes on a ticker until ctx is done, then flushes one last time.
func (b *EventBuffer) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.Flush()
			return
		case <-ticker.C:
			b.Flush()
		}
	}
}

// AddEvents queues the events of one frame. The snapshot is kept only while
// the per-interval snapshot limit allows it; events are always kept.
func (b *EventBuffer) AddEvents(sessionID int64, events []tracker.Event, counts tracker.Counts, snapshot []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counts[sessionID] = counts
	for _, e := range events {
		buffered := dto.BufferedEvent{SessionID: sessionID, Event: e}
		if len(snapshot) > 0 && b.snapshots < b.snapshotLimit {
			buffered.Snapshot = snapshot
			b.snapshots++
		}
		b.events = append(b.events, buffered)
	}
}

// Pending returns how many events are waiting for the next flush.
func (b *EventBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Flush writes snapshots to disk, inserts buffered events and stores the latest
// counts of every session seen since the last flush.
func (b *EventBuffer) Flush() {
	b.mu.Lock()
	events := b.events
	counts := b.counts
	b.events = make([]dto.BufferedEvent, 0)
	b.counts = make(map[int64]tracker.Counts)
	b.snapshots = 0
	b.mu.Unlock()

	if len(events) == 0 && len(counts) == 0 {
		return
	}

	records := make([]model.Event, 0, len(events))
	for _, be := range events {
		record := model.Event{
			SessionID:  be.SessionID,
			Kind:       string(be.Event.Kind),
			Count:      be.Event.Count,
			OccurredAt: be.Event.At.UTC(),
			FaceX:      be.Event.Face.X,
			FaceY:      be.Event.Face.Y,
			FaceWidth:  be.Event.Face.Width,
			FaceHeight: be.Event.Face.Height,
		}
		if len(be.Snapshot) > 0 {
			name, err := b.writeSnapshot(be)
			if err != nil {
				b.logger.Error("Error saving snapshot: %v", err)
			} else {
				record.Snapshot = name
			}
		}
		records = append(records, record)
	}

	if b.eventRepo != nil && len(records) > 0 {
		if err := b.eventRepo.InsertBatch(records); err != nil {
			b.logger.Error("Error saving events to database: %v", err)
		}
	}

	if b.sessionRepo != nil {
		for id, c := range counts {
			if err := b.sessionRepo.UpdateCounts(id, c); err != nil {
				b.logger.Error("Error saving counts for session %d: %v", id, err)
			}
		}
	}

	if len(records) > 0 {
		b.logger.Info("💾 Flushed %d events", len(records))
	}
}

func (b *EventBuffer) writeSnapshot(be dto.BufferedEvent) (string, error) {
	if err := os.MkdirAll(b.snapshotDir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	name := SnapshotName(be.SessionID, be.Event)
	if err := os.WriteFile(filepath.Join(b.snapshotDir, name), be.Snapshot, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return name, nil
}

// SnapshotName builds the file name of an event snapshot.
func SnapshotName(sessionID int64, e tracker.Event) string {
	return fmt.Sprintf("%s_%d_%s_%d.jpg", e.At.UTC().Format(snapshotTimeFormat), sessionID, e.Kind, e.Count)
}
