package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"facewatch/internal/model"
	"facewatch/internal/repository/sqlite"
	"facewatch/internal/tracker"
)

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	db, err := sqlite.New(path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	sessions := sqlite.NewSessionRepository(db)
	id, err := sessions.Insert(&model.Session{StartedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := sessions.UpdateCounts(id, tracker.Counts{Blinks: 2, Mouths: 1}); err != nil {
		t.Fatalf("UpdateCounts failed: %v", err)
	}

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err = sqlite.NewEventRepository(db).InsertBatch([]model.Event{
		{SessionID: id, Kind: string(tracker.Blink), Count: 1, OccurredAt: at},
		{SessionID: id, Kind: string(tracker.Blink), Count: 2, OccurredAt: at.Add(time.Second)},
		{SessionID: id, Kind: string(tracker.MouthOpen), Count: 1, OccurredAt: at.Add(2 * time.Second), Snapshot: "mouth.jpg"},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "list", "--db", path)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "BLINKS") || !strings.Contains(out, "running") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestEvents(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "events", "1", "--db", path, "--kind", "mouth_open")
	if err != nil {
		t.Fatalf("events failed: %v", err)
	}
	if !strings.Contains(out, "mouth.jpg") || strings.Contains(out, "blink") {
		t.Errorf("Unexpected output:\n%s", out)
	}

	if _, err := run(t, "events", "1", "--db", path, "--kind", "wink"); err == nil {
		t.Error("Expected error for unknown kind")
	}
	if _, err := run(t, "events", "abc", "--db", path); err == nil {
		t.Error("Expected error for invalid session id")
	}
}

func TestPurge(t *testing.T) {
	path := seedDB(t)

	if _, err := run(t, "purge", "1", "--db", path); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	out, err := run(t, "list", "--db", path)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No sessions found") {
		t.Errorf("Expected empty list after purge:\n%s", out)
	}

	out, err = run(t, "events", "1", "--db", path)
	if err != nil {
		t.Fatalf("events failed: %v", err)
	}
	if !strings.Contains(out, "No events found") {
		t.Errorf("Expected events to be removed with the session:\n%s", out)
	}
}

func TestPurgeMissingSession(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "purge", "999", "--db", path)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
	if strings.Contains(out, "purged") {
		t.Errorf("Missing session reported as purged:\n%s", out)
	}

	out, err = run(t, "list", "--db", path)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(out, "No sessions found") {
		t.Error("Existing session was removed")
	}
}
