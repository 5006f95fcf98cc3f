package vision

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"facewatch/internal/config"
	"facewatch/internal/logger"
	"facewatch/internal/tracker"
)

func TestBoxes_MapToFrameCoordinates(t *testing.T) {
	face := tracker.Rect{X: 100, Y: 50, Width: 200, Height: 201}

	if got := faceBox(face); got != image.Rect(100, 50, 300, 251) {
		t.Errorf("faceBox = %v", got)
	}

	eye := tracker.Rect{X: 30, Y: 40, Width: 50, Height: 20}
	if got := eyeBox(face, eye); got != image.Rect(130, 90, 180, 110) {
		t.Errorf("eyeBox = %v", got)
	}

	// The mouth window starts at Height/2 = 100 inside the face.
	mouth := tracker.Rect{X: 60, Y: 10, Width: 80, Height: 30}
	if got := mouthBox(face, mouth); got != image.Rect(160, 160, 240, 190) {
		t.Errorf("mouthBox = %v", got)
	}
}

func TestToRect(t *testing.T) {
	got := toRect(image.Rect(5, 6, 25, 46))
	if got != (tracker.Rect{X: 5, Y: 6, Width: 20, Height: 40}) {
		t.Errorf("toRect = %+v", got)
	}
}

func TestCountLines(t *testing.T) {
	lines := countLines(tracker.Counts{Blinks: 3, Mouths: 1, Eyebrows: 2})
	expected := []string{"Blinks: 3", "Mouth: 1", "Eyebrows: 2"}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, lines[i], expected[i])
		}
	}
}

func TestNewCascadeDetector_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		LogDirectory:     dir,
		FaceCascadePath:  filepath.Join(dir, "missing.xml"),
		EyeCascadePath:   filepath.Join(dir, "missing.xml"),
		MouthCascadePath: filepath.Join(dir, "missing.xml"),
	}
	l, err := logger.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	_, err = NewCascadeDetector(cfg, l)
	if !errors.Is(err, ErrCascadeLoad) {
		t.Errorf("Expected ErrCascadeLoad, got %v", err)
	}
}
