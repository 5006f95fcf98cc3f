package vision

import (
	"errors"
	"fmt"
	"image"
	"os"

	"facewatch/internal/config"
	"facewatch/internal/logger"
	"facewatch/internal/tracker"

	"gocv.io/x/gocv"
)

const (
	FaceScaleFactor   = 1.3
	FaceMinNeighbors  = 5
	MouthScaleFactor  = 1.7
	MouthMinNeighbors = 11
)

// ErrCascadeLoad is returned when a cascade file is missing or cannot be parsed.
var ErrCascadeLoad = errors.New("cascade classifier could not be loaded")

// CascadeDetector finds faces in a frame and eyes and mouths inside each face.
type CascadeDetector struct {
	face   gocv.CascadeClassifier
	eye    gocv.CascadeClassifier
	mouth  gocv.CascadeClassifier
	logger *logger.Logger
}

// NewCascadeDetector loads the face, eye and mouth cascades named in config.
func NewCascadeDetector(config *config.Config, logger *logger.Logger) (*CascadeDetector, error) {
	face, err := loadCascade(config.FaceCascadePath)
	if err != nil {
		return nil, err
	}
	eye, err := loadCascade(config.EyeCascadePath)
	if err != nil {
		face.Close()
		return nil, err
	}
	mouth, err := loadCascade(config.MouthCascadePath)
	if err != nil {
		face.Close()
		eye.Close()
		return nil, err
	}

	logger.Info("✅ Cascades loaded: %s, %s, %s", config.FaceCascadePath, config.EyeCascadePath, config.MouthCascadePath)
	return &CascadeDetector{face: face, eye: eye, mouth: mouth, logger: logger}, nil
}

func loadCascade(path string) (gocv.CascadeClassifier, error) {
	classifier := gocv.NewCascadeClassifier()
	if _, err := os.Stat(path); err != nil {
		classifier.Close()
		return classifier, fmt.Errorf("%w: %s: %v", ErrCascadeLoad, path, err)
	}
	if !classifier.Load(path) {
		classifier.Close()
		return classifier, fmt.Errorf("%w: %s", ErrCascadeLoad, path)
	}
	return classifier, nil
}

// Detect converts img to grayscale and returns every face with the eyes found
// in its upper half and the mouths found in its lower half.
func (d *CascadeDetector) Detect(img gocv.Mat) ([]tracker.FaceObservation, error) {
	gray := gocv.NewMat()
	defer gray.Close()

	if err := gocv.CvtColor(img, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, fmt.Errorf("failed to convert frame to grayscale: %w", err)
	}

	faces := d.face.DetectMultiScaleWithParams(gray, FaceScaleFactor, FaceMinNeighbors, 0, image.Point{}, image.Point{})

	observations := make([]tracker.FaceObservation, 0, len(faces))
	for _, r := range faces {
		obs := tracker.FaceObservation{Face: toRect(r)}

		faceROI := gray.Region(r)
		obs.Eyes = d.detectIn(faceROI, obs.Face.UpperHalf(), func(m gocv.Mat) []image.Rectangle {
			return d.eye.DetectMultiScale(m)
		})
		obs.Mouths = d.detectIn(faceROI, obs.Face.LowerHalf(), func(m gocv.Mat) []image.Rectangle {
			return d.mouth.DetectMultiScaleWithParams(m, MouthScaleFactor, MouthMinNeighbors, 0, image.Point{}, image.Point{})
		})
		faceROI.Close()

		observations = append(observations, obs)
	}

	return observations, nil
}

// detectIn runs detect on the window of faceROI and returns window-relative rectangles.
func (d *CascadeDetector) detectIn(faceROI gocv.Mat, window tracker.Rect, detect func(gocv.Mat) []image.Rectangle) []tracker.Rect {
	if window.Empty() {
		return nil
	}

	roi := faceROI.Region(image.Rect(window.X, window.Y, window.X+window.Width, window.Y+window.Height))
	defer roi.Close()

	found := detect(roi)
	rects := make([]tracker.Rect, 0, len(found))
	for _, r := range found {
		rects = append(rects, toRect(r))
	}
	return rects
}

// Close releases the classifiers.
func (d *CascadeDetector) Close() {
	d.face.Close()
	d.eye.Close()
	d.mouth.Close()
}

func toRect(r image.Rectangle) tracker.Rect {
	return tracker.Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
