package vision

import (
	"errors"
	"fmt"
	"time"

	"facewatch/internal/config"
	"facewatch/internal/logger"
	"facewatch/internal/tracker"

	"gocv.io/x/gocv"
)

// ErrReadFailed is returned when the capture device yields no frame.
var ErrReadFailed = errors.New("camera returned no frame")

// Camera reads frames from a capture device and runs detection on each one.
type Camera struct {
	capture  *gocv.VideoCapture
	detector *CascadeDetector
	device   string
	logger   *logger.Logger
}

// OpenCamera opens the device named in config (index, file or stream URL).
func OpenCamera(config *config.Config, detector *CascadeDetector, logger *logger.Logger) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(config.CameraDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %s: %w", config.CameraDevice, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera %s is not available", config.CameraDevice)
	}

	logger.Info("📷 Camera %s opened", config.CameraDevice)
	return &Camera{
		capture:  capture,
		detector: detector,
		device:   config.CameraDevice,
		logger:   logger,
	}, nil
}

// NextFrame reads one frame and detects faces, eyes and mouths in it.
// The caller owns the returned frame and must Close it.
func (c *Camera) NextFrame() (*Frame, error) {
	img := gocv.NewMat()
	if ok := c.capture.Read(&img); !ok || img.Empty() {
		img.Close()
		return nil, ErrReadFailed
	}
	at := time.Now()

	faces, err := c.detector.Detect(img)
	if err != nil {
		img.Close()
		return nil, err
	}

	return &Frame{img: img, faces: faces, at: at}, nil
}

// Close releases the capture device.
func (c *Camera) Close() error {
	c.logger.Info("Camera %s closed", c.device)
	return c.capture.Close()
}

// Frame is one captured image with its detections.
type Frame struct {
	img   gocv.Mat
	faces []tracker.FaceObservation
	at    time.Time
}

// Observations returns the faces detected in the frame, in detector order.
func (f *Frame) Observations() []tracker.FaceObservation {
	return f.faces
}

// Timestamp is the time the frame was read from the device.
func (f *Frame) Timestamp() time.Time {
	return f.at
}

// Render annotates the frame in place and returns it as JPEG.
func (f *Frame) Render(counts tracker.Counts) ([]byte, error) {
	if err := Annotate(&f.img, f.faces, counts); err != nil {
		return nil, err
	}
	return EncodeJPEG(f.img)
}

// Close releases the underlying Mat.
func (f *Frame) Close() {
	f.img.Close()
}
