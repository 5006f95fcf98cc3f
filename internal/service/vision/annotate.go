package vision

import (
	"fmt"
	"image"
	"image/color"

	"facewatch/internal/tracker"

	"gocv.io/x/gocv"
)

var (
	faceColor  = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	eyeColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	mouthColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	textColor  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// faceBox, eyeBox and mouthBox map tracker rectangles back to frame coordinates.
func faceBox(face tracker.Rect) image.Rectangle {
	return image.Rect(face.X, face.Y, face.X+face.Width, face.Y+face.Height)
}

func eyeBox(face, eye tracker.Rect) image.Rectangle {
	x, y := face.X+eye.X, face.Y+eye.Y
	return image.Rect(x, y, x+eye.Width, y+eye.Height)
}

func mouthBox(face, mouth tracker.Rect) image.Rectangle {
	x, y := face.X+mouth.X, face.Y+face.LowerHalf().Y+mouth.Y
	return image.Rect(x, y, x+mouth.Width, y+mouth.Height)
}

func countLines(counts tracker.Counts) []string {
	return []string{
		fmt.Sprintf("Blinks: %d", counts.Blinks),
		fmt.Sprintf("Mouth: %d", counts.Mouths),
		fmt.Sprintf("Eyebrows: %d", counts.Eyebrows),
	}
}

// Annotate draws the detections and the counts overlay onto img.
func Annotate(img *gocv.Mat, faces []tracker.FaceObservation, counts tracker.Counts) error {
	for _, obs := range faces {
		if err := gocv.Rectangle(img, faceBox(obs.Face), faceColor, 2); err != nil {
			return fmt.Errorf("failed to draw face: %w", err)
		}
		for _, eye := range obs.Eyes {
			if err := gocv.Rectangle(img, eyeBox(obs.Face, eye), eyeColor, 1); err != nil {
				return fmt.Errorf("failed to draw eye: %w", err)
			}
		}
		for _, mouth := range obs.Mouths {
			if err := gocv.Rectangle(img, mouthBox(obs.Face, mouth), mouthColor, 1); err != nil {
				return fmt.Errorf("failed to draw mouth: %w", err)
			}
		}
	}

	for i, line := range countLines(counts) {
		pt := image.Pt(10, 25+i*22)
		if err := gocv.PutText(img, line, pt, gocv.FontHersheySimplex, 0.6, textColor, 2); err != nil {
			return fmt.Errorf("failed to draw text: %w", err)
		}
	}
	return nil
}

// EncodeJPEG encodes img and copies the bytes out of the native buffer.
func EncodeJPEG(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
