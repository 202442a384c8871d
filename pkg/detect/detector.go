// Package detect provides face detection for live camera frames.
package detect

import (
	"errors"
	"image"
)

// ErrModelNotFound is returned when the detection model file is missing.
// Callers treat this as a degraded state: the video overlay is disabled but
// nothing else stops working.
var ErrModelNotFound = errors.New("detect: model file not found")

// Detection is one detected face as an axis-aligned box in frame pixel
// coordinates.
type Detection struct {
	X, Y       int     // Top-left corner
	W, H       int     // Box size
	Confidence float64 // Detector score (0-1)
}

// Center returns the center point of the box.
func (d Detection) Center() (x, y int) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Bounds returns the detection as an image.Rectangle.
func (d Detection) Bounds() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.W, d.Y+d.H)
}

// Detector is the interface for face detection backends.
type Detector interface {
	// Detect finds faces in the frame and returns their boxes.
	Detect(frame *image.RGBA) ([]Detection, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath        string  // Path to the ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}
