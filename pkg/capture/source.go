// Package capture provides live camera frame sources.
//
// A Source hands out one frame per call. Frames are transient: the caller
// reads them within the current tick and must not hold onto the pixel data
// past it, because the backing buffer is reused on the next Read.
package capture

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Sentinel errors for capture failures.
var (
	// ErrDeviceUnavailable is returned when the camera cannot be opened,
	// either because it is missing or access was denied. Not retried
	// automatically; the failure is surfaced to the user.
	ErrDeviceUnavailable = errors.New("capture: camera device unavailable")

	// ErrClosed is returned when reading from a closed source.
	ErrClosed = errors.New("capture: source closed")

	// ErrNoFrame is returned when the device produced no frame this tick.
	// Transient: the caller skips the tick and tries again.
	ErrNoFrame = errors.New("capture: no frame available")
)

// Frame is one captured camera frame.
type Frame struct {
	Image     *image.RGBA
	Width     int
	Height    int
	Timestamp time.Time
}

// Source is a live frame source with single-owner discipline: exactly one
// component opens and closes it.
type Source interface {
	// Read captures the current frame.
	Read() (Frame, error)

	// Close releases the device. Safe to call more than once.
	Close() error
}

// Config holds the requested capture parameters. The device may negotiate
// different actual values; Frame carries the real dimensions.
type Config struct {
	Device int // Device index (0 = default camera)
	Width  int // Requested width in pixels
	Height int // Requested height in pixels
	FPS    int // Requested frames per second
}

// DefaultConfig requests the standard 640x480 user-facing camera.
func DefaultConfig() Config {
	return Config{
		Device: 0,
		Width:  640,
		Height: 480,
		FPS:    30,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Device < 0 {
		return fmt.Errorf("capture: device index must be >= 0, got %d", c.Device)
	}
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("capture: invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("capture: fps must be between 1 and 120, got %d", c.FPS)
	}
	return nil
}
