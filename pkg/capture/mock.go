package capture

import (
	"image"
	"image/color"
	"sync"
	"time"
)

// Mock implements Source for testing.
// Behavior can be customized via function fields; every call is counted.
type Mock struct {
	// ReadFunc is called when Read is invoked.
	// If nil, Read returns a uniform gray 640x480 frame.
	ReadFunc func() (Frame, error)

	// CloseFunc is called when Close is invoked.
	// If nil, Close returns nil.
	CloseFunc func() error

	mu     sync.Mutex
	reads  int
	closed bool
}

// Read records the call and delegates to ReadFunc.
func (m *Mock) Read() (Frame, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Frame{}, ErrClosed
	}
	m.reads++
	m.mu.Unlock()

	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	return UniformFrame(640, 480, color.RGBA{128, 128, 128, 255}), nil
}

// Close records the call and delegates to CloseFunc.
func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// ReadCalls returns how many times Read was invoked.
func (m *Mock) ReadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Closed reports whether Close was invoked.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// UniformFrame builds a single-color test frame.
func UniformFrame(width, height int, c color.Color) Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return Frame{
		Image:     img,
		Width:     width,
		Height:    height,
		Timestamp: time.Now(),
	}
}
