package detect

import (
	"image"
	"sync"
)

// Mock implements Detector for testing.
// Behavior can be customized via function fields; every call is counted.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, Detect returns no detections.
	DetectFunc func(frame *image.RGBA) ([]Detection, error)

	// CloseFunc is called when Close is invoked.
	// If nil, Close returns nil.
	CloseFunc func() error

	mu      sync.Mutex
	detects int
	closed  bool
}

// Detect records the call and delegates to DetectFunc.
func (m *Mock) Detect(frame *image.RGBA) ([]Detection, error) {
	m.mu.Lock()
	m.detects++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(frame)
	}
	return nil, nil
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

// DetectCalls returns how many times Detect was invoked.
func (m *Mock) DetectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detects
}

// Closed reports whether Close was invoked.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
