// Package loop drives the per-tick capture, render, and present cycle.
package loop

import (
	"fmt"
	"sync"

	"github.com/glyphcam/glyphcam/pkg/palette"
	"github.com/glyphcam/glyphcam/pkg/render"
)

// Mode selects the render branch.
type Mode string

const (
	// ModeASCII renders the frame as monospaced character art.
	ModeASCII Mode = "ascii"
	// ModeVideo renders the raw frame with face bounding boxes.
	ModeVideo Mode = "video"
)

// Settings is the externally-owned per-tick configuration. The driver reads
// a snapshot at the start of each tick; it never mutates settings itself.
type Settings struct {
	Mode     Mode   `json:"mode"`
	Accent   string `json:"accent"`
	FontSize int    `json:"font_size"`
}

// DefaultSettings returns the startup configuration.
func DefaultSettings() Settings {
	return Settings{
		Mode:     ModeASCII,
		Accent:   palette.DefaultName,
		FontSize: 12,
	}
}

// Validate checks the settings values.
func (s Settings) Validate() error {
	if s.Mode != ModeASCII && s.Mode != ModeVideo {
		return fmt.Errorf("loop: unknown mode %q", s.Mode)
	}
	if !palette.Has(s.Accent) {
		return fmt.Errorf("loop: unknown accent %q", s.Accent)
	}
	if s.FontSize < render.MinFontSize || s.FontSize > render.MaxFontSize {
		return fmt.Errorf("loop: font size %d out of range %d-%d",
			s.FontSize, render.MinFontSize, render.MaxFontSize)
	}
	return nil
}

// Patch is a partial settings update; nil fields keep their current value.
type Patch struct {
	Mode     *Mode   `json:"mode"`
	Accent   *string `json:"accent"`
	FontSize *int    `json:"font_size"`
}

// Manager holds the current settings and hands out snapshots.
type Manager struct {
	mu       sync.RWMutex
	settings Settings
}

// NewManager creates a settings manager with defaults.
func NewManager() *Manager {
	return &Manager{settings: DefaultSettings()}
}

// Snapshot returns the current settings by value.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Set replaces the settings after validation.
func (m *Manager) Set(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	return nil
}

// Apply merges a partial update and returns the resulting settings.
func (m *Manager) Apply(p Patch) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings
	if p.Mode != nil {
		next.Mode = *p.Mode
	}
	if p.Accent != nil {
		next.Accent = *p.Accent
	}
	if p.FontSize != nil {
		next.FontSize = *p.FontSize
	}

	if err := next.Validate(); err != nil {
		return m.settings, err
	}

	m.settings = next
	return next, nil
}
