package loop

import (
	"testing"

	"github.com/glyphcam/glyphcam/pkg/palette"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"video mode", func(s *Settings) { s.Mode = ModeVideo }, false},
		{"unknown mode", func(s *Settings) { s.Mode = "sepia" }, true},
		{"unknown accent", func(s *Settings) { s.Accent = "chartreuse" }, true},
		{"font too small", func(s *Settings) { s.FontSize = 4 }, true},
		{"font too large", func(s *Settings) { s.FontSize = 64 }, true},
		{"font at bounds", func(s *Settings) { s.FontSize = 16 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestManager_SetRejectsInvalid(t *testing.T) {
	m := NewManager()

	bad := DefaultSettings()
	bad.FontSize = 99
	if err := m.Set(bad); err == nil {
		t.Fatal("expected validation error")
	}

	if got := m.Snapshot(); got != DefaultSettings() {
		t.Errorf("rejected set must not change settings: %+v", got)
	}
}

func TestManager_Apply(t *testing.T) {
	m := NewManager()

	mode := ModeVideo
	size := 14
	got, err := m.Apply(Patch{Mode: &mode, FontSize: &size})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got.Mode != ModeVideo || got.FontSize != 14 {
		t.Errorf("applied settings: %+v", got)
	}
	if got.Accent != palette.DefaultName {
		t.Errorf("untouched field changed: %q", got.Accent)
	}

	// Invalid patch leaves settings untouched
	badAccent := "chartreuse"
	if _, err := m.Apply(Patch{Accent: &badAccent}); err == nil {
		t.Fatal("expected validation error")
	}
	if m.Snapshot() != got {
		t.Error("failed apply must not change settings")
	}
}
