package ascii

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

// uniformImage returns a width x height frame filled with a single color.
func uniformImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRender_Shape(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		opts       Options
		expectCols int
		expectRows int
	}{
		{
			name:  "vga with defaults",
			width: 640, height: 480,
			opts:       DefaultOptions(),
			expectCols: 64, expectRows: 34,
		},
		{
			name:  "capped by max",
			width: 640, height: 480,
			opts:       Options{CharWidth: 10, CharHeight: 14, MaxWidth: 20, MaxHeight: 10},
			expectCols: 20, expectRows: 10,
		},
		{
			name:  "frame smaller than one block",
			width: 5, height: 5,
			opts:       DefaultOptions(),
			expectCols: 1, expectRows: 1,
		},
		{
			name:  "non divisible dimensions",
			width: 637, height: 473,
			opts:       Options{CharWidth: 10, CharHeight: 14, MaxWidth: 100, MaxHeight: 60},
			expectCols: 63, expectRows: 33,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := uniformImage(tc.width, tc.height, color.RGBA{128, 128, 128, 255})
			block := Render(img, tc.opts)

			lines := strings.Split(block, "\n")
			if len(lines) != tc.expectRows {
				t.Fatalf("rows: got %d, want %d", len(lines), tc.expectRows)
			}
			for i, line := range lines {
				if len(line) != tc.expectCols {
					t.Errorf("line %d: got %d chars, want %d", i, len(line), tc.expectCols)
				}
			}
		})
	}
}

func TestRender_AllBlack(t *testing.T) {
	img := uniformImage(640, 480, color.RGBA{0, 0, 0, 255})
	block := Render(img, Options{CharWidth: 10, CharHeight: 14, MaxWidth: 64, MaxHeight: 34})

	lines := strings.Split(block, "\n")
	if len(lines) != 34 {
		t.Fatalf("rows: got %d, want 34", len(lines))
	}
	for i, line := range lines {
		if line != strings.Repeat("@", 64) {
			t.Errorf("line %d: expected 64 '@', got %q", i, line)
		}
	}
}

func TestRender_AllWhite(t *testing.T) {
	// 100x140 with 10x14 blocks tiles exactly, so every cell reads a full
	// block and normalizes to brightness 1.0
	img := uniformImage(100, 140, color.RGBA{255, 255, 255, 255})
	block := Render(img, Options{CharWidth: 10, CharHeight: 14, MaxWidth: 100, MaxHeight: 60})

	blank := string(Ramp[len(Ramp)-1])
	for i, line := range strings.Split(block, "\n") {
		if line != strings.Repeat(blank, 10) {
			t.Errorf("line %d: expected blanks, got %q", i, line)
		}
	}
}

func TestRender_TransparentIsDark(t *testing.T) {
	// Fully transparent white scales to zero brightness
	img := uniformImage(100, 140, color.RGBA{255, 255, 255, 0})
	block := Render(img, Options{CharWidth: 10, CharHeight: 14, MaxWidth: 100, MaxHeight: 60})

	for i, line := range strings.Split(block, "\n") {
		if line != strings.Repeat("@", 10) {
			t.Errorf("line %d: expected '@', got %q", i, line)
		}
	}
}

func TestRender_Monotonic(t *testing.T) {
	opts := Options{CharWidth: 10, CharHeight: 14, MaxWidth: 1, MaxHeight: 1}

	prev := -1
	for level := 0; level <= 255; level++ {
		v := uint8(level)
		img := uniformImage(10, 14, color.RGBA{v, v, v, 255})

		block := Render(img, opts)
		if len(block) != 1 {
			t.Fatalf("level %d: expected single glyph, got %q", level, block)
		}

		idx := strings.IndexByte(Ramp, block[0])
		if idx < 0 {
			t.Fatalf("level %d: glyph %q not in ramp", level, block[0])
		}
		if idx < prev {
			t.Fatalf("level %d: glyph index decreased from %d to %d", level, prev, idx)
		}
		prev = idx
	}

	if prev != len(Ramp)-1 {
		t.Errorf("level 255 should reach the last ramp glyph, got index %d", prev)
	}
}

func TestRender_Deterministic(t *testing.T) {
	img := uniformImage(320, 240, color.RGBA{90, 160, 40, 255})
	// Add some texture so the block is not trivially uniform
	for y := 0; y < 240; y += 3 {
		for x := 0; x < 320; x += 7 {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 0, 255})
		}
	}

	opts := DefaultOptions()
	first := Render(img, opts)
	second := Render(img, opts)

	if first != second {
		t.Error("identical input produced different output")
	}
}

func TestRender_DegradedInput(t *testing.T) {
	if got := Render(nil, DefaultOptions()); got != "" {
		t.Errorf("nil image: expected empty block, got %q", got)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if got := Render(empty, DefaultOptions()); got != "" {
		t.Errorf("zero-sized image: expected empty block, got %q", got)
	}
}

func TestRender_OffsetBounds(t *testing.T) {
	// Sub-images have a non-zero Min; sampling must honor it
	base := uniformImage(200, 200, color.RGBA{0, 0, 0, 255})
	sub := base.SubImage(image.Rect(50, 50, 150, 190)).(*image.RGBA)

	block := Render(sub, Options{CharWidth: 10, CharHeight: 14, MaxWidth: 100, MaxHeight: 60})

	lines := strings.Split(block, "\n")
	if len(lines) != 10 {
		t.Fatalf("rows: got %d, want 10", len(lines))
	}
	for i, line := range lines {
		if line != strings.Repeat("@", 10) {
			t.Errorf("line %d: expected '@', got %q", i, line)
		}
	}
}

func TestOptions_GridNeverEmpty(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		opts   Options
	}{
		{"tiny frame", 1, 1, DefaultOptions()},
		{"zero options", 640, 480, Options{}},
		{"negative options", 640, 480, Options{CharWidth: -1, CharHeight: -1, MaxWidth: -1, MaxHeight: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cols, rows := tc.opts.Grid(tc.width, tc.height)
			if cols < 1 || rows < 1 {
				t.Errorf("degenerate grid %dx%d", cols, rows)
			}
		})
	}
}
