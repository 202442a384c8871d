// Package ascii converts bitmap frames to monospaced character art.
//
// Render is a pure function: the same frame and options always produce the
// same text block, so a caller may run it once per display tick without any
// shared state.
package ascii

import (
	"image"
	"strings"
)

// Ramp is the glyph ramp ordered darkest to lightest. Index 0 carries the
// most ink, the last index is blank.
const Ramp = "@%#*+=-:. "

// Options control how a frame is subdivided into character cells.
// Zero or negative fields fall back to the defaults.
type Options struct {
	CharWidth  int // Pixel width of one sampling block
	CharHeight int // Pixel height of one sampling block
	MaxWidth   int // Upper bound on grid columns
	MaxHeight  int // Upper bound on grid rows
}

// DefaultOptions returns the standard sampling configuration.
func DefaultOptions() Options {
	return Options{
		CharWidth:  10,
		CharHeight: 14,
		MaxWidth:   100,
		MaxHeight:  60,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.CharWidth < 1 {
		o.CharWidth = def.CharWidth
	}
	if o.CharHeight < 1 {
		o.CharHeight = def.CharHeight
	}
	if o.MaxWidth < 1 {
		o.MaxWidth = def.MaxWidth
	}
	if o.MaxHeight < 1 {
		o.MaxHeight = def.MaxHeight
	}
	return o
}

// Grid returns the effective character grid for a frame of the given pixel
// size. Both dimensions are floored at 1 so the grid is never empty.
func (o Options) Grid(width, height int) (cols, rows int) {
	o = o.normalized()

	cols = width / o.CharWidth
	if cols > o.MaxWidth {
		cols = o.MaxWidth
	}
	if cols < 1 {
		cols = 1
	}

	rows = height / o.CharHeight
	if rows > o.MaxHeight {
		rows = o.MaxHeight
	}
	if rows < 1 {
		rows = 1
	}

	return cols, rows
}

// Render converts a frame to a newline-joined block of exactly rows lines of
// cols characters each, per the grid returned by Grid.
//
// Each cell samples a CharWidth x CharHeight pixel block anchored at
// (x*width/cols, y*height/rows). Pixels past the frame edge are skipped.
// Cell brightness is the alpha-weighted luminance of the block normalized to
// [0,1], which selects a ramp glyph: dark blocks pick dense glyphs, bright
// blocks pick blanks.
//
// A nil or zero-sized frame renders as an empty string. That is the degraded
// case, not an error: the caller's loop carries on next tick.
func Render(img image.Image, opts Options) string {
	if img == nil {
		return ""
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < 1 || height < 1 {
		return ""
	}

	opts = opts.normalized()
	cols, rows := opts.Grid(width, height)

	// Full-block normalization: edge cells with a partial block read fewer
	// pixels but divide by the same denominator.
	denom := float64(opts.CharWidth) * float64(opts.CharHeight) * 255.0

	lines := make([]string, 0, rows)
	var line strings.Builder

	for y := 0; y < rows; y++ {
		line.Reset()
		line.Grow(cols)

		anchorY := bounds.Min.Y + y*height/rows

		for x := 0; x < cols; x++ {
			anchorX := bounds.Min.X + x*width/cols

			sum := 0.0
			for py := anchorY; py < anchorY+opts.CharHeight && py < bounds.Max.Y; py++ {
				for px := anchorX; px < anchorX+opts.CharWidth && px < bounds.Max.X; px++ {
					sum += luminance(img, px, py)
				}
			}

			line.WriteByte(glyph(sum / denom))
		}

		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// luminance returns the alpha-scaled perceived brightness of one pixel in
// the 0-255 range.
func luminance(img image.Image, x, y int) float64 {
	r, g, b, a := img.At(x, y).RGBA()

	// RGBA returns 16-bit channels; shift down to 8-bit
	lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)

	return lum * float64(a>>8) / 255.0
}

// glyph maps a normalized brightness in [0,1] to a ramp character.
func glyph(brightness float64) byte {
	idx := int(brightness * float64(len(Ramp)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(Ramp) {
		idx = len(Ramp) - 1
	}
	return Ramp[idx]
}
