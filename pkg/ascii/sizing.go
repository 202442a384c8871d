package ascii

import (
	"math"

	"golang.org/x/image/font"
)

// FitOutput derives sampling options from the output surface so the
// character grid fills the visible area at the active font size without
// overflowing.
//
// Columns come from the measured glyph advance of the face, rows from the
// line height (fontSize + 1). The sampling block is then back-derived to
// cover the source frame evenly, so changing the font size re-tiles the
// grid instead of stretching the art.
func FitOutput(outW, outH, padding, fontSize int, face font.Face, srcW, srcH int) Options {
	advance := glyphAdvance(face, fontSize)

	cols := int(float64(outW-2*padding) / advance)
	if cols < 1 {
		cols = 1
	}

	rows := (outH - 2*padding) / (fontSize + 1)
	if rows < 1 {
		rows = 1
	}

	charW := int(math.Round(float64(srcW) / float64(cols)))
	if charW < 1 {
		charW = 1
	}

	charH := int(math.Round(float64(srcH) / float64(rows)))
	if charH < 1 {
		charH = 1
	}

	return Options{
		CharWidth:  charW,
		CharHeight: charH,
		MaxWidth:   cols,
		MaxHeight:  rows,
	}
}

// glyphAdvance measures the horizontal advance of one glyph in pixels.
// The ramp is ASCII-only and the face is monospaced, so any ramp glyph
// measures the same; 'M' is used by convention.
func glyphAdvance(face font.Face, fontSize int) float64 {
	if face != nil {
		if adv, ok := face.GlyphAdvance('M'); ok && adv > 0 {
			return float64(adv) / 64.0
		}
	}

	// No usable face metrics: approximate a monospaced advance
	return float64(fontSize) * 0.6
}
