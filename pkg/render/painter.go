// Package render paints onto the visible output surface: ASCII text blocks
// in the ascii branch, detection overlays in the video branch.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/glyphcam/glyphcam/pkg/detect"
)

// Padding is the margin around the text block in output pixels.
const Padding = 8

// Selectable font size bounds for the ASCII branch.
const (
	MinFontSize = 8
	MaxFontSize = 16
)

const jpegQuality = 80

var background = color.RGBA{R: 14, G: 14, B: 18, A: 255}

// Painter owns the output surface dimensions and a cache of monospaced
// font faces, one per font size.
type Painter struct {
	mu     sync.Mutex
	width  int
	height int
	fnt    *sfnt.Font
	faces  map[int]font.Face
}

// NewPainter creates a painter for an output surface of the given size.
// The size is usually re-applied once the real capture resolution is known.
func NewPainter(width, height int) (*Painter, error) {
	fnt, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}

	return &Painter{
		width:  width,
		height: height,
		fnt:    fnt,
		faces:  make(map[int]font.Face),
	}, nil
}

// Resize updates the output surface dimensions.
func (p *Painter) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
	p.height = height
}

// Size returns the current output surface dimensions.
func (p *Painter) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// ClampFontSize bounds a requested font size to the selectable range.
func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// Face returns the cached monospaced face for the given (clamped) size.
func (p *Painter) Face(size int) (font.Face, error) {
	size = ClampFontSize(size)

	p.mu.Lock()
	defer p.mu.Unlock()

	if face, ok := p.faces[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(p.fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face size %d: %w", size, err)
	}

	p.faces[size] = face
	return face, nil
}

// Text clears the output surface and draws the ASCII block line by line at
// (Padding, Padding + row*lineHeight) in the accent color, where lineHeight
// is fontSize+1.
func (p *Painter) Text(block string, fontSize int, accent color.Color) (*image.RGBA, error) {
	fontSize = ClampFontSize(fontSize)

	face, err := p.Face(fontSize)
	if err != nil {
		return nil, err
	}

	width, height := p.Size()
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	dc.SetFontFace(face)
	dc.SetColor(accent)

	// DrawString positions the baseline, so shift each line down by the
	// face ascent
	ascent := face.Metrics().Ascent.Ceil()
	lineHeight := fontSize + 1

	for row, line := range strings.Split(block, "\n") {
		y := float64(Padding + row*lineHeight + ascent)
		dc.DrawString(line, float64(Padding), y)
	}

	return toRGBA(dc.Image()), nil
}

// Overlay copies the frame and draws a stroked rectangle plus a center
// marker for each detection in the accent color.
func (p *Painter) Overlay(frame *image.RGBA, dets []detect.Detection, accent color.Color) *image.RGBA {
	out := copyRGBA(frame)
	if out == nil {
		return nil
	}

	dc := gg.NewContextForRGBA(out)
	dc.SetColor(accent)
	dc.SetLineWidth(2)

	for _, d := range dets {
		dc.DrawRectangle(float64(d.X), float64(d.Y), float64(d.W), float64(d.H))
		dc.Stroke()

		cx, cy := d.Center()
		dc.DrawCircle(float64(cx), float64(cy), 3)
		dc.Fill()
	}

	return out
}

// EncodeJPEG encodes a painted surface for websocket broadcast.
func EncodeJPEG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("render: nil image")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("render: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func copyRGBA(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
