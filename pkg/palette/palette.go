// Package palette defines the enumerated accent colors used by the
// dashboard and the frame painters.
package palette

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the accent used when no color was chosen or the chosen
// name is unknown.
const DefaultName = "green"

// Accent is one selectable accent color.
type Accent struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

var accents = []Accent{
	{Name: "green", Hex: "#33ff66"},
	{Name: "amber", Hex: "#ffbf00"},
	{Name: "cyan", Hex: "#22d3ee"},
	{Name: "magenta", Hex: "#ff4fd8"},
	{Name: "white", Hex: "#f5f5f5"},
	{Name: "red", Hex: "#ff3b30"},
}

// List returns all selectable accents in display order.
func List() []Accent {
	out := make([]Accent, len(accents))
	copy(out, accents)
	return out
}

// Names returns the accent names in display order.
func Names() []string {
	names := make([]string, len(accents))
	for i, a := range accents {
		names[i] = a.Name
	}
	return names
}

// Has reports whether name is a known accent.
func Has(name string) bool {
	for _, a := range accents {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Get resolves an accent name to its color. Unknown names fall back to the
// default accent rather than failing.
func Get(name string) color.RGBA {
	hex := ""
	for _, a := range accents {
		if a.Name == name {
			hex = a.Hex
			break
		}
	}
	if hex == "" {
		for _, a := range accents {
			if a.Name == DefaultName {
				hex = a.Hex
				break
			}
		}
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		// Palette hexes are compile-time constants; this cannot happen
		return color.RGBA{0, 255, 0, 255}
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
