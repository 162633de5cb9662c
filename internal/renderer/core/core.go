// Package core provides the cell and color types shared by the backend and
// the UI layer.
package core

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Attribute represents text attributes.
type Attribute uint8

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint/dim text
	AttrUnderline           // Underlined text
	AttrReverse             // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a 24-bit color or the terminal's default.
type Color struct {
	R, G, B uint8

	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack  = Color{R: 0, G: 0, B: 0}
	ColorWhite  = Color{R: 255, G: 255, B: 255}
	ColorRed    = Color{R: 255, G: 0, B: 0}
	ColorYellow = Color{R: 255, G: 255, B: 0}
	ColorGray   = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFrom converts any image/color value. Nil gives the default color.
func ColorFrom(c color.Color) Color {
	if c == nil {
		return ColorDefault
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// Fully transparent.
		return ColorDefault
	}
	r, g, b := cf.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	cf, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, err
	}
	r, g, b := cf.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Blend mixes c toward other by amount in [0, 1] in Lab space.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default || other.Default {
		return c
	}
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	r, g, bl := a.BlendLab(b, amount).Clamped().RGB255()
	return Color{R: r, G: g, B: bl}
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
	}
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a new style with attrs added.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// Cell represents a single terminal cell. A wide grapheme occupies its
// first cell; the following cells have Width 0.
type Cell struct {
	Text  string
	Width int
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1, Style: DefaultStyle()}
}

// ContinuationCell returns the filler for the second half of a wide
// grapheme.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation reports whether c is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// StringWidth returns the number of cells s occupies.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// CellsFromString splits s into cells by grapheme cluster.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		cells = append(cells, Cell{Text: cluster, Width: width, Style: style})
		for i := 1; i < width; i++ {
			cells = append(cells, ContinuationCell(style))
		}
	}
	return cells
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	var out []byte
	for _, c := range cells {
		out = append(out, c.Text...)
	}
	return string(out)
}

// ScreenRect is a rectangle of cells; Bottom and Right are exclusive.
type ScreenRect struct {
	Top, Left, Bottom, Right int
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(top, left, height, width int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the width of the rectangle.
func (r ScreenRect) Width() int {
	return max(r.Right-r.Left, 0)
}

// Height returns the height of the rectangle.
func (r ScreenRect) Height() int {
	return max(r.Bottom-r.Top, 0)
}

// IsEmpty returns true if the rectangle has no area.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains returns true if (x, y) is within the rectangle.
func (r ScreenRect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Intersection returns the overlap of two rectangles.
func (r ScreenRect) Intersection(other ScreenRect) ScreenRect {
	out := ScreenRect{
		Top:    max(r.Top, other.Top),
		Left:   max(r.Left, other.Left),
		Bottom: min(r.Bottom, other.Bottom),
		Right:  min(r.Right, other.Right),
	}
	if out.IsEmpty() {
		return ScreenRect{}
	}
	return out
}
