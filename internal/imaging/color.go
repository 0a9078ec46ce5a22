package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque RGB triple with 8-bit components.
//
// It is used both for the estimated background reference color and for the
// requested fill color of solid-background output.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// White is the default fill color.
var White = Color{R: 255, G: 255, B: 255}

// RGBA returns c as a fully opaque color.NRGBA.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex formats c as lowercase "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHexColor parses a "#RRGGBB" color.
//
// Leading '#' characters are stripped; what remains must be exactly six
// hexadecimal digits (either case). Shorthand "#RGB" and alpha forms are
// rejected. Any violation is reported as ErrConfiguration.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimLeft(s, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: color %q must have exactly 6 hex digits", ErrConfiguration, s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q is not hexadecimal", ErrConfiguration, s)
	}
	return Color{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// RGBAColor is an 8-bit color with alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// ColorResult contains a sampled color in several representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // "#rrggbb", alpha excluded
	RGB  Color     `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGB components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor extracts the color at pixel (x, y).
//
// Coordinates are 0-based relative to the image bounds. Values are
// non-premultiplied, so a fully transparent pixel still reports the RGB it
// carries.
//
// # Errors
//
//   - Returns an error if (x, y) is outside the image bounds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	px, py := bounds.Min.X+x, bounds.Min.Y+y
	if x < 0 || y < 0 || px >= bounds.Max.X || py >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
	res := Color{R: c.R, G: c.G, B: c.B}.Describe()
	res.RGBA.A = c.A
	return &res, nil
}

// Describe returns c in every representation of ColorResult, with an opaque
// alpha.
func (c Color) Describe() ColorResult {
	h, s, l := c.colorful().Hsl()
	return ColorResult{
		Hex:  c.Hex(),
		RGB:  c,
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: 255},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}
