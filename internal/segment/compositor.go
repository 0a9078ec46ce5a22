package segment

import (
	"fmt"
	"image"
	"math"

	disimg "github.com/disintegration/imaging"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

// AlphaForLevel converts a transparency percentage into the alpha assigned to
// background pixels.
//
// 100 removes the background (alpha 0) and 0 leaves it untouched (alpha 255).
// Levels in between set alpha to round(level/100*255), so level 99 leaves the
// background almost opaque while 100 removes it.
func AlphaForLevel(level int) uint8 {
	switch {
	case level >= 100:
		return 0
	case level <= 0:
		return 255
	default:
		return uint8(math.Round(float64(level) / 100 * 255))
	}
}

// ApplyAlpha returns a copy of src whose alpha channel follows mask.
//
// Background pixels get AlphaForLevel(level); foreground pixels are always
// fully opaque. src is not modified.
func ApplyAlpha(src *image.NRGBA, mask *Mask, level int) (*image.NRGBA, error) {
	bounds := src.Bounds()
	if bounds.Dx() != mask.Width() || bounds.Dy() != mask.Height() {
		return nil, fmt.Errorf("%w: mask %dx%d does not match image %dx%d",
			imaging.ErrProcessing, mask.Width(), mask.Height(), bounds.Dx(), bounds.Dy())
	}

	out := disimg.Clone(src)
	bgAlpha := AlphaForLevel(level)
	for y := 0; y < mask.Height(); y++ {
		i := y*out.Stride + 3
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) {
				out.Pix[i] = bgAlpha
			} else {
				out.Pix[i] = 255
			}
			i += 4
		}
	}
	return out, nil
}

// Flatten pastes src onto a canvas of the fill color, using src's alpha as
// the stencil, and returns the fully opaque result.
//
// src is expected to carry binary alpha (0 or 255), as produced by ApplyAlpha
// at level 100: opaque pixels keep their color exactly and transparent ones
// become fill.
func Flatten(src *image.NRGBA, fill imaging.Color) *image.NRGBA {
	bounds := src.Bounds()
	canvas := disimg.New(bounds.Dx(), bounds.Dy(), fill.RGBA())
	return disimg.Overlay(canvas, src, image.Pt(0, 0), 1.0)
}

// Output is a composited image ready for encoding.
type Output struct {
	Image *image.NRGBA

	// Mode and Level are the values actually applied.
	Mode  Mode
	Level int
}

// HasAlpha reports whether the encoded output keeps its alpha channel.
func (o *Output) HasAlpha() bool {
	return o.Mode == ModeTransparent
}

// composite applies the output mode to src.
func composite(src *image.NRGBA, mask *Mask, s settings) (*Output, error) {
	if s.mode == ModeSolid {
		cut, err := ApplyAlpha(src, mask, 100)
		if err != nil {
			return nil, err
		}
		return &Output{Image: Flatten(cut, s.fill), Mode: ModeSolid, Level: 100}, nil
	}

	faded, err := ApplyAlpha(src, mask, s.level)
	if err != nil {
		return nil, err
	}
	return &Output{Image: faded, Mode: ModeTransparent, Level: s.level}, nil
}
