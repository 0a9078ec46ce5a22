package segment

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

const (
	// DefaultTolerance is the per-channel distance below which a pixel
	// matches the background reference color.
	DefaultTolerance = 30

	// NearWhiteThreshold is the per-channel floor used by the fallback
	// classifier: a pixel is background when every channel exceeds it.
	NearWhiteThreshold = 240
)

// Mask flags every pixel of an image as background (true) or foreground.
type Mask struct {
	width, height int
	bits          []bool
}

func newMask(w, h int) *Mask {
	return &Mask{width: w, height: h, bits: make([]bool, w*h)}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// At reports whether the pixel at (x, y) is background.
func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.width+x]
}

// Count returns the number of background pixels.
func (m *Mask) Count() int {
	n := 0
	for _, bg := range m.bits {
		if bg {
			n++
		}
	}
	return n
}

// NewToleranceMask classifies each pixel against ref.
//
// A pixel is background iff |R-ref.R|, |G-ref.G| and |B-ref.B| are all strictly
// below tolerance. The matched region is a cube in RGB space, not a sphere.
// Alpha is ignored.
func NewToleranceMask(img *image.NRGBA, ref imaging.Color, tolerance int) (*Mask, error) {
	if tolerance < 1 || tolerance > 256 {
		return nil, fmt.Errorf("%w: tolerance %d outside [1,256]", imaging.ErrConfiguration, tolerance)
	}
	return classify(img, func(r, g, b uint8) bool {
		return absDiff(r, ref.R) < tolerance &&
			absDiff(g, ref.G) < tolerance &&
			absDiff(b, ref.B) < tolerance
	}), nil
}

// NearWhiteMask flags pixels whose channels all exceed threshold.
func NearWhiteMask(img *image.NRGBA, threshold uint8) *Mask {
	return classify(img, func(r, g, b uint8) bool {
		return r > threshold && g > threshold && b > threshold
	})
}

func classify(img *image.NRGBA, isBackground func(r, g, b uint8) bool) *Mask {
	bounds := img.Bounds()
	m := newMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.height; y++ {
		i := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < m.width; x++ {
			m.bits[y*m.width+x] = isBackground(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
			i += 4
		}
	}
	return m
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
