package segment

import (
	"fmt"
	"image"

	"github.com/cenkalti/dominantcolor"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

// PaletteSize is how many dominant colors Analyze reports.
const PaletteSize = 4

// PaletteEntry is one dominant color and the share of the image it covers.
type PaletteEntry struct {
	Hex    string  `json:"hex"`
	Weight float64 `json:"weight"`
}

// Analysis reports what the primary tier would classify, without producing
// an output image.
type Analysis struct {
	Background       imaging.ColorResult `json:"background"`
	Tolerance        int                 `json:"tolerance"`
	BackgroundPixels int                 `json:"background_pixels"`
	TotalPixels      int                 `json:"total_pixels"`
	Coverage         float64             `json:"coverage"`
	Width            int                 `json:"width"`
	Height           int                 `json:"height"`

	// Palette lists the dominant colors of the whole image, heaviest first.
	// When the estimated background is not among them the corners are
	// probably not background.
	Palette []PaletteEntry `json:"palette"`
}

// Analyze estimates the background of src and counts the pixels inside its
// tolerance cube. A tolerance of 0 means DefaultTolerance.
func (s *Segmenter) Analyze(src []byte, tolerance int) (*Analysis, error) {
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	if tolerance < 1 || tolerance > 256 {
		return nil, fmt.Errorf("%w: tolerance %d outside [1,256]", imaging.ErrConfiguration, tolerance)
	}

	img, err := imaging.Decode(src)
	if err != nil {
		return nil, err
	}

	bg, err := s.estimator().Estimate(img)
	if err != nil {
		return nil, asProcessing(err)
	}
	mask, err := NewToleranceMask(img, bg, tolerance)
	if err != nil {
		return nil, err
	}

	total := mask.Width() * mask.Height()
	n := mask.Count()
	return &Analysis{
		Background:       bg.Describe(),
		Tolerance:        tolerance,
		BackgroundPixels: n,
		TotalPixels:      total,
		Coverage:         float64(n) / float64(total),
		Width:            mask.Width(),
		Height:           mask.Height(),
		Palette:          dominantPalette(img),
	}, nil
}

func dominantPalette(img image.Image) []PaletteEntry {
	found := dominantcolor.FindWeight(img, PaletteSize)
	palette := make([]PaletteEntry, 0, len(found))
	for _, c := range found {
		palette = append(palette, PaletteEntry{
			Hex:    imaging.Color{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B}.Hex(),
			Weight: c.Weight,
		})
	}
	return palette
}
