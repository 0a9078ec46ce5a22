package segment

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

func TestAnalyze(t *testing.T) {
	img := filledImage(10, 10, white)
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y+3, red)
		}
	}
	src := encodeTestPNG(t, img)

	a, err := New(nil).Analyze(src, 0)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", a.Background.Hex)
	assert.Equal(t, DefaultTolerance, a.Tolerance)
	assert.Equal(t, 50, a.BackgroundPixels)
	assert.Equal(t, 100, a.TotalPixels)
	assert.InDelta(t, 0.5, a.Coverage, 1e-9)
	assert.Equal(t, 10, a.Width)

	assert.LessOrEqual(t, len(a.Palette), PaletteSize)
	for _, p := range a.Palette {
		assert.Len(t, p.Hex, 7)
		assert.GreaterOrEqual(t, p.Weight, 0.0)
	}
}

func TestAnalyze_ToleranceWidensMatch(t *testing.T) {
	img := filledImage(4, 4, color.NRGBA{200, 200, 200, 255})
	img.SetNRGBA(1, 1, color.NRGBA{150, 150, 150, 255})
	src := encodeTestPNG(t, img)

	narrow, err := New(nil).Analyze(src, 10)
	require.NoError(t, err)
	wide, err := New(nil).Analyze(src, 60)
	require.NoError(t, err)
	assert.Equal(t, 15, narrow.BackgroundPixels)
	assert.Equal(t, 16, wide.BackgroundPixels)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := New(nil).Analyze(encodeTestPNG(t, filledImage(2, 2, white)), 300)
	assert.ErrorIs(t, err, imaging.ErrConfiguration)

	_, err = New(nil).Analyze([]byte("nope"), 0)
	assert.ErrorIs(t, err, imaging.ErrDecode)

	_, err = (&Segmenter{Estimator: failingEstimator{}}).Analyze(encodeTestPNG(t, filledImage(2, 2, white)), 0)
	assert.ErrorIs(t, err, imaging.ErrProcessing)
}
