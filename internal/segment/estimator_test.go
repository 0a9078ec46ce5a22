package segment

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

func withCorners(tl, tr, bl, br color.NRGBA) *image.NRGBA {
	img := filledImage(5, 4, color.NRGBA{1, 2, 3, 255})
	img.SetNRGBA(0, 0, tl)
	img.SetNRGBA(4, 0, tr)
	img.SetNRGBA(0, 3, bl)
	img.SetNRGBA(4, 3, br)
	return img
}

func TestCornerEstimator(t *testing.T) {
	a := color.NRGBA{10, 10, 10, 255}
	b := color.NRGBA{200, 0, 0, 255}
	c := color.NRGBA{0, 200, 0, 255}
	d := color.NRGBA{0, 0, 200, 255}

	tests := []struct {
		name string
		img  *image.NRGBA
		want imaging.Color
	}{
		{"identical corners", withCorners(a, a, a, a), imaging.Color{R: 10, G: 10, B: 10}},
		{"majority wins", withCorners(b, a, a, a), imaging.Color{R: 10, G: 10, B: 10}},
		{"two-two tie goes to top-left", withCorners(b, a, a, b), imaging.Color{R: 200}},
		{"two-two tie with top-left alone", withCorners(c, a, b, a), imaging.Color{R: 10, G: 10, B: 10}},
		{"all distinct elects top-left", withCorners(a, b, c, d), imaging.Color{R: 10, G: 10, B: 10}},
		{"alpha ignored", withCorners(color.NRGBA{5, 6, 7, 0}, color.NRGBA{5, 6, 7, 255}, a, d), imaging.Color{R: 5, G: 6, B: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CornerEstimator{}.Estimate(tt.img)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCornerEstimator_SinglePixel(t *testing.T) {
	got, err := CornerEstimator{}.Estimate(filledImage(1, 1, color.NRGBA{9, 8, 7, 255}))
	require.NoError(t, err)
	assert.Equal(t, imaging.Color{R: 9, G: 8, B: 7}, got)
}

func TestCornerEstimator_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.SetNRGBA(10, 20, red)
	img.SetNRGBA(12, 20, red)

	got, err := CornerEstimator{}.Estimate(img)
	require.NoError(t, err)
	assert.Equal(t, imaging.Color{R: 255}, got)
}

func TestCornerEstimator_Empty(t *testing.T) {
	_, err := CornerEstimator{}.Estimate(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, imaging.ErrProcessing)
}
