package upscale

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// checkerboard returns a w x h image of alternating black and white blocks.
func checkerboard(w, h, block int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{0, 0, 0, 255}
			if (x/block+y/block)%2 == 0 {
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

type failingSharpener struct{}

func (failingSharpener) Sharpen(*image.NRGBA) (*image.NRGBA, error) {
	return nil, errors.New("no sharpening backend")
}

func TestParseFactor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 2, false},
		{"2x", 2, false},
		{"4x", 4, false},
		{"8X", 8, false},
		{"4", 4, false},
		{"3x", 0, true},
		{"16x", 0, true},
		{"x", 0, true},
		{"two", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFactor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, imaging.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpscale_Dimensions(t *testing.T) {
	src := encodeTestPNG(t, checkerboard(10, 6, 2))

	for _, factor := range SupportedFactors {
		res, err := New(nil).Upscale(src, factor)
		require.NoError(t, err)

		assert.Equal(t, 10*factor, res.Width)
		assert.Equal(t, 6*factor, res.Height)
		assert.True(t, res.Sharpened)

		decoded, err := png.Decode(bytes.NewReader(res.PNG))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 10*factor, 6*factor), decoded.Bounds())
		// opaque output is encoded as RGB
		assert.Equal(t, color.RGBAModel, decoded.ColorModel())
	}
}

func TestUpscale_InvalidFactor(t *testing.T) {
	src := encodeTestPNG(t, checkerboard(4, 4, 1))
	_, err := New(nil).Upscale(src, 3)
	assert.ErrorIs(t, err, imaging.ErrConfiguration)
}

func TestUpscale_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	res, err := New(nil).Upscale(encodeTestPNG(t, img), 2)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	_, _, _, a := decoded.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestUpscale_SharpenerFailureDegrades(t *testing.T) {
	src := encodeTestPNG(t, checkerboard(8, 8, 2))

	u := &Upscaler{Sharpener: failingSharpener{}}
	res, err := u.Upscale(src, 2)
	require.NoError(t, err)
	assert.False(t, res.Sharpened)
	assert.Equal(t, 16, res.Width)

	plain, err := (&Upscaler{}).Upscale(src, 2)
	require.NoError(t, err)
	assert.False(t, plain.Sharpened)
	assert.Equal(t, plain.PNG, res.PNG)
}

func TestUnsharpMask_UniformImageUnchanged(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 100, 150, 200, 255
	}

	out, err := DefaultSharpener.Sharpen(img)
	require.NoError(t, err)
	for i := range img.Pix {
		assert.InDelta(t, img.Pix[i], out.Pix[i], 1, "byte %d", i)
	}
}

func TestUnsharpMask_IncreasesEdgeContrast(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		v := uint8(80)
		if x >= 4 {
			v = 180
		}
		img.SetNRGBA(x, 0, color.NRGBA{v, v, v, 255})
	}

	out, err := DefaultSharpener.Sharpen(img)
	require.NoError(t, err)
	assert.Less(t, out.NRGBAAt(3, 0).R, uint8(80), "dark side of the edge should get darker")
	assert.Greater(t, out.NRGBAAt(4, 0).R, uint8(180), "bright side of the edge should get brighter")
}

func TestUnsharpMask_InvalidSigma(t *testing.T) {
	_, err := UnsharpMask{Sigma: 0, Amount: 0.5}.Sharpen(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, encodeTestPNG(t, checkerboard(5, 5, 1)), 0o644))

	output := filepath.Join(dir, "nested", "out.png")
	res, err := New(nil).Run(input, output, 4)
	require.NoError(t, err)
	assert.Equal(t, output, res.OutputPath)

	dims, err := imaging.GetDimensions(output)
	require.NoError(t, err)
	assert.Equal(t, 20, dims.Width)
	assert.Equal(t, 20, dims.Height)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.png")

	_, err := New(nil).Run(filepath.Join(dir, "missing.png"), output, 2)
	assert.ErrorIs(t, err, imaging.ErrNotFound)

	_, err = New(nil).Run(filepath.Join(dir, "missing.png"), output, 5)
	assert.ErrorIs(t, err, imaging.ErrConfiguration)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = New(nil).Run(garbage, output, 2)
	assert.ErrorIs(t, err, imaging.ErrDecode)

	assert.NoFileExists(t, output)
}
