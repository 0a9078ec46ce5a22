// Package upscale enlarges images by an integer factor and sharpens the result.
package upscale

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	disimg "github.com/disintegration/imaging"

	"github.com/ironsheep/image-bgtools/internal/imaging"
	"github.com/ironsheep/image-bgtools/internal/logging"
)

// SupportedFactors lists the accepted scale factors.
var SupportedFactors = []int{2, 4, 8}

// DefaultFactor is used when no factor is given.
const DefaultFactor = 2

// ParseFactor accepts "2x", "4X", "8" and so on. The empty string means
// DefaultFactor.
func ParseFactor(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFactor, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(s), "x"))
	if err != nil {
		return 0, fmt.Errorf("%w: upscale factor %q must be 2x, 4x, or 8x", imaging.ErrConfiguration, s)
	}
	if err := ValidateFactor(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidateFactor reports ErrConfiguration unless factor is supported.
func ValidateFactor(factor int) error {
	for _, f := range SupportedFactors {
		if factor == f {
			return nil
		}
	}
	return fmt.Errorf("%w: upscale factor %d must be 2, 4, or 8", imaging.ErrConfiguration, factor)
}

// Sharpener enhances an already resampled image.
type Sharpener interface {
	Sharpen(img *image.NRGBA) (*image.NRGBA, error)
}

// UnsharpMask sharpens by adding back the difference between the image and a
// Gaussian-blurred copy:
//
//	out = img + Amount * (img - blur(img, Sigma))
//
// Results are clipped to [0,255]. Alpha is copied unchanged.
type UnsharpMask struct {
	Sigma  float64
	Amount float64
}

// DefaultSharpener is a Gaussian sigma of 1 with half strength.
var DefaultSharpener = UnsharpMask{Sigma: 1.0, Amount: 0.5}

// Sharpen implements Sharpener.
func (u UnsharpMask) Sharpen(img *image.NRGBA) (*image.NRGBA, error) {
	if u.Sigma <= 0 {
		return nil, fmt.Errorf("unsharp mask sigma must be positive, got %v", u.Sigma)
	}

	blurred := blur.Gaussian(img, u.Sigma)
	out := disimg.Clone(img)
	bounds := out.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		i := y * out.Stride
		j := y * blurred.Stride
		for x := 0; x < bounds.Dx(); x++ {
			for c := 0; c < 3; c++ {
				orig := float64(out.Pix[i+c])
				v := orig + u.Amount*(orig-float64(blurred.Pix[j+c]))
				out.Pix[i+c] = uint8(math.Max(0, math.Min(255, v)))
			}
			i += 4
			j += 4
		}
	}
	return out, nil
}

// Result describes an upscaled image.
type Result struct {
	Factor         int  `json:"factor"`
	OriginalWidth  int  `json:"original_width"`
	OriginalHeight int  `json:"original_height"`
	Width          int  `json:"width"`
	Height         int  `json:"height"`
	Sharpened      bool `json:"sharpened"`

	PNG        []byte `json:"-"`
	OutputPath string `json:"output_path,omitempty"`
}

// Upscaler resamples with Lanczos and then applies its Sharpener.
//
// When Sharpener is nil, or when it fails, the resampled image is used as is
// and Result.Sharpened is false.
type Upscaler struct {
	Sharpener Sharpener
	Logger    *slog.Logger
}

// New returns an Upscaler using DefaultSharpener.
func New(logger *slog.Logger) *Upscaler {
	return &Upscaler{Sharpener: DefaultSharpener, Logger: logger}
}

func (u *Upscaler) logger() *slog.Logger {
	if u.Logger == nil {
		return logging.Nop()
	}
	return u.Logger
}

// Upscale decodes src, enlarges it by factor and encodes the result as an
// opaque RGB PNG. Any alpha in the input is discarded.
func (u *Upscaler) Upscale(src []byte, factor int) (*Result, error) {
	if err := ValidateFactor(factor); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(src)
	if err != nil {
		return nil, err
	}
	dropAlpha(img)

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	resized := disimg.Resize(img, w*factor, h*factor, disimg.Lanczos)
	// Lanczos can ring alpha at the borders; keep the output opaque.
	dropAlpha(resized)

	out, sharpened := resized, false
	if u.Sharpener != nil {
		sharp, err := u.Sharpener.Sharpen(resized)
		if err != nil {
			u.logger().Warn("sharpening unavailable, using resampled image", "err", err)
		} else {
			out, sharpened = sharp, true
		}
	}

	data, err := imaging.EncodePNG(out, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imaging.ErrProcessing, err)
	}

	return &Result{
		Factor:         factor,
		OriginalWidth:  w,
		OriginalHeight: h,
		Width:          out.Bounds().Dx(),
		Height:         out.Bounds().Dy(),
		Sharpened:      sharpened,
		PNG:            data,
	}, nil
}

// Run upscales the image at input and writes the PNG atomically to output.
func (u *Upscaler) Run(input, output string, factor int) (*Result, error) {
	if err := ValidateFactor(factor); err != nil {
		return nil, err
	}

	src, err := imaging.ReadInput(input)
	if err != nil {
		return nil, err
	}

	res, err := u.Upscale(src, factor)
	if err != nil {
		return nil, err
	}

	if err := imaging.WriteFileAtomic(output, res.PNG); err != nil {
		return nil, err
	}
	res.OutputPath = output

	u.logger().Debug("upscale finished",
		"input", input,
		"output", output,
		"factor", factor,
		"width", res.Width,
		"height", res.Height,
		"sharpened", res.Sharpened)
	return res, nil
}

func dropAlpha(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
}
