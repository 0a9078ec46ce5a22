package segment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ironsheep/image-bgtools/internal/imaging"
	"github.com/ironsheep/image-bgtools/internal/logging"
)

// Tier identifies which strategy of the fallback chain produced a result.
type Tier string

const (
	// TierPrimary is corner estimation plus tolerance-cube classification,
	// honoring the requested mode and level.
	TierPrimary Tier = "primary"

	// TierDegraded is fixed near-white classification. It always produces
	// transparent output with background alpha 0, whatever was requested.
	TierDegraded Tier = "degraded"
)

// Result is the outcome of a successful run. A failed run returns an error
// wrapping imaging.ErrFatal (or a caller error) instead.
type Result struct {
	// Tier is the strategy that produced the output.
	Tier Tier `json:"tier"`

	// Mode and Level are what was actually applied. For TierDegraded they are
	// always ModeTransparent and 100.
	Mode  Mode `json:"mode"`
	Level int  `json:"transparency_level"`

	// Background is the estimated reference color. It is nil for
	// TierDegraded, which does not estimate.
	Background *imaging.Color `json:"background_color,omitempty"`

	// BackgroundPixels is the number of pixels classified as background.
	BackgroundPixels int `json:"background_pixels"`

	Width    int  `json:"width"`
	Height   int  `json:"height"`
	HasAlpha bool `json:"has_alpha"`

	// Cause is the primary failure that led to TierDegraded.
	Cause error `json:"-"`

	// PNG is the encoded output.
	PNG []byte `json:"-"`

	// OutputPath is set by Run once the output has been written.
	OutputPath string `json:"output_path,omitempty"`
}

// Segmenter runs the segmentation pipeline with its fallback chain.
//
// A Segmenter holds no per-image state; one value may serve any number of
// concurrent calls as long as its fields are not modified meanwhile.
type Segmenter struct {
	// Estimator picks the background color for the primary tier.
	// Nil means CornerEstimator.
	Estimator Estimator

	// Logger receives fallback warnings. Nil discards them.
	Logger *slog.Logger
}

// New returns a Segmenter using the corner estimator.
func New(logger *slog.Logger) *Segmenter {
	return &Segmenter{Estimator: CornerEstimator{}, Logger: logger}
}

func (s *Segmenter) estimator() Estimator {
	if s.Estimator == nil {
		return CornerEstimator{}
	}
	return s.Estimator
}

func (s *Segmenter) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.Nop()
	}
	return s.Logger
}

// Segment turns encoded input bytes into encoded PNG output.
//
// Options are validated first; a configuration error is returned before any
// decoding. The primary tier then runs on a fresh decode of src. If it fails
// for any reason, including a panic, the degraded tier decodes src again and
// classifies near-white pixels as background, producing transparent output
// even when solid output was requested. If that fails too, the returned error
// wraps imaging.ErrFatal and the primary failure.
func (s *Segmenter) Segment(src []byte, opts Options) (*Result, error) {
	cfg, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	res, primaryErr := s.primary(src, cfg)
	if primaryErr == nil {
		return res, nil
	}

	s.logger().Warn("primary segmentation failed, falling back to near-white detection",
		"err", primaryErr,
		"requested_mode", cfg.mode,
		"requested_level", cfg.level)

	res, degradedErr := s.degraded(src)
	if degradedErr != nil {
		return nil, fmt.Errorf("%w: primary: %w; fallback: %w", imaging.ErrFatal, primaryErr, degradedErr)
	}
	res.Cause = primaryErr
	return res, nil
}

func (s *Segmenter) primary(src []byte, cfg settings) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: panic: %v", imaging.ErrProcessing, r)
		}
	}()

	img, err := imaging.Decode(src)
	if err != nil {
		return nil, err
	}

	bg, err := s.estimator().Estimate(img)
	if err != nil {
		return nil, asProcessing(err)
	}

	mask, err := NewToleranceMask(img, bg, cfg.tolerance)
	if err != nil {
		return nil, asProcessing(err)
	}

	out, err := composite(img, mask, cfg)
	if err != nil {
		return nil, asProcessing(err)
	}

	res, err = encode(out, mask)
	if err != nil {
		return nil, err
	}
	res.Tier = TierPrimary
	res.Background = &bg
	return res, nil
}

func (s *Segmenter) degraded(src []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: panic: %v", imaging.ErrProcessing, r)
		}
	}()

	img, err := imaging.Decode(src)
	if err != nil {
		return nil, err
	}

	mask := NearWhiteMask(img, NearWhiteThreshold)
	cut, err := ApplyAlpha(img, mask, 100)
	if err != nil {
		return nil, err
	}

	res, err = encode(&Output{Image: cut, Mode: ModeTransparent, Level: 100}, mask)
	if err != nil {
		return nil, err
	}
	res.Tier = TierDegraded
	return res, nil
}

func encode(out *Output, mask *Mask) (*Result, error) {
	data, err := imaging.EncodePNG(out.Image, out.HasAlpha())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imaging.ErrProcessing, err)
	}
	return &Result{
		Mode:             out.Mode,
		Level:            out.Level,
		BackgroundPixels: mask.Count(),
		Width:            out.Image.Bounds().Dx(),
		Height:           out.Image.Bounds().Dy(),
		HasAlpha:         out.HasAlpha(),
		PNG:              data,
	}, nil
}

// asProcessing makes sure failures inside the pipeline are classified as
// ErrProcessing so they stay eligible for the fallback tier.
func asProcessing(err error) error {
	if errors.Is(err, imaging.ErrProcessing) {
		return err
	}
	return fmt.Errorf("%w: %w", imaging.ErrProcessing, err)
}

// Run segments the image at input and writes the PNG to output.
//
// Parameters are validated before the input is looked at, and the input is
// checked for existence before it is decoded. The output is written
// atomically: on any failure no file is created at output and an existing
// file there is left unchanged. The parent directory of output is created
// if needed.
func (s *Segmenter) Run(input, output string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src, err := imaging.ReadInput(input)
	if err != nil {
		return nil, err
	}

	res, err := s.Segment(src, opts)
	if err != nil {
		return nil, err
	}

	if err := imaging.WriteFileAtomic(output, res.PNG); err != nil {
		return nil, err
	}
	res.OutputPath = output

	s.logger().Debug("segmentation finished",
		"input", input,
		"output", output,
		"tier", res.Tier,
		"mode", res.Mode,
		"level", res.Level,
		"background_pixels", res.BackgroundPixels)
	return res, nil
}
