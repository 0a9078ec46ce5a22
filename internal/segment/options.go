package segment

import (
	"fmt"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

// Mode selects how background pixels appear in the output.
type Mode string

const (
	// ModeTransparent keeps an alpha channel and fades background pixels.
	ModeTransparent Mode = "transparent"

	// ModeSolid flattens the image onto a fill color and drops alpha.
	ModeSolid Mode = "solid"
)

// ParseMode converts a user supplied mode name. The empty string selects
// ModeTransparent.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTransparent:
		return ModeTransparent, nil
	case ModeSolid:
		return ModeSolid, nil
	default:
		return "", fmt.Errorf("%w: unknown background type %q (want transparent or solid)", imaging.ErrConfiguration, s)
	}
}

// DefaultFillColor is used for solid output when no color is given.
const DefaultFillColor = "#ffffff"

// Options controls one segmentation run.
type Options struct {
	// Mode is the requested output mode.
	Mode Mode

	// FillColor is the "#RRGGBB" color painted behind the subject in
	// ModeSolid. It is validated whenever set, but only used in ModeSolid.
	// Empty means DefaultFillColor.
	FillColor string

	// Level is the transparency percentage applied to background pixels in
	// ModeTransparent: 100 removes them, 0 leaves them opaque. ModeSolid
	// always uses full removal.
	Level int

	// Tolerance overrides DefaultTolerance when positive.
	Tolerance int
}

// RemoveBackgroundOptions returns options for full background removal.
func RemoveBackgroundOptions(mode Mode, fillColor string) Options {
	return Options{Mode: mode, FillColor: fillColor, Level: 100}
}

// TransparencyOptions returns options that fade the background to level
// percent transparency.
func TransparencyOptions(level int) Options {
	return Options{Mode: ModeTransparent, Level: level}
}

// settings is the validated form of Options.
type settings struct {
	mode      Mode
	fill      imaging.Color
	level     int
	tolerance int
}

// Validate checks every parameter without touching any pixel.
func (o Options) Validate() error {
	_, err := o.resolve()
	return err
}

func (o Options) resolve() (settings, error) {
	s := settings{mode: o.Mode, level: o.Level, tolerance: o.Tolerance}

	if s.mode == "" {
		s.mode = ModeTransparent
	}
	if s.mode != ModeTransparent && s.mode != ModeSolid {
		return settings{}, fmt.Errorf("%w: unknown mode %q", imaging.ErrConfiguration, o.Mode)
	}

	if o.Level < 0 || o.Level > 100 {
		return settings{}, fmt.Errorf("%w: transparency level %d must be between 0 and 100", imaging.ErrConfiguration, o.Level)
	}

	fill := o.FillColor
	if fill == "" {
		fill = DefaultFillColor
	}
	c, err := imaging.ParseHexColor(fill)
	if err != nil {
		return settings{}, err
	}
	s.fill = c

	switch {
	case o.Tolerance == 0:
		s.tolerance = DefaultTolerance
	case o.Tolerance < 1 || o.Tolerance > 256:
		return settings{}, fmt.Errorf("%w: tolerance %d outside [1,256]", imaging.ErrConfiguration, o.Tolerance)
	}

	if s.mode == ModeSolid {
		s.level = 100
	}
	return s, nil
}
