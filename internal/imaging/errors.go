package imaging

import "errors"

// Error taxonomy shared by every tool in this module.
//
// Callers wrap these with fmt.Errorf("...: %w", ...) and classify with
// errors.Is. ErrNotFound and ErrConfiguration are caller mistakes and are never
// retried. ErrDecode and ErrProcessing are recoverable by the segmentation
// fallback chain. ErrFatal means every strategy has been exhausted.
var (
	// ErrNotFound reports that the input path does not exist.
	ErrNotFound = errors.New("input not found")

	// ErrConfiguration reports an invalid parameter such as a malformed hex
	// color, an out-of-range transparency level or an unsupported scale factor.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDecode reports that the input bytes are not a decodable image.
	ErrDecode = errors.New("failed to decode image")

	// ErrProcessing reports an unexpected failure while estimating, masking
	// or compositing.
	ErrProcessing = errors.New("processing failed")

	// ErrFatal reports that the fallback strategy failed as well.
	ErrFatal = errors.New("all strategies failed")
)

// IsCallerError reports whether err is one that must never be retried.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConfiguration)
}
