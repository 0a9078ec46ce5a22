// Package imaging provides the image plumbing shared by the background tools.
//
// It decodes input bytes into a non-premultiplied RGBA pixel matrix
// (*image.NRGBA), parses and formats colors, samples pixels, encodes PNG output
// and writes files atomically. It also defines the error taxonomy every tool
// reports through.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Decode always returns an image
// whose bounds start at (0,0).
//
// # Pixel Format
//
// Decoded images are *image.NRGBA regardless of the source format. Alpha is
// stored straight (not premultiplied), so rewriting the alpha channel never
// changes the stored RGB values.
//
// # Errors
//
// Functions return errors wrapping one of the sentinels declared in errors.go:
//   - ErrNotFound: the input path does not exist
//   - ErrConfiguration: a parameter such as a hex color is invalid
//   - ErrDecode: the input bytes are not an image
//   - ErrProcessing, ErrFatal: reported by the pipelines built on this package
//
// # Thread Safety
//
// The package holds no mutable state. Every call works on values owned by the
// caller and may run concurrently with any other call.
package imaging
