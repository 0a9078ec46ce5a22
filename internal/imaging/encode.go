package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/segmentio/ksuid"
)

// translucent hides the Opaque method of the wrapped image so the PNG encoder
// always emits an alpha channel, even when every pixel happens to be opaque.
type translucent struct {
	image.Image
}

func (translucent) Opaque() bool { return false }

// EncodePNG encodes img as PNG.
//
// With keepAlpha set the output is always 8-bit RGBA. Without it the caller
// must pass a fully opaque image and the output is 8-bit RGB.
func EncodePNG(img image.Image, keepAlpha bool) ([]byte, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to encode image: empty bounds %v", img.Bounds())
	}
	if keepAlpha {
		img = translucent{img}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFileAtomic writes data to path so that path either holds the complete
// new contents or is left untouched.
//
// The parent directory is created if needed. Data goes to a hidden temporary
// file in the same directory which is then renamed over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+ksuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
