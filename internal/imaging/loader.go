package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ReadInput reads the raw bytes of an input image.
//
// A missing path is reported as ErrNotFound so callers can fail fast before
// any decode attempt. Other read failures are returned wrapped as-is.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// CheckInput verifies that path exists without reading it.
func CheckInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to stat input: %w", err)
	}
	return nil
}

// Decode interprets data as an image and normalizes it to a non-premultiplied
// RGBA pixel matrix whose bounds start at (0,0).
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The returned image
// is a fresh copy owned by the caller; nothing is cached between calls.
//
// # Errors
//
//   - Returns ErrDecode if the bytes are not a recognizable image or the image
//     has no pixels.
func Decode(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	return imaging.Clone(img), nil
}

// Load reads and decodes the image at path.
func Load(path string) (*image.NRGBA, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the registered decoder, for
	// example "png", "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// HasAlpha is true when at least one pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads an image and returns its metadata.
//
// The format is detected from the file contents rather than the extension, so
// a PNG saved as "photo.jpg" is still reported as "png". HasAlpha inspects the
// decoded pixels: a PNG with an alpha channel whose pixels are all opaque
// reports false.
func LoadImageInfo(path string) (*ImageInfo, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        format,
		HasAlpha:      !img.Opaque(),
		FileSizeBytes: int64(len(data)),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image using only its header.
func GetDimensions(path string) (*DimensionsResult, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &DimensionsResult{Width: cfg.Width, Height: cfg.Height}, nil
}
