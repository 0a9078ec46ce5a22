package segment

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

// Estimator picks the background reference color of an image.
type Estimator interface {
	Estimate(img *image.NRGBA) (imaging.Color, error)
}

// CornerEstimator elects the background color from the four corner pixels.
//
// The winner is the most frequent RGB triple among top-left, top-right,
// bottom-left and bottom-right, in that order. Ties go to the triple seen first
// in that order, so four distinct corners elect the top-left pixel. Alpha is
// ignored.
//
// Images whose background touches no corner, or whose subject covers corners,
// are misclassified. That is accepted behavior, not an error.
type CornerEstimator struct{}

// Estimate implements Estimator.
func (CornerEstimator) Estimate(img *image.NRGBA) (imaging.Color, error) {
	b := img.Bounds()
	if b.Empty() {
		return imaging.Color{}, fmt.Errorf("%w: cannot estimate background of empty image", imaging.ErrProcessing)
	}

	corners := [4]imaging.Color{
		rgbAt(img, b.Min.X, b.Min.Y),
		rgbAt(img, b.Max.X-1, b.Min.Y),
		rgbAt(img, b.Min.X, b.Max.Y-1),
		rgbAt(img, b.Max.X-1, b.Max.Y-1),
	}

	best, bestVotes := 0, 0
	for i := range corners {
		votes := 0
		for j := range corners {
			if corners[j] == corners[i] {
				votes++
			}
		}
		// strictly greater keeps the earliest corner on ties
		if votes > bestVotes {
			best, bestVotes = i, votes
		}
	}
	return corners[best], nil
}

func rgbAt(img *image.NRGBA, x, y int) imaging.Color {
	i := img.PixOffset(x, y)
	return imaging.Color{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}
