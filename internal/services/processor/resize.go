package processor

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitDimensions scales width and height to fit inside a bound x bound box,
// preserving aspect ratio. Images already inside the box are unchanged.
func FitDimensions(width, height, bound int) (int, int) {
	if width >= height && width > bound {
		return bound, scaleSide(height, bound, width)
	}
	if height > bound {
		return scaleSide(width, bound, height), bound
	}
	return width, height
}

func scaleSide(side, target, reference int) int {
	scaled := int(math.Round(float64(side) * float64(target) / float64(reference)))
	return max(1, scaled)
}

// renderImage draws the source onto a fresh surface of the target size.
func (p *ImageProcessor) renderImage(img image.Image, width, height int) (image.Image, error) {
	bounds := img.Bounds()
	if bounds.Empty() || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty drawing surface %dx%d", ErrRenderImage, width, height)
	}

	var rendered *image.NRGBA
	if width == bounds.Dx() && height == bounds.Dy() {
		rendered = imaging.Clone(img)
	} else {
		rendered = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	if rendered == nil || rendered.Bounds().Empty() {
		return nil, fmt.Errorf("%w: drawing surface unavailable", ErrRenderImage)
	}

	return rendered, nil
}
