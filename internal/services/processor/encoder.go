package processor

import (
	"image"
	"image/jpeg"
	"io"
)

const MIMEJPEG = "image/jpeg"

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: p.quality})
}
