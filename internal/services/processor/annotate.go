package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	labelPadding = 10
	labelHeight  = 24
)

// Annotate stamps label onto a copy of an encoded preview and returns it as JPEG.
func (p *ImageProcessor) Annotate(data []byte, label string) ([]byte, error) {
	img, err := p.decodeImage(data)
	if err != nil {
		return nil, err
	}

	canvas := imaging.Clone(img)
	if label != "" {
		drawLabel(canvas, label)
	}

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, canvas); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderImage, err)
	}
	return buffer.Bytes(), nil
}

func drawLabel(img *image.NRGBA, label string) {
	bounds := img.Bounds()

	band := image.Rect(bounds.Min.X, bounds.Max.Y-labelHeight, bounds.Max.X, bounds.Max.Y)
	if band.Min.Y < bounds.Min.Y {
		band.Min.Y = bounds.Min.Y
	}
	draw.Draw(img, band, image.NewUniform(color.NRGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(bounds.Min.X + labelPadding), Y: fixed.I(bounds.Max.Y - 7)},
	}
	d.DrawString(label)
}
