package processor

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/pkg/utils"
)

const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 80
	DefaultMaxFileSize  = 10 << 20 // 10MB
	DefaultMaxPixels    = 50_000_000
)

// Each failure is recoverable: the user can retry with another file.
var (
	ErrReadFile    = errors.New("failed to read file")
	ErrDecodeImage = errors.New("failed to load image for resizing")
	ErrRenderImage = errors.New("could not render image")
)

type Options struct {
	MaxFileSize  int64
	MaxDimension int
	Quality      int
	// MaxPixels bounds width*height before the full decode.
	MaxPixels int64
}

type ImageProcessor struct {
	maxFileSize  int64
	maxDimension int
	quality      int
	maxPixels    int64
}

func NewImageProcessor(opts Options) *ImageProcessor {
	p := &ImageProcessor{
		maxFileSize:  opts.MaxFileSize,
		maxDimension: opts.MaxDimension,
		quality:      opts.Quality,
		maxPixels:    opts.MaxPixels,
	}
	if p.maxFileSize <= 0 {
		p.maxFileSize = DefaultMaxFileSize
	}
	if p.maxDimension <= 0 {
		p.maxDimension = DefaultMaxDimension
	}
	if p.maxPixels <= 0 {
		p.maxPixels = DefaultMaxPixels
	}
	if p.quality <= 0 || p.quality > 100 {
		p.quality = DefaultQuality
	}
	return p
}

// Preprocess decodes an uploaded image, fits it into the bounding box and
// re-encodes it as a JPEG data URL.
func (p *ImageProcessor) Preprocess(r io.Reader) (*models.UploadedImage, error) {
	data, err := p.readFile(r)
	if err != nil {
		return nil, err
	}

	img, err := p.decodeImage(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := FitDimensions(bounds.Dx(), bounds.Dy(), p.maxDimension)

	rendered, err := p.renderImage(img, width, height)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, rendered); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderImage, err)
	}

	return &models.UploadedImage{
		DataURL:        utils.EncodeDataURL(MIMEJPEG, buffer.Bytes()),
		MIMEType:       MIMEJPEG,
		Width:          width,
		Height:         height,
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
		SizeBytes:      buffer.Len(),
	}, nil
}
