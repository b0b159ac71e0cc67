package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // imaging registers jpeg, png, gif, bmp and tiff
)

func (p *ImageProcessor) readFile(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no file provided", ErrReadFile)
	}

	data, err := io.ReadAll(io.LimitReader(r, p.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	if int64(len(data)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: file size exceeds maximum allowed size %d", ErrReadFile, p.maxFileSize)
	}

	return data, nil
}

func (p *ImageProcessor) decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrDecodeImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrDecodeImage, cfg.Width, cfg.Height, p.maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	return img, nil
}
