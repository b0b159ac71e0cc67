package processor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/phambaophuc/el-inspector/pkg/utils"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y += 7 {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}

	buffer := &bytes.Buffer{}
	require.NoError(t, png.Encode(buffer, img))
	return buffer.Bytes()
}

func decodeDataURL(t *testing.T, dataURL string) image.Image {
	t.Helper()

	mimeType, data, err := utils.DecodeDataURL(dataURL)
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", mimeType)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"small untouched", 800, 600, 800, 600},
		{"exact bound untouched", 1024, 1024, 1024, 1024},
		{"wide", 2048, 1024, 1024, 512},
		{"wide uneven", 3000, 2000, 1024, 683},
		{"tall", 1000, 4000, 256, 1024},
		{"square large", 2000, 2000, 1024, 1024},
		{"tall but narrow enough", 500, 1025, 500, 1024},
		{"extreme strip keeps one pixel", 100000, 10, 1024, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitDimensions(tt.width, tt.height, 1024)
			require.Equal(t, tt.wantW, w)
			require.Equal(t, tt.wantH, h)
		})
	}
}

func TestPreprocessKeepsSmallImages(t *testing.T) {
	p := NewImageProcessor(Options{})

	out, err := p.Preprocess(bytes.NewReader(pngImage(t, 320, 200)))
	require.NoError(t, err)
	require.Equal(t, 320, out.Width)
	require.Equal(t, 200, out.Height)
	require.False(t, out.Resized())
	require.True(t, strings.HasPrefix(out.DataURL, "data:image/jpeg;base64,"))

	img := decodeDataURL(t, out.DataURL)
	require.Equal(t, 320, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())
}

func TestPreprocessDownscalesWideImage(t *testing.T) {
	p := NewImageProcessor(Options{})

	out, err := p.Preprocess(bytes.NewReader(pngImage(t, 2048, 1536)))
	require.NoError(t, err)
	require.Equal(t, 1024, out.Width)
	require.Equal(t, 768, out.Height)
	require.Equal(t, 2048, out.OriginalWidth)
	require.True(t, out.Resized())

	img := decodeDataURL(t, out.DataURL)
	require.Equal(t, 1024, img.Bounds().Dx())
	require.Equal(t, 768, img.Bounds().Dy())
}

func TestPreprocessDownscalesTallImage(t *testing.T) {
	p := NewImageProcessor(Options{MaxDimension: 256})

	out, err := p.Preprocess(bytes.NewReader(pngImage(t, 300, 600)))
	require.NoError(t, err)
	require.Equal(t, 128, out.Width)
	require.Equal(t, 256, out.Height)
	require.Equal(t, "image/jpeg", out.MIMEType)
}

func TestPreprocessRejectsNonImage(t *testing.T) {
	p := NewImageProcessor(Options{})

	_, err := p.Preprocess(strings.NewReader("%PDF-1.4 not an image"))
	require.ErrorIs(t, err, ErrDecodeImage)

	_, err = p.Preprocess(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrDecodeImage)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestPreprocessReadFailure(t *testing.T) {
	p := NewImageProcessor(Options{})

	_, err := p.Preprocess(failingReader{})
	require.ErrorIs(t, err, ErrReadFile)
	require.NotErrorIs(t, err, ErrDecodeImage)
}

func TestPreprocessRejectsOversizedFile(t *testing.T) {
	data := pngImage(t, 64, 64)
	p := NewImageProcessor(Options{MaxFileSize: int64(len(data) - 1)})

	_, err := p.Preprocess(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrReadFile)
}

// pngHeader returns a PNG signature and IHDR chunk declaring width x height
// with no pixel data behind it.
func pngHeader(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth, grayscale, no interlace

	chunk := append([]byte("IHDR"), ihdr...)
	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, uint32(len(ihdr)))
	out = append(out, chunk...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(chunk))
}

func TestPreprocessRejectsPixelBombBeforeDecoding(t *testing.T) {
	p := NewImageProcessor(Options{})

	_, err := p.Preprocess(bytes.NewReader(pngHeader(16000, 16000)))
	require.ErrorIs(t, err, ErrDecodeImage)
	require.Contains(t, err.Error(), "pixel limit")
}

func TestPreprocessHonoursPixelBudget(t *testing.T) {
	p := NewImageProcessor(Options{MaxPixels: 100 * 100})

	_, err := p.Preprocess(bytes.NewReader(pngImage(t, 101, 100)))
	require.ErrorIs(t, err, ErrDecodeImage)

	out, err := p.Preprocess(bytes.NewReader(pngImage(t, 100, 100)))
	require.NoError(t, err)
	require.Equal(t, 100, out.Width)
}

func TestAnnotateKeepsDimensions(t *testing.T) {
	p := NewImageProcessor(Options{})

	out, err := p.Preprocess(bytes.NewReader(pngImage(t, 200, 120)))
	require.NoError(t, err)
	_, data, err := utils.DecodeDataURL(out.DataURL)
	require.NoError(t, err)

	annotated, err := p.Annotate(data, "Hotspot 92.5%")
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(annotated))
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 120, img.Bounds().Dy())

	_, err = p.Annotate([]byte("garbage"), "Normal")
	require.ErrorIs(t, err, ErrDecodeImage)
}
