package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var ErrMalformedDataURL = errors.New("malformed data URL")

var dataURLPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// IsImageContentType reports whether a declared or sniffed content type is an image type.
func IsImageContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "image/")
}

// SniffContentType detects the content type from the leading bytes.
func SniffContentType(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	return http.DetectContentType(data)
}

// EncodeDataURL renders data as data:<mime>;base64,<payload>.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SplitDataURL matches the data URL shape and returns its MIME type and raw base64 payload.
func SplitDataURL(dataURL string) (mimeType, payload string, err error) {
	matches := dataURLPattern.FindStringSubmatch(dataURL)
	if len(matches) != 3 {
		return "", "", ErrMalformedDataURL
	}
	return matches[1], matches[2], nil
}

// DecodeDataURL matches the data URL shape and decodes its payload.
func DecodeDataURL(dataURL string) (mimeType string, data []byte, err error) {
	mimeType, payload, err := SplitDataURL(dataURL)
	if err != nil {
		return "", nil, err
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}

	return mimeType, data, nil
}
