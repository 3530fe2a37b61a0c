package domain

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageInput is an encoded image payload as received from the client,
// usually a data URI. It is passed to the inference backend untouched.
type ImageInput string

// ErrEmptyImage is returned when an image payload is blank.
var ErrEmptyImage = errors.New("image payload is empty")

// Validate performs the cheap structural check done before the pipeline runs.
// The payload itself is treated as opaque.
func (i ImageInput) Validate() error {
	if strings.TrimSpace(string(i)) == "" {
		return ErrEmptyImage
	}
	return nil
}

// String returns the payload.
func (i ImageInput) String() string {
	return string(i)
}

// NewImageInputFromBytes sniffs the image format of data and wraps it into a
// base64 data URI.
// Parameters:
//   - data: raw image bytes (jpeg, png, gif or webp).
//
// Returns:
//   - ImageInput: data URI carrying the image.
//   - error: non-nil if the bytes are not a decodable image.
func NewImageInputFromBytes(data []byte) (ImageInput, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to detect image format: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return ImageInput(fmt.Sprintf("data:%s;base64,%s", MIMEType(format), encoded)), nil
}

// MIMEType maps an image format name to its MIME type.
func MIMEType(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
