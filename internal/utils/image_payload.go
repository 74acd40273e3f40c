package utils

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

// MaxImageBytes caps decoded uploads.
const MaxImageBytes = 10 << 20

var (
	ErrEmptyImage       = errors.New("empty image payload")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image too large")
)

// DecodeImagePayload decodes an inline base64 or data URL image and returns
// the raw bytes together with its file extension. The bytes must parse as a
// png, jpeg, gif or webp image.
func DecodeImagePayload(payload string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, "", ErrEmptyImage
	}

	mimeType, base64Payload := SplitDataURL(trimmed)
	base64Payload = strings.TrimSpace(base64Payload)
	if base64Payload == "" {
		return nil, "", ErrEmptyImage
	}
	if base64.StdEncoding.DecodedLen(len(base64Payload)) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(base64Payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}

	ext := ExtensionFromMime("image/" + format)
	if ext == "" {
		ext = ExtensionFromMime(mimeType)
	}
	if ext == "" {
		return nil, "", ErrUnsupportedImage
	}
	return data, ext, nil
}
