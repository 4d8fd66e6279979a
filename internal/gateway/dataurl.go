package gateway

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	DefaultImageMIME = "image/png"
	base64Marker     = "base64,"

	// shortest payload that can hold a real image
	minImagePayload = 100
)

func ToDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = DefaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// StripHeader returns the base64 part of a data URL. Bare base64 passes through.
func StripHeader(s string) string {
	if i := strings.Index(s, base64Marker); i >= 0 {
		return s[i+len(base64Marker):]
	}
	return s
}

// DecodeImage turns a data URL or bare base64 string into bytes and a MIME
// type. Payloads too short to be an image are rejected before decoding.
func DecodeImage(s string) ([]byte, string, error) {
	payload := StripHeader(s)
	if len(payload) < minImagePayload {
		return nil, "", fmt.Errorf("%w: payload too short", ErrInvalidImage)
	}
	mime := DefaultImageMIME
	if strings.HasPrefix(s, "data:") {
		if end := strings.IndexAny(s, ";,"); end > len("data:") {
			mime = s[len("data:"):end]
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return data, mime, nil
}
