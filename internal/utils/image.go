package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DecodeBase64Image accepts either a data URI ("data:image/png;base64,...")
// or a bare base64 payload, which is assumed to be JPEG as produced by the
// camera.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)

	if payload == "" {
		return nil, "", errors.New("empty image")
	}

	contentType := "image/jpeg"
	data := payload

	if strings.HasPrefix(payload, "data:") {
		meta, body, found := strings.Cut(payload, ",")

		if !found {
			return nil, "", errors.New("invalid data URI")
		}

		mediaType := strings.TrimPrefix(meta, "data:")
		mediaType, _, _ = strings.Cut(mediaType, ";")

		if !strings.HasPrefix(mediaType, "image/") {
			return nil, "", fmt.Errorf("unsupported content type %q", mediaType)
		}

		contentType = mediaType
		data = body
	}

	raw, err := base64.StdEncoding.DecodeString(data)

	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	return raw, contentType, nil
}

// StripDataURI returns the bare base64 payload of a data URI.
func StripDataURI(payload string) string {
	if strings.HasPrefix(payload, "data:") {
		if _, body, found := strings.Cut(payload, ","); found {
			return body
		}
	}

	return payload
}
