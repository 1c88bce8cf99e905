package sale

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeReceipt splits a data URL ("data:image/png;base64,....") into its media type and payload.
func DecodeReceipt(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrInvalidReceipt
	}

	mediaType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, ErrInvalidReceipt
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}

	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	return mediaType, data, nil
}
