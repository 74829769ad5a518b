package survey

import (
	"strings"

	"github.com/mbolis/survey-api/model"
)

// Marker distinguishing an inline base64 payload from an external image URL.
const inlineImagePrefix = "data:image"

// ValidateImageSize bounds the decoded size of an inline base64 image.
// External URLs and empty payloads always pass: only inline payloads carry
// bytes through this service. The estimate len*3/4 ignores padding and may
// overshoot the real decoded size by up to two bytes.
func ValidateImageSize(imageURL string) error {
	if imageURL == "" || !strings.HasPrefix(imageURL, inlineImagePrefix) {
		return nil
	}

	estimatedSize := int64(len(imageURL)) * 3 / 4
	if estimatedSize > model.MaxImageSizeBytes {
		return ErrImageTooLarge
	}
	return nil
}
