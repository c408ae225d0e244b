package imagesynth

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration

	_ "golang.org/x/image/webp" // decoder registration

	"illustrify/internal/aiclient"
)

// minDimension is the smallest width/height accepted as a real candidate.
const minDimension = 16

// ValidationError marks a malformed or trivial image payload. It fails only
// the candidate that produced it; sibling candidates proceed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "imagesynth: invalid image: " + e.Reason
}

// Validate checks a returned payload for a well-formed, non-trivial image
// envelope before it is accepted into a slot.
func Validate(img *aiclient.Image) error {
	if img == nil || len(img.Data) == 0 {
		return &ValidationError{Reason: "empty payload"}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return &ValidationError{Reason: "undecodable envelope: " + err.Error()}
	}
	if cfg.Width < minDimension || cfg.Height < minDimension {
		return &ValidationError{Reason: fmt.Sprintf("trivial dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	return nil
}
