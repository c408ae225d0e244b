package aiclient

import "context"

// Image is a generated or source image payload.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client is the opaque generative capability consumed by the rest of the
// module. It only focuses on the API calls themselves. Cross-cutting
// concerns (rate limiting, retries, logging) are applied via ai.Middleware.
type Client interface {
	Name() string
	// GenerateText sends the prompt (plus optional image attachments) and
	// returns the model's text response.
	GenerateText(ctx context.Context, prompt string, images ...Image) (string, error)
	// GenerateImage renders an image for the prompt. Attached images act as
	// references (source image, style reference). A nil result with a nil
	// error never occurs; absence of a renderable image is an error.
	GenerateImage(ctx context.Context, prompt string, images []Image) (*Image, error)
	Close() error
}
