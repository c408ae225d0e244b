package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// Text and image generation go to separate models.
type GeminiClient struct {
	cli        *genai.Client
	textModel  string
	imageModel string
}

func NewGeminiClient(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiClient, error) {
	// NOTE: apiKey may be empty; the genai client reads GEMINI_API_KEY from
	// env. Keep the parameter for a consistent factory signature.
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if strings.TrimSpace(apiKey) != "" {
		cfg.APIKey = apiKey
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	return &GeminiClient{cli: cli, textModel: textModel, imageModel: imageModel}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.textModel + "/" + g.imageModel }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, images ...Image) (string, error) {
	parts := buildParts(prompt, images)
	resp, err := g.cli.Models.GenerateContent(ctx, g.textModel,
		[]*genai.Content{{Parts: parts}}, nil)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			b.WriteString(p.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func (g *GeminiClient) GenerateImage(ctx context.Context, prompt string, images []Image) (*Image, error) {
	parts := buildParts(prompt, images)
	resp, err := g.cli.Models.GenerateContent(ctx, g.imageModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return &Image{Data: p.InlineData.Data, MIMEType: p.InlineData.MIMEType}, nil
		}
	}
	return nil, ErrEmptyResponse
}

func buildParts(prompt string, images []Image) []*genai.Part {
	parts := make([]*genai.Part, 0, len(images)+1)
	parts = append(parts, &genai.Part{Text: prompt})
	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		mime := img.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: img.Data}})
	}
	return parts
}

// classify maps genai transport errors onto the module taxonomy: HTTP 429 /
// RESOURCE_EXHAUSTED is retryable, everything else is permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || strings.EqualFold(apiErr.Status, "RESOURCE_EXHAUSTED") {
			return NewRateLimitError(err)
		}
		return NewPermanentError(err)
	}
	// Unknown transport failure (network, timeout); leave as-is so the
	// retry layer treats it as fatal rather than burning attempts.
	return fmt.Errorf("gemini: %w", err)
}
