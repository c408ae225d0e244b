package promptsynth

import (
	"context"
	"strings"

	"illustrify/internal/aiclient"
	"illustrify/internal/placeholder"
)

// Pair is the two candidate prompts for one placeholder.
type Pair struct {
	Primary   string
	Secondary string
}

// Synthesizer turns a placeholder's alt text or surrounding context into
// illustration prompts. The client is expected to already carry the retry
// middleware.
type Synthesizer struct {
	Client    aiclient.Client
	Templates Templates
}

func NewSynthesizer(client aiclient.Client, templates Templates) *Synthesizer {
	return &Synthesizer{Client: client, Templates: templates}
}

// TwoPrompts produces the candidate prompt pair. Usable alt text (non-empty
// after trimming) templates prompts locally without an external call;
// otherwise the document plus context window go through the analyze call
// and the two tagged segments are extracted.
func (s *Synthesizer) TwoPrompts(ctx context.Context, doc string, ph placeholder.Placeholder) (Pair, error) {
	alt := strings.TrimSpace(ph.AltText)
	if alt != "" {
		tokens := map[string]string{"alt_text": alt, "context": ph.Context}
		return Pair{
			Primary:   Expand(s.Templates.FromAltPrimary, tokens),
			Secondary: Expand(s.Templates.FromAltSecondary, tokens),
		}, nil
	}

	prompt := Expand(s.Templates.Analyze, map[string]string{
		"file_content": doc,
		"context":      ph.Context,
	})
	raw, err := s.Client.GenerateText(ctx, prompt)
	if err != nil {
		return Pair{}, err
	}
	p1, err := ExtractTagged(raw, "prompt_1")
	if err != nil {
		return Pair{}, err
	}
	p2, err := ExtractTagged(raw, "prompt_2")
	if err != nil {
		return Pair{}, err
	}
	return Pair{Primary: p1, Secondary: p2}, nil
}

// FromDescription routes a textual image description through the alt-text
// template path. Used by the describe-then-reimagine pipeline.
func (s *Synthesizer) FromDescription(desc string) string {
	return Expand(s.Templates.FromAltPrimary, map[string]string{"alt_text": strings.TrimSpace(desc)})
}

// Describe asks the text capability to describe an existing source image.
func (s *Synthesizer) Describe(ctx context.Context, img aiclient.Image) (string, error) {
	return s.Client.GenerateText(ctx, s.Templates.Describe, img)
}
