package imagesynth

import (
	"context"
	"fmt"

	"illustrify/internal/aiclient"
	"illustrify/internal/promptsynth"
)

// restyleInstruction rides along whenever a style reference is attached:
// restyle, do not recompose.
const restyleInstruction = `

Apply the visual style of the attached style reference image. Preserve the subject and layout described above; change only the rendering technique.`

// improveInstruction seeds the improve call with the placeholder's source
// image.
const improveInstruction = `Improve and re-render the attached source image as a polished document illustration. Keep its subject and composition recognizable.`

// Synthesizer drives the image capability for one prompt at a time. The
// client is expected to already carry the retry middleware.
type Synthesizer struct {
	Client  aiclient.Client
	Prompts *promptsynth.Synthesizer
}

func NewSynthesizer(client aiclient.Client, prompts *promptsynth.Synthesizer) *Synthesizer {
	return &Synthesizer{Client: client, Prompts: prompts}
}

// Produce renders an image for the prompt, attaching the style reference
// (with the restyle instruction) when present. The payload is validated
// before acceptance.
func (s *Synthesizer) Produce(ctx context.Context, prompt string, styleRef *aiclient.Image) (*aiclient.Image, error) {
	var refs []aiclient.Image
	if styleRef != nil {
		prompt += restyleInstruction
		refs = append(refs, *styleRef)
	}
	img, err := s.Client.GenerateImage(ctx, prompt, refs)
	if err != nil {
		return nil, err
	}
	if err := Validate(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Improve re-renders an existing source image, optionally biased by the
// style reference.
func (s *Synthesizer) Improve(ctx context.Context, source aiclient.Image, styleRef *aiclient.Image) (*aiclient.Image, error) {
	prompt := improveInstruction
	refs := []aiclient.Image{source}
	if styleRef != nil {
		prompt += restyleInstruction
		refs = append(refs, *styleRef)
	}
	img, err := s.Client.GenerateImage(ctx, prompt, refs)
	if err != nil {
		return nil, err
	}
	if err := Validate(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Reimagine runs the two-stage describe-then-generate sub-pipeline: the
// source image is described in text, the description goes through the
// prompt synthesis path, and a brand-new image is generated without the
// original pixels. Each stage fails with its own label so callers can tell
// them apart.
func (s *Synthesizer) Reimagine(ctx context.Context, source aiclient.Image, styleRef *aiclient.Image) (*aiclient.Image, error) {
	desc, err := s.Prompts.Describe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reimagine describe stage: %w", err)
	}
	prompt := s.Prompts.FromDescription(desc)
	img, err := s.Produce(ctx, prompt, styleRef)
	if err != nil {
		return nil, fmt.Errorf("reimagine generate stage: %w", err)
	}
	return img, nil
}

// Edit renders a successor version of current according to the edit
// instruction. The current image is attached so the service mutates rather
// than reinvents.
func (s *Synthesizer) Edit(ctx context.Context, current aiclient.Image, instruction string, styleRef *aiclient.Image) (*aiclient.Image, error) {
	prompt := "Apply this edit to the attached image, changing nothing else: " + instruction
	refs := []aiclient.Image{current}
	if styleRef != nil {
		prompt += restyleInstruction
		refs = append(refs, *styleRef)
	}
	img, err := s.Client.GenerateImage(ctx, prompt, refs)
	if err != nil {
		return nil, err
	}
	if err := Validate(img); err != nil {
		return nil, err
	}
	return img, nil
}
