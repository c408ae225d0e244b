package promptsynth

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Templates holds the caller-supplied prompt templates. Substitution
// tokens: {alt_text}, {context}, {file_content}. Empty fields fall back to
// the built-in defaults.
type Templates struct {
	// FromAltPrimary / FromAltSecondary template the two candidate prompts
	// directly from usable alt text.
	FromAltPrimary   string `yaml:"from_alt_primary"`
	FromAltSecondary string `yaml:"from_alt_secondary"`
	// Analyze asks the text capability to derive two prompts from the full
	// document and the placeholder's context window. The response must
	// carry <prompt_1> and <prompt_2> tagged segments.
	Analyze string `yaml:"analyze"`
	// Describe asks for a textual description of an existing source image.
	Describe string `yaml:"describe"`
	// Caption asks for a filename slug and accessibility alt text for a
	// chosen image, in <filename> and <alt_text> tagged segments.
	Caption string `yaml:"caption"`
}

const (
	defaultFromAltPrimary = `Create a clean, professional illustration for a document. Subject: {alt_text}. Use a coherent composition with a clear focal point.`

	defaultFromAltSecondary = `Create an alternative illustration for a document, with a different composition and mood than a first attempt. Subject: {alt_text}.`

	defaultAnalyze = `You are helping illustrate a text document. Read the full document and the local context around an image placeholder, then propose two distinct illustration prompts for that spot.

Return exactly two tagged segments and nothing else:
<prompt_1>first illustration prompt</prompt_1>
<prompt_2>second, clearly different illustration prompt</prompt_2>

[DOCUMENT]
{file_content}

[PLACEHOLDER CONTEXT]
{context}`

	defaultDescribe = `Describe this image in one detailed paragraph: subject, composition, setting, notable elements. Plain text only.`

	defaultCaption = `Name and caption this image for use in a document. Return exactly two tagged segments and nothing else:
<filename>short-lowercase-filename-without-extension</filename>
<alt_text>one concise accessibility description</alt_text>`
)

// Defaults returns the built-in template set.
func Defaults() Templates {
	return Templates{
		FromAltPrimary:   defaultFromAltPrimary,
		FromAltSecondary: defaultFromAltSecondary,
		Analyze:          defaultAnalyze,
		Describe:         defaultDescribe,
		Caption:          defaultCaption,
	}
}

// LoadTemplates reads template overrides from a YAML file and merges them
// over the defaults. An empty path returns the defaults.
func LoadTemplates(path string) (Templates, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, err
	}
	var over Templates
	if err := yaml.Unmarshal(raw, &over); err != nil {
		return Templates{}, err
	}
	t.merge(over)
	return t, nil
}

func (t *Templates) merge(over Templates) {
	if strings.TrimSpace(over.FromAltPrimary) != "" {
		t.FromAltPrimary = over.FromAltPrimary
	}
	if strings.TrimSpace(over.FromAltSecondary) != "" {
		t.FromAltSecondary = over.FromAltSecondary
	}
	if strings.TrimSpace(over.Analyze) != "" {
		t.Analyze = over.Analyze
	}
	if strings.TrimSpace(over.Describe) != "" {
		t.Describe = over.Describe
	}
	if strings.TrimSpace(over.Caption) != "" {
		t.Caption = over.Caption
	}
}

// Expand substitutes the known tokens into a template.
func Expand(template string, tokens map[string]string) string {
	out := template
	for k, v := range tokens {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
