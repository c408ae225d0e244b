package promptsynth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"illustrify/internal/aiclient"
	"illustrify/internal/placeholder"
)

func TestTwoPromptsFromAltSkipsModel(t *testing.T) {
	fake := aiclient.NewFakeClient()
	s := NewSynthesizer(fake, Defaults())

	ph := placeholder.Placeholder{AltText: "  a red fox  ", Context: "the fox chapter"}
	pair, err := s.TwoPrompts(context.Background(), "full doc", ph)
	require.NoError(t, err)
	require.Contains(t, pair.Primary, "a red fox")
	require.Contains(t, pair.Secondary, "a red fox")
	require.NotEqual(t, pair.Primary, pair.Secondary)
	require.Empty(t, fake.TextCalls)
}

func TestTwoPromptsAnalyzePath(t *testing.T) {
	fake := aiclient.NewFakeClient()
	fake.QueueText(aiclient.TextReply{
		Text: "preamble <prompt_1>a city at dusk</prompt_1> and <prompt_2>a city at dawn</prompt_2> trailer",
	})
	s := NewSynthesizer(fake, Defaults())

	ph := placeholder.Placeholder{AltText: "   ", Context: "the city section"}
	pair, err := s.TwoPrompts(context.Background(), "the whole document", ph)
	require.NoError(t, err)
	require.Equal(t, "a city at dusk", pair.Primary)
	require.Equal(t, "a city at dawn", pair.Secondary)

	require.Len(t, fake.TextCalls, 1)
	require.Contains(t, fake.TextCalls[0], "the whole document")
	require.Contains(t, fake.TextCalls[0], "the city section")
}

func TestTwoPromptsMissingTag(t *testing.T) {
	fake := aiclient.NewFakeClient()
	fake.QueueText(aiclient.TextReply{Text: "<prompt_1>only one</prompt_1>"})
	s := NewSynthesizer(fake, Defaults())

	_, err := s.TwoPrompts(context.Background(), "doc", placeholder.Placeholder{})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "prompt_2", perr.Tag)
}

func TestTwoPromptsPropagatesClientError(t *testing.T) {
	fake := aiclient.NewFakeClient()
	boom := errors.New("boom")
	fake.QueueText(aiclient.TextReply{Err: boom})
	s := NewSynthesizer(fake, Defaults())

	_, err := s.TwoPrompts(context.Background(), "doc", placeholder.Placeholder{})
	require.ErrorIs(t, err, boom)
}

func TestExtractTagged(t *testing.T) {
	out, err := ExtractTagged("x <tag>  inner  </tag> y", "tag")
	require.NoError(t, err)
	require.Equal(t, "inner", out)

	_, err = ExtractTagged("<tag>   </tag>", "tag")
	require.Error(t, err)

	_, err = ExtractTagged("<tag>never closed", "tag")
	require.Error(t, err)
}

func TestDescribeAttachesImage(t *testing.T) {
	fake := aiclient.NewFakeClient()
	fake.QueueText(aiclient.TextReply{Text: "a watercolor hill"})
	s := NewSynthesizer(fake, Defaults())

	desc, err := s.Describe(context.Background(), aiclient.Image{Data: []byte{1}, MIMEType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, "a watercolor hill", desc)
	require.Len(t, fake.TextCalls, 1)

	prompt := s.FromDescription(desc + "\n")
	require.Contains(t, prompt, "a watercolor hill")
}

func TestLoadTemplatesMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("from_alt_primary: \"custom {alt_text}\"\n"), 0o644))

	tm, err := LoadTemplates(path)
	require.NoError(t, err)
	require.Equal(t, "custom {alt_text}", tm.FromAltPrimary)
	require.Equal(t, Defaults().Analyze, tm.Analyze)

	tm2, err := LoadTemplates("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), tm2)

	_, err = LoadTemplates(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
