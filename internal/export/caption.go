package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"illustrify/internal/aiclient"
	"illustrify/internal/promptsynth"
	"illustrify/internal/utils"
)

const captionCacheSize = 256

// Caption is the export-time naming for one chosen image.
type Caption struct {
	Filename string // filename-safe slug, no extension
	Alt      string // accessibility alt string
}

// Captioner asks the text capability to caption a chosen image. Identical
// images caption once per session via a digest-keyed cache.
type Captioner struct {
	Client    aiclient.Client
	Templates promptsynth.Templates
	cache     *lru.Cache[string, Caption]
}

func NewCaptioner(client aiclient.Client, templates promptsynth.Templates) *Captioner {
	cache, _ := lru.New[string, Caption](captionCacheSize)
	return &Captioner{Client: client, Templates: templates, cache: cache}
}

// Caption produces a filename slug and alt text for img.
func (c *Captioner) Caption(ctx context.Context, img aiclient.Image) (Caption, error) {
	sum := sha256.Sum256(img.Data)
	key := hex.EncodeToString(sum[:])
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	raw, err := c.Client.GenerateText(ctx, c.Templates.Caption, img)
	if err != nil {
		return Caption{}, err
	}
	name, err := promptsynth.ExtractTagged(raw, "filename")
	if err != nil {
		return Caption{}, err
	}
	alt, err := promptsynth.ExtractTagged(raw, "alt_text")
	if err != nil {
		return Caption{}, err
	}

	out := Caption{Filename: utils.FilenameSlug(name), Alt: alt}
	c.cache.Add(key, out)
	return out, nil
}
