package placeholder

import (
	"sort"
	"strconv"
	"strings"
)

// Syntax identifies which of the two placeholder syntaxes produced a match.
type Syntax string

const (
	SyntaxMarkdown Syntax = "markdown" // ![alt](path)
	SyntaxTag      Syntax = "tag"      // <img src=... alt=...>
)

// contextRadius is the number of characters captured on each side of a
// match to ground prompt synthesis.
const contextRadius = 500

// Placeholder is a located image reference in the source document.
// Immutable after extraction; Start/Length slice the original text to the
// exact original markup.
type Placeholder struct {
	LineNumber     int
	AltText        string
	RawPath        string
	Start          int
	Length         int
	Syntax         Syntax
	Context        string
	HasSourceImage bool
	SourceImage    []byte
}

// Key returns the placeholder's identity used for idempotent dispatch.
// Span coordinates are unique and stable for an immutable document.
func (p Placeholder) Key() string {
	return strconv.Itoa(p.Start) + ":" + strconv.Itoa(p.Length)
}

// Extract scans text and returns every placeholder in ascending source
// order. assets may be nil; when present, a placeholder whose normalized
// path resolves against the index is marked HasSourceImage and carries the
// asset bytes. A broken reference is indistinguishable from a blank one.
func Extract(text string, assets *AssetIndex) []Placeholder {
	matches := scanMarkdown(text)
	matches = append(matches, scanTags(text)...)
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	out := make([]Placeholder, 0, len(matches))
	prevEnd := 0
	for _, m := range matches {
		if m.start < prevEnd {
			continue // nested in a previous match
		}
		prevEnd = m.end

		ph := Placeholder{
			LineNumber: 1 + strings.Count(text[:m.start], "\n"),
			AltText:    m.alt,
			RawPath:    m.path,
			Start:      m.start,
			Length:     m.end - m.start,
			Syntax:     m.syntax,
			Context:    contextWindow(text, m.start, m.end),
		}
		if assets != nil {
			if data, ok := assets.Resolve(ph.RawPath); ok {
				ph.HasSourceImage = true
				ph.SourceImage = data
			}
		}
		out = append(out, ph)
	}
	return out
}

// match is an internal placeholder candidate before record assembly.
type match struct {
	start, end int
	alt, path  string
	syntax     Syntax
}

func contextWindow(text string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
