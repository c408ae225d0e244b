package promptsynth

import (
	"fmt"
	"strings"
)

// ParseError reports a model response missing an expected tagged segment.
// It is fatal for the current attempt; transport retries are already
// exhausted by the time it surfaces.
type ParseError struct {
	Tag string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("promptsynth: response missing <%s> segment", e.Tag)
}

// ExtractTagged returns the trimmed content of <tag>...</tag> in raw.
func ExtractTagged(raw, tag string) (string, error) {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"
	i := strings.Index(raw, open)
	if i < 0 {
		return "", &ParseError{Tag: tag}
	}
	rest := raw[i+len(open):]
	j := strings.Index(rest, closing)
	if j < 0 {
		return "", &ParseError{Tag: tag}
	}
	out := strings.TrimSpace(rest[:j])
	if out == "" {
		return "", &ParseError{Tag: tag}
	}
	return out, nil
}
