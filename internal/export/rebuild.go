package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"illustrify/internal/placeholder"
)

// Replacement is the finalized markup content for one placeholder.
type Replacement struct {
	Path string // relative image path, e.g. "images/3_cat.png"
	Alt  string
}

var (
	reSrcAttr = regexp.MustCompile(`(?i)(\bsrc\s*=\s*)("([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+))`)
	reAltAttr = regexp.MustCompile(`(?i)(\balt\s*=\s*)("([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+))`)
)

// Rebuild slices the original text between placeholder spans and
// substitutes finalized markup, keeping every non-image byte intact.
// Placeholders and replacements pair by index; spans must not overlap.
func Rebuild(doc string, phs []placeholder.Placeholder, reps []Replacement) (string, error) {
	if len(phs) != len(reps) {
		return "", fmt.Errorf("rebuild: %d placeholders but %d replacements", len(phs), len(reps))
	}
	order := make([]int, len(phs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return phs[order[a]].Start < phs[order[b]].Start })

	var b strings.Builder
	prev := 0
	for _, i := range order {
		ph, rep := phs[i], reps[i]
		if ph.Start < prev || ph.Start+ph.Length > len(doc) {
			return "", fmt.Errorf("rebuild: span %d+%d out of order", ph.Start, ph.Length)
		}
		b.WriteString(doc[prev:ph.Start])
		original := doc[ph.Start : ph.Start+ph.Length]
		b.WriteString(substitute(original, ph.Syntax, rep))
		prev = ph.Start + ph.Length
	}
	b.WriteString(doc[prev:])
	return b.String(), nil
}

func substitute(original string, syntax placeholder.Syntax, rep Replacement) string {
	switch syntax {
	case placeholder.SyntaxTag:
		return rewriteTag(original, rep)
	default:
		return fmt.Sprintf("![%s](%s)", rep.Alt, rep.Path)
	}
}

// rewriteTag rewrites only the src and alt attributes in place, preserving
// all other attributes and surrounding tag text verbatim.
func rewriteTag(tag string, rep Replacement) string {
	out := reSrcAttr.ReplaceAllString(tag, `${1}"`+rep.Path+`"`)
	if reAltAttr.MatchString(out) {
		out = reAltAttr.ReplaceAllString(out, `${1}"`+rep.Alt+`"`)
		return out
	}
	// No alt attribute: add one before the tag close.
	closeIdx := strings.LastIndexByte(out, '>')
	if closeIdx < 0 {
		return out
	}
	end := closeIdx
	selfClose := ""
	if end > 0 && out[end-1] == '/' {
		end--
		selfClose = " /"
	}
	head := strings.TrimRight(out[:end], " \t")
	return head + ` alt="` + rep.Alt + `"` + selfClose + out[closeIdx:]
}
