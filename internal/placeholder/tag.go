package placeholder

import "regexp"

var (
	// reImgTag matches HTML image tags: <img ...>
	reImgTag = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	// reAttr matches one attribute with optional single/double quoting.
	reAttr = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+))`)
)

// scanTags locates <img> tags. Attributes are unordered and possibly
// quoted; a tag without src is not a placeholder and is discarded.
func scanTags(text string) []match {
	var out []match
	for _, loc := range reImgTag.FindAllStringIndex(text, -1) {
		tag := text[loc[0]:loc[1]]
		attrs := parseAttrs(tag)
		src, ok := attrs["src"]
		if !ok || src == "" {
			continue
		}
		out = append(out, match{
			start:  loc[0],
			end:    loc[1],
			alt:    attrs["alt"],
			path:   src,
			syntax: SyntaxTag,
		})
	}
	return out
}

func parseAttrs(tag string) map[string]string {
	attrs := map[string]string{}
	for _, m := range reAttr.FindAllStringSubmatch(tag, -1) {
		name := toLowerASCII(m[1])
		switch {
		case m[2] != "":
			attrs[name] = m[2]
		case m[3] != "":
			attrs[name] = m[3]
		default:
			attrs[name] = m[4]
		}
	}
	return attrs
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
