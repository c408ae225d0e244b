package placeholder

import "strings"

// scanMarkdown locates inline-link image references: ![alt](dest).
// Alt and destination honor backslash escapes, the destination may be
// wrapped in angle brackets, and a trailing quoted title is split off
// before the path is captured.
func scanMarkdown(text string) []match {
	var out []match
	for i := 0; i+1 < len(text); {
		j := strings.Index(text[i:], "![")
		if j < 0 {
			break
		}
		start := i + j
		if m, ok := parseInline(text, start); ok {
			out = append(out, m)
			i = m.end
			continue
		}
		i = start + 2
	}
	return out
}

func parseInline(text string, start int) (match, bool) {
	// Alt text: everything up to the first unescaped ']'.
	i := start + 2
	alt, i, ok := scanUntil(text, i, ']')
	if !ok || i >= len(text) || text[i] != '(' {
		return match{}, false
	}
	i++ // past '('
	i = skipSpace(text, i)
	if i >= len(text) {
		return match{}, false
	}

	var path string
	if text[i] == '<' {
		var rawDest string
		rawDest, i, ok = scanUntil(text, i+1, '>')
		if !ok {
			return match{}, false
		}
		path = unescape(strings.TrimSpace(rawDest))
		// Optional quoted title after an angle-bracket destination.
		i = skipSpace(text, i)
		if i < len(text) && (text[i] == '"' || text[i] == '\'') {
			_, i, ok = scanUntil(text, i+1, text[i])
			if !ok {
				return match{}, false
			}
			i = skipSpace(text, i)
		}
	} else {
		var rawDest string
		rawDest, i, ok = scanDest(text, i)
		if !ok {
			return match{}, false
		}
		path = unescape(splitTitle(rawDest))
	}
	if i >= len(text) || text[i] != ')' {
		return match{}, false
	}
	end := i + 1

	return match{
		start:  start,
		end:    end,
		alt:    unescape(alt),
		path:   path,
		syntax: SyntaxMarkdown,
	}, true
}

// scanUntil consumes characters up to an unescaped stop byte and returns
// the raw content plus the index one past the stop byte.
func scanUntil(text string, i int, stop byte) (string, int, bool) {
	var b strings.Builder
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i += 2
		case c == stop:
			return b.String(), i + 1, true
		case c == '\n' && stop == ']':
			// alt text stays on one logical construct; a bare newline is fine
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

// scanDest consumes a bare destination, balancing parentheses and honoring
// escapes, and stops before the closing ')'. Trailing whitespace (and a
// possible title after it) stays in the returned raw string.
func scanDest(text string, i int) (string, int, bool) {
	var b strings.Builder
	depth := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i += 2
		case c == '(':
			depth++
			b.WriteByte(c)
			i++
		case c == ')':
			if depth == 0 {
				return b.String(), i, true
			}
			depth--
			b.WriteByte(c)
			i++
		case c == '\n':
			return "", 0, false
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

// splitTitle strips a trailing quoted title ("..." or '...') separated from
// the path by whitespace, then trims the remainder.
func splitTitle(raw string) string {
	s := strings.TrimRight(raw, " \t")
	if n := len(s); n >= 2 {
		last := s[n-1]
		if last == '"' || last == '\'' {
			if open := strings.LastIndexByte(s[:n-1], last); open > 0 {
				before := s[:open]
				if trimmed := strings.TrimRight(before, " \t"); len(trimmed) < len(before) {
					s = trimmed
				}
			}
		}
	}
	return strings.TrimSpace(s)
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

// unescape resolves backslash escapes: \X -> X.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
