package utils

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// Slugify lowercases s and collapses every non-alphanumeric run into a
// single dash. Returns "" when nothing survives.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// FilenameSlug returns a filename-safe slug for s, falling back to
// "image-<hash>" when s slugifies to nothing.
func FilenameSlug(s string) string {
	if slug := Slugify(s); slug != "" {
		return slug
	}
	return "image-" + ShortHashHex(s)
}

// ShortHashHex returns a short stable hex digest of s.
func ShortHashHex(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", uint32(h.Sum64()&0xffffffff))
}
