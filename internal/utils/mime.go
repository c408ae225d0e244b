package utils

import (
	"path/filepath"
	"strings"
)

// MIMEFromPath maps an image path's extension to its MIME type, defaulting
// to PNG for unknown extensions.
func MIMEFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
