package placeholder

import (
	"path"
	"strings"
)

// AssetIndex maps known asset paths to their contents. Placeholder paths
// resolve by suffix: a placeholder path normalizing to "img/x.png" matches
// a known asset "assets/img/x.png".
type AssetIndex struct {
	order []string
	data  map[string][]byte
}

func NewAssetIndex() *AssetIndex {
	return &AssetIndex{data: make(map[string][]byte)}
}

// Add registers an asset under its path (slash-separated).
func (ix *AssetIndex) Add(assetPath string, content []byte) {
	if ix == nil {
		return
	}
	p := normalize(assetPath)
	if p == "" {
		return
	}
	if _, exists := ix.data[p]; !exists {
		ix.order = append(ix.order, p)
	}
	ix.data[p] = content
}

// Len returns the number of indexed assets.
func (ix *AssetIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.data)
}

// Resolve finds the first indexed asset whose path has the normalized
// placeholder path as a suffix.
func (ix *AssetIndex) Resolve(rawPath string) ([]byte, bool) {
	if ix == nil {
		return nil, false
	}
	want := normalize(rawPath)
	if want == "" {
		return nil, false
	}
	for _, p := range ix.order {
		if p == want || strings.HasSuffix(p, "/"+want) {
			return ix.data[p], true
		}
	}
	return nil, false
}

// normalize strips a leading "./" and cleans the path to forward slashes.
func normalize(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	if p == "" || p == "." {
		return ""
	}
	return path.Clean(p)
}
