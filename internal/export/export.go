package export

import (
	"context"
	"errors"
	"fmt"
	"log"

	"illustrify/internal/bundle"
	"illustrify/internal/placeholder"
	"illustrify/internal/session"
)

// DocumentEntry is the rebuilt document's path inside the primary bundle.
const DocumentEntry = "document.md"

// ErrUnresolved rejects export while any placeholder lacks a selection.
var ErrUnresolved = errors.New("export: every placeholder must be resolved")

// IntegrityError marks a selection that references an unresolved slot at
// export time. Unreachable if session invariants hold.
type IntegrityError struct {
	Line int
	Err  error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("export: integrity failure at line %d: %v", e.Line, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// Exporter rebuilds the document and packages assets into bundles.
type Exporter struct {
	Store     bundle.Store
	Captioner *Captioner
}

func NewExporter(store bundle.Store, captioner *Captioner) *Exporter {
	return &Exporter{Store: store, Captioner: captioner}
}

// ExportPrimary captions every chosen image, rebuilds the document, and
// writes the document plus an images/ folder under bundleID. Captioning
// runs sequentially to bound external load and keep filename allocation
// deterministic. Returns the rebuilt document text.
func (x *Exporter) ExportPrimary(ctx context.Context, sess *session.Session, bundleID string) (string, error) {
	if !sess.Resolved() {
		return "", ErrUnresolved
	}
	entries := sess.Entries()
	reps := make([]Replacement, len(entries))
	type asset struct {
		path string
		data []byte
	}
	assets := make([]asset, 0, len(entries))

	for i, e := range entries {
		img, err := sess.ChosenImage(i)
		if err != nil {
			return "", &IntegrityError{Line: e.Placeholder.LineNumber, Err: err}
		}
		caption, err := x.Captioner.Caption(ctx, img)
		if err != nil {
			return "", fmt.Errorf("caption line %d: %w", e.Placeholder.LineNumber, err)
		}
		// Line number plus document ordinal keeps filenames collision-free
		// even for identical captions on one source line.
		name := fmt.Sprintf("%d_p%d_%s%s", e.Placeholder.LineNumber, i+1, caption.Filename, extFor(img.MIMEType))
		reps[i] = Replacement{Path: "images/" + name, Alt: caption.Alt}
		assets = append(assets, asset{path: "images/" + name, data: img.Data})
	}

	rebuilt, err := Rebuild(sess.Doc(), placeholdersOf(entries), reps)
	if err != nil {
		return "", err
	}

	if err := x.Store.Put(ctx, bundleID, DocumentEntry, []byte(rebuilt)); err != nil {
		return "", err
	}
	for _, a := range assets {
		if err := x.Store.Put(ctx, bundleID, a.path, a.data); err != nil {
			return "", err
		}
	}
	log.Printf("export: primary bundle %q written (%d images)", bundleID, len(assets))
	return rebuilt, nil
}

// ExportAllVersions writes every generated version across both slots of
// every placeholder under systematically suffixed names, independent of the
// primary document.
func (x *Exporter) ExportAllVersions(ctx context.Context, sess *session.Session, bundleID string) error {
	count := 0
	for i, e := range sess.Entries() {
		for slot, sl := range e.Slots {
			if sl == nil || sl.History == nil {
				continue
			}
			for v, node := range sl.History.Versions() {
				name := fmt.Sprintf("images/all/%d_p%d_slot%d_v%d%s",
					e.Placeholder.LineNumber, i+1, slot, v+1, extFor(node.Image.MIMEType))
				if err := x.Store.Put(ctx, bundleID, name, node.Image.Data); err != nil {
					return err
				}
				count++
			}
		}
	}
	log.Printf("export: all-versions bundle %q written (%d images)", bundleID, count)
	return nil
}

func placeholdersOf(entries []*session.Entry) []placeholder.Placeholder {
	out := make([]placeholder.Placeholder, len(entries))
	for i, e := range entries {
		out[i] = e.Placeholder
	}
	return out
}

func extFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
