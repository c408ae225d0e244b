package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"illustrify/internal/aiclient"
	"illustrify/internal/history"
	"illustrify/internal/imagesynth"
	"illustrify/internal/placeholder"
	"illustrify/internal/promptsynth"
	"illustrify/internal/utils"
)

// SlotCount is the number of parallel candidate tracks per placeholder.
const SlotCount = 2

var (
	ErrOutOfRange  = errors.New("session: placeholder or slot index out of range")
	ErrNoCandidate = errors.New("session: slot has no image")
	ErrNotSelected = errors.New("session: placeholder has no selection")
)

// Slot is one candidate track. Its mutex serializes edits on the lineage; a
// second edit submission on the same slot waits for the in-flight one.
type Slot struct {
	editMu  sync.Mutex
	History *history.History
	Err     error
}

// Entry is the session's mutable record for one placeholder.
type Entry struct {
	Placeholder placeholder.Placeholder
	State       State
	Prompts     promptsynth.Pair
	Slots       [SlotCount]*Slot
	Err         error
	Selected    int // chosen slot index, -1 while unresolved

	// editsPending counts in-flight edits across the entry's slots; the
	// state observed before the first of them is restored when the last
	// one clears.
	editsPending    int
	stateBeforeEdit State
}

// Options configure a session.
type Options struct {
	// MaintainStyle makes the first selected image the style reference for
	// all subsequent generations, unless StyleRef is supplied upfront.
	MaintainStyle bool
	// StyleRef is an optional explicit style image. Set at most once per
	// session and never overwritten.
	StyleRef *aiclient.Image
}

// Session holds the in-memory state for one document's processing.
type Session struct {
	mu sync.Mutex

	doc     string
	entries []*Entry

	prompts *promptsynth.Synthesizer
	images  *imagesynth.Synthesizer

	maintainStyle bool
	styleRef      *aiclient.Image
	dispatched    map[string]struct{}
}

// New builds a session over an extracted document.
func New(doc string, phs []placeholder.Placeholder, prompts *promptsynth.Synthesizer, images *imagesynth.Synthesizer, opts Options) *Session {
	entries := make([]*Entry, len(phs))
	for i, ph := range phs {
		e := &Entry{Placeholder: ph, State: StateIdle, Selected: -1}
		for s := 0; s < SlotCount; s++ {
			e.Slots[s] = &Slot{}
		}
		entries[i] = e
	}
	return &Session{
		doc:           doc,
		entries:       entries,
		prompts:       prompts,
		images:        images,
		maintainStyle: opts.MaintainStyle,
		styleRef:      opts.StyleRef,
		dispatched:    make(map[string]struct{}),
	}
}

func (s *Session) Doc() string { return s.doc }

// Entries returns the live entry records in document order.
func (s *Session) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// StyleRef returns the current style reference, if any.
func (s *Session) StyleRef() *aiclient.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styleRef
}

// GenerateAll processes placeholders sequentially in document order. The
// two slot generations within one placeholder run concurrently and are
// joined. A failed slot leaves a hole; a failed prompt phase parks that
// placeholder in Error. No placeholder failure aborts the session.
func (s *Session) GenerateAll(ctx context.Context) error {
	for i := range s.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.generateOne(ctx, i)
	}
	return nil
}

// generateOne runs the full initial pipeline for one placeholder. The
// idempotency guard keyed by placeholder identity makes repeat dispatch a
// no-op.
func (s *Session) generateOne(ctx context.Context, idx int) {
	s.mu.Lock()
	e := s.entries[idx]
	key := e.Placeholder.Key()
	if _, done := s.dispatched[key]; done {
		s.mu.Unlock()
		return
	}
	s.dispatched[key] = struct{}{}
	e.State = StatePromptPending
	s.mu.Unlock()

	if !e.Placeholder.HasSourceImage {
		pair, err := s.prompts.TwoPrompts(ctx, s.doc, e.Placeholder)
		if err != nil {
			s.failEntry(e, fmt.Errorf("prompt synthesis: %w", err))
			return
		}
		s.setEntry(e, func() {
			e.Prompts = pair
			e.State = StatePromptReady
		})
	} else {
		// Source-backed placeholders skip prompt synthesis; the improve and
		// reimagine paths derive their own prompts.
		s.setEntry(e, func() { e.State = StatePromptReady })
	}

	s.setEntry(e, func() { e.State = StateImagesPending })
	g, gctx := errgroup.WithContext(ctx)
	for slot := 0; slot < SlotCount; slot++ {
		slot := slot
		g.Go(func() error {
			img, err := s.produceSlot(gctx, e, slot)
			s.recordSlot(e, slot, img, err)
			return nil // a slot failure is a hole, not a placeholder failure
		})
	}
	_ = g.Wait()

	s.setEntry(e, func() { e.State = StateImagesReady })
	log.Printf("session: placeholder line %d ready (%s)", e.Placeholder.LineNumber, e.State)
}

// produceSlot issues the external call for one candidate track.
func (s *Session) produceSlot(ctx context.Context, e *Entry, slot int) (*aiclient.Image, error) {
	style := s.StyleRef()
	if e.Placeholder.HasSourceImage {
		source := aiclient.Image{
			Data:     e.Placeholder.SourceImage,
			MIMEType: utils.MIMEFromPath(e.Placeholder.RawPath),
		}
		if slot == 0 {
			return s.images.Improve(ctx, source, style)
		}
		return s.images.Reimagine(ctx, source, style)
	}
	prompt := e.Prompts.Primary
	if slot == 1 {
		prompt = e.Prompts.Secondary
	}
	return s.images.Produce(ctx, prompt, style)
}

// RetrySlot regenerates a single candidate track after a hole or a
// rejected result. Other slots and placeholders are untouched.
func (s *Session) RetrySlot(ctx context.Context, idx, slot int) error {
	e, sl, err := s.slot(idx, slot)
	if err != nil {
		return err
	}
	sl.editMu.Lock()
	defer sl.editMu.Unlock()

	img, genErr := s.produceSlot(ctx, e, slot)
	s.recordSlot(e, slot, img, genErr)
	return genErr
}

// EditImage appends a new version to a slot's lineage according to the
// instruction. Edits on the same slot are mutually exclusive; edits
// elsewhere proceed independently.
func (s *Session) EditImage(ctx context.Context, idx, slot int, instruction string) error {
	e, sl, err := s.slot(idx, slot)
	if err != nil {
		return err
	}
	sl.editMu.Lock()
	defer sl.editMu.Unlock()

	s.mu.Lock()
	if sl.History == nil {
		s.mu.Unlock()
		return ErrNoCandidate
	}
	current := sl.History.Current()
	if e.editsPending == 0 {
		e.stateBeforeEdit = e.State
	}
	e.editsPending++
	e.State = StateEditPending
	style := s.styleRef
	s.mu.Unlock()

	img, genErr := s.images.Edit(ctx, current.Image, instruction, style)

	s.mu.Lock()
	defer s.mu.Unlock()
	e.editsPending--
	if e.editsPending == 0 {
		e.State = e.stateBeforeEdit
	}
	if genErr != nil {
		sl.Err = genErr
		return genErr
	}
	sl.Err = nil
	if _, err := sl.History.Append(current.ID, *img, instruction); err != nil {
		return err
	}
	return nil
}

// Navigate moves a slot's version cursor one step along its linear order.
func (s *Session) Navigate(idx, slot int, dir history.Direction) (bool, error) {
	_, sl, err := s.slot(idx, slot)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl.History == nil {
		return false, ErrNoCandidate
	}
	return sl.History.Navigate(dir), nil
}

// Select records the chosen slot for a placeholder. With maintain-style on
// and no explicit style image, the first selection anywhere in the session
// becomes the style reference for all subsequent generations.
func (s *Session) Select(idx, slot int) error {
	e, sl, err := s.slot(idx, slot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl.History == nil {
		return ErrNoCandidate
	}
	e.Selected = slot
	e.State = StateSelected
	if s.maintainStyle && s.styleRef == nil {
		img := sl.History.Current().Image
		s.styleRef = &img
	}
	return nil
}

// Resolved reports whether every placeholder has a selection.
func (s *Session) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Selected < 0 {
			return false
		}
	}
	return true
}

// ChosenImage returns the current version of a placeholder's selected slot.
func (s *Session) ChosenImage(idx int) (aiclient.Image, error) {
	if idx < 0 || idx >= len(s.entries) {
		return aiclient.Image{}, ErrOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[idx]
	if e.Selected < 0 {
		return aiclient.Image{}, ErrNotSelected
	}
	sl := e.Slots[e.Selected]
	if sl.History == nil {
		return aiclient.Image{}, ErrNoCandidate
	}
	return sl.History.Current().Image, nil
}

func (s *Session) slot(idx, slot int) (*Entry, *Slot, error) {
	if idx < 0 || idx >= len(s.entries) || slot < 0 || slot >= SlotCount {
		return nil, nil, ErrOutOfRange
	}
	return s.entries[idx], s.entries[idx].Slots[slot], nil
}

func (s *Session) setEntry(e *Entry, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Session) failEntry(e *Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.State = StateError
	e.Err = err
	log.Printf("session: placeholder line %d failed: %v", e.Placeholder.LineNumber, err)
}

// recordSlot stores a slot result: a fresh image initializes or extends the
// lineage, an error leaves a hole with the cause attached.
func (s *Session) recordSlot(e *Entry, slot int, img *aiclient.Image, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := e.Slots[slot]
	if err != nil {
		sl.Err = err
		return
	}
	sl.Err = nil
	if sl.History == nil {
		sl.History = history.New(*img)
		return
	}
	cur := sl.History.CurrentID()
	_, _ = sl.History.Append(cur, *img, "regenerated")
}
