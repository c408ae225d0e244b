package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"illustrify/internal/aiclient"
)

// Direction selects linear navigation: previous or next along the active
// path.
type Direction int

const (
	Prev Direction = iota
	Next
)

var ErrUnknownParent = errors.New("history: parent id not found")

// Node is one version in a slot's edit lineage. The structure is a genuine
// tree (ParentID/ChildIDs) even though navigation only follows the linear
// order; the tree fields stay for future branch-aware use.
type Node struct {
	ID              string
	Image           aiclient.Image
	ParentID        string // empty for the root
	ChildIDs        []string
	CreatedAt       time.Time
	EditInstruction string
}

// History is the append-only version record for one generation slot.
// Nodes are never deleted; edits always append.
type History struct {
	nodes       map[string]*Node
	rootID      string
	currentID   string
	linearOrder []string
}

// New creates a single-node tree rooted at image.
func New(image aiclient.Image) *History {
	root := &Node{
		ID:        uuid.NewString(),
		Image:     image,
		CreatedAt: time.Now(),
	}
	return &History{
		nodes:       map[string]*Node{root.ID: root},
		rootID:      root.ID,
		currentID:   root.ID,
		linearOrder: []string{root.ID},
	}
}

// Append creates a child of parentID, appends it to the linear order, and
// makes it current. Editing a node that already has children still appends
// a new linear successor; earlier versions remain reachable.
func (h *History) Append(parentID string, image aiclient.Image, instruction string) (string, error) {
	parent, ok := h.nodes[parentID]
	if !ok {
		return "", ErrUnknownParent
	}
	node := &Node{
		ID:              uuid.NewString(),
		Image:           image,
		ParentID:        parent.ID,
		CreatedAt:       time.Now(),
		EditInstruction: instruction,
	}
	parent.ChildIDs = append(parent.ChildIDs, node.ID)
	h.nodes[node.ID] = node
	h.linearOrder = append(h.linearOrder, node.ID)
	h.currentID = node.ID
	return node.ID, nil
}

// Navigate moves the cursor one step along the linear order. Moving past
// either end is a no-op; the return value reports whether the cursor moved.
func (h *History) Navigate(dir Direction) bool {
	idx := h.currentIndex()
	switch dir {
	case Prev:
		if idx <= 0 {
			return false
		}
		h.currentID = h.linearOrder[idx-1]
	case Next:
		if idx < 0 || idx >= len(h.linearOrder)-1 {
			return false
		}
		h.currentID = h.linearOrder[idx+1]
	default:
		return false
	}
	return true
}

// Current returns the node under the cursor.
func (h *History) Current() *Node {
	return h.nodes[h.currentID]
}

// CurrentID returns the cursor's node id.
func (h *History) CurrentID() string { return h.currentID }

// RootID returns the root node id.
func (h *History) RootID() string { return h.rootID }

// Len returns the number of versions on the active path.
func (h *History) Len() int { return len(h.linearOrder) }

// Node returns a version by id.
func (h *History) Node(id string) (*Node, bool) {
	n, ok := h.nodes[id]
	return n, ok
}

// Versions returns the active path's images oldest-first.
func (h *History) Versions() []*Node {
	out := make([]*Node, 0, len(h.linearOrder))
	for _, id := range h.linearOrder {
		out = append(out, h.nodes[id])
	}
	return out
}

func (h *History) currentIndex() int {
	for i, id := range h.linearOrder {
		if id == h.currentID {
			return i
		}
	}
	return -1
}
