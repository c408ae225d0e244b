package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"illustrify/internal/aiclient"
)

func img(tag string) aiclient.Image {
	return aiclient.Image{Data: []byte(tag), MIMEType: "image/png"}
}

func TestAppendAdvancesCursor(t *testing.T) {
	h := New(img("v0"))
	require.Equal(t, 1, h.Len())
	require.Equal(t, h.RootID(), h.CurrentID())

	const k = 4
	for i := 1; i <= k; i++ {
		id, err := h.Append(h.CurrentID(), img(fmt.Sprintf("v%d", i)), "edit")
		require.NoError(t, err)
		require.Equal(t, id, h.CurrentID())
	}
	require.Equal(t, k+1, h.Len())
	require.Equal(t, []byte(fmt.Sprintf("v%d", k)), h.Current().Image.Data)
}

func TestNavigateWalksAndClamps(t *testing.T) {
	h := New(img("v0"))
	for i := 1; i <= 3; i++ {
		_, err := h.Append(h.CurrentID(), img(fmt.Sprintf("v%d", i)), "")
		require.NoError(t, err)
	}

	// Back to root, then one more Prev is a no-op.
	for i := 0; i < 3; i++ {
		require.True(t, h.Navigate(Prev))
	}
	require.Equal(t, h.RootID(), h.CurrentID())
	require.False(t, h.Navigate(Prev))
	require.Equal(t, h.RootID(), h.CurrentID())

	// Forward to the tip, then one more Next is a no-op.
	for i := 0; i < 3; i++ {
		require.True(t, h.Navigate(Next))
	}
	require.False(t, h.Navigate(Next))
	require.Equal(t, []byte("v3"), h.Current().Image.Data)
}

func TestAppendFromMidPathBranches(t *testing.T) {
	h := New(img("v0"))
	firstID, err := h.Append(h.CurrentID(), img("v1"), "first")
	require.NoError(t, err)
	_, err = h.Append(h.CurrentID(), img("v2"), "second")
	require.NoError(t, err)

	// Step back and edit the middle version: the parent gains a second
	// child but the linear order keeps every version reachable.
	require.True(t, h.Navigate(Prev))
	require.Equal(t, firstID, h.CurrentID())
	branchID, err := h.Append(h.CurrentID(), img("v1b"), "branch")
	require.NoError(t, err)

	require.Equal(t, 4, h.Len())
	require.Equal(t, branchID, h.CurrentID())
	parent, ok := h.Node(firstID)
	require.True(t, ok)
	require.Len(t, parent.ChildIDs, 2)

	seen := map[string]bool{}
	for _, n := range h.Versions() {
		seen[string(n.Image.Data)] = true
	}
	require.True(t, seen["v0"] && seen["v1"] && seen["v2"] && seen["v1b"])
}

func TestAppendUnknownParent(t *testing.T) {
	h := New(img("v0"))
	_, err := h.Append("no-such-id", img("v1"), "")
	require.ErrorIs(t, err, ErrUnknownParent)
	require.Equal(t, 1, h.Len())
}

func TestVersionsOldestFirst(t *testing.T) {
	h := New(img("v0"))
	for i := 1; i <= 2; i++ {
		_, err := h.Append(h.CurrentID(), img(fmt.Sprintf("v%d", i)), "")
		require.NoError(t, err)
	}
	vs := h.Versions()
	require.Len(t, vs, 3)
	require.Equal(t, []byte("v0"), vs[0].Image.Data)
	require.Equal(t, []byte("v2"), vs[2].Image.Data)
	require.Empty(t, vs[0].ParentID)
	require.Equal(t, vs[0].ID, vs[1].ParentID)
}
