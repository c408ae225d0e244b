package bundle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b1", "document.md", []byte("doc")))
	require.NoError(t, s.Put(ctx, "b1", "images/1_a.png", []byte{1}))
	require.NoError(t, s.Put(ctx, "b2", "document.md", []byte("other")))

	got, err := s.Get(ctx, "b1", "document.md")
	require.NoError(t, err)
	require.Equal(t, []byte("doc"), got)

	_, err = s.Get(ctx, "b1", "missing.png")
	require.ErrorIs(t, err, ErrNotFound)

	entries, err := s.List(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, []string{"document.md", "images/1_a.png"}, entries)

	entries, err = s.List(ctx, "b2")
	require.NoError(t, err)
	require.Equal(t, []string{"document.md"}, entries)
}

func TestMemoryStoreOverwriteAndIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	payload := []byte("v1")
	require.NoError(t, s.Put(ctx, "b", "e", payload))
	payload[0] = 'X' // caller mutation must not leak into the store

	got, err := s.Get(ctx, "b", "e")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Put(ctx, "b", "e", []byte("v2")))
	got, err = s.Get(ctx, "b", "e")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestMemoryStoreValidation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.Error(t, s.Put(ctx, "", "e", nil))
	require.Error(t, s.Put(ctx, "b", "  ", nil))
	_, err := s.Get(ctx, "", "e")
	require.Error(t, err)
	_, err = s.List(ctx, "")
	require.Error(t, err)

	// Leading slashes normalize to the same entry.
	require.NoError(t, s.Put(ctx, "b", "/a/b.png", []byte{1}))
	got, err := s.Get(ctx, "b", "a/b.png")
	require.NoError(t, err)
	require.Equal(t, []byte{1}, got)
}
