package bundle

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps bundle entries in memory. Used in tests and for the
// offline CLI mode.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, bundleID, entryPath string, content []byte) error {
	key, err := entryKey(bundleID, entryPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, bundleID, entryPath string) ([]byte, error) {
	key, err := entryKey(bundleID, entryPath)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, bundleID string) ([]string, error) {
	bundleID = strings.TrimSpace(bundleID)
	if bundleID == "" {
		return nil, fmt.Errorf("bundle id is required")
	}
	prefix := bundleID + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 16)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

func entryKey(bundleID, entryPath string) (string, error) {
	bundleID = strings.TrimSpace(bundleID)
	entryPath = strings.TrimSpace(entryPath)
	if bundleID == "" {
		return "", fmt.Errorf("bundle id is required")
	}
	if entryPath == "" {
		return "", fmt.Errorf("entry path is required")
	}
	return bundleID + "/" + strings.TrimLeft(entryPath, "/"), nil
}
