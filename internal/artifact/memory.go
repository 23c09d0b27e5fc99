package artifact

import (
	"context"
	"sync"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

// MemorySink keeps artifacts in process memory. Used for dry runs and tests.
type MemorySink struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ core.ArtifactSink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{items: make(map[string][]byte)}
}

func (s *MemorySink) Put(_ context.Context, name string, data []byte) (core.ArtifactHandle, error) {
	key := NewKey(name)

	s.mu.Lock()
	s.items[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return core.ArtifactHandle{Key: key, Name: name, Size: len(data)}, nil
}

func (s *MemorySink) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}
