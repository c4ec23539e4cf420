package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage keeps uploaded objects in memory. Used by tests and local runs without S3.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string

	// FailAfter n: n번 성공한 뒤부터 Put 실패. 음수면 비활성.
	FailAfter int
	puts      int
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		objects:   make(map[string][]byte),
		baseURL:   baseURL,
		FailAfter: -1,
	}
}

func (s *MemoryStorage) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAfter >= 0 && s.puts >= s.FailAfter {
		return "", fmt.Errorf("put object %s: storage unavailable", key)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body for %s: %w", key, err)
	}
	s.objects[key] = data
	s.puts++

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Object returns the stored bytes of key.
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
