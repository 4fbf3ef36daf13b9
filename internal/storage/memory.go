package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process ObjectStore used by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string

	// FailPuts makes every Put return a storage error.
	FailPuts bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *MemoryStore) EnsureBuckets(ctx context.Context) {}

func (s *MemoryStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if s.FailPuts {
		return fmt.Errorf("%w: put %s/%s", ErrStorageUnavailable, bucket, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[bucket+"/"+key] = buf
	s.types[bucket+"/"+key] = contentType
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
	}
	return data, nil
}

func (s *MemoryStore) Delete(ctx context.Context, bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[bucket+"/"+key]; !ok {
		return false
	}
	delete(s.objects, bucket+"/"+key)
	delete(s.types, bucket+"/"+key)
	return true
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// ContentType returns the content type recorded for a stored object.
func (s *MemoryStore) ContentType(bucket, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.types[bucket+"/"+key]
}
