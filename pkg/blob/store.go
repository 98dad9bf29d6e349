// Package blob is a thin client for the object store backing all site
// content. Keys are opaque strings; the key-prefix conventions live in
// pkg/content, not here.
package blob

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Get when no object exists at the key.
var ErrNotFound = errors.New("blob: object not found")

// Store defines the contract for the object store bucket.
// No business rules: get/put/list/delete plus prefix cleanup.
type Store interface {
	// Get retrieves an object's bytes and stored content type.
	// Returns ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, string, error)
	// Put overwrites the object at key unconditionally (last write wins).
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// List returns every key under the prefix, following the store's
	// continuation tokens until the listing is exhausted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes a single object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under the prefix and returns how
	// many were deleted. The first failing delete aborts the batch; keys
	// already deleted stay deleted (no rollback).
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// MemStore is an in-memory Store used by tests.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, obj.contentType, nil
}

func (s *MemStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = memObject{data: stored, contentType: contentType}
	return nil
}

func (s *MemStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	// Object stores list lexicographically; match that so cover probing
	// behaves the same against MemStore and S3.
	sort.Strings(keys)
	return keys, nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Len reports the number of stored objects. Test helper.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
