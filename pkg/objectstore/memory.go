package objectstore

import (
	"context"
	"strings"
	"sync"
)

// Memory keeps objects in a map. It backs development and tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]*Object)}
}

func (m *Memory) Put(_ context.Context, key, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = &Object{Key: key, ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &Object{Key: obj.Key, ContentType: obj.ContentType, Data: append([]byte(nil), obj.Data...)}, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.objects[key]; ok {
		zeroBytes(obj.Data)
		delete(m.objects, key)
	}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, obj := range m.objects {
		if strings.HasPrefix(key, prefix) {
			zeroBytes(obj.Data)
			delete(m.objects, key)
			n++
		}
	}
	return n, nil
}

// Len reports how many objects are stored
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// zeroBytes overwrites resume contents before the slice is dropped
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
