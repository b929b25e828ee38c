package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Memory keeps files in memory. It counts how often files are opened,
// which makes request batching observable in tests.
type Memory struct {
	mu    sync.Mutex
	files map[string]map[string]binned.Object
	opens map[string]int
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string]map[string]binned.Object),
		opens: make(map[string]int),
	}
}

// Put stores a copy of obj under objectPath in the file path, creating
// the file if needed.
func (m *Memory) Put(path, objectPath string, obj binned.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files[path] == nil {
		m.files[path] = make(map[string]binned.Object)
	}
	m.files[path][objectPath] = obj.Clone()
}

// Remove deletes the file path.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// Opens returns how many sessions were opened on path.
func (m *Memory) Opens(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[path]
}

// Open implements Backend.
func (m *Memory) Open(ctx context.Context, path string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens[path]++
	objs, ok := m.files[path]
	if !ok {
		return nil, types.StorageError.New("no such file %q", path)
	}
	snapshot := make(map[string]binned.Object, len(objs))
	for k, v := range objs {
		snapshot[k] = v
	}
	return &memorySession{path: path, objects: snapshot}, nil
}

// Write implements Writer.
func (m *Memory) Write(ctx context.Context, path string, objects map[string]binned.Object) error {
	for objectPath, obj := range objects {
		m.Put(path, objectPath, obj)
	}
	return nil
}

type memorySession struct {
	path    string
	objects map[string]binned.Object
}

func (s *memorySession) Get(ctx context.Context, objectPath string) (binned.Object, error) {
	obj, ok := s.objects[objectPath]
	if !ok {
		return nil, notFound(s.path, objectPath)
	}
	return obj.Clone(), nil
}

func (s *memorySession) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memorySession) Close() error { return nil }
