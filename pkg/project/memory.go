package project

import (
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory FileSystem. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory file system.
func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}}
}

// Add stores content at p, replacing any previous content.
func (m *Memory) Add(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[NormalizePath(p)] = []byte(content)
}

// Remove deletes the item at p.
func (m *Memory) Remove(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, NormalizePath(p))
}

func (m *Memory) GetItem(p string) Item {
	p = NormalizePath(p)
	m.mu.RLock()
	content, ok := m.files[p]
	m.mu.RUnlock()
	if !ok {
		return Item{Path: p, Kind: Classify(p)}
	}
	return newItem(p, "", bytesOpener(content))
}

// EnumerateItems returns every template and import under basePath.
func (m *Memory) EnumerateItems(basePath string) ([]Item, error) {
	base := NormalizePath(basePath)
	prefix := strings.TrimSuffix(base, "/") + "/"

	m.mu.RLock()
	var paths []string
	for p := range m.files {
		if strings.HasPrefix(p, prefix) && Classify(p) != FileKindOther {
			paths = append(paths, p)
		}
	}
	m.mu.RUnlock()

	sort.Strings(paths)
	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, m.GetItem(p))
	}
	return items, nil
}
