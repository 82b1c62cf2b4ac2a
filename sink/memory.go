package sink

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/xlat/engine"
)

// Memory records requests and keeps a simulated file tree. It backs
// dry runs and tests.
type Memory struct {
	mu       sync.Mutex
	requests []engine.Request
	files    map[string]*strings.Builder
}

// NewMemory creates an empty memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]*strings.Builder)}
}

func (m *Memory) HandleFile(r engine.FileRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, r)
	p := clean(r.Path)
	switch r.Op {
	case engine.CreateFile:
		if _, ok := m.files[p]; !ok {
			m.files[p] = &strings.Builder{}
		}
	case engine.ClearFile:
		m.files[p] = &strings.Builder{}
	case engine.DeleteFile:
		delete(m.files, p)
	case engine.ClearDirectory, engine.DeleteDirectory:
		for name := range m.files {
			if strings.HasPrefix(name, p+"/") || p == "." {
				delete(m.files, name)
			}
		}
	}
	return nil
}

func (m *Memory) HandleContent(r engine.ContentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, r)
	p := clean(r.Path)
	if r.Op == engine.Write || m.files[p] == nil {
		m.files[p] = &strings.Builder{}
	}
	m.files[p].WriteString(r.Content)
	return nil
}

// Requests returns every request in arrival order.
func (m *Memory) Requests() []engine.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]engine.Request(nil), m.requests...)
}

// Content returns the simulated content of a file.
func (m *Memory) Content(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[clean(p)]
	if !ok {
		return "", false
	}
	return b.String(), true
}

// Files returns the simulated file paths, sorted.
func (m *Memory) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func clean(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}
