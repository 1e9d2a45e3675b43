package drive

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/skillmesh/core"
)

// InMemoryDrive is a volatile Drive implementation storing values in a process
// local map keyed by slash-separated paths. It is safe for concurrent access
// and best suited for tests or ephemeral demo servers.
//
// Values are round-tripped through JSON on write so that only serializable
// values are accepted and readers can never observe writer-side mutation of a
// stored value. This implementation is intentionally minimal; it does not
// enforce retention limits, size quotas, or eviction. For production, prefer a
// durable implementation that can survive process restarts.
type InMemoryDrive struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

var _ core.Drive = (*InMemoryDrive)(nil)

// NewInMemoryDrive constructs an empty in-memory drive.
func NewInMemoryDrive() *InMemoryDrive {
	return &InMemoryDrive{values: make(map[string]json.RawMessage)}
}

// Write stores (or overwrites) the value at path after a JSON round-trip.
// Non-serializable values are rejected.
func (d *InMemoryDrive) Write(p string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("value at %q is not serializable: %w", p, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[cleanPath(p)] = data
	return nil
}

// Read returns the value stored at path or ErrNotFound.
func (d *InMemoryDrive) Read(p string) (any, error) {
	d.mu.RLock()
	data, ok := d.values[cleanPath(p)]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("corrupt value at %q: %w", p, err)
	}
	return value, nil
}

// List returns the sorted paths stored under prefix.
func (d *InMemoryDrive) List(prefix string) ([]string, error) {
	prefix = cleanPath(prefix)
	d.mu.RLock()
	defer d.mu.RUnlock()
	paths := make([]string, 0, len(d.values))
	for p := range d.values {
		if prefix == "" || p == prefix || strings.HasPrefix(p, prefix+"/") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Delete removes the value at path if present or returns ErrNotFound.
func (d *InMemoryDrive) Delete(p string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p = cleanPath(p)
	if _, ok := d.values[p]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	delete(d.values, p)
	return nil
}

// Scope returns a drive handle rooted at the given path segments.
func (d *InMemoryDrive) Scope(segments ...string) core.Drive {
	return newScoped(d, segments...)
}

// scoped confines reads and writes to a subtree of a backing drive by
// prefixing every path. Paths returned by List are relative to the scope.
type scoped struct {
	backing core.Drive
	prefix  string
}

func newScoped(backing core.Drive, segments ...string) core.Drive {
	prefix := cleanPath(path.Join(segments...))
	if prefix == "" {
		return backing
	}
	return &scoped{backing: backing, prefix: prefix}
}

func (s *scoped) Write(p string, value any) error { return s.backing.Write(s.join(p), value) }

func (s *scoped) Read(p string) (any, error) { return s.backing.Read(s.join(p)) }

func (s *scoped) List(prefix string) ([]string, error) {
	paths, err := s.backing.List(s.join(prefix))
	if err != nil {
		return nil, err
	}
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		rel = append(rel, strings.TrimPrefix(strings.TrimPrefix(p, s.prefix), "/"))
	}
	return rel, nil
}

func (s *scoped) Delete(p string) error { return s.backing.Delete(s.join(p)) }

func (s *scoped) Scope(segments ...string) core.Drive {
	return newScoped(s.backing, append([]string{s.prefix}, segments...)...)
}

func (s *scoped) join(p string) string {
	p = cleanPath(p)
	if p == "" {
		return s.prefix
	}
	return s.prefix + "/" + p
}

func cleanPath(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}
