package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store with the same merge and ordering
// semantics as PostgresStore. Used by tests and dry runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	// CommitSizes records the size of every committed batch, in order.
	CommitSizes []int
	// UpdateCalls counts direct Update invocations.
	UpdateCalls int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string]map[string]any{}}
}

// Seed inserts a document directly, replacing any existing body.
func (s *MemoryStore) Seed(collection, id string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll(collection)[id] = clone(data)
}

func (s *MemoryStore) coll(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = map[string]map[string]any{}
		s.collections[name] = c
	}
	return c
}

// clone round-trips through JSON so stored documents share no references
// with caller data and all values take their JSON-decoded shape.
func clone(doc map[string]any) map[string]any {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("unencodable document: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("undecodable document: %v", err))
	}
	return out
}

// Get returns a copy of the document body, or nil when absent.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

// Query returns matching documents ordered by id.
func (s *MemoryStore) Query(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.coll(collection)
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var docs []Document
	for _, id := range ids {
		doc := c[id]
		ok, err := matches(doc, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, Document{ID: id, Data: clone(doc)})
		}
	}
	return docs, nil
}

func matches(doc map[string]any, filters []Filter) (bool, error) {
	for _, f := range filters {
		v, found := lookupPath(doc, f.Path)
		switch f.Op {
		case OpEq:
			if !found || !jsonEqual(v, f.Value) {
				return false, nil
			}
		case OpArrayContains:
			arr, ok := v.([]any)
			if !found || !ok {
				return false, nil
			}
			hit := false
			for _, el := range arr {
				if jsonEqual(el, f.Value) {
					hit = true
					break
				}
			}
			if !hit {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	return true, nil
}

// jsonEqual compares two values in their JSON shape, so int filter values
// match the float64 numbers documents decode to.
func jsonEqual(a, b any) bool {
	ra, err := json.Marshal(a)
	if err != nil {
		return false
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ra) == string(rb)
}

// Update deep-merges the given dot-path fields into an existing document.
// A missing id is a no-op, matching the SQL UPDATE behavior.
func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	c := s.coll(collection)
	doc, ok := c[id]
	if !ok {
		return nil
	}
	c[id] = deepMerge(doc, clone(expandDotPaths(fields)))
	return nil
}

// Batch opens a write batch applied atomically under the store lock.
func (s *MemoryStore) Batch() WriteBatch {
	return &memoryBatch{store: s}
}

type memoryBatch struct {
	store *MemoryStore
	ops   []batchOp
}

func (b *memoryBatch) Set(collection, id string, data map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: clone(data)})
}

func (b *memoryBatch) Update(collection, id string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: clone(expandDotPaths(fields)), isUpdate: true})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

func (b *memoryBatch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, op := range b.ops {
		c := b.store.coll(op.collection)
		existing, ok := c[op.id]
		if op.isUpdate && !ok {
			continue
		}
		c[op.id] = deepMerge(existing, op.data)
	}
	b.store.CommitSizes = append(b.store.CommitSizes, len(b.ops))
	b.ops = nil
	return nil
}
