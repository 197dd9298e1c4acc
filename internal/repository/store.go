// Package repository provides the document-store abstraction the importer
// and the aggregation engine write through: three JSONB-backed collections
// with Firestore-style merge semantics, plus an in-memory fake for tests.
package repository

import (
	"context"
	"strings"
)

// Op is a query filter operator.
type Op string

const (
	// OpEq matches a (possibly nested) field by equality.
	OpEq Op = "=="
	// OpArrayContains matches documents whose array field contains the
	// given string element.
	OpArrayContains Op = "array-contains"
)

// Filter constrains a Query. Path uses dot notation ("location.city").
type Filter struct {
	Path  string
	Op    Op
	Value any
}

// Document is a stored record: its id plus the decoded JSON body.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document-store surface the pipeline depends on.
//
// Query results are always ordered by document id (lexicographic). That
// ordering is a contract: the highlight pass breaks metric ties in favor of
// the first candidate seen, so iteration order must be stable across runs
// and independent of insertion order.
type Store interface {
	// Get returns the document body, or nil when the id does not exist.
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	// Query returns all documents matching every filter, ordered by id.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	// Update deep-merges the given dot-path fields into one document.
	// Sibling fields of the targeted paths are left untouched.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Batch opens a new write batch. The batch size ceiling is the
	// caller's concern.
	Batch() WriteBatch
}

// WriteBatch queues writes and commits them in one transaction.
type WriteBatch interface {
	// Set queues a merge upsert: present fields overwrite, absent fields
	// on the existing document persist.
	Set(collection, id string, data map[string]any)
	// Update queues a dot-path deep-merge update.
	Update(collection, id string, fields map[string]any)
	Len() int
	Commit(ctx context.Context) error
}

// expandDotPaths converts {"pricing.from": 1, "active": true} into the
// nested {"pricing": {"from": 1}, "active": true} form.
func expandDotPaths(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for path, value := range fields {
		parts := strings.Split(path, ".")
		node := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return out
}

// deepMerge merges src into dst, recursing into nested objects and
// returning the merged map. Non-object values (including arrays) are
// replaced wholesale.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				dst[k] = deepMerge(dm, sm)
				continue
			}
		}
		dst[k] = sv
	}
	return dst
}

// lookupPath walks a dot path through nested maps.
func lookupPath(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
