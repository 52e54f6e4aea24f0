package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used in tests and local development.
// It mirrors the matching semantics of PostgresStore: predicates compare
// the JSON string form of document fields, and a missing or null field
// never matches.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

// collection lazily creates the named collection. Callers must hold the
// write lock; readers use lookup instead so a read never mutates the map.
func (s *MemoryStore) collection(name string) map[string]Document {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[string]Document)
		s.collections[name] = docs
	}
	return docs
}

// lookup returns the named collection without creating it. A nil map is
// returned for collections never written to, which reads handle naturally.
func (s *MemoryStore) lookup(name string) map[string]Document {
	return s.collections[name]
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// Get fetches a document by id
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.lookup(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

// Query returns all documents matching every predicate
func (s *MemoryStore) Query(ctx context.Context, collection string, predicates []Predicate) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, doc := range s.lookup(collection) {
		matched := true
		for _, p := range predicates {
			ok, err := matches(doc, p)
			if err != nil {
				return nil, err
			}
			if !ok {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, copyDoc(doc))
		}
	}
	return out, nil
}

func matches(doc Document, p Predicate) (bool, error) {
	raw, ok := doc[p.Field]
	if !ok || raw == nil {
		return false, nil
	}
	fieldValue := fmt.Sprintf("%v", raw)

	switch p.Op {
	case OpEq:
		return fieldValue == fmt.Sprintf("%v", p.Value), nil
	case OpIn:
		values, ok := p.Value.([]string)
		if !ok {
			return false, fmt.Errorf("%w: in predicate on %q requires []string", ErrInvalidField, p.Field)
		}
		for _, v := range values {
			if fieldValue == v {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: unsupported operator %q", ErrInvalidField, p.Op)
	}
}

// Put creates or fully replaces a document
func (s *MemoryStore) Put(ctx context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(collection)[id] = copyDoc(doc)
	return nil
}

// Update merges partial fields into an existing document
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	doc, ok := docs[id]
	if !ok {
		return ErrNotFound
	}

	merged := copyDoc(doc)
	for k, v := range fields {
		merged[k] = v
	}
	docs[id] = merged
	return nil
}

// Delete removes a document
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	if _, ok := docs[id]; !ok {
		return ErrNotFound
	}
	delete(docs, id)
	return nil
}

// Add inserts a document under a generated id
func (s *MemoryStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	stored := copyDoc(doc)
	if _, ok := stored["id"]; !ok {
		stored["id"] = id
	}
	s.collection(collection)[id] = stored
	return id, nil
}
