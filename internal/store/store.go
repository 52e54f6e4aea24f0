// Package store provides the document-oriented record store used by the
// workflow services. Every entity lives in a named collection as a flat
// JSON document; single-document operations are atomic, and there are no
// cross-document transactions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Store errors
var (
	ErrNotFound          = errors.New("document not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidField      = errors.New("invalid predicate field")
)

// Document is a stored record. Values follow JSON conventions: strings,
// float64, bool, nil, nested maps and slices.
type Document map[string]interface{}

// Operator is a predicate comparison operator
type Operator string

const (
	// OpEq matches documents whose field equals the predicate value
	OpEq Operator = "eq"
	// OpIn matches documents whose field equals any of the predicate values
	OpIn Operator = "in"
)

// Predicate filters a query by a single field
type Predicate struct {
	Field string
	Op    Operator
	Value interface{}
}

// Eq builds an equality predicate
func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

// In builds a membership predicate over a list of string values
func In(field string, values ...string) Predicate {
	return Predicate{Field: field, Op: OpIn, Value: values}
}

// Store is the record store contract required by the workflow services.
type Store interface {
	// Get fetches a document by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns all documents matching every predicate. Order is
	// unspecified.
	Query(ctx context.Context, collection string, predicates []Predicate) ([]Document, error)

	// Put creates or fully replaces a document under the given id.
	Put(ctx context.Context, collection, id string, doc Document) error

	// Update merges partial fields into an existing document. Returns
	// ErrNotFound when the document is absent.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes a document. Returns ErrNotFound when absent.
	Delete(ctx context.Context, collection, id string) error

	// Add inserts a document under a freshly generated id and returns it.
	Add(ctx context.Context, collection string, doc Document) (string, error)
}

var fieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// validField reports whether a predicate field name is safe to use
func validField(field string) bool {
	return fieldPattern.MatchString(field)
}

// Encode converts a typed record into a Document via its JSON form
func Encode(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return doc, nil
}

// Decode converts a Document back into a typed record via its JSON form
func Decode(doc Document, v interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// DecodeAll converts a slice of documents into a slice of typed records
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
