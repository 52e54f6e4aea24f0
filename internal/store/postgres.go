package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists documents in PostgreSQL, one table per collection
// with the shape (id TEXT PRIMARY KEY, doc JSONB). Field predicates are
// evaluated with JSONB text extraction, so every document field is matched
// by its JSON string form.
type PostgresStore struct {
	db          *pgxpool.Pool
	collections map[string]struct{}
}

// NewPostgresStore creates a store over the given pool, restricted to the
// named collections.
func NewPostgresStore(db *pgxpool.Pool, collections []string) (*PostgresStore, error) {
	known := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		if !validField(c) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
		}
		known[c] = struct{}{}
	}
	return &PostgresStore{db: db, collections: known}, nil
}

// EnsureSchema creates the collection tables if they do not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for collection := range s.collections {
		createSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				doc JSONB NOT NULL
			)`, collection)
		if _, err := s.db.Exec(ctx, createSQL); err != nil {
			return fmt.Errorf("failed to create collection table %s: %w", collection, err)
		}
	}
	return nil
}

func (s *PostgresStore) table(collection string) (string, error) {
	if _, ok := s.collections[collection]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return collection, nil
}

// Get fetches a document by id
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	table, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, table)
	err = s.db.QueryRow(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return doc, nil
}

// Query returns all documents matching every predicate
func (s *PostgresStore) Query(ctx context.Context, collection string, predicates []Predicate) ([]Document, error) {
	table, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	var (
		clauses []string
		args    []interface{}
	)
	for _, p := range predicates {
		if !validField(p.Field) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, p.Field)
		}
		switch p.Op {
		case OpEq:
			args = append(args, fmt.Sprintf("%v", p.Value))
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' = $%d", p.Field, len(args)))
		case OpIn:
			values, ok := p.Value.([]string)
			if !ok {
				return nil, fmt.Errorf("%w: in predicate on %q requires []string", ErrInvalidField, p.Field)
			}
			args = append(args, values)
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' = ANY($%d)", p.Field, len(args)))
		default:
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrInvalidField, p.Op)
		}
	}

	query := fmt.Sprintf(`SELECT doc FROM %s`, table)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// Put creates or fully replaces a document
func (s *PostgresStore) Put(ctx context.Context, collection, id string, doc Document) error {
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, table)
	if _, err := s.db.Exec(ctx, query, id, raw); err != nil {
		return fmt.Errorf("error storing document: %w", err)
	}
	return nil
}

// Update merges partial fields into an existing document
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) error {
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("error encoding partial document: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1`, table)
	cmdTag, err := s.db.Exec(ctx, query, id, raw)
	if err != nil {
		return fmt.Errorf("error updating document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Add inserts a document under a generated id. The id is also written into
// the document itself so queries can see it.
func (s *PostgresStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.New().String()
	if _, ok := doc["id"]; !ok {
		doc["id"] = id
	}
	if err := s.Put(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}
