package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// tables whitelists the collection names usable in SQL identifiers.
var tables = map[string]string{
	"developments": "developments",
	"unit_models":  "unit_models",
	"developers":   "developers",
}

// PostgresStore stores each collection as an (id, data jsonb) table and
// implements the merge semantics of Store on top of a jsonb_merge_deep
// SQL function installed by EnsureSchema.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(dsn string, maxConn, maxIdleConn int) (*PostgresStore, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the collection tables, indexes and the deep-merge
// function. Idempotent; safe to run on every start.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func tableFor(collection string) (string, error) {
	t, ok := tables[collection]
	if !ok {
		return "", fmt.Errorf("unknown collection %q", collection)
	}
	return t, nil
}

// Get returns the decoded document body, or nil when the id does not exist.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	var raw []byte
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, table)
	if err := s.db.GetContext(ctx, &raw, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Query returns all documents matching every filter, ordered by id. Equality
// filters compile to jsonb containment so nested dot paths index-match; the
// array-contains operator uses jsonb_exists on the target array.
func (s *PostgresStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	for _, f := range filters {
		switch f.Op {
		case OpEq:
			probe, err := json.Marshal(expandDotPaths(map[string]any{f.Path: f.Value}))
			if err != nil {
				return nil, fmt.Errorf("failed to encode filter %s: %w", f.Path, err)
			}
			whereClauses = append(whereClauses, fmt.Sprintf("data @> $%d::jsonb", argIndex))
			args = append(args, string(probe))
			argIndex++
		case OpArrayContains:
			sel := "data"
			for _, p := range strings.Split(f.Path, ".") {
				sel += fmt.Sprintf("->'%s'", p)
			}
			whereClauses = append(whereClauses, fmt.Sprintf("jsonb_exists(%s, $%d)", sel, argIndex))
			args = append(args, fmt.Sprint(f.Value))
			argIndex++
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}

	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE %s ORDER BY id`,
		table, strings.Join(whereClauses, " AND "))

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return docs, nil
}

// Update deep-merges the given dot-path fields into one existing document.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	patch, err := json.Marshal(expandDotPaths(fields))
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}
	query := fmt.Sprintf(
		`UPDATE %s SET data = jsonb_merge_deep(data, $2::jsonb), updated_at = NOW() WHERE id = $1`,
		table)
	if _, err := s.db.ExecContext(ctx, query, id, string(patch)); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Batch opens a write batch committed in a single transaction.
func (s *PostgresStore) Batch() WriteBatch {
	return &postgresBatch{store: s}
}

type batchOp struct {
	collection string
	id         string
	data       map[string]any
	isUpdate   bool
}

type postgresBatch struct {
	store *PostgresStore
	ops   []batchOp
}

func (b *postgresBatch) Set(collection, id string, data map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: data})
}

func (b *postgresBatch) Update(collection, id string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: expandDotPaths(fields), isUpdate: true})
}

func (b *postgresBatch) Len() int { return len(b.ops) }

func (b *postgresBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	tx, err := b.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, op := range b.ops {
		table, err := tableFor(op.collection)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(op.data)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", op.collection, op.id, err)
		}
		var query string
		if op.isUpdate {
			query = fmt.Sprintf(
				`UPDATE %s SET data = jsonb_merge_deep(data, $2::jsonb), updated_at = NOW() WHERE id = $1`,
				table)
		} else {
			query = fmt.Sprintf(
				`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)
				 ON CONFLICT (id) DO UPDATE SET data = jsonb_merge_deep(%s.data, EXCLUDED.data), updated_at = NOW()`,
				table, table)
		}
		if _, err := tx.ExecContext(ctx, query, op.id, string(raw)); err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", op.collection, op.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	b.ops = nil
	return nil
}
