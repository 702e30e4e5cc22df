package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
)

// txn implements docstore.Tx on top of a *sql.Tx.
// It records every written document so the store can notify subscribers
// after commit.
type txn struct {
	store   *Store
	tx      *sql.Tx
	changed []docstore.Document
}

var _ docstore.Tx = (*txn)(nil)

func (t *txn) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT data, version, create_time, update_time
		FROM documents
		WHERE collection = ? AND id = ?
	`, collection, id)
	return scanDocumentRow(row, collection, id)
}

// Create inserts a document if absent.
// Uses ON CONFLICT DO NOTHING for idempotency - an existing document with the
// same id is left untouched and created is false.
func (t *txn) Create(ctx context.Context, collection, id string, data any) (bool, error) {
	body, err := t.prepare(collection, id, data)
	if err != nil {
		return false, err
	}

	now := formatTime(t.store.now())
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, version, create_time, update_time)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(collection, id) DO NOTHING
	`, collection, id, string(body), now, now)
	if err != nil {
		return false, fmt.Errorf("create %s/%s: %w", collection, id, classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create %s/%s: rows affected: %w", collection, id, err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if err := t.record(ctx, collection, id); err != nil {
		return false, err
	}
	return true, nil
}

// Set replaces the document body, bumping its version.
func (t *txn) Set(ctx context.Context, collection, id string, data any) error {
	body, err := t.prepare(collection, id, data)
	if err != nil {
		return err
	}
	return t.upsert(ctx, collection, id, body)
}

// Merge overlays fields onto the document, creating it if absent.
func (t *txn) Merge(ctx context.Context, collection, id string, fields docstore.Fields) error {
	existing, err := t.Get(ctx, collection, id)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	return t.merge(ctx, existing, collection, id, fields)
}

// Update overlays fields onto an existing document.
func (t *txn) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	existing, err := t.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	return t.merge(ctx, existing, collection, id, fields)
}

func (t *txn) merge(ctx context.Context, existing docstore.Document, collection, id string, fields docstore.Fields) error {
	merged, err := mergeFields(existing.Data, fields)
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	body, err := t.prepare(collection, id, merged)
	if err != nil {
		return err
	}
	return t.upsert(ctx, collection, id, body)
}

func (t *txn) upsert(ctx context.Context, collection, id string, body []byte) error {
	now := formatTime(t.store.now())
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, version, create_time, update_time)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			data = excluded.data,
			version = documents.version + 1,
			update_time = excluded.update_time
	`, collection, id, string(body), now, now)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, classify(err))
	}
	return t.record(ctx, collection, id)
}

// prepare encodes and validates a body before it is written.
func (t *txn) prepare(collection, id string, data any) ([]byte, error) {
	if collection == "" || id == "" {
		return nil, fmt.Errorf("write: collection and id are required")
	}
	body, err := encodeBody(data)
	if err != nil {
		return nil, fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	if t.store.validate != nil {
		if err := t.store.validate(collection, body); err != nil {
			return nil, fmt.Errorf("write %s/%s: %w", collection, id, err)
		}
	}
	return body, nil
}

func (t *txn) record(ctx context.Context, collection, id string) error {
	doc, err := t.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	t.changed = append(t.changed, doc)
	return nil
}

// Create inserts a document if absent, in its own transaction.
func (s *Store) Create(ctx context.Context, collection, id string, data any) (bool, error) {
	var created bool
	err := s.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		var err error
		created, err = tx.Create(ctx, collection, id, data)
		return err
	})
	return created, err
}

// Set replaces a document body in its own transaction.
func (s *Store) Set(ctx context.Context, collection, id string, data any) error {
	return s.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		return tx.Set(ctx, collection, id, data)
	})
}

// Merge upserts fields in its own transaction.
func (s *Store) Merge(ctx context.Context, collection, id string, fields docstore.Fields) error {
	return s.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		return tx.Merge(ctx, collection, id, fields)
	})
}

// Update merges fields into an existing document in its own transaction.
func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	return s.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		return tx.Update(ctx, collection, id, fields)
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
