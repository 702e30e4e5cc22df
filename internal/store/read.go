package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
)

// fieldName restricts query paths to plain top-level identifiers.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Get retrieves a single document.
// Returns an error wrapping docstore.ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT data, version, create_time, update_time
		FROM documents
		WHERE collection = ? AND id = ?
	`, collection, id)
	return scanDocumentRow(row, collection, id)
}

// Query returns documents in a collection matching every filter.
// Results are ordered deterministically: ORDER BY id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Query(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	var b strings.Builder
	args := []any{collection}

	b.WriteString(`
		SELECT id, data, version, create_time, update_time
		FROM documents
		WHERE collection = ?`)

	for i, f := range filters {
		if !fieldName.MatchString(f.Field) {
			return nil, fmt.Errorf("query %s: filter[%d]: invalid field %q", collection, i, f.Field)
		}
		value, err := bindValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("query %s: filter[%d]: %w", collection, i, err)
		}
		path := "$." + f.Field

		switch f.Op {
		case docstore.OpEqual:
			if value == nil {
				b.WriteString(` AND json_extract(data, ?) IS NULL`)
				args = append(args, path)
				continue
			}
			b.WriteString(` AND json_extract(data, ?) = ?`)
			args = append(args, path, value)
		case docstore.OpArrayContains:
			b.WriteString(` AND EXISTS (SELECT 1 FROM json_each(documents.data, ?) AS e WHERE e.value = ?)`)
			args = append(args, path, value)
		default:
			return nil, fmt.Errorf("query %s: filter[%d]: unsupported operator %q", collection, i, f.Op)
		}
	}
	b.WriteString(` ORDER BY id COLLATE BINARY ASC`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []docstore.Document{}
	for rows.Next() {
		var (
			doc                    docstore.Document
			data, created, updated string
		)
		if err := rows.Scan(&doc.ID, &data, &doc.Version, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc.Collection = collection
		if err := fillDocument(&doc, data, created, updated); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	return docs, nil
}

// bindValue restricts filter values to JSON scalars SQLite compares
// the same way json_extract returns them.
func bindValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int, int64:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported filter value type %T", v)
	}
}

func scanDocumentRow(row *sql.Row, collection, id string) (docstore.Document, error) {
	doc := docstore.Document{Collection: collection, ID: id}
	var data, created, updated string
	if err := row.Scan(&data, &doc.Version, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, docstore.ErrNotFound)
		}
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, classify(err))
	}
	if err := fillDocument(&doc, data, created, updated); err != nil {
		return docstore.Document{}, err
	}
	return doc, nil
}

func fillDocument(doc *docstore.Document, data, created, updated string) error {
	var err error
	doc.Data = []byte(data)
	if doc.CreateTime, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return fmt.Errorf("parse create_time of %s/%s: %w", doc.Collection, doc.ID, err)
	}
	if doc.UpdateTime, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return fmt.Errorf("parse update_time of %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return nil
}
