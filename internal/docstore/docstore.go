package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when the backing store could not commit a
	// transaction because of a concurrent writer. The caller should re-read
	// and re-evaluate before retrying; the failed writes were not applied.
	ErrConflict = errors.New("transaction conflict")
)

// Fields is a field-level update set. Keys are top-level document fields;
// a nil value stores JSON null.
type Fields map[string]any

// Document is a stored JSON object plus store metadata.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	Version    int64
	CreateTime time.Time
	UpdateTime time.Time
}

// DataTo decodes the document body into v.
func (d Document) DataTo(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}
	return nil
}

// Op is a query predicate operator.
type Op string

const (
	// OpEqual matches documents whose field equals the value.
	OpEqual Op = "=="

	// OpArrayContains matches documents whose array field contains the value.
	OpArrayContains Op = "array-contains"
)

// Filter is a single query predicate. Filters passed together are ANDed.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Where builds an equality filter.
func Where(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Contains builds an array-contains filter.
func Contains(field string, value any) Filter {
	return Filter{Field: field, Op: OpArrayContains, Value: value}
}

// Reader reads single documents.
type Reader interface {
	Get(ctx context.Context, collection, id string) (Document, error)
}

// Writer writes single documents.
type Writer interface {
	// Create inserts the document if absent. created is false when a
	// document with the same id already exists; the existing body is kept.
	Create(ctx context.Context, collection, id string, data any) (created bool, err error)

	// Set replaces the whole document body, creating it if needed.
	Set(ctx context.Context, collection, id string, data any) error

	// Merge upserts the given top-level fields, leaving other fields intact.
	Merge(ctx context.Context, collection, id string, fields Fields) error

	// Update is Merge on an existing document; it returns ErrNotFound
	// instead of creating one.
	Update(ctx context.Context, collection, id string, fields Fields) error
}

// Tx is the view of the store inside RunTransaction. Reads observe the
// transaction's own writes.
type Tx interface {
	Reader
	Writer
}

// Store is the document store the engine is written against.
type Store interface {
	Reader
	Writer

	// Query returns documents matching every filter, ordered by id.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

	// RunTransaction runs fn atomically. If fn returns an error nothing is
	// committed. A commit that loses to a concurrent writer returns an error
	// wrapping ErrConflict.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Subscribe streams the document's current state followed by every
	// change until ctx is done. Documents that do not exist yet are
	// delivered once they are first written.
	Subscribe(ctx context.Context, collection, id string) (<-chan Document, error)
}

// Validator checks a full document body before it is written.
type Validator func(collection string, data []byte) error
