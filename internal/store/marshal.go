package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/touchbase/internal/docstore"
)

// encodeBody converts a document value to JSON TEXT for storage.
// The result must be a JSON object; arrays and scalars are rejected.
func encodeBody(data any) ([]byte, error) {
	var raw []byte
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(data); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		raw = bytes.TrimSpace(buf.Bytes())
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("encode body: document must be a JSON object")
	}
	return trimmed, nil
}

// decodeObject parses a stored body into a generic object.
// Uses json.Number so integers survive a merge round trip unchanged.
func decodeObject(data []byte) (map[string]any, error) {
	obj := map[string]any{}
	if len(data) == 0 {
		return obj, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return obj, nil
}

// mergeFields overlays top-level fields onto an existing body.
func mergeFields(existing []byte, fields docstore.Fields) ([]byte, error) {
	obj, err := decodeObject(existing)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		if k == "" {
			return nil, fmt.Errorf("merge: empty field name")
		}
		obj[k] = v
	}
	return encodeBody(obj)
}

// classify maps SQLite lock contention to docstore.ErrConflict so callers
// can tell retryable conflicts from hard failures.
func classify(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %v", docstore.ErrConflict, err)
	}
	return err
}
