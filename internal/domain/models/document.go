package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotAnObject  = errors.New("document must be a JSON object")
	ErrTrailingData = errors.New("unexpected data after the JSON value")
)

// Document is a schema-less JSON object persisted as JSONB. Numbers are kept
// as json.Number so that a stored document reads back exactly as submitted.
type Document map[string]any

func (d *Document) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return ErrTrailingData
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return ErrNotAnObject
	}

	*d = obj
	return nil
}

// Value implements driver.Valuer for JSONB columns.
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}

	b, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

// Scan implements sql.Scanner for JSONB columns.
func (d *Document) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		if v == nil {
			*d = nil
			return nil
		}
		return d.UnmarshalJSON(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	case map[string]any:
		*d = v
		return nil
	default:
		return fmt.Errorf("unsupported document source %T", value)
	}
}
