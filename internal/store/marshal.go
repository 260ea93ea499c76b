package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/paragon/internal/contract"
)

// marshalRecord converts a record to JSON TEXT for storage.
// HTML escaping is disabled so descriptions are stored as written.
func marshalRecord(r contract.Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalRecord parses JSON TEXT to a record. Unknown enum values fail
// through the contract package's UnmarshalText methods.
func unmarshalRecord(data string) (contract.Record, error) {
	var r contract.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return contract.Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}
