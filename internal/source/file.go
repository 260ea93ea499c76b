package source

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/roach88/paragon/internal/contract"
)

//go:embed snapshots.schema.json
var documentSchema []byte

const schemaURL = "snapshots.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(documentSchema)); err != nil {
			compileErr = fmt.Errorf("add snapshot schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Document is the on-disk form of a fetch: the JSON the overlay lookup
// service returns, wrapped in an object.
//
//	{"snapshots": [{"record": {...}, "satoshis": 5000}, ...]}
type Document struct {
	Snapshots []contract.Snapshot `json:"snapshots"`
}

// Decode reads a snapshot document, validates it against the embedded JSON
// schema and decodes it. Schema violations are reported with their JSON
// pointer; enum values the schema admits are decoded strictly.
func Decode(r io.Reader) ([]contract.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot document: %w", err)
	}

	sch, err := schema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse snapshot document: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid snapshot document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot document: %w", err)
	}
	if doc.Snapshots == nil {
		doc.Snapshots = []contract.Snapshot{}
	}
	return doc.Snapshots, nil
}

// Encode writes snaps as a snapshot document. Nil bid lists are written as
// empty arrays so the output passes Decode.
func Encode(w io.Writer, snaps []contract.Snapshot) error {
	out := make([]contract.Snapshot, len(snaps))
	for i, s := range snaps {
		if s.Record.Bids == nil {
			s.Record.Bids = []contract.Bid{}
		}
		out[i] = s
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Snapshots: out})
}

// File is a Source reading a snapshot document from disk on every fetch.
// Every role sees the whole document.
type File struct {
	Path   string
	Logger *slog.Logger
}

// Fetch reads and validates the document.
func (f File) Fetch(ctx context.Context, role contract.Role) ([]contract.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	defer fh.Close()

	snaps, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}

	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("read snapshot document", "path", f.Path, "role", role, "snapshots", len(snaps))
	return snaps, nil
}
