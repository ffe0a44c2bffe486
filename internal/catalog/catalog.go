package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrCatalogUnavailable indicates the catalog file is missing, unreadable, or
// malformed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Document is a loaded catalog together with what was recorded alongside it.
type Document struct {
	Files        []string `json:"files"`
	Version      string   `json:"version,omitempty"`
	GeneratedAt  string   `json:"generated_at,omitempty"`
	RecordedHash string   `json:"recorded_hash,omitempty"`
	Source       string   `json:"source,omitempty"`
	Fallback     bool     `json:"fallback"`
}

// Len reports the number of catalog entries.
func (d Document) Len() int {
	return len(d.Files)
}

// Hash is the list hash of the document's files.
func (d Document) Hash() uint32 {
	return ListHash(d.Files)
}

// HashDrift reports whether the document recorded a hash that differs from
// the hash of its files. A document without a recorded hash never drifts.
func (d Document) HashDrift() bool {
	recorded := strings.TrimSpace(d.RecordedHash)
	if recorded == "" {
		return false
	}
	return recorded != strconv.FormatUint(uint64(d.Hash()), 10)
}

type wireDocument struct {
	Version     json.RawMessage `json:"version"`
	GeneratedAt json.RawMessage `json:"generated_at"`
	Hash        json.RawMessage `json:"hash"`
	Files       *[]string       `json:"files"`
}

// Parse decodes either catalog shape.
func Parse(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("%w: empty catalog", ErrCatalogUnavailable)
	}

	switch trimmed[0] {
	case '[':
		var files []string
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return Document{}, fmt.Errorf("%w: decode list: %v", ErrCatalogUnavailable, err)
		}
		if files == nil {
			files = []string{}
		}
		return Document{Files: files}, nil
	case '{':
		var wire wireDocument
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return Document{}, fmt.Errorf("%w: decode document: %v", ErrCatalogUnavailable, err)
		}
		if wire.Files == nil {
			return Document{}, fmt.Errorf("%w: document has no files field", ErrCatalogUnavailable)
		}
		files := *wire.Files
		if files == nil {
			files = []string{}
		}
		return Document{
			Files:        files,
			Version:      scalarString(wire.Version),
			GeneratedAt:  scalarString(wire.GeneratedAt),
			RecordedHash: scalarString(wire.Hash),
		}, nil
	default:
		return Document{}, fmt.Errorf("%w: expected JSON array or object", ErrCatalogUnavailable)
	}
}

// scalarString renders a JSON string or number as plain text.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String()
	}
	return string(raw)
}

// Load reads and parses the catalog at path.
func Load(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Document{}, fmt.Errorf("%w: no catalog path configured", ErrCatalogUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// Resolve loads the catalog at path. When it is unavailable and fallback is
// non-empty, the fallback is returned with Fallback set and the load error is
// discarded; callers must report the substitution because it can change the
// reproduced sessions.
func Resolve(path string, fallback []string) (Document, error) {
	doc, err := Load(path)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrCatalogUnavailable) || len(fallback) == 0 {
		return Document{}, err
	}
	files := make([]string, len(fallback))
	copy(files, fallback)
	return Document{Files: files, Source: "fallback", Fallback: true}, nil
}
