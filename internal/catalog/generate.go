package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"cgreplay/internal/fileutil"
)

// DefaultExtensions lists the file extensions Scan keeps when none are given.
var DefaultExtensions = []string{".mp4"}

// Scan walks dir and returns the video files under it as forward-slash paths
// prefixed with dir, sorted lexicographically. Extensions match
// case-insensitively.
func Scan(dir string, exts []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", dir)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		files = append(files, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	if files == nil {
		files = []string{}
	}
	return files, nil
}

// NewDocument stamps files with a version, generation time, and list hash.
func NewDocument(files []string, now time.Time) Document {
	cp := make([]string, len(files))
	copy(cp, files)
	return Document{
		Files:        cp,
		Version:      strconv.FormatInt(now.UnixMilli(), 10),
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		RecordedHash: strconv.FormatUint(uint64(ListHash(cp)), 10),
	}
}

type outDocument struct {
	Version     json.RawMessage `json:"version,omitempty"`
	GeneratedAt string          `json:"generated_at,omitempty"`
	Hash        json.RawMessage `json:"hash,omitempty"`
	Files       []string        `json:"files"`
}

// Marshal renders the document in its object form, or as a bare list when
// plain is set.
func (d Document) Marshal(plain bool) ([]byte, error) {
	files := d.Files
	if files == nil {
		files = []string{}
	}
	if plain {
		return json.MarshalIndent(files, "", "  ")
	}
	return json.MarshalIndent(outDocument{
		Version:     scalarJSON(d.Version),
		GeneratedAt: d.GeneratedAt,
		Hash:        scalarJSON(d.RecordedHash),
		Files:       files,
	}, "", "  ")
}

// WriteDocument atomically replaces path with doc, creating parent
// directories.
func WriteDocument(path string, doc Document, plain bool) error {
	data, err := doc.Marshal(plain)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := fileutil.WriteAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func scalarJSON(s string) json.RawMessage {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
