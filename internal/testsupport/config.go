package testsupport

import (
	"path/filepath"
	"testing"

	"cgreplay/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalog writes files as a plain catalog list under the temp directory
// and points the config at it.
func WithCatalog(files []string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Path = WriteCatalog(b.t, b.baseDir, files)
	}
}

// WithMissingCatalog points the config at a catalog path that does not exist.
func WithMissingCatalog() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Path = filepath.Join(b.baseDir, "missing", "video_list.json")
	}
}

// WithFallback sets the last-known-good catalog.
func WithFallback(files []string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Fallback = append([]string(nil), files...)
	}
}

// WithPairCount overrides the session pair count.
func WithPairCount(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.PairCount = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
