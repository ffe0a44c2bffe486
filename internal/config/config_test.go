package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cgreplay/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CGREPLAY_CATALOG", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "cgreplay")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "cgreplay.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Session.PairCount != 5 {
		t.Fatalf("unexpected pair count: %d", cfg.Session.PairCount)
	}
	if cfg.Server.Bind != "127.0.0.1:7488" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Catalog.Path != "" {
		t.Fatalf("expected empty catalog path, got %q", cfg.Catalog.Path)
	}
	if !slices.Equal(cfg.Catalog.Extensions, []string{".mp4"}) {
		t.Fatalf("unexpected extensions: %v", cfg.Catalog.Extensions)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)
	configPath := filepath.Join(tempDir, "cgreplay.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Catalog struct {
			Path       string   `toml:"path"`
			Fallback   []string `toml:"fallback"`
			Extensions []string `toml:"extensions"`
		} `toml:"catalog"`
		Session struct {
			PairCount int `toml:"pair_count"`
		} `toml:"session"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Catalog.Path = "video_list.json"
	custom.Catalog.Fallback = []string{"videos/b.mp4", " videos/a.mp4"}
	custom.Catalog.Extensions = []string{"MP4", ".webm", "mp4"}
	custom.Session.PairCount = 3
	custom.Logging.Format = "JSON"
	custom.Logging.Level = " Debug "

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Catalog.Path != filepath.Join(tempDir, "video_list.json") {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
	if !slices.Equal(cfg.Catalog.Fallback, []string{"videos/b.mp4", " videos/a.mp4"}) {
		t.Fatalf("fallback must be preserved verbatim: %q", cfg.Catalog.Fallback)
	}
	if !slices.Equal(cfg.Catalog.Extensions, []string{".mp4", ".webm"}) {
		t.Fatalf("unexpected extensions: %v", cfg.Catalog.Extensions)
	}
	if cfg.Session.PairCount != 3 {
		t.Fatalf("unexpected pair count: %d", cfg.Session.PairCount)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadCatalogFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("CGREPLAY_CATALOG", "/srv/study/video_list.json")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Path != "/srv/study/video_list.json" {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CGREPLAY_CATALOG=/from/dotenv.json\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("CGREPLAY_CATALOG", "/from/env.json")
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Path != "/from/env.json" {
		t.Fatalf("existing env must win, got %q", cfg.Catalog.Path)
	}

	os.Unsetenv("CGREPLAY_CATALOG")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Path != "/from/dotenv.json" {
		t.Fatalf("expected .env value, got %q", cfg.Catalog.Path)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative pair count", func(c *config.Config) { c.Session.PairCount = -1 }, "session.pair_count"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %s error, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if len(cfg.Catalog.Fallback) != 8 {
		t.Fatalf("expected 8 fallback entries, got %d", len(cfg.Catalog.Fallback))
	}
	if cfg.Catalog.Path != filepath.Join(dir, "video_list.json") {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
}
