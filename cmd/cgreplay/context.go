package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cgreplay/internal/catalog"
	"cgreplay/internal/config"
	"cgreplay/internal/logging"
	"cgreplay/internal/store"
)

type commandContext struct {
	configFlag   *string
	catalogFlag  *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, catalogFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		catalogFlag:  catalogFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// applyOverrides layers the persistent flags over the loaded file.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if value := flagValue(c.catalogFlag); value != "" {
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return fmt.Errorf("resolve --catalog: %w", err)
		}
		cfg.Catalog.Path = expanded
	}
	if value := flagValue(c.logLevelFlag); value != "" {
		cfg.Logging.Level = strings.ToLower(value)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	return nil
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// log returns the shared logger, falling back to a no-op logger when the
// configured outputs cannot be opened.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// loadCatalog resolves the configured catalog and surfaces a fallback
// substitution or hash drift on stderr and in the log.
func (c *commandContext) loadCatalog(cmd *cobra.Command) (catalog.Document, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return catalog.Document{}, err
	}
	doc, err := catalog.Resolve(cfg.Catalog.Path, cfg.Catalog.Fallback)
	if err != nil {
		return catalog.Document{}, fmt.Errorf("load catalog: %w", err)
	}
	logger := logging.NewComponentLogger(c.log(), "catalog")
	errOut := cmd.ErrOrStderr()
	colorize := shouldColorize(errOut)
	if doc.Fallback {
		logger.Warn("catalog unavailable, using fallback list",
			slog.String(logging.FieldCatalog, cfg.Catalog.Path),
			slog.Int("files", doc.Len()),
			slog.Bool(logging.FieldAlert, true),
		)
		fmt.Fprintln(errOut, renderStatusLine("Catalog", statusWarn,
			fmt.Sprintf("%s unavailable; using fallback list (%d videos, hash %d)", displayPath(cfg.Catalog.Path), doc.Len(), doc.Hash()),
			colorize))
	}
	if doc.HashDrift() {
		logger.Warn("catalog hash differs from recorded hash",
			slog.String(logging.FieldCatalog, doc.Source),
			slog.String("recorded", doc.RecordedHash),
			slog.Uint64("computed", uint64(doc.Hash())),
		)
		fmt.Fprintln(errOut, renderStatusLine("Catalog", statusWarn,
			fmt.Sprintf("recorded hash %s differs from computed %d", doc.RecordedHash, doc.Hash()),
			colorize))
	}
	return doc, nil
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (c *commandContext) pairCount(flag int) int {
	if flag >= 0 {
		return flag
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Session.PairCount
	}
	return 0
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "(no catalog path)"
	}
	return path
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
