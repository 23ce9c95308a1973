package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/logging"
	"subforge/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// buildLogger constructs the command logger, writing to stdout and the
// configured log directory. Console format silently downgrades to JSON when
// stdout is not a terminal so piped output stays machine readable.
func (c *commandContext) buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := *cfg
	if logCfg.Logging.Format == "console" && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logCfg.Logging.Format = "json"
	}
	return logging.NewFromConfig(&logCfg)
}

// lockWorkDir takes an exclusive advisory lock on the work directory so
// concurrent burn invocations do not trample each other's staging files.
// The returned release function must be called when the work finishes.
func (c *commandContext) lockWorkDir(cfg *config.Config) (func(), error) {
	lockPath := filepath.Join(cfg.Paths.WorkDir, "subforge.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock work directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("work directory %s is locked by another subforge process", cfg.Paths.WorkDir)
	}
	return func() { _ = lock.Unlock() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
