package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"credit-sync/internal/api"
	"credit-sync/internal/catalog"
	"credit-sync/internal/config"
	"credit-sync/internal/credits"
	"credit-sync/internal/gselector"
	"credit-sync/internal/logging"
	"credit-sync/internal/pipeline"
	"credit-sync/internal/songxml"
)

type commandContext struct {
	configFlag  *string
	envFileFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, envFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		envFileFlag: envFileFlag,
	}
}

// loadEnvFile reads secrets from the env file. Variables already set in the
// environment win, and a missing file is ignored.
func (c *commandContext) loadEnvFile() error {
	if c.envFileFlag == nil {
		return nil
	}
	path := strings.TrimSpace(*c.envFileFlag)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(w io.Writer) (*logging.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level), nil
}

func newResolver(cfg *config.Config, logger *logging.Logger) *credits.Resolver {
	if cfg.Catalog.Token == "" {
		logger.Warnf("No catalog token configured; requests may be rejected")
	}
	client := api.New(
		&http.Client{Timeout: cfg.CatalogTimeout()},
		cfg.Catalog.BaseURL,
		cfg.Catalog.Token,
		cfg.Catalog.CountryCode,
	)
	return credits.NewResolver(client, catalog.NewCache(), cfg.Catalog.SearchLimit, logger)
}

func newOrchestrator(cfg *config.Config, resolver *credits.Resolver, logger *logging.Logger) *pipeline.Orchestrator {
	songs := gselector.New(&http.Client{Timeout: cfg.GSelectorTimeout()}, cfg.GSelector.URL, cfg.MinInterval())
	merger := &songxml.Merger{ParticipantMaxLength: cfg.Pipeline.ParticipantMaxLength}
	return pipeline.New(resolver, songs, merger, logger, pipeline.DefaultMaxAttempts)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
