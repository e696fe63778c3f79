package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeCatalog()
	c.normalizeGSelector()
	c.normalizeLogging()
	return c.normalizePaths()
}

func (c *Config) normalizeCatalog() {
	if value, ok := os.LookupEnv(envCatalogToken); ok && strings.TrimSpace(value) != "" {
		c.Catalog.Token = value
	}
	c.Catalog.Token = strings.TrimSpace(c.Catalog.Token)
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.CountryCode = strings.ToUpper(strings.TrimSpace(c.Catalog.CountryCode))
	if c.Catalog.CountryCode == "" {
		c.Catalog.CountryCode = defaultCountryCode
	}
}

func (c *Config) normalizeGSelector() {
	if value, ok := os.LookupEnv(envGSelectorURL); ok && strings.TrimSpace(value) != "" {
		c.GSelector.URL = value
	}
	c.GSelector.URL = strings.TrimSpace(c.GSelector.URL)
	if c.GSelector.URL == "" {
		c.GSelector.URL = defaultGSelectorURL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	var err error
	if c.Paths.LockFile, err = ExpandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}
