package config

import (
	"errors"
	"fmt"
	"net/url"

	"credit-sync/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateGSelector(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if err := validateURL(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if c.Catalog.SearchLimit < 1 || c.Catalog.SearchLimit > 300 {
		return errors.New("catalog.search_limit must be between 1 and 300")
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return errors.New("catalog.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateGSelector() error {
	if err := validateURL(c.GSelector.URL); err != nil {
		return fmt.Errorf("gselector.url: %w", err)
	}
	if c.GSelector.TimeoutSeconds <= 0 {
		return errors.New("gselector.timeout_seconds must be positive")
	}
	if c.GSelector.MinIntervalMS < 0 {
		return errors.New("gselector.min_interval_ms must not be negative")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ParticipantMaxLength < 1 {
		return errors.New("pipeline.participant_max_length must be at least 1")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
