package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Provider API keys are
// deliberately not required: a missing credential disables that provider's
// contribution instead of failing startup.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateMarket(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Bind == "" {
		return errors.New("api.bind must be set")
	}
	return nil
}

func (c *Config) validateMarket() error {
	switch c.Market.MatchMode {
	case "keyword", "title":
	default:
		return fmt.Errorf("market.match_mode must be %q or %q, got %q", "keyword", "title", c.Market.MatchMode)
	}
	switch c.Market.Extractor {
	case "pattern", "llm":
	default:
		return fmt.Errorf("market.extractor must be %q or %q, got %q", "pattern", "llm", c.Market.Extractor)
	}
	if c.Market.TopN > 25 {
		return errors.New("market.top_n must be 25 or fewer")
	}
	if c.Market.MaxKeywords > 10 {
		return errors.New("market.max_keywords must be 10 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	return nil
}
