// Package config provides configuration loading for the notification dispatcher.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NotifierConfig routes review notifications to webhooks. Categories without
// an explicit route fall back to the default URL.
type NotifierConfig struct {
	DefaultURL string            `yaml:"default_url"`
	Categories map[string]string `yaml:"categories"`
}

// LoadNotifierConfig loads notification routing from a YAML file.
func LoadNotifierConfig(filepath string) (NotifierConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return NotifierConfig{}, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var config NotifierConfig

	if err := yaml.Unmarshal(data, &config); err != nil {
		return NotifierConfig{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return NotifierConfig{}, err
	}

	return config, nil
}

// Validate checks that every route has a usable target.
func (c NotifierConfig) Validate() error {
	if c.DefaultURL == "" {
		return errors.New("notifier config: default_url is required")
	}

	for category, url := range c.Categories {
		if url == "" {
			return fmt.Errorf("notifier config: category %q has an empty webhook URL", category)
		}
	}

	return nil
}

// Resolve returns the webhook URL for a story category.
func (c NotifierConfig) Resolve(category string) string {
	if url, ok := c.Categories[category]; ok {
		return url
	}

	return c.DefaultURL
}
