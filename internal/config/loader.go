package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".olxcrawl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .olxcrawl configuration file.
// Every section is optional; an empty file is valid and changes nothing.
type File struct {
	// Selectors overrides individual selectors of the default profile.
	Selectors Selectors `yaml:"selectors,omitempty"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Retry overrides the retry policy.
	Retry RetryConfig `yaml:"retry,omitempty"`
}

// RetryConfig is the retry policy section of the configuration file.
type RetryConfig struct {
	// Attempts is the number of retries after the first attempt.
	// Negative or absent means keep the default.
	Attempts int `yaml:"attempts,omitempty"`

	// Backoff is the wait before the first retry, in Go duration
	// syntax ("500ms", "2s"). It doubles on each subsequent retry.
	Backoff string `yaml:"backoff,omitempty"`
}

// LoadConfigFile loads a configuration file from path.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error based on whether the path was
// explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .olxcrawl in the current directory
// 3. Look for .olxcrawl in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Apply folds the configuration file into c. File values win over the
// defaults already present in c but are themselves applied before CLI
// flag overrides, so the precedence is flags > file > defaults.
func (cf *File) Apply(c *Config) error {
	c.Selectors = c.Selectors.Merge(cf.Selectors)

	if len(cf.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(cf.Headers))
		}
		for k, v := range cf.Headers {
			c.Headers[k] = v
		}
	}

	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}

	if cf.Retry.Attempts > 0 {
		c.RetryBudget = cf.Retry.Attempts
	}
	if cf.Retry.Backoff != "" {
		backoff, err := time.ParseDuration(cf.Retry.Backoff)
		if err != nil {
			return fmt.Errorf("config retry.backoff: %w", err)
		}
		c.RetryBackoff = backoff
	}
	return nil
}
