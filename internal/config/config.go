// Package config handles global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/doifind/config.yml.
// Every field is optional; environment variables override the file.
type Config struct {
	PubMedAPIKey     string `yaml:"pubmed_api_key,omitempty"`
	CrossRefMailto   string `yaml:"crossref_mailto,omitempty"`
	RequestDelayMS   int    `yaml:"request_delay_ms,omitempty"`
	CitationTimeoutS int    `yaml:"citation_timeout_s,omitempty"`
	JobTimeoutMin    int    `yaml:"job_timeout_min,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "doifind"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Path returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/doifind/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration file and applies environment
// overrides. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	cfg := &Config{}

	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if key := os.Getenv("PUBMED_API_KEY"); key != "" {
		c.PubMedAPIKey = key
	}
	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		c.CrossRefMailto = mailto
	}
}

// Save writes the configuration file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// RequestDelay returns the configured politeness delay, or zero when
// unset so callers fall back to their own default.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// CitationTimeout returns the per-citation lookup timeout, or zero
// when unset.
func (c *Config) CitationTimeout() time.Duration {
	return time.Duration(c.CitationTimeoutS) * time.Second
}

// JobTimeout returns the overall job time budget, or zero when unset.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutMin) * time.Minute
}
