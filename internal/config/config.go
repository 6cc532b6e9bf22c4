package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is one configured upstream feed. Jurisdiction is optional; when
// empty the classifier infers it from the source name.
type Source struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Jurisdiction string `yaml:"jurisdiction"`
}

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port   string `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`
	Ingest struct {
		PollInterval     int64    `yaml:"poll_interval_seconds"`
		MinFetchInterval int64    `yaml:"min_fetch_interval_seconds"`
		Sources          []Source `yaml:"sources"`
	} `yaml:"ingest"`
}

// PollInterval returns the runner interval with a one-hour default.
func (c *Config) PollInterval() time.Duration {
	if c.Ingest.PollInterval <= 0 {
		return time.Hour
	}
	return time.Duration(c.Ingest.PollInterval) * time.Second
}

// MinFetchInterval returns the per-source throttle spacing; zero disables it.
func (c *Config) MinFetchInterval() time.Duration {
	if c.Ingest.MinFetchInterval <= 0 {
		return 0
	}
	return time.Duration(c.Ingest.MinFetchInterval) * time.Second
}

// Jurisdictions maps each configured source name to its jurisdiction,
// skipping sources that leave it empty.
func (c *Config) Jurisdictions() map[string]string {
	out := make(map[string]string, len(c.Ingest.Sources))
	for _, s := range c.Ingest.Sources {
		if s.Jurisdiction != "" {
			out[s.Name] = s.Jurisdiction
		}
	}
	return out
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Server.APIKey == "" {
		return nil, fmt.Errorf("server.api_key must be set")
	}
	if len(config.Ingest.Sources) == 0 {
		return nil, fmt.Errorf("ingest.sources must list at least one source")
	}

	return config, nil
}
