package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.IngestPort == 0 {
		cfg.Server.IngestPort = 8080
	}
	if cfg.Server.HealthPort == 0 {
		cfg.Server.HealthPort = 8081
	}
	if cfg.Dispatcher.DebounceMs == 0 {
		cfg.Dispatcher.DebounceMs = 1000
	}
	if cfg.Dispatcher.DedupMaxEntries == 0 {
		cfg.Dispatcher.DedupMaxEntries = 512
	}
	if cfg.Dispatcher.Breadcrumbs == 0 {
		cfg.Dispatcher.Breadcrumbs = 20
	}

	// Fail fast on malformed rules instead of at dispatch time
	if _, err := cfg.Dispatcher.CompileRules(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
