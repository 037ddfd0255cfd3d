// Package config loads the toolkit's YAML configuration. Every consumer
// receives an explicit Config value; there is no package-global state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port string `yaml:"port"`
}

// BackendConfig selects and configures the execution backend
type BackendConfig struct {
	// Type is "simulator" or "qiskit"
	Type   string       `yaml:"type"`
	Qiskit QiskitConfig `yaml:"qiskit"`
}

// QiskitConfig holds remote backend settings. The API key is normally left
// out of the file and supplied through GHZ_QISKIT_API_KEY.
type QiskitConfig struct {
	APIKey  string `yaml:"api_key"`
	CRN     string `yaml:"crn"`
	BaseURL string `yaml:"base_url"`
	Backend string `yaml:"backend"`
}

// DefaultsConfig holds experiment defaults
type DefaultsConfig struct {
	Shots  int   `yaml:"shots"`
	Qubits []int `yaml:"qubits"`
}

// Default returns the built-in configuration: simulator backend, 1024
// shots on qubits 0..2, port 8080
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080"},
		Backend: BackendConfig{Type: "simulator"},
		Defaults: DefaultsConfig{
			Shots:  1024,
			Qubits: []int{0, 1, 2},
		},
	}
}

// Load reads the YAML file at path, merges it over the defaults, and applies
// environment overrides. An empty path yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if key := os.Getenv("GHZ_QISKIT_API_KEY"); key != "" {
		cfg.Backend.Qiskit.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend.Type {
	case "simulator", "qiskit":
	default:
		return fmt.Errorf("config: backend type must be \"simulator\" or \"qiskit\", got %q", c.Backend.Type)
	}
	if c.Defaults.Shots <= 0 {
		return fmt.Errorf("config: default shots must be positive, got %d", c.Defaults.Shots)
	}
	if c.Backend.Type == "qiskit" && c.Backend.Qiskit.APIKey == "" {
		return fmt.Errorf("config: qiskit backend requires an API key (set GHZ_QISKIT_API_KEY)")
	}
	return nil
}
