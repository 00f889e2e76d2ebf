// Package config loads the YAML configuration of the vallocal server.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration. Keys absent from the file keep the
// values of Default.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Lockfile string       `yaml:"lockfile"`
	LogFile  string       `yaml:"log_file"`
	Stream   StreamConfig `yaml:"stream"`
	HTTP     HTTPConfig   `yaml:"http"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StreamConfig struct {
	// Buffer is each subscriber's queue length.
	Buffer int `yaml:"buffer"`
	// Poll selects polling over OS file notifications.
	Poll bool `yaml:"poll"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// InsecureSkipVerify disables certificate checks. The local control API
	// serves a self-signed certificate.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 9922,
		},
		Stream: StreamConfig{
			Buffer: 64,
			Poll:   true,
		},
		HTTP: HTTPConfig{
			Timeout:            10 * time.Second,
			InsecureSkipVerify: true,
		},
	}
}

// Load reads the YAML file at path over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Stream.Buffer < 1 {
		errs = append(errs, fmt.Errorf("stream.buffer must be positive, got %d", c.Stream.Buffer))
	}
	if c.HTTP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be non-negative, got %v", c.HTTP.Timeout))
	}
	return errors.Join(errs...)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
