package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the worker node configuration. Values come from an
// optional YAML file overlaid on defaults; the CLI flags override both.
type Config struct {
	// Host is the listen host of the worker socket.
	Host string `yaml:"host"`
	// Port is the listen port. Required.
	Port int `yaml:"port"`
	// NodeID identifies this worker; its primary partition equals the
	// node id and its data lives under {data_dir}/node{N}. Required.
	NodeID int `yaml:"node_id"`
	// Partitions is the fleet-wide partition count P.
	Partitions int `yaml:"partitions"`
	// Nodes is the fleet size, used by the seed tool's replica placement.
	Nodes int `yaml:"nodes"`
	// DataDir is the fleet data root holding the node directories.
	DataDir string `yaml:"data_dir"`
	// LogDir receives the per-node worker log file.
	LogDir string `yaml:"log_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// ArqueoScope selects the audit scope: "all" sums every local
	// accounts partition (replicas included), "primary" only the
	// node's own. The fleet orchestrator must match this setting.
	ArqueoScope string `yaml:"arqueo_scope"`
	// MetricsAddr, when set, exposes Prometheus metrics on this
	// address at /metrics.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the reference configuration: three partitions over
// three nodes, audit over all local partitions.
func Default() *Config {
	return &Config{
		Host:        "localhost",
		Partitions:  3,
		Nodes:       3,
		DataDir:     "data",
		LogDir:      "logs",
		LogLevel:    "info",
		ArqueoScope: "all",
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for a worker start.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.NodeID < 1 {
		return fmt.Errorf("node id must be a positive integer, got %d", c.NodeID)
	}
	if c.Partitions < 1 {
		return fmt.Errorf("partitions must be a positive integer, got %d", c.Partitions)
	}
	if c.NodeID > c.Nodes {
		return fmt.Errorf("node id %d exceeds fleet size %d", c.NodeID, c.Nodes)
	}
	if c.ArqueoScope != "all" && c.ArqueoScope != "primary" {
		return fmt.Errorf("arqueo_scope must be \"all\" or \"primary\", got %q", c.ArqueoScope)
	}
	return nil
}

// ListenAddr returns the host:port the worker binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
