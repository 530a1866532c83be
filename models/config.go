package models

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PipelineConfig holds runtime configuration for the process and analyze
// commands. Values are resolved in order: defaults, config file, environment,
// CLI flags.
type PipelineConfig struct {
	InputDir      string   `yaml:"input_dir"`
	ProcessedDir  string   `yaml:"processed_dir"`
	IndicatorsDir string   `yaml:"indicators_dir"`
	AggregatedDir string   `yaml:"aggregated_dir"`
	Workers       int      `yaml:"workers"`
	ChunkSize     int      `yaml:"chunk_size"`
	JoinMode      string   `yaml:"join_mode"`
	Keywords      []string `yaml:"keywords"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present. Directory names follow the acquirer/processor
// container layout.
func DefaultConfig() *PipelineConfig {
	return &PipelineConfig{
		InputDir:      "data/raw",
		ProcessedDir:  "data/processed",
		IndicatorsDir: "data/indicators",
		AggregatedDir: "data/aggregated",
		Workers:       runtime.NumCPU(),
		ChunkSize:     500,
		JoinMode:      "left",
	}
}

// LoadConfig builds a PipelineConfig from an optional YAML file plus
// environment overrides. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (*PipelineConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays the environment variables used by the original container
// deployment onto the config.
func (c *PipelineConfig) applyEnv() {
	c.InputDir = getEnv("RAW_DATA_PATH", c.InputDir)
	c.ProcessedDir = getEnv("PROCESSED_DATA_PATH", c.ProcessedDir)
	c.IndicatorsDir = getEnv("INDICATORS_PATH", c.IndicatorsDir)
	c.AggregatedDir = getEnv("AGGREGATED_PATH", c.AggregatedDir)
	c.Workers = getEnvInt("PROCESSOR_WORKERS", c.Workers)
	c.ChunkSize = getEnvInt("CHUNK_SIZE", c.ChunkSize)
	c.JoinMode = getEnv("JOIN_MODE", c.JoinMode)
}

// Validate checks the resolved configuration.
func (c *PipelineConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if c.JoinMode != "left" && c.JoinMode != "inner" {
		return fmt.Errorf("join_mode must be \"left\" or \"inner\", got %q", c.JoinMode)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
