// Package config provides unified configuration for the cinch tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cinchdb/cinch/internal/codec"
	"github.com/cinchdb/cinch/internal/narrow"
)

// Config holds the unified configuration for the cinch tools.
type Config struct {
	// DataDir is the base directory for all data files
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Narrow configuration
	Narrow NarrowConfig `json:"narrow" yaml:"narrow"`

	// Codec configuration
	Codec CodecConfig `json:"codec" yaml:"codec"`

	// Catalog configuration
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// NarrowConfig holds narrowing pipeline configuration.
type NarrowConfig struct {
	// EmptyColumnPolicy controls the type given to all-null and zero-row
	// integer columns: narrowest, preserve
	EmptyColumnPolicy string `json:"empty_column_policy" yaml:"empty_column_policy"`

	// Concurrency is the number of columns rewritten in parallel.
	// 0 or 1 means sequential.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// CodecConfig holds file format configuration.
type CodecConfig struct {
	// Compression is the per-column block compression: none, snappy
	Compression string `json:"compression" yaml:"compression"`
}

// CatalogConfig holds audit catalog configuration.
type CatalogConfig struct {
	// Path is the catalog database path; defaults under DataDir
	Path string `json:"path" yaml:"path"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type"`

	// Path is the local storage path (for local type)
	Path string `json:"path" yaml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/cinch",
		Narrow: NarrowConfig{
			EmptyColumnPolicy: "narrowest",
			Concurrency:       0,
		},
		Codec: CodecConfig{
			Compression: "snappy",
		},
		Catalog: CatalogConfig{
			Path: "",
		},
		Storage: StorageConfig{
			Type: "local",
			Path: "",
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/cinch"
	}

	if c.Catalog.Path == "" {
		c.Catalog.Path = filepath.Join(c.DataDir, "catalog.db")
	}

	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.DataDir, "storage")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if _, err := c.EmptyColumnPolicy(); err != nil {
		return err
	}

	if _, err := codec.ParseCompression(c.Codec.Compression); err != nil {
		return err
	}

	if c.Narrow.Concurrency < 0 {
		return fmt.Errorf("narrow.concurrency must be >= 0, got %d", c.Narrow.Concurrency)
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	return nil
}

// EmptyColumnPolicy parses the configured empty column policy.
func (c *Config) EmptyColumnPolicy() (narrow.EmptyColumnPolicy, error) {
	switch c.Narrow.EmptyColumnPolicy {
	case "", "narrowest":
		return narrow.EmptyNarrowest, nil
	case "preserve":
		return narrow.EmptyPreserveWidth, nil
	default:
		return narrow.EmptyNarrowest, fmt.Errorf(
			"invalid narrow.empty_column_policy: %s (must be narrowest or preserve)",
			c.Narrow.EmptyColumnPolicy)
	}
}

// Compression parses the configured codec compression.
func (c *Config) Compression() (codec.Compression, error) {
	return codec.ParseCompression(c.Codec.Compression)
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the CINCH_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("CINCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Narrow configuration
	if v := os.Getenv("CINCH_NARROW_EMPTY_COLUMN_POLICY"); v != "" {
		cfg.Narrow.EmptyColumnPolicy = v
	}
	if v := os.Getenv("CINCH_NARROW_CONCURRENCY"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Narrow.Concurrency)
	}

	// Codec configuration
	if v := os.Getenv("CINCH_CODEC_COMPRESSION"); v != "" {
		cfg.Codec.Compression = v
	}

	// Catalog configuration
	if v := os.Getenv("CINCH_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}

	// Storage configuration
	if v := os.Getenv("CINCH_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("CINCH_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("CINCH_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("CINCH_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("CINCH_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.Storage.Path,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
