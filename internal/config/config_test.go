package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cinchdb/cinch/internal/codec"
	"github.com/cinchdb/cinch/internal/narrow"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	policy, err := cfg.EmptyColumnPolicy()
	if err != nil {
		t.Fatalf("EmptyColumnPolicy: %v", err)
	}
	if policy != narrow.EmptyNarrowest {
		t.Errorf("expected default policy narrowest, got %v", policy)
	}

	compression, err := cfg.Compression()
	if err != nil {
		t.Fatalf("Compression: %v", err)
	}
	if compression != codec.CompressionSnappy {
		t.Errorf("expected default compression snappy, got %v", compression)
	}

	if cfg.Catalog.Path != filepath.Join(cfg.DataDir, "catalog.db") {
		t.Errorf("expected catalog path under data dir, got %s", cfg.Catalog.Path)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cinch.yaml")
	content := []byte(`
data_dir: /tmp/cinch-test
narrow:
  empty_column_policy: preserve
  concurrency: 4
codec:
  compression: none
storage:
  type: s3
  s3:
    bucket: narrowed-files
    region: us-east-1
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should validate: %v", err)
	}
	if cfg.DataDir != "/tmp/cinch-test" {
		t.Errorf("data_dir: got %s", cfg.DataDir)
	}
	policy, _ := cfg.EmptyColumnPolicy()
	if policy != narrow.EmptyPreserveWidth {
		t.Errorf("expected preserve policy, got %v", policy)
	}
	if cfg.Narrow.Concurrency != 4 {
		t.Errorf("concurrency: got %d", cfg.Narrow.Concurrency)
	}
	compression, _ := cfg.Compression()
	if compression != codec.CompressionNone {
		t.Errorf("expected compression none, got %v", compression)
	}
	if cfg.Storage.S3.Bucket != "narrowed-files" {
		t.Errorf("s3 bucket: got %s", cfg.Storage.S3.Bucket)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cinch.json")
	content := []byte(`{"data_dir": "/tmp/cinch-json", "codec": {"compression": "snappy"}}`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.DataDir != "/tmp/cinch-json" {
		t.Errorf("data_dir: got %s", cfg.DataDir)
	}
	// Defaults survive a partial file.
	if cfg.Storage.Type != "local" {
		t.Errorf("expected default storage type local, got %s", cfg.Storage.Type)
	}
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cinch.toml")
	if err := os.WriteFile(path, []byte("data_dir = \"/tmp\""), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for unsupported config format")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CINCH_DATA_DIR", "/tmp/cinch-env")
	t.Setenv("CINCH_NARROW_EMPTY_COLUMN_POLICY", "preserve")
	t.Setenv("CINCH_NARROW_CONCURRENCY", "8")
	t.Setenv("CINCH_STORAGE_TYPE", "s3")
	t.Setenv("CINCH_S3_BUCKET", "env-bucket")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.DataDir != "/tmp/cinch-env" {
		t.Errorf("data_dir: got %s", cfg.DataDir)
	}
	if cfg.Narrow.EmptyColumnPolicy != "preserve" {
		t.Errorf("empty_column_policy: got %s", cfg.Narrow.EmptyColumnPolicy)
	}
	if cfg.Narrow.Concurrency != 8 {
		t.Errorf("concurrency: got %d", cfg.Narrow.Concurrency)
	}
	if cfg.Storage.Type != "s3" || cfg.Storage.S3.Bucket != "env-bucket" {
		t.Errorf("storage: got %s/%s", cfg.Storage.Type, cfg.Storage.S3.Bucket)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad policy", func(c *Config) { c.Narrow.EmptyColumnPolicy = "widest" }},
		{"bad compression", func(c *Config) { c.Codec.Compression = "zstd" }},
		{"negative concurrency", func(c *Config) { c.Narrow.Concurrency = -1 }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "gcs" }},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3"; c.Storage.S3.Bucket = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Resolve()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
