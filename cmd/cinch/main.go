// Package main implements the cinch binary: it reads a columnar file,
// rewrites every integer column to its narrowest lossless width, writes
// the narrowed file with its metadata sidecar, and records the run in
// the audit catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cinchdb/cinch/internal/catalog"
	"github.com/cinchdb/cinch/internal/codec"
	"github.com/cinchdb/cinch/internal/config"
	"github.com/cinchdb/cinch/internal/narrow"
	"github.com/cinchdb/cinch/internal/observability"
	"github.com/cinchdb/cinch/internal/storage"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		dataDir     string
		inPath      string
		outPath     string
		compression string
		emptyPolicy string
		concurrency int
		upload      bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for catalog and storage")
	flag.StringVar(&inPath, "in", "", "Input columnar file (required)")
	flag.StringVar(&outPath, "out", "", "Output path (default: <in>.narrowed.ccf)")
	flag.StringVar(&compression, "compression", "", "Column block compression: none, snappy")
	flag.StringVar(&emptyPolicy, "empty-policy", "", "Width for all-null integer columns: narrowest, preserve")
	flag.IntVar(&concurrency, "concurrency", -1, "Columns rewritten in parallel (0 = sequential)")
	flag.BoolVar(&upload, "upload", false, "Publish the narrowed file and sidecar to object storage")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cinch - lossless integer type narrowing for columnar files\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cinch -in <file.ccf> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cinch -in events.ccf\n")
		fmt.Fprintf(os.Stderr, "  cinch -in events.ccf -out events.narrow.ccf -compression none\n")
		fmt.Fprintf(os.Stderr, "  cinch -config /etc/cinch/config.yaml -in events.ccf -upload\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CINCH_DATA_DIR                    Base directory for data files\n")
		fmt.Fprintf(os.Stderr, "  CINCH_NARROW_EMPTY_COLUMN_POLICY  narrowest or preserve\n")
		fmt.Fprintf(os.Stderr, "  CINCH_CODEC_COMPRESSION           none or snappy\n")
		fmt.Fprintf(os.Stderr, "  CINCH_STORAGE_TYPE                Storage type (local, s3)\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("cinch version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if inPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if outPath == "" {
		outPath = defaultOutPath(inPath)
	}

	cfg, err := loadConfig(configFile, dataDir, compression, emptyPolicy, concurrency)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(context.Background(), cfg, inPath, outPath, upload); err != nil {
		log.Fatalf("Narrowing run failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, inPath, outPath string, upload bool) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	policy, err := cfg.EmptyColumnPolicy()
	if err != nil {
		return err
	}
	comp, err := cfg.Compression()
	if err != nil {
		return err
	}

	table, err := codec.Read(inPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}
	log.Printf("cinch: read %s (%d rows, %d columns)", inPath, table.RowCount(), table.NumColumns())

	stats := observability.NewRunStats()
	narrowed, diff, err := narrow.Narrow(table, narrow.Options{
		EmptyColumns: policy,
		Concurrency:  cfg.Narrow.Concurrency,
		Stats:        stats,
	})
	if err != nil {
		return err
	}

	if err := codec.Write(outPath, narrowed, codec.Options{Compression: comp}); err != nil {
		return err
	}
	if err := codec.WriteSidecar(outPath, narrowed); err != nil {
		return err
	}

	snap := stats.Get()
	log.Printf("cinch: wrote %s (narrowed %d, unchanged %d, skipped %d, %d bytes of values saved)",
		outPath, snap.ColumnsNarrowed, snap.ColumnsUnchanged, snap.ColumnsSkipped, snap.BytesSaved)

	if err := recordRun(ctx, cfg, inPath, outPath, narrowed.RowCount(), diff); err != nil {
		return err
	}

	if upload {
		if err := publish(ctx, cfg, outPath); err != nil {
			return err
		}
	}
	return nil
}

// recordRun stores the run and its per-file column bounds in the audit
// catalog.
func recordRun(ctx context.Context, cfg *config.Config, inPath, outPath string, rowCount int, diff narrow.Diff) error {
	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer cat.Close()

	run := &catalog.Run{
		ID:         uuid.New().String(),
		SourcePath: inPath,
		OutputPath: outPath,
		RowCount:   int64(rowCount),
		CreatedAt:  time.Now().UTC(),
	}
	for _, change := range diff.Changes {
		run.Columns = append(run.Columns, catalog.RunColumn{
			Name:    change.Name,
			OldType: change.OldType,
			NewType: change.NewType,
			Bounds:  change.Bounds,
		})
	}

	if err := cat.RecordRun(ctx, run); err != nil {
		return err
	}
	for _, col := range run.Columns {
		if err := cat.UpsertFileBounds(ctx, outPath, col.Name, col.Bounds); err != nil {
			return err
		}
	}

	log.Printf("cinch: recorded run %s (%d column changes)", run.ID, len(run.Columns))
	return nil
}

// publish uploads the narrowed file and its sidecar to object storage.
func publish(ctx context.Context, cfg *config.Config, outPath string) error {
	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	base := filepath.Base(outPath)
	if err := store.Upload(ctx, outPath, base); err != nil {
		return err
	}
	sidecar := codec.SidecarPath(outPath)
	if err := store.Upload(ctx, sidecar, filepath.Base(sidecar)); err != nil {
		return err
	}

	log.Printf("cinch: published %s and sidecar to %s storage", base, cfg.Storage.Type)
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Type {
	case "s3":
		return storage.NewS3Storage(ctx, cfg.Storage.S3.Bucket, storage.S3Config{
			Region:   cfg.Storage.S3.Region,
			Endpoint: cfg.Storage.S3.Endpoint,
		})
	default:
		return storage.NewLocalStorage(cfg.Storage.Path)
	}
}

// loadConfig loads configuration from file, environment, and command
// line flags, in increasing priority.
func loadConfig(configFile, dataDir, compression, emptyPolicy string, concurrency int) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if compression != "" {
		cfg.Codec.Compression = compression
	}
	if emptyPolicy != "" {
		cfg.Narrow.EmptyColumnPolicy = emptyPolicy
	}
	if concurrency >= 0 {
		cfg.Narrow.Concurrency = concurrency
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultOutPath(inPath string) string {
	ext := filepath.Ext(inPath)
	return inPath[:len(inPath)-len(ext)] + ".narrowed.ccf"
}
