// Package main implements the cinch-runs binary for inspecting the
// audit catalog: listing past narrowing runs and showing the per-column
// changes of a single run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cinchdb/cinch/internal/catalog"
	"github.com/cinchdb/cinch/internal/config"
)

func main() {
	var (
		configFile string
		dataDir    string
		runID      string
		limit      int
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for catalog and storage")
	flag.StringVar(&runID, "run", "", "Show the column changes of one run")
	flag.IntVar(&limit, "limit", 20, "Maximum runs to list")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cinch-runs - inspect the narrowing audit catalog\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cinch-runs [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cinch-runs -limit 50\n")
		fmt.Fprintf(os.Stderr, "  cinch-runs -run 3f1c2a4e-...\n")
	}

	flag.Parse()

	cfg, err := loadConfig(configFile, dataDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer cat.Close()

	ctx := context.Background()
	if runID != "" {
		err = showRun(ctx, cat, runID)
	} else {
		err = listRuns(ctx, cat, limit)
	}
	if err != nil {
		log.Fatalf("Catalog query failed: %v", err)
	}
}

func listRuns(ctx context.Context, cat *catalog.Catalog, limit int) error {
	runs, err := cat.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %d rows  %s -> %s\n",
			run.ID, run.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			run.RowCount, run.SourcePath, run.OutputPath)
	}
	return nil
}

func showRun(ctx context.Context, cat *catalog.Catalog, runID string) error {
	run, err := cat.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Printf("run %s\n", run.ID)
	fmt.Printf("  source:  %s\n", run.SourcePath)
	fmt.Printf("  output:  %s\n", run.OutputPath)
	fmt.Printf("  rows:    %d\n", run.RowCount)
	fmt.Printf("  created: %s\n", run.CreatedAt.UTC().Format("2006-01-02 15:04:05"))

	if len(run.Columns) == 0 {
		fmt.Println("  no column changes")
		return nil
	}
	for _, col := range run.Columns {
		fmt.Printf("  %s: %s -> %s (%s)\n", col.Name, col.OldType, col.NewType, col.Bounds)
	}
	return nil
}

func loadConfig(configFile, dataDir string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
