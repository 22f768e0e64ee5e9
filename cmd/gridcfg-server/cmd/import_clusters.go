package cmd

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/service"
)

// ExecuteImportClusters upserts the clusters of a catalogue file.
func ExecuteImportClusters(args []string) error {
	fs := flag.NewFlagSet("import-clusters", flag.ContinueOnError)
	dbPath := fs.String("db", getEnv("GRIDCFG_DB_PATH", "./gridcfg.db"), "Path to SQLite database")
	file := fs.String("file", "", "Catalogue file (YAML or JSON) to import")
	dryRun := fs.Bool("dry-run", false, "Parse and validate without modifying database")
	verbose := fs.Bool("verbose", false, "Enable verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	clusters, err := service.LoadFile(*file)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Catalogue %s: %d cluster(s)\n", *file, len(clusters))
	for _, c := range clusters {
		fmt.Fprintf(stdout, "  %-24s %d cache(s)\n", c.Name, len(c.Caches))
	}

	if *dryRun {
		fmt.Fprintln(stdout, "\nDry run, nothing imported")
		return nil
	}

	ctx := context.Background()
	db, err := OpenDatabase(ctx, *dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	result, err := service.NewClusterService(db, logger).Import(ctx, clusters)
	if err != nil {
		return err
	}

	logger.Info("catalogue imported",
		zap.String("file", *file),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)
	fmt.Fprintf(stdout, "\n✓ Imported: %d created, %d updated\n", result.Created, result.Updated)
	return nil
}
