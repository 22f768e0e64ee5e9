package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/pkg/bundle"
	"gridcfg.io/console/pkg/generator"
)

// ExecuteVerifyBundle checks archives on disk, or generates and checks the
// bundle of catalogued clusters.
//
// Usage:
//
//	verify-bundle [flags] archive.zip...
//	verify-bundle -cluster name [flags]
//	verify-bundle -all [flags]
func ExecuteVerifyBundle(args []string) error {
	fs := flag.NewFlagSet("verify-bundle", flag.ContinueOnError)
	dbPath := fs.String("db", getEnv("GRIDCFG_DB_PATH", "./gridcfg.db"), "Path to SQLite database")
	clusterName := fs.String("cluster", "", "Generate and verify the bundle of this cluster")
	all := fs.Bool("all", false, "Generate and verify the bundles of all clusters")
	strict := fs.Bool("strict-paths", false, "Treat colliding class paths as errors")
	verbose := fs.Bool("verbose", false, "Enable verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	files := fs.Args()
	if len(files) == 0 && *clusterName == "" && !*all {
		return fmt.Errorf("give archive files, -cluster, or -all")
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	var checks []bundleCheck
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			checks = append(checks, bundleCheck{name: f, err: err})
			continue
		}
		checks = append(checks, bundleCheck{name: f, result: bundle.Validate(data)})
	}

	if *clusterName != "" || *all {
		generated, err := generatedChecks(*dbPath, *clusterName, *strict, logger)
		if err != nil {
			return err
		}
		checks = append(checks, generated...)
	}

	return report(checks, *verbose)
}

type bundleCheck struct {
	name   string
	result *bundle.ValidationResult
	err    error
}

func generatedChecks(dbPath, name string, strict bool, logger *zap.Logger) ([]bundleCheck, error) {
	ctx := context.Background()
	db, err := OpenDatabase(ctx, dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	clusters := service.NewClusterService(db, logger)

	defs, err := clusters.List(ctx)
	if err != nil {
		return nil, err
	}
	if name != "" {
		c, err := clusters.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		defs = defs[:0]
		defs = append(defs, *c)
	}

	gen := generator.New()
	builder := bundle.NewBuilder(gen, bundle.WithStrictPaths(strict))

	checks := make([]bundleCheck, 0, len(defs))
	for i := range defs {
		cluster := &defs[i]
		check := bundleCheck{name: bundle.FileName(cluster)}

		payload, err := gen.Payload(cluster)
		if err != nil {
			check.err = err
			checks = append(checks, check)
			continue
		}

		result, err := builder.Export(cluster, payload)
		if err != nil {
			check.err = err
			checks = append(checks, check)
			continue
		}

		check.result = bundle.Validate(result.Data)
		checks = append(checks, check)
	}

	return checks, nil
}

func report(checks []bundleCheck, verbose bool) error {
	valid := 0
	invalid := 0
	fmt.Fprintf(stdout, "\nVerifying %d bundle(s):\n", len(checks))
	fmt.Fprintln(stdout, "=====================================")

	for _, c := range checks {
		fmt.Fprintf(stdout, "\nBundle: %s\n", c.name)

		switch {
		case c.err != nil:
			fmt.Fprintf(stdout, "  ✗ INVALID: %v\n", c.err)
			invalid++
		case !c.result.Valid:
			fmt.Fprintf(stdout, "  Size: %d bytes\n", c.result.Size)
			fmt.Fprintf(stdout, "  ✗ INVALID: %v\n", c.result.Error)
			invalid++
		default:
			fmt.Fprintf(stdout, "  Size: %d bytes, %d file(s)\n", c.result.Size, len(c.result.Files))
			if verbose {
				for _, f := range c.result.Files {
					fmt.Fprintf(stdout, "    %s\n", f)
				}
			}
			fmt.Fprintln(stdout, "  ✓ Valid")
			valid++
		}
	}

	fmt.Fprintln(stdout, "\n=====================================")
	fmt.Fprintf(stdout, "Summary: %d valid, %d invalid\n", valid, invalid)

	if invalid > 0 {
		return fmt.Errorf("found %d invalid bundle(s)", invalid)
	}
	return nil
}
