package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/classguard/internal/config"
	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/wire"
)

// loadConfigOrDefault reads the project config, falling back to defaults when
// no config file exists yet.
func loadConfigOrDefault() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return &config.Config{Suffixes: config.DefaultSuffixes}
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return &config.Config{Suffixes: config.DefaultSuffixes}
	}
	return cfg
}

// PatchCmd returns the patch command
func PatchCmd() *cobra.Command {
	var (
		threshold   int64
		classesDir  string
		classpath   []string
		suffixes    []string
		ignores     []string
		dryRun      bool
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Inject timeout rule fields into compiled test classes",
		Long: `Walk the compiled test class directory and inject a timeout rule
field with a runtime-visible annotation into every class whose name
matches a configured suffix.

Without a timeout threshold (flag or config) the run is a no-op.

Examples:
  classguard patch --threshold 30000
  classguard patch --threshold 30000 --dry-run
  classguard patch --classes-dir build/classes/java/test --classpath libs/junit.jar`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := loadConfigOrDefault()

			req := primary.PatchRequest{
				ClassesDir:      cfg.ClassesDir,
				Classpath:       cfg.Classpath,
				Suffixes:        cfg.Suffixes,
				IgnorePatterns:  cfg.IgnorePatterns,
				ThresholdMillis: cfg.MaxThresholdMillis,
				DryRun:          dryRun,
				Parallelism:     parallelism,
			}
			if cmd.Flags().Changed("threshold") {
				req.ThresholdMillis = &threshold
			}
			if classesDir != "" {
				req.ClassesDir = classesDir
			}
			if len(classpath) > 0 {
				req.Classpath = classpath
			}
			if len(suffixes) > 0 {
				req.Suffixes = suffixes
			}
			if len(ignores) > 0 {
				req.IgnorePatterns = ignores
			}
			if req.ClassesDir == "" {
				return fmt.Errorf("no classes directory configured\nHint: use --classes-dir or set classes_dir in .classguard/config.json")
			}

			resp, err := wire.PatchService().Patch(ctx, req)
			if err != nil {
				return err
			}

			if resp.NoOp {
				fmt.Println("No timeout threshold configured, nothing to do.")
				return nil
			}

			printOutcomes(resp.Outcomes)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&threshold, "threshold", "t", 0, "Timeout threshold in milliseconds")
	cmd.Flags().StringVar(&classesDir, "classes-dir", "", "Compiled test class directory (defaults to config)")
	cmd.Flags().StringSliceVar(&classpath, "classpath", nil, "Extra directories and jars searched for classes")
	cmd.Flags().StringSliceVar(&suffixes, "suffix", nil, "Class name suffixes to patch (defaults to config)")
	cmd.Flags().StringSliceVar(&ignores, "ignore", nil, "Regex patterns for class names to skip")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be patched without writing")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "Concurrent patch workers (0 = one per CPU)")

	return cmd
}

func printOutcomes(outcomes []primary.PatchOutcome) {
	patched := 0
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			fmt.Printf("- %s %s\n", o.ClassName, color.New(color.FgHiBlack).Sprint("[already patched]"))
		case o.DryRun:
			fmt.Printf("~ %s %s\n", o.ClassName, color.New(color.FgYellow).Sprintf("[would add %s]", o.FieldName))
		default:
			fmt.Printf("✓ %s %s\n", o.ClassName, color.New(color.FgHiGreen).Sprintf("[added %s]", o.FieldName))
			patched++
		}
	}

	fmt.Println()
	if patched > 0 {
		fmt.Printf("Patched %d of %d classes\n", patched, len(outcomes))
	} else {
		fmt.Printf("Examined %d classes, none written\n", len(outcomes))
	}
}
