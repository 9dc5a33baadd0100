package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/classguard/internal/config"
	"github.com/example/classguard/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		threshold  int64
		classesDir string
		junit5     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize classguard in the current project",
		Long: `Create .classguard/config.json in the current directory and
initialize the local ledger database with the required schema.

Examples:
  classguard init --threshold 30000 --classes-dir build/classes/java/test
  classguard init --junit5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			if _, err := config.LoadConfig(cwd); err == nil {
				return fmt.Errorf("config already exists at .classguard/config.json")
			}

			cfg := &config.Config{
				Version:    "1.0",
				Suffixes:   config.DefaultSuffixes,
				ClassesDir: classesDir,
				Junit5:     junit5,
			}
			if cmd.Flags().Changed("threshold") {
				cfg.MaxThresholdMillis = &threshold
			}
			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Println("✓ Config created at .classguard/config.json")

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Printf("✓ Ledger database initialized at %s\n", dbPath)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  classguard discover          # preview eligible classes")
			fmt.Println("  classguard patch --dry-run   # preview the injection")
			return nil
		},
	}

	cmd.Flags().Int64VarP(&threshold, "threshold", "t", 0, "Timeout threshold in milliseconds")
	cmd.Flags().StringVar(&classesDir, "classes-dir", "", "Compiled test class directory")
	cmd.Flags().BoolVar(&junit5, "junit5", false, "JUnit 5 is on the test classpath")

	return cmd
}
