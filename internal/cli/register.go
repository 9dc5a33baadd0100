package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/wire"
)

// RegisterCmd returns the register command
func RegisterCmd() *cobra.Command {
	var (
		threshold    int64
		junit5       bool
		resourcesDir string
		classesDir   string
		classpath    []string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Install the JUnit 5 global timeout extension",
		Long: `Append the timeout extension to the JUnit 5 service registry under
META-INF/services, copy its helper classes into the test output, and
print the system property the test runner must set.

A no-op unless JUnit 5 is present and a threshold is configured.

Examples:
  classguard register --junit5 --threshold 30000
  classguard register --junit5 --threshold 30000 --classpath libs/classguard-junit5.jar`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := loadConfigOrDefault()

			req := primary.RegisterRequest{
				Junit5Present:   cfg.Junit5,
				ThresholdMillis: cfg.MaxThresholdMillis,
				ResourcesDir:    cfg.ResourcesDir,
				ClassesDir:      cfg.ClassesDir,
				Classpath:       cfg.Classpath,
			}
			if cmd.Flags().Changed("threshold") {
				req.ThresholdMillis = &threshold
			}
			if cmd.Flags().Changed("junit5") {
				req.Junit5Present = junit5
			}
			if resourcesDir != "" {
				req.ResourcesDir = resourcesDir
			}
			if classesDir != "" {
				req.ClassesDir = classesDir
			}
			if len(classpath) > 0 {
				req.Classpath = classpath
			}

			resp, err := wire.RegistrarService().Register(ctx, req)
			if err != nil {
				return err
			}

			if resp.NoOp {
				fmt.Println("JUnit 5 absent or no threshold configured, nothing to do.")
				return nil
			}

			fmt.Printf("✓ Registered extension in %s\n", resp.RegistryFile)
			for _, c := range resp.CopiedClasses {
				fmt.Printf("✓ Copied %s\n", c)
			}
			fmt.Println()
			fmt.Println("Set this system property on the test JVM:")
			fmt.Printf("  -D%s=%s\n", resp.Property.Key, resp.Property.Value)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&threshold, "threshold", "t", 0, "Timeout threshold in milliseconds")
	cmd.Flags().BoolVar(&junit5, "junit5", false, "JUnit 5 is on the test classpath")
	cmd.Flags().StringVar(&resourcesDir, "resources-dir", "", "Test resources output directory (defaults to config)")
	cmd.Flags().StringVar(&classesDir, "classes-dir", "", "Compiled test class directory (defaults to config)")
	cmd.Flags().StringSliceVar(&classpath, "classpath", nil, "Directories and jars searched for the helper classes")

	return cmd
}
