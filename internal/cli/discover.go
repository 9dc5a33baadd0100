package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/wire"
)

// DiscoverCmd returns the discover command
func DiscoverCmd() *cobra.Command {
	var (
		classesDir string
		suffixes   []string
		ignores    []string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List test classes eligible for patching",
		Long: `Walk the compiled test class directory and print the classes that
would be patched, without touching anything.

Examples:
  classguard discover
  classguard discover --suffix Test --suffix IT --ignore '.*Abstract.*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := loadConfigOrDefault()

			req := primary.DiscoverRequest{
				ClassesDir:     cfg.ClassesDir,
				Suffixes:       cfg.Suffixes,
				IgnorePatterns: cfg.IgnorePatterns,
			}
			if classesDir != "" {
				req.ClassesDir = classesDir
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

			resp, err := wire.DiscoveryService().Discover(ctx, req)
			if err != nil {
				return err
			}

			if len(resp.Candidates) == 0 {
				fmt.Println("No test classes found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CLASS\tPATH")
			fmt.Fprintln(w, "-----\t----")
			for _, c := range resp.Candidates {
				fmt.Fprintf(w, "%s\t%s\n", c.ClassName, c.Path)
			}
			w.Flush()

			fmt.Printf("\n%d classes\n", len(resp.Candidates))
			return nil
		},
	}

	cmd.Flags().StringVar(&classesDir, "classes-dir", "", "Compiled test class directory (defaults to config)")
	cmd.Flags().StringSliceVar(&suffixes, "suffix", nil, "Class name suffixes to match (defaults to config)")
	cmd.Flags().StringSliceVar(&ignores, "ignore", nil, "Regex patterns for class names to skip")

	return cmd
}
