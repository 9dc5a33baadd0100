package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/classguard/internal/adapters/filesystem"
	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var (
		threshold int64
		debounce  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-patch test classes as the compiler rewrites them",
		Long: `Watch the compiled test class directory and re-run the patch pass
whenever class files change. Useful alongside an IDE or a build tool
in continuous mode.

Recompiled classes lose their injected field, so each rebuild gets a
fresh one.

Examples:
  classguard watch --threshold 30000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := loadConfigOrDefault()

			req := primary.PatchRequest{
				ClassesDir:      cfg.ClassesDir,
				Classpath:       cfg.Classpath,
				Suffixes:        cfg.Suffixes,
				IgnorePatterns:  cfg.IgnorePatterns,
				ThresholdMillis: cfg.MaxThresholdMillis,
			}
			if cmd.Flags().Changed("threshold") {
				req.ThresholdMillis = &threshold
			}
			if req.ClassesDir == "" {
				return fmt.Errorf("no classes directory configured\nHint: set classes_dir in .classguard/config.json")
			}
			if req.ThresholdMillis == nil {
				return fmt.Errorf("no timeout threshold configured\nHint: use --threshold or set max_threshold_millis in config")
			}

			watcher, err := filesystem.NewClassWatcher(req.ClassesDir)
			if err != nil {
				return err
			}
			defer watcher.Close()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", req.ClassesDir)

			// Compilers write many files in a burst; debounce into one pass.
			// Events inside the suppression window are our own writes from
			// the previous pass, not a recompile.
			var timer *time.Timer
			var pending <-chan time.Time
			var suppressUntil time.Time
			for {
				select {
				case <-sigs:
					fmt.Println("\nStopped.")
					return nil
				case _, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					if time.Now().Before(suppressUntil) {
						continue
					}
					if timer == nil {
						timer = time.NewTimer(debounce)
					} else {
						timer.Reset(debounce)
					}
					pending = timer.C
				case err := <-watcher.Errors():
					fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
				case <-pending:
					pending = nil
					resp, err := wire.PatchService().Patch(ctx, req)
					suppressUntil = time.Now().Add(debounce)
					if err != nil {
						fmt.Fprintf(os.Stderr, "patch failed: %v\n", err)
						continue
					}
					printOutcomes(resp.Outcomes)
				}
			}
		},
	}

	cmd.Flags().Int64VarP(&threshold, "threshold", "t", 0, "Timeout threshold in milliseconds")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Quiet period before re-patching")

	return cmd
}
