package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/classguard/internal/cli"
	"github.com/example/classguard/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "classguard",
		Short:   "classguard - global timeout injection for compiled JVM test classes",
		Version: version.String(),
		Long: `classguard patches compiled test classes after the build: it injects a
timeout rule field into JUnit 4 style tests and registers a global
timeout extension for JUnit 5, so no single test can hang the suite.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DiscoverCmd())
	rootCmd.AddCommand(cli.PatchCmd())
	rootCmd.AddCommand(cli.RegisterCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.LedgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
