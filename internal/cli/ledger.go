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

// LedgerCmd returns the ledger command
func LedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the audit trail of past runs",
		Long:  `List the field injections and extension registrations recorded in the local ledger database.`,
	}

	cmd.AddCommand(ledgerPatchesCmd())
	cmd.AddCommand(ledgerRegistrationsCmd())

	return cmd
}

func ledgerPatchesCmd() *cobra.Command {
	var (
		className string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "patches",
		Short: "List recorded field injections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			entries, err := wire.LedgerService().ListPatches(ctx, primary.PatchFilters{
				ClassName: className,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No patches recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tCLASS\tFIELD\tTHRESHOLD\tCREATED")
			fmt.Fprintln(w, "--\t-----\t-----\t---------\t-------")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%s\n",
					e.ID,
					e.ClassName,
					e.FieldName,
					e.ThresholdMillis,
					e.CreatedAt,
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&className, "class", "", "Filter by class name")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show (0 = all)")

	return cmd
}

func ledgerRegistrationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registrations",
		Short: "List recorded extension registrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			entries, err := wire.LedgerService().ListRegistrations(ctx)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No registrations recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tEXTENSION\tTHRESHOLD\tCREATED")
			fmt.Fprintln(w, "--\t---------\t---------\t-------")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%dms\t%s\n",
					e.ID,
					e.ExtensionClass,
					e.ThresholdMillis,
					e.CreatedAt,
				)
			}
			w.Flush()
			return nil
		},
	}
}
