package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invoicer/internal/format"
	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show paid, pending and overdue totals and recent invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			code := a.currency(ctx)

			all := a.invoices.List(ctx)
			sum := invoice.Summarize(all)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Paid\t%s\t(%d)\n", format.Currency(sum.Paid, code), sum.Counts[models.StatusPaid])
			fmt.Fprintf(tw, "Pending\t%s\t(%d)\n", format.Currency(sum.Pending, code), sum.Counts[models.StatusPending])
			fmt.Fprintf(tw, "Overdue\t%s\t(%d)\n", format.Currency(sum.Overdue, code), sum.Counts[models.StatusOverdue])
			fmt.Fprintf(tw, "Drafts\t\t(%d)\n", sum.Counts[models.StatusDraft])
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nRecent invoices (%d total)\n", len(all))
			if len(sum.Recent) == 0 {
				fmt.Fprintln(out, "No invoices yet")
				return nil
			}
			return writeInvoiceTable(out, sum.Recent, code)
		},
	}
}
