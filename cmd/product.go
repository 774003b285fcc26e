package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invoicer/internal/format"
	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

func newProductCmd(a *app) *cobra.Command {
	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
		Long: `Manage reusable products. Adding a product to an invoice copies its
name and price into a new line; later product changes do not touch it.`,
	}

	var p models.Product
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.products.Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&p.Name, "name", "", "Product name (required)")
	addCmd.Flags().StringVar(&p.Description, "description", "", "Description")
	addCmd.Flags().StringVar(&p.Price, "price", "", "Unit price")
	addCmd.Flags().StringVar(&p.Unit, "unit", "", "Unit, e.g. hour")
	addCmd.Flags().StringVar(&p.Tax, "tax", "", "Tax rate in percent")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			products := a.products.List(ctx)
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products found")
				return nil
			}
			code := a.currency(ctx)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRICE\tUNIT\tID")
			for _, p := range products {
				price := format.Currency(invoice.ParseDecimal(p.Price), code)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, price, p.Unit, p.ID)
			}
			return tw.Flush()
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.products.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %s\n", args[0])
			return nil
		},
	}

	productCmd.AddCommand(addCmd, listCmd, deleteCmd)
	return productCmd
}
