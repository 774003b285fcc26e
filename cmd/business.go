package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invoicer/internal/format"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

func newBusinessCmd(a *app) *cobra.Command {
	businessCmd := &cobra.Command{
		Use:   "business",
		Short: "Show or edit the business profile printed on invoices",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the business profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := a.business(cmd.Context())
			if b == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No business profile set. Use 'invoicer business set --name ...'")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, row := range [][2]string{
				{"Name", b.Name},
				{"Email", b.Email},
				{"Phone", b.Phone},
				{"Address", b.Address},
				{"Tax ID", b.TaxID},
				{"Logo", b.Logo},
				{"Currency", b.Currency},
			} {
				fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
			}
			return tw.Flush()
		},
	}

	var in models.Business
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the business profile",
		Example: `  invoicer business set --name "Studio Ltd" --email hello@studio.test --currency EUR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			changed := cmd.Flags().Changed

			b := models.Business{Currency: format.ResolveCurrency(a.cfg.Currency)}
			if current := a.business(ctx); current != nil {
				b = *current
			}
			if changed("currency") {
				code, err := format.ParseCurrency(in.Currency)
				if err != nil {
					return err
				}
				b.Currency = code
			}
			for flag, pair := range map[string][2]*string{
				"name":    {&b.Name, &in.Name},
				"email":   {&b.Email, &in.Email},
				"phone":   {&b.Phone, &in.Phone},
				"address": {&b.Address, &in.Address},
				"tax-id":  {&b.TaxID, &in.TaxID},
				"logo":    {&b.Logo, &in.Logo},
			} {
				if changed(flag) {
					*pair[0] = *pair[1]
				}
			}

			if err := a.store.SaveBusiness(ctx, b); err != nil {
				return err
			}
			log := logger.WithComponent("business")
			log.Info().Str("name", b.Name).Msg("Business profile saved")
			fmt.Fprintf(cmd.OutOrStdout(), "Saved business profile %s\n", b.Name)
			return nil
		},
	}
	flags := setCmd.Flags()
	flags.StringVar(&in.Name, "name", "", "Business name")
	flags.StringVar(&in.Email, "email", "", "Email address")
	flags.StringVar(&in.Phone, "phone", "", "Phone number")
	flags.StringVar(&in.Address, "address", "", "Postal address")
	flags.StringVar(&in.TaxID, "tax-id", "", "Tax or VAT id")
	flags.StringVar(&in.Logo, "logo", "", "Logo path or URL")
	flags.StringVar(&in.Currency, "currency", "", "ISO 4217 currency code, e.g. USD")

	businessCmd.AddCommand(showCmd, setCmd)
	return businessCmd
}
