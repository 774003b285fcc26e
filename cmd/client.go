package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invoicer/pkg/models"
)

// clientFlags binds the editable client fields to flags.
type clientFlags struct {
	client models.Client
}

func (f *clientFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.client.Name, "name", "", "Client name (required)")
	flags.StringVar(&f.client.Email, "email", "", "Email address")
	flags.StringVar(&f.client.Phone, "phone", "", "Phone number")
	flags.StringVar(&f.client.Address, "address", "", "Postal address")
	flags.StringVar(&f.client.Company, "company", "", "Company name")
	flags.StringVar(&f.client.Notes, "notes", "", "Private notes")
}

// apply copies the flags the user set onto c.
func (f *clientFlags) apply(cmd *cobra.Command, c models.Client) models.Client {
	changed := cmd.Flags().Changed
	for flag, pair := range map[string][2]*string{
		"name":    {&c.Name, &f.client.Name},
		"email":   {&c.Email, &f.client.Email},
		"phone":   {&c.Phone, &f.client.Phone},
		"address": {&c.Address, &f.client.Address},
		"company": {&c.Company, &f.client.Company},
		"notes":   {&c.Notes, &f.client.Notes},
	} {
		if changed(flag) {
			*pair[0] = *pair[1]
		}
	}
	return c
}

func newClientCmd(a *app) *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
		Long: `Manage the clients invoices are addressed to.

Invoices keep their own copy of a client's name, address and email, so
editing or deleting a client does not change existing invoices.`,
	}

	var add clientFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clients.Create(cmd.Context(), add.client)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created client %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	add.register(addCmd)

	var query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients := a.clients.Search(cmd.Context(), query)
			if len(clients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No clients found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEMAIL\tCOMPANY\tID")
			for _, c := range clients {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Email, c.Company, c.ID)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVarP(&query, "search", "s", "", "Match name, email or company")

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clients.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, row := range [][2]string{
				{"ID", c.ID},
				{"Name", c.Name},
				{"Email", c.Email},
				{"Phone", c.Phone},
				{"Address", c.Address},
				{"Company", c.Company},
				{"Notes", c.Notes},
			} {
				fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
			}
			return tw.Flush()
		},
	}

	var update clientFlags
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change client details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.clients.Get(ctx, args[0])
			if err != nil {
				return err
			}
			c, err = a.clients.Update(ctx, update.apply(cmd, c))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated client %s\n", c.Name)
			return nil
		},
	}
	update.register(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a client (invoices are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.clients.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %s\n", args[0])
			return nil
		},
	}

	clientCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, deleteCmd)
	return clientCmd
}
