package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invoicer/internal/export"
	"invoicer/internal/format"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/render"
	"invoicer/pkg/models"
)

func newInvoiceCmd(a *app) *cobra.Command {
	invoiceCmd := &cobra.Command{
		Use:   "invoice",
		Short: "Create, edit, show and export invoices",
		Long: `Create and edit invoices, render them in one of the layouts
(professional, minimal, creative) and export them as HTML or PDF.

Line amounts and invoice totals are recalculated on every change.
Quantities, prices and tax rates that are not numbers count as zero.`,
	}

	invoiceCmd.AddCommand(
		newInvoiceNewCmd(a),
		newInvoiceListCmd(a),
		newInvoiceShowCmd(a),
		newInvoiceItemCmd(a),
		newInvoiceSetCmd(a),
		newInvoiceExportCmd(a),
		newInvoiceDeleteCmd(a),
	)
	return invoiceCmd
}

func newInvoiceNewCmd(a *app) *cobra.Command {
	var clientID, templateID, taxRate string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft invoice",
		Example: `  # Draft for an existing client with 19% tax
  invoicer invoice new --client 7b1c... --tax 19

  # Use the creative layout
  invoicer invoice new --template creative`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inv := a.invoices.New()

			if clientID != "" {
				client, err := a.clients.Get(ctx, clientID)
				if err != nil {
					return fmt.Errorf("client %s: %w", clientID, err)
				}
				inv = invoice.SelectClient(inv, client)
			}
			if cmd.Flags().Changed("template") {
				inv = invoice.SetTemplate(inv, normalizeTemplate(templateID))
			}
			if cmd.Flags().Changed("tax") {
				inv = invoice.SetTaxRate(inv, taxRate)
			}

			saved, err := a.invoices.Save(ctx, inv)
			if err != nil {
				return err
			}

			log := logger.WithInvoice("invoice", saved.ID)
			log.Info().
				Str("number", saved.InvoiceNumber).
				Msg("Invoice created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created invoice %s (%s)\n", saved.InvoiceNumber, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "Client id to bill")
	cmd.Flags().StringVar(&templateID, "template", "", "Layout: professional, minimal or creative")
	cmd.Flags().StringVar(&taxRate, "tax", "0", "Tax rate in percent")
	return cmd
}

func newInvoiceListCmd(a *app) *cobra.Command {
	var query, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var filter models.Status
			if status != "" {
				st, err := parseStatus(status)
				if err != nil {
					return err
				}
				filter = st
			}

			invoices := a.invoices.Search(ctx, query, filter)
			if len(invoices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No invoices found")
				return nil
			}
			return writeInvoiceTable(cmd.OutOrStdout(), invoices, a.currency(ctx))
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Match invoice number or client name")
	cmd.Flags().StringVar(&status, "status", "", "Only invoices with this status")
	return cmd
}

func writeInvoiceTable(w io.Writer, invoices []models.Invoice, code string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tCLIENT\tSTATUS\tDUE\tTOTAL\tID")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.InvoiceNumber,
			inv.ClientName,
			inv.Status,
			format.Date(inv.DueDate),
			format.Currency(invoice.ParseDecimal(inv.TotalAmount), code),
			inv.ID,
		)
	}
	return tw.Flush()
}

func newInvoiceShowCmd(a *app) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Render an invoice in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inv, err := a.invoices.Get(ctx, args[0])
			if err != nil {
				return err
			}

			id := inv.TemplateID
			if templateID != "" {
				id = templateID
			}
			view := render.NewView(inv, a.business(ctx), a.renderOptions())
			return render.WriteText(cmd.OutOrStdout(), render.RenderTemplate(view, id))
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Override the invoice's layout")
	return cmd
}

func newInvoiceItemCmd(a *app) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Add, change, remove and reorder line items",
	}

	var productID, description, quantity, price string
	addCmd := &cobra.Command{
		Use:   "add ID",
		Short: "Append a line item",
		Example: `  # Blank line (quantity 1, price 0)
  invoicer invoice item add 3f2a...

  # Copy a product
  invoicer invoice item add 3f2a... --product 91c0...

  # Free-form line
  invoicer invoice item add 3f2a... --description "Design" --quantity 2 --price 10.00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			itemID := a.invoices.NewItemID()

			var product *models.Product
			if productID != "" {
				p, err := a.products.Get(ctx, productID)
				if err != nil {
					return fmt.Errorf("product %s: %w", productID, err)
				}
				product = &p
			}

			inv, err := a.invoices.Update(ctx, args[0], func(inv models.Invoice) (models.Invoice, error) {
				switch {
				case product != nil:
					inv = invoice.AddProduct(inv, itemID, *product)
				default:
					inv = invoice.AddItem(inv, itemID)
				}
				for field, value := range map[string]*string{
					invoice.ItemFieldDescription: &description,
					invoice.ItemFieldQuantity:    &quantity,
					invoice.ItemFieldPrice:       &price,
				} {
					if !cmd.Flags().Changed(field) {
						continue
					}
					var err error
					if inv, err = invoice.UpdateItem(inv, itemID, field, *value); err != nil {
						return inv, err
					}
				}
				return inv, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s to %s, total now %s\n", itemID, inv.InvoiceNumber, inv.TotalAmount)
			return nil
		},
	}
	addCmd.Flags().StringVar(&productID, "product", "", "Copy name and price from this product")
	addCmd.Flags().StringVar(&description, invoice.ItemFieldDescription, "", "Line description")
	addCmd.Flags().StringVar(&quantity, invoice.ItemFieldQuantity, "", "Quantity")
	addCmd.Flags().StringVar(&price, invoice.ItemFieldPrice, "", "Unit price")

	var field, value string
	updateCmd := &cobra.Command{
		Use:   "update ID ITEM_ID",
		Short: "Change the description, quantity or price of a line item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.invoices.Update(cmd.Context(), args[0], func(inv models.Invoice) (models.Invoice, error) {
				return invoice.UpdateItem(inv, args[1], field, value)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s, total now %s\n", args[1], inv.TotalAmount)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&field, "field", "", "description, quantity or price")
	updateCmd.Flags().StringVar(&value, "value", "", "New value")
	_ = updateCmd.MarkFlagRequired("field")

	removeCmd := &cobra.Command{
		Use:   "remove ID ITEM_ID",
		Short: "Remove a line item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.invoices.Update(cmd.Context(), args[0], func(inv models.Invoice) (models.Invoice, error) {
				return invoice.RemoveItem(inv, args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s, total now %s\n", args[1], inv.TotalAmount)
			return nil
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move ID ITEM_ID POSITION",
		Short: "Move a line item to a 1-based position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("position must be a number: %w", err)
			}
			_, err = a.invoices.Update(cmd.Context(), args[0], func(inv models.Invoice) (models.Invoice, error) {
				return invoice.MoveItem(inv, args[1], position-1)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved item %s to position %d\n", args[1], position)
			return nil
		},
	}

	itemCmd.AddCommand(addCmd, updateCmd, removeCmd, moveCmd)
	return itemCmd
}

func newInvoiceSetCmd(a *app) *cobra.Command {
	var (
		tax, status, templateID, clientID string
		notes, terms, number              string
		issueDate, dueDate                string
	)

	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Change invoice fields, status, layout or client",
		Example: `  invoicer invoice set 3f2a... --status PAID
  invoicer invoice set 3f2a... --tax 7.5 --due-date 2024-03-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			changed := cmd.Flags().Changed

			var client *models.Client
			if changed("client") {
				c, err := a.clients.Get(ctx, clientID)
				if err != nil {
					return fmt.Errorf("client %s: %w", clientID, err)
				}
				client = &c
			}
			var newStatus models.Status
			if changed("status") {
				st, err := parseStatus(status)
				if err != nil {
					return err
				}
				newStatus = st
			}

			inv, err := a.invoices.Update(ctx, args[0], func(inv models.Invoice) (models.Invoice, error) {
				var err error
				if client != nil {
					inv = invoice.SelectClient(inv, *client)
				}
				if changed("tax") {
					inv = invoice.SetTaxRate(inv, tax)
				}
				if changed("status") {
					if inv, err = invoice.SetStatus(inv, newStatus); err != nil {
						return inv, err
					}
				}
				if changed("template") {
					inv = invoice.SetTemplate(inv, normalizeTemplate(templateID))
				}
				for _, f := range []struct {
					flag, field string
					value       *string
				}{
					{"number", invoice.FieldNumber, &number},
					{"notes", invoice.FieldNotes, &notes},
					{"terms", invoice.FieldTerms, &terms},
					{"issue-date", invoice.FieldIssueDate, &issueDate},
					{"due-date", invoice.FieldDueDate, &dueDate},
				} {
					if !changed(f.flag) {
						continue
					}
					if inv, err = invoice.SetField(inv, f.field, *f.value); err != nil {
						return inv, err
					}
				}
				return inv, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s, total %s\n", inv.InvoiceNumber, inv.Status, inv.TotalAmount)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&tax, "tax", "", "Tax rate in percent")
	flags.StringVar(&status, "status", "", "DRAFT, PENDING, PAID or OVERDUE")
	flags.StringVar(&templateID, "template", "", "Layout: professional, minimal or creative")
	flags.StringVar(&clientID, "client", "", "Bill this client (copies name, address and email)")
	flags.StringVar(&notes, "notes", "", "Notes printed on the invoice")
	flags.StringVar(&terms, "terms", "", "Terms and conditions")
	flags.StringVar(&number, "number", "", "Invoice number")
	flags.StringVar(&issueDate, "issue-date", "", "Issue date (ISO-8601)")
	flags.StringVar(&dueDate, "due-date", "", "Due date (ISO-8601)")
	return cmd
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func newInvoiceExportCmd(a *app) *cobra.Command {
	var formatName, output string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export an invoice as a standalone HTML page or PDF",
		Example: `  # Writes INV-1234.html in the current directory
  invoicer invoice export 3f2a...

  # PDF to a chosen path, or "-" for stdout
  invoicer invoice export 3f2a... --format pdf -o invoice.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.WithInvoice("export", args[0])

			f, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			inv, err := a.invoices.Get(ctx, args[0])
			if err != nil {
				return err
			}
			view := render.NewView(inv, a.business(ctx), a.renderOptions())

			if output == "-" {
				return export.Write(cmd.OutOrStdout(), view, f)
			}
			if output == "" {
				output = unsafeFileChars.ReplaceAllString(inv.InvoiceNumber, "_") + f.Extension()
			}
			if err := writeFile(output, func(w io.Writer) error { return export.Write(w, view, f) }); err != nil {
				log.Error().Err(err).Str("file", output).Msg("Export failed")
				return err
			}

			log.Info().Str("file", output).Str("format", string(f)).Msg("Invoice exported")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", inv.InvoiceNumber, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "html", "html or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path, - for stdout")
	return cmd
}

// writeFile writes through a temporary file so a failed export never leaves a
// truncated document behind.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func newInvoiceDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an invoice permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.invoices.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted invoice %s\n", args[0])
			return nil
		},
	}
}

func parseStatus(s string) (models.Status, error) {
	st, ok := models.ParseStatus(s)
	if !ok {
		return "", &invoice.ValidationError{
			Field:   "status",
			Value:   s,
			Message: "want DRAFT, PENDING, PAID or OVERDUE",
			Err:     invoice.ErrInvalidStatus,
		}
	}
	return st, nil
}

// normalizeTemplate maps a layout name to its stored id, falling back to the
// default layout for unknown names.
func normalizeTemplate(name string) string {
	v, ok := render.LookupVariant(name)
	if !ok {
		log := logger.WithComponent("invoice")
		log.Warn().
			Str("template", name).
			Str("fallback", v.String()).
			Msg("Unknown template, using default")
	}
	return v.String()
}
