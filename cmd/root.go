package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"invoicer/internal/catalog"
	"invoicer/internal/config"
	"invoicer/internal/format"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/render"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

var version = "1.0.0"

// app holds what every subcommand needs once the store is open.
type app struct {
	cfg      *config.Config
	store    *store.Store
	invoices *invoice.Service
	clients  *catalog.Clients
	products *catalog.Products
}

func (a *app) open(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	st, err := store.Open(ctx, a.cfg)
	if err != nil {
		return err
	}

	a.store = st
	a.invoices = invoice.NewService(st.Invoices(), invoice.Options{
		DueDays:         a.cfg.DueDays,
		DefaultTerms:    a.cfg.DefaultTerms,
		DefaultTemplate: render.ParseVariant(a.cfg.DefaultTemplate).String(),
	})
	a.clients = catalog.NewClients(st.Clients())
	a.products = catalog.NewProducts(st.Products())
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// business returns the profile, or nil when none has been saved.
func (a *app) business(ctx context.Context) *models.Business {
	b, ok := a.store.Business(ctx)
	if !ok {
		return nil
	}
	return &b
}

// currency is the code amounts are shown in outside of a rendered invoice.
func (a *app) currency(ctx context.Context) string {
	if b := a.business(ctx); b != nil {
		return format.ResolveCurrency(b.Currency, a.cfg.Currency)
	}
	return format.ResolveCurrency(a.cfg.Currency)
}

func (a *app) renderOptions() render.Options {
	return render.Options{Currency: a.cfg.Currency}
}

func newRootCmd(a *app) *cobra.Command {
	cfg := a.cfg
	rootCmd := &cobra.Command{
		Use:   "invoicer",
		Short: "Invoicer - local-first invoicing from the command line",
		Long: `Invoicer manages clients, products and invoices stored on this machine
and renders invoices in several layouts, or exports them as HTML or PDF.

Data lives in a local JSON store by default. SQLite, PostgreSQL and Redis
backends are available through --store or INVOICER_STORE.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Store, "store", cfg.Store, "Storage backend: file, sqlite, postgres, redis or memory")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the file and sqlite stores")
	flags.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Database DSN for the sqlite and postgres stores")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis store")

	rootCmd.AddCommand(
		newInvoiceCmd(a),
		newClientCmd(a),
		newProductCmd(a),
		newBusinessCmd(a),
		newDashboardCmd(a),
	)
	return rootCmd
}

// run executes args against a fresh command tree and closes the store
// afterwards, whether or not the command succeeded.
func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	a := &app{cfg: cfg}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close store: %w", closeErr)
	}
	return err
}

// Execute runs the command line with cfg as the starting configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
