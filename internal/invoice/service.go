// Package invoice holds the invoice computation engine and the service that
// creates, edits and persists invoices on top of it.
//
// Amounts and totals stored on an invoice are caches of Recompute. Every
// editing function in this package returns an already recomputed copy, and
// Service.Save recomputes once more before writing, so a stored invoice always
// matches its recomputation. Reads trust the stored values and only log when
// they have drifted.
//
// Numeric input is lenient: quantities, prices and tax rates that cannot be
// parsed count as zero instead of failing.
package invoice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoicer/internal/format"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Repository is the persistence contract the service needs. It is satisfied
// by *store.Collection[models.Invoice].
type Repository interface {
	All(ctx context.Context) []models.Invoice
	Get(ctx context.Context, id string) (models.Invoice, bool)
	Upsert(ctx context.Context, inv models.Invoice) error
	Delete(ctx context.Context, id string) error
}

// Options configures new invoices.
type Options struct {
	// DueDays is added to the issue date to get the default due date.
	DueDays int

	// DefaultTerms is copied into the terms of every new invoice.
	DefaultTerms string

	// DefaultTemplate is the layout new invoices render with.
	DefaultTemplate string

	// Now, NewID and NewNumber override the clock and generators. Nil means
	// the real clock, random UUIDs and random INV-NNNN numbers.
	Now       func() time.Time
	NewID     func() string
	NewNumber func() string
}

// DefaultOptions returns the options new installations start with.
func DefaultOptions() Options {
	return Options{
		DueDays:         14,
		DefaultTerms:    "Payment due within 14 days",
		DefaultTemplate: "professional",
	}
}

// Service creates and persists invoices.
type Service struct {
	repo Repository
	opts Options
	log  zerolog.Logger
}

// NewService returns a service writing to repo.
func NewService(repo Repository, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.NewNumber == nil {
		opts.NewNumber = randomNumber
	}
	return &Service{
		repo: repo,
		opts: opts,
		log:  logger.WithComponent("invoice"),
	}
}

func randomNumber() string {
	return fmt.Sprintf("INV-%d", 1000+rand.IntN(9000))
}

// New returns a fresh, unsaved DRAFT invoice with no items.
func (s *Service) New() models.Invoice {
	now := s.opts.Now()
	inv := models.Invoice{
		ID:            s.opts.NewID(),
		InvoiceNumber: s.opts.NewNumber(),
		IssueDate:     format.Timestamp(now),
		DueDate:       format.Timestamp(now.AddDate(0, 0, s.opts.DueDays)),
		Items:         []models.InvoiceItem{},
		Terms:         s.opts.DefaultTerms,
		TaxRate:       "0",
		Status:        models.StatusDraft,
		TemplateID:    s.opts.DefaultTemplate,
	}
	return Recompute(inv)
}

// NewItemID returns an id for a new line item.
func (s *Service) NewItemID() string {
	return s.opts.NewID()
}

// Save recomputes inv and writes it, replacing any invoice with the same id.
func (s *Service) Save(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	inv = Recompute(inv)
	if inv.Items == nil {
		inv.Items = []models.InvoiceItem{}
	}

	if err := s.repo.Upsert(ctx, inv); err != nil {
		return inv, NewOperationError("save", inv.ID, err)
	}

	s.log.Debug().
		Str("invoice_id", inv.ID).
		Str("number", inv.InvoiceNumber).
		Str("total", inv.TotalAmount).
		Msg("Invoice saved")
	return inv, nil
}

// Get loads the invoice with id as stored. Cached amounts that no longer match
// their recomputation are logged, not corrected.
func (s *Service) Get(ctx context.Context, id string) (models.Invoice, error) {
	inv, ok := s.repo.Get(ctx, id)
	if !ok {
		return models.Invoice{}, NewOperationError("get", id, ErrInvoiceNotFound)
	}
	if drift := Drift(inv); len(drift) > 0 {
		s.log.Warn().
			Str("invoice_id", id).
			Strs("fields", drift).
			Msg("Stored invoice differs from its recomputed totals")
	}
	return inv, nil
}

// List returns every invoice in stored order.
func (s *Service) List(ctx context.Context) []models.Invoice {
	return s.repo.All(ctx)
}

// Delete removes the invoice permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.repo.Get(ctx, id); !ok {
		return NewOperationError("delete", id, ErrInvoiceNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return NewOperationError("delete", id, err)
	}
	s.log.Info().Str("invoice_id", id).Msg("Invoice deleted")
	return nil
}

// Update loads the invoice with id, applies edit and saves the result.
func (s *Service) Update(ctx context.Context, id string, edit func(models.Invoice) (models.Invoice, error)) (models.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	updated, err := edit(inv)
	if err != nil {
		return inv, NewOperationError("update", id, err)
	}
	updated.ID = inv.ID
	return s.Save(ctx, updated)
}

// Search returns invoices whose number or client name contains query,
// ignoring case. A non-empty status also restricts the result to that status.
func (s *Service) Search(ctx context.Context, query string, status models.Status) []models.Invoice {
	return Filter(s.List(ctx), query, status)
}

// Filter is the pure form of Search.
func Filter(invoices []models.Invoice, query string, status models.Status) []models.Invoice {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Invoice{}
	for _, inv := range invoices {
		if status != "" && inv.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), q) &&
			!strings.Contains(strings.ToLower(inv.ClientName), q) {
			continue
		}
		out = append(out, inv)
	}
	return out
}
