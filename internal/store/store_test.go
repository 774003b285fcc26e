package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/config"
	"invoicer/pkg/models"
)

func sampleInvoice(id string) models.Invoice {
	return models.Invoice{
		ID:            id,
		InvoiceNumber: "INV-" + id,
		Items: []models.InvoiceItem{
			{ID: "3", Description: "third", Quantity: "1", Price: "3.00", Amount: "3.00"},
			{ID: "1", Description: "first", Quantity: "1", Price: "1.00", Amount: "1.00"},
			{ID: "2", Description: "second", Quantity: "1", Price: "2.00", Amount: "2.00"},
		},
		TaxRate:     "0",
		TotalAmount: "6.00",
		Status:      models.StatusDraft,
		TemplateID:  "professional",
	}
}

func TestCollection_EmptyWhenMissing(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()

	assert.Empty(t, s.Invoices().All(ctx))
	assert.NotNil(t, s.Invoices().All(ctx))

	_, ok := s.Clients().Get(ctx, "nope")
	assert.False(t, ok)

	_, ok = s.Business(ctx)
	assert.False(t, ok)
}

func TestCollection_RoundTripPreservesOrder(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()

	inv := sampleInvoice("a")
	require.NoError(t, s.Invoices().Upsert(ctx, inv))

	got, ok := s.Invoices().Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, inv, got)
	assert.Equal(t, []string{"3", "1", "2"}, []string{got.Items[0].ID, got.Items[1].ID, got.Items[2].ID})
	assert.Equal(t, "6.00", got.TotalAmount)
}

func TestCollection_UpsertReplacesInPlace(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()

	require.NoError(t, s.Invoices().Upsert(ctx, sampleInvoice("a")))
	require.NoError(t, s.Invoices().Upsert(ctx, sampleInvoice("b")))
	require.NoError(t, s.Invoices().Upsert(ctx, sampleInvoice("c")))

	updated := sampleInvoice("b")
	updated.Status = models.StatusPaid
	require.NoError(t, s.Invoices().Upsert(ctx, updated))

	all := s.Invoices().All(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, models.StatusPaid, all[1].Status)
	assert.Equal(t, "c", all[2].ID)
}

func TestCollection_UpsertRequiresID(t *testing.T) {
	s := New(NewMemoryBackend())
	err := s.Clients().Upsert(context.Background(), models.Client{Name: "No id"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestCollection_Delete(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()

	require.NoError(t, s.Products().Upsert(ctx, models.Product{ID: "p1", Name: "Widget"}))
	require.NoError(t, s.Products().Upsert(ctx, models.Product{ID: "p2", Name: "Gadget"}))

	require.NoError(t, s.Products().Delete(ctx, "p1"))
	require.NoError(t, s.Products().Delete(ctx, "unknown"))

	all := s.Products().All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "p2", all[0].ID)
}

func TestCollection_ReadFailureDegradesToEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	s := New(backend)
	ctx := context.Background()
	require.NoError(t, s.Clients().Upsert(ctx, models.Client{ID: "c1", Name: "Ada"}))
	require.NoError(t, s.SaveBusiness(ctx, models.Business{Name: "Acme"}))

	backend.FailGet = errors.New("disk on fire")

	assert.Empty(t, s.Clients().All(ctx))
	_, ok := s.Business(ctx)
	assert.False(t, ok)

	// A write must not clobber data it could not read.
	err := s.Clients().Upsert(ctx, models.Client{ID: "c2", Name: "Grace"})
	assert.Error(t, err)

	backend.FailGet = nil
	all := s.Clients().All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "c1", all[0].ID)
}

func TestCollection_CorruptJSONDegradesToEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, KeyInvoices, []byte("{not json")))
	require.NoError(t, backend.Set(ctx, KeyBusiness, []byte("null")))

	s := New(backend)
	assert.Empty(t, s.Invoices().All(ctx))
	_, ok := s.Business(ctx)
	assert.False(t, ok)
}

func TestCollection_WriteFailureIsReturned(t *testing.T) {
	backend := NewMemoryBackend()
	backend.FailSet = errors.New("read-only")
	s := New(backend)

	err := s.Invoices().Upsert(context.Background(), sampleInvoice("a"))
	assert.Error(t, err)
	assert.Error(t, s.SaveBusiness(context.Background(), models.Business{Name: "Acme"}))
}

// Two edits that both read the collection before either writes: the later
// write wins and silently drops the earlier one.
func TestCollection_LastWriteWins(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	a := NewCollection[models.Client](backend, KeyClients)
	require.NoError(t, a.Upsert(ctx, models.Client{ID: "c1", Name: "Ada"}))

	stale, err := a.read(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Upsert(ctx, models.Client{ID: "c2", Name: "Grace"}))

	stale[0].Name = "Ada Lovelace"
	require.NoError(t, a.write(ctx, stale))

	all := a.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "Ada Lovelace", all[0].Name)
}

func TestStore_BusinessRoundTrip(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()

	b := models.Business{Name: "Acme", Email: "billing@acme.test", Currency: "EUR", TaxID: "DE123"}
	require.NoError(t, s.SaveBusiness(ctx, b))

	got, ok := s.Business(ctx)
	require.True(t, ok)
	assert.Equal(t, b, got)
}

func TestStore_JSONFieldNames(t *testing.T) {
	backend := NewMemoryBackend()
	s := New(backend)
	ctx := context.Background()
	require.NoError(t, s.Invoices().Upsert(ctx, sampleInvoice("a")))

	raw, err := backend.Get(ctx, KeyInvoices)
	require.NoError(t, err)
	for _, field := range []string{
		`"invoiceNumber"`, `"clientId"`, `"clientName"`, `"clientAddress"`, `"clientEmail"`,
		`"issueDate"`, `"dueDate"`, `"taxRate":"0"`, `"totalAmount":"6.00"`, `"templateId"`,
		`"quantity":"1"`, `"price":"3.00"`, `"amount":"3.00"`,
	} {
		assert.Contains(t, string(raw), field)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	for _, kind := range []string{config.StoreFile, config.StoreSQLite, config.StoreMemory} {
		t.Run(kind, func(t *testing.T) {
			cfg.Store = kind
			s, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Clients().Upsert(ctx, models.Client{ID: "c1", Name: "Ada"}))
			_, ok := s.Clients().Get(ctx, "c1")
			assert.True(t, ok)
		})
	}

	cfg.Store = "floppy"
	_, err := Open(ctx, cfg)
	assert.Error(t, err)
}
