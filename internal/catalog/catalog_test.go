package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/invoice"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

func TestClients_CreateAndGet(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	clients := NewClients(st.Clients())
	ctx := context.Background()

	c, err := clients.Create(ctx, models.Client{Name: "  Acme  ", Email: "hi@acme.test"})
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)
	assert.Equal(t, "Acme", c.Name)

	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestClients_NameRequired(t *testing.T) {
	clients := NewClients(store.New(store.NewMemoryBackend()).Clients())
	ctx := context.Background()

	_, err := clients.Create(ctx, models.Client{Name: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameRequired)

	var verr *invoice.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
	assert.Empty(t, clients.List(ctx))
}

func TestClients_Update(t *testing.T) {
	clients := NewClients(store.New(store.NewMemoryBackend()).Clients())
	ctx := context.Background()

	c, err := clients.Create(ctx, models.Client{Name: "Acme"})
	require.NoError(t, err)

	c.Company = "Acme Holdings"
	_, err = clients.Update(ctx, c)
	require.NoError(t, err)

	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", got.Company)

	_, err = clients.Update(ctx, models.Client{ID: "ghost", Name: "x"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	c.Name = ""
	_, err = clients.Update(ctx, c)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestClients_Search(t *testing.T) {
	clients := NewClients(store.New(store.NewMemoryBackend()).Clients())
	ctx := context.Background()

	for _, c := range []models.Client{
		{Name: "Acme", Email: "billing@acme.test"},
		{Name: "Globex", Email: "ap@globex.test", Company: "Globex Corporation"},
		{Name: "Jane Doe", Email: "jane@example.test", Company: "Initech"},
	} {
		_, err := clients.Create(ctx, c)
		require.NoError(t, err)
	}

	names := func(list []models.Client) []string {
		out := []string{}
		for _, c := range list {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Acme", "Globex", "Jane Doe"}, names(clients.Search(ctx, "")))
	assert.Equal(t, []string{"Acme"}, names(clients.Search(ctx, "ACME")))
	assert.Equal(t, []string{"Jane Doe"}, names(clients.Search(ctx, "example.test")))
	assert.Equal(t, []string{"Jane Doe"}, names(clients.Search(ctx, "initech")))
	assert.Empty(t, clients.Search(ctx, "umbrella"))
}

func TestClients_DeleteKeepsInvoices(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	clients := NewClients(st.Clients())
	ctx := context.Background()

	c, err := clients.Create(ctx, models.Client{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, st.Invoices().Upsert(ctx, models.Invoice{ID: "inv", ClientID: c.ID, ClientName: "Acme"}))

	require.NoError(t, clients.Delete(ctx, c.ID))
	assert.ErrorIs(t, clients.Delete(ctx, c.ID), ErrClientNotFound)

	inv, ok := st.Invoices().Get(ctx, "inv")
	require.True(t, ok)
	assert.Equal(t, "Acme", inv.ClientName)
}

func TestProducts(t *testing.T) {
	products := NewProducts(store.New(store.NewMemoryBackend()).Products())
	ctx := context.Background()

	p, err := products.Create(ctx, models.Product{Name: "Hosting", Unit: "month"})
	require.NoError(t, err)
	assert.Equal(t, "0", p.Price)

	p.Price = "25.00"
	_, err = products.Update(ctx, p)
	require.NoError(t, err)

	got, err := products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Price)
	assert.Len(t, products.List(ctx), 1)

	_, err = products.Create(ctx, models.Product{Price: "1"})
	assert.ErrorIs(t, err, ErrNameRequired)

	require.NoError(t, products.Delete(ctx, p.ID))
	_, err = products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreate_WriteFailure(t *testing.T) {
	backend := store.NewMemoryBackend()
	clients := NewClients(store.New(backend).Clients())
	backend.FailSet = errors.New("read-only")

	_, err := clients.Create(context.Background(), models.Client{Name: "Acme"})
	assert.Error(t, err)
}
