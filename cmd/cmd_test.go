package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/config"
	"invoicer/internal/invoice"
)

var createdID = regexp.MustCompile(`\(([^)]+)\)`)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cfg := config.Default()
	cfg.DataDir = c.dir

	var out bytes.Buffer
	err := run(context.Background(), cfg, args, &out)
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "invoicer %v", args)
	return out
}

func (c *cli) create(args ...string) string {
	c.t.Helper()
	m := createdID.FindStringSubmatch(c.mustRun(args...))
	require.Len(c.t, m, 2)
	return m[1]
}

func TestCLI_InvoiceLifecycle(t *testing.T) {
	c := newCLI(t)

	c.mustRun("business", "set", "--name", "Studio Ltd", "--email", "hello@studio.test", "--currency", "eur")
	assert.Contains(t, c.mustRun("business", "show"), "EUR")

	clientID := c.create("client", "add", "--name", "Acme Corp", "--email", "billing@acme.test", "--address", "1 Road")
	invoiceID := c.create("invoice", "new", "--client", clientID, "--tax", "10")

	out := c.mustRun("invoice", "item", "add", invoiceID, "--description", "Design", "--quantity", "2", "--price", "10.00")
	assert.Contains(t, out, "total now 22.00")

	for _, layout := range []string{"professional", "minimal", "creative"} {
		out = c.mustRun("invoice", "show", invoiceID, "--template", layout)
		assert.Contains(t, out, "Acme Corp", layout)
		assert.Contains(t, out, "Studio Ltd", layout)
		assert.Contains(t, out, "€20.00", layout)
		assert.Contains(t, out, "€2.00", layout)
		assert.Contains(t, out, "€22.00", layout)
		assert.Contains(t, out, "Tax (10%)", layout)
	}

	c.mustRun("invoice", "set", invoiceID, "--status", "paid", "--notes", "Thanks!")
	out = c.mustRun("invoice", "list", "--status", "PAID")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "€22.00")

	out = c.mustRun("dashboard")
	assert.Contains(t, out, "€22.00")
	assert.Contains(t, out, "Recent invoices (1 total)")

	path := filepath.Join(c.dir, "out.html")
	c.mustRun("invoice", "export", invoiceID, "--format", "html", "-o", path)
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "€22.00")
	assert.Contains(t, string(html), "Studio Ltd")
	assert.Contains(t, string(html), "Thanks!")

	pdf := c.mustRun("invoice", "export", invoiceID, "--format", "pdf", "-o", "-")
	assert.True(t, bytes.HasPrefix([]byte(pdf), []byte("%PDF-")))
}

func TestCLI_ClientDeleteKeepsSnapshot(t *testing.T) {
	c := newCLI(t)

	clientID := c.create("client", "add", "--name", "Acme Corp", "--email", "billing@acme.test")
	invoiceID := c.create("invoice", "new", "--client", clientID)

	c.mustRun("client", "update", clientID, "--name", "Renamed Inc")
	c.mustRun("client", "delete", clientID)

	out := c.mustRun("invoice", "show", invoiceID)
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "billing@acme.test")
	assert.NotContains(t, out, "Renamed Inc")
}

func TestCLI_ItemEditing(t *testing.T) {
	c := newCLI(t)
	invoiceID := c.create("invoice", "new")

	c.mustRun("invoice", "item", "add", invoiceID, "--description", "First", "--price", "1")
	c.mustRun("invoice", "item", "add", invoiceID, "--description", "Second", "--quantity", "abc", "--price", "5")

	cfg := config.Default()
	cfg.DataDir = c.dir
	a := &app{cfg: cfg}
	require.NoError(t, a.open(context.Background()))
	inv, err := a.invoices.Get(context.Background(), invoiceID)
	require.NoError(t, err)
	require.NoError(t, a.close())

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "0.00", inv.Items[1].Amount)
	assert.Equal(t, "1.00", inv.TotalAmount)

	c.mustRun("invoice", "item", "move", invoiceID, inv.Items[1].ID, "1")
	out := c.mustRun("invoice", "item", "update", invoiceID, inv.Items[1].ID, "--field", "quantity", "--value", "2")
	assert.Contains(t, out, "total now 11.00")

	out = c.mustRun("invoice", "item", "remove", invoiceID, inv.Items[0].ID)
	assert.Contains(t, out, "total now 10.00")

	_, err = c.run("invoice", "item", "update", invoiceID, inv.Items[1].ID, "--field", "amount", "--value", "9")
	assert.ErrorIs(t, err, invoice.ErrUnknownField)
}

func TestCLI_Errors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("invoice", "show", "missing")
	assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)

	_, err = c.run("invoice", "list", "--status", "CANCELLED")
	assert.ErrorIs(t, err, invoice.ErrInvalidStatus)

	_, err = c.run("client", "add", "--email", "x@y.test")
	assert.Error(t, err)

	_, err = c.run("business", "set", "--currency", "dollars")
	assert.Error(t, err)

	_, err = c.run("--store", "carrier-pigeon", "invoice", "list")
	assert.Error(t, err)
}

func TestCLI_UnknownTemplateFallsBack(t *testing.T) {
	c := newCLI(t)
	invoiceID := c.create("invoice", "new", "--template", "retro")

	out := c.mustRun("invoice", "show", invoiceID)
	assert.Contains(t, out, "INVOICE DATE")
}
