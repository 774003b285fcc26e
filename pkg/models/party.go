package models

// Client is a customer that invoices can be addressed to.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// GetID returns the record id.
func (c Client) GetID() string { return c.ID }

// Product is a reusable source for invoice lines. Lines copied from a product
// keep no link to it.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Unit        string `json:"unit,omitempty"`
	Tax         string `json:"tax,omitempty"`
}

// GetID returns the record id.
func (p Product) GetID() string { return p.ID }

// Business is the singleton "from" party printed on every invoice.
type Business struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Logo     string `json:"logo,omitempty"`
	TaxID    string `json:"taxId,omitempty"`
	Currency string `json:"currency"`
}
