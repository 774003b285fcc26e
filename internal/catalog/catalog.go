// Package catalog manages the clients and products invoices are built from.
//
// Invoices copy what they need from a client or product at the moment it is
// picked, so nothing here cascades into invoices: renaming or deleting a
// client leaves existing invoices untouched.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

var (
	// ErrClientNotFound is returned when a client id is not in the store.
	ErrClientNotFound = errors.New("client not found")

	// ErrProductNotFound is returned when a product id is not in the store.
	ErrProductNotFound = errors.New("product not found")

	// ErrNameRequired is wrapped by the ValidationError returned for a blank name.
	ErrNameRequired = errors.New("name is required")
)

// Repository is the persistence contract for one collection. It is satisfied
// by *store.Collection[T].
type Repository[T any] interface {
	All(ctx context.Context) []T
	Get(ctx context.Context, id string) (T, bool)
	Upsert(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &invoice.ValidationError{Field: "name", Value: name, Message: "must not be blank", Err: ErrNameRequired}
	}
	return nil
}

func contains(field, query string) bool {
	return strings.Contains(strings.ToLower(field), query)
}

// Clients manages client records.
type Clients struct {
	repo  Repository[models.Client]
	newID func() string
	log   zerolog.Logger
}

// NewClients returns a client service writing to repo.
func NewClients(repo Repository[models.Client]) *Clients {
	return &Clients{
		repo:  repo,
		newID: uuid.NewString,
		log:   logger.WithComponent("catalog").With().Str("collection", "clients").Logger(),
	}
}

// Create stores c under a new id and returns it.
func (s *Clients) Create(ctx context.Context, c models.Client) (models.Client, error) {
	if err := requireName(c.Name); err != nil {
		return c, err
	}
	c.ID = s.newID()
	c.Name = strings.TrimSpace(c.Name)
	if err := s.repo.Upsert(ctx, c); err != nil {
		return c, err
	}
	s.log.Info().Str("client_id", c.ID).Str("name", c.Name).Msg("Client created")
	return c, nil
}

// Update replaces an existing client. Invoices keep their own copy of the
// client's details.
func (s *Clients) Update(ctx context.Context, c models.Client) (models.Client, error) {
	if _, ok := s.repo.Get(ctx, c.ID); !ok {
		return c, ErrClientNotFound
	}
	if err := requireName(c.Name); err != nil {
		return c, err
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := s.repo.Upsert(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// Get returns the client with id.
func (s *Clients) Get(ctx context.Context, id string) (models.Client, error) {
	c, ok := s.repo.Get(ctx, id)
	if !ok {
		return c, ErrClientNotFound
	}
	return c, nil
}

// List returns every client in stored order.
func (s *Clients) List(ctx context.Context) []models.Client {
	return s.repo.All(ctx)
}

// Search returns clients whose name, email or company contains query,
// ignoring case. An empty query returns every client.
func (s *Clients) Search(ctx context.Context, query string) []models.Client {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Client{}
	for _, c := range s.List(ctx) {
		if q == "" || contains(c.Name, q) || contains(c.Email, q) || contains(c.Company, q) {
			out = append(out, c)
		}
	}
	return out
}

// Delete removes the client. Invoices addressed to it are kept.
func (s *Clients) Delete(ctx context.Context, id string) error {
	if _, ok := s.repo.Get(ctx, id); !ok {
		return ErrClientNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("client_id", id).Msg("Client deleted")
	return nil
}

// Products manages product records.
type Products struct {
	repo  Repository[models.Product]
	newID func() string
	log   zerolog.Logger
}

// NewProducts returns a product service writing to repo.
func NewProducts(repo Repository[models.Product]) *Products {
	return &Products{
		repo:  repo,
		newID: uuid.NewString,
		log:   logger.WithComponent("catalog").With().Str("collection", "products").Logger(),
	}
}

// Create stores p under a new id. A blank price is stored as "0".
func (s *Products) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if err := requireName(p.Name); err != nil {
		return p, err
	}
	p.ID = s.newID()
	p.Name = strings.TrimSpace(p.Name)
	if strings.TrimSpace(p.Price) == "" {
		p.Price = "0"
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return p, err
	}
	s.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("Product created")
	return p, nil
}

// Update replaces an existing product. Lines already copied onto invoices
// are not affected.
func (s *Products) Update(ctx context.Context, p models.Product) (models.Product, error) {
	if _, ok := s.repo.Get(ctx, p.ID); !ok {
		return p, ErrProductNotFound
	}
	if err := requireName(p.Name); err != nil {
		return p, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := s.repo.Upsert(ctx, p); err != nil {
		return p, err
	}
	return p, nil
}

// Get returns the product with id.
func (s *Products) Get(ctx context.Context, id string) (models.Product, error) {
	p, ok := s.repo.Get(ctx, id)
	if !ok {
		return p, ErrProductNotFound
	}
	return p, nil
}

// List returns every product in stored order.
func (s *Products) List(ctx context.Context) []models.Product {
	return s.repo.All(ctx)
}

// Delete removes the product.
func (s *Products) Delete(ctx context.Context, id string) error {
	if _, ok := s.repo.Get(ctx, id); !ok {
		return ErrProductNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("Product deleted")
	return nil
}
