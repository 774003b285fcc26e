// Package store persists invoices, clients, products and the business profile
// as JSON blobs, one blob per collection, on top of a pluggable key-value
// backend.
//
// Every collection write is a whole-collection read-modify-write with no
// locking: two overlapping saves to the same collection race and the later
// write wins. Reads never fail; a backend or decoding error is logged and the
// caller sees an empty collection or an absent business profile.
//
// Writes are logged and returned, so a failed save is reported to the user
// rather than lost. Upsert and Delete stop without writing when the read
// before them fails, leaving the stored collection untouched.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Collection keys. They double as backend keys and must not change, existing
// data is stored under them.
const (
	KeyInvoices = "invoices"
	KeyClients  = "clients"
	KeyProducts = "products"
	KeyBusiness = "business"
)

var (
	// ErrNotFound is returned by a Backend when a key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey is returned for keys a backend cannot store.
	ErrInvalidKey = errors.New("invalid store key")

	// ErrMissingID is returned when upserting a record without an id.
	ErrMissingID = errors.New("record has no id")
)

// Backend is a minimal byte-oriented key-value store.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend's resources.
	Close() error
}

// Record is implemented by every collection element.
type Record interface {
	GetID() string
}

// Collection is a typed view over one JSON array stored in a Backend.
type Collection[T Record] struct {
	backend Backend
	key     string
	log     zerolog.Logger
}

// NewCollection returns a collection stored under key.
func NewCollection[T Record](backend Backend, key string) *Collection[T] {
	return &Collection[T]{
		backend: backend,
		key:     key,
		log:     logger.WithComponent("store").With().Str("collection", key).Logger(),
	}
}

// All returns every record in stored order. A missing or unreadable collection
// yields an empty slice.
func (c *Collection[T]) All(ctx context.Context) []T {
	records, err := c.read(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to read collection")
		return []T{}
	}
	return records
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool) {
	for _, r := range c.All(ctx) {
		if r.GetID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Upsert replaces the record with the same id in place, or appends it.
// Unlike reads, a failed read here aborts the write so that an unreadable
// collection is never overwritten with a single record.
func (c *Collection[T]) Upsert(ctx context.Context, record T) error {
	id := record.GetID()
	if id == "" {
		return ErrMissingID
	}

	records, err := c.read(ctx)
	if err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("Failed to read collection before save")
		return fmt.Errorf("save %s %s: %w", c.key, id, err)
	}

	replaced := false
	for i := range records {
		if records[i].GetID() == id {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if err := c.write(ctx, records); err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("Failed to save record")
		return fmt.Errorf("save %s %s: %w", c.key, id, err)
	}

	c.log.Debug().Str("id", id).Bool("replaced", replaced).Msg("Record saved")
	return nil
}

// Delete removes the record with the given id. Deleting an unknown id is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	records, err := c.read(ctx)
	if err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("Failed to read collection before delete")
		return fmt.Errorf("delete %s %s: %w", c.key, id, err)
	}

	kept := records[:0]
	for _, r := range records {
		if r.GetID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}

	if err := c.write(ctx, kept); err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("Failed to delete record")
		return fmt.Errorf("delete %s %s: %w", c.key, id, err)
	}
	return nil
}

func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	data, err := c.backend.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) write(ctx context.Context, records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.backend.Set(ctx, c.key, data)
}

// Store groups the collections and the business profile over one backend.
type Store struct {
	backend  Backend
	invoices *Collection[models.Invoice]
	clients  *Collection[models.Client]
	products *Collection[models.Product]
	log      zerolog.Logger
}

// New wraps a backend.
func New(backend Backend) *Store {
	return &Store{
		backend:  backend,
		invoices: NewCollection[models.Invoice](backend, KeyInvoices),
		clients:  NewCollection[models.Client](backend, KeyClients),
		products: NewCollection[models.Product](backend, KeyProducts),
		log:      logger.WithComponent("store"),
	}
}

func (s *Store) Invoices() *Collection[models.Invoice] { return s.invoices }
func (s *Store) Clients() *Collection[models.Client]   { return s.clients }
func (s *Store) Products() *Collection[models.Product] { return s.products }

// Business returns the business profile, or false when none has been saved
// or it cannot be read.
func (s *Store) Business(ctx context.Context) (models.Business, bool) {
	data, err := s.backend.Get(ctx, KeyBusiness)
	if errors.Is(err, ErrNotFound) {
		return models.Business{}, false
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read business profile")
		return models.Business{}, false
	}

	var b *models.Business
	if err := json.Unmarshal(data, &b); err != nil {
		s.log.Error().Err(err).Msg("Failed to decode business profile")
		return models.Business{}, false
	}
	if b == nil {
		return models.Business{}, false
	}
	return *b, true
}

// SaveBusiness replaces the business profile.
func (s *Store) SaveBusiness(ctx context.Context, b models.Business) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode business: %w", err)
	}
	if err := s.backend.Set(ctx, KeyBusiness, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to save business profile")
		return fmt.Errorf("save business: %w", err)
	}
	return nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
