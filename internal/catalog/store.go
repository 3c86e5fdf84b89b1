package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFetchFailed is returned when a fetch is forced to fail.
var ErrFetchFailed = errors.New("Failed to load products")

// DefaultDelay is the simulated network latency of FetchProducts.
const DefaultDelay = 200 * time.Millisecond

// FetchOptions configures a single fetch.
type FetchOptions struct {
	Fail bool
}

// Fetcher defines the interface for loading the product catalog.
// This interface is implemented by *Store and can be replaced in tests.
type Fetcher interface {
	FetchProducts(ctx context.Context, opts FetchOptions) ([]Product, error)
}

// Ensure Store implements Fetcher at compile time.
var _ Fetcher = (*Store)(nil)

// Store simulates the product API over an immutable in-memory catalog.
type Store struct {
	products []Product
	delay    time.Duration
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithDelay overrides the simulated latency. Negative values are treated as zero.
func WithDelay(d time.Duration) StoreOption {
	return func(s *Store) {
		s.delay = max(d, 0)
	}
}

// WithProducts replaces the sample catalog.
func WithProducts(products []Product) StoreOption {
	return func(s *Store) {
		s.products = cloneProducts(products)
	}
}

// NewStore builds a Store over the sample catalog, validating the records.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		products: SampleProducts(),
		delay:    DefaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := Validate(s.products); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return s, nil
}

// FetchProducts waits the simulated latency and returns the full catalog in
// its fixed order, or ErrFetchFailed when opts.Fail is set.
func (s *Store) FetchProducts(ctx context.Context, opts FetchOptions) ([]Product, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if opts.Fail {
		return nil, ErrFetchFailed
	}
	return cloneProducts(s.products), nil
}
