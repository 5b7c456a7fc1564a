package contracts

import (
	"context"

	"github.com/light-bringer/product-store/internal/app/product/domain"
)

// Filter selects products for FindAll, Search and Count.
//
// Category, SellerID, Status and IsFeatured are pushed down to Spanner as
// native equality predicates. MinPrice, MaxPrice and Tags cannot be
// combined with the equality predicates in a single native query and are
// evaluated in memory over the already-fetched page; they are therefore
// correct only within that page and are rejected by Count.
type Filter struct {
	Category   string
	SellerID   string
	Status     domain.Status
	IsFeatured *bool

	MinPrice *int64
	MaxPrice *int64
	Tags     []string
}

// HasInMemory reports whether the filter carries predicates that must be
// evaluated in memory after the native query.
func (f Filter) HasInMemory() bool {
	return f.MinPrice != nil || f.MaxPrice != nil || len(f.Tags) > 0
}

// Page is a limit/offset pagination window. A zero Limit means the
// default of 50.
type Page struct {
	Limit  int64
	Offset int64
}

// BulkUpdate pairs a product id with the field patch to blind-write to it.
type BulkUpdate struct {
	ID    string
	Patch domain.Patch
}

// ProductStore owns all read/write access to product records. It enforces
// slug uniqueness, optimistic versioning, atomic inventory adjustment and
// the batch semantics documented on each method. Implementations are
// stateless facades over the database's own concurrency machinery; every
// transactional method maps to exactly one single-row read-write
// transaction.
type ProductStore interface {
	// Create inserts a new record inside a transaction that also verifies
	// slug uniqueness. Returns ErrSlugExists if the slug is taken; no two
	// concurrent creates with the same slug can both succeed.
	Create(ctx context.Context, params domain.CreateParams) (*domain.Product, error)

	// FindByID returns the record or ErrProductNotFound.
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// FindBySlug returns the record or ErrProductNotFound.
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// FindAll returns a page of records matching the filter. Price range
	// and tag predicates apply only within the fetched page.
	FindAll(ctx context.Context, filter Filter, page Page) ([]*domain.Product, error)

	// Search fetches up to 100 records matching the equality filters and
	// returns those where the query matches name, description, a tag or
	// the sku, case-insensitively. Bounded, approximate, unranked.
	Search(ctx context.Context, query string, filter Filter) ([]*domain.Product, error)

	// Update merges the patch inside a transaction. If expectedVersion is
	// non-nil and differs from the stored version it fails with
	// ErrVersionMismatch; when nil the update is last-writer-wins. Either
	// way a successful update increments version by one.
	Update(ctx context.Context, id string, patch domain.Patch, expectedVersion *int64) (*domain.Product, error)

	// UpdateInventory atomically adds delta to the stored quantity.
	// Fails with ErrInsufficientInventory if the result would be negative.
	UpdateInventory(ctx context.Context, id string, delta int64) (*domain.Product, error)

	// SoftDelete archives the record; a normal versioned update.
	SoftDelete(ctx context.Context, id string) (*domain.Product, error)

	// Delete permanently removes the record without a version check and
	// releases its slug.
	Delete(ctx context.Context, id string) error

	// BulkDelete removes the given records in one atomic batch. Blind
	// write: no existence or version checks, no partial-success reporting.
	BulkDelete(ctx context.Context, ids []string) error

	// BulkUpdate merges each patch in one atomic batch. Blind write: no
	// version checks or bumps; all touched records share one updatedAt.
	BulkUpdate(ctx context.Context, updates []BulkUpdate) error

	// FindByIDs fetches the given records, querying in chunks sized to the
	// store's identifier-set limit. Result order is unspecified.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)

	// Count returns the native count of records matching the equality
	// filters. Returns ErrUnsupportedFilter if price range or tag filters
	// are present.
	Count(ctx context.Context, filter Filter) (int64, error)
}
