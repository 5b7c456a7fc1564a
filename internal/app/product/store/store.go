// Package store implements contracts.ProductStore on Cloud Spanner.
//
// Every transactional operation (Create, Update, UpdateInventory,
// SoftDelete, Delete) maps to exactly one single-row ReadWriteTransaction
// with serializable read-then-conditional-write semantics. BulkDelete and
// BulkUpdate use the weaker atomic-batch guarantee: blind writes with no
// preconditions, applied all-or-nothing via a CommitPlan. The store holds
// no state of its own; retries on transaction contention belong to the
// Spanner client.
package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/product-store/internal/app/product/contracts"
	"github.com/light-bringer/product-store/internal/app/product/domain"
	"github.com/light-bringer/product-store/internal/models/m_product"
	"github.com/light-bringer/product-store/internal/pkg/clock"
	"github.com/light-bringer/product-store/internal/pkg/committer"
	"github.com/light-bringer/product-store/internal/pkg/query"
)

const (
	// defaultPageLimit is the FindAll window size when the caller
	// supplies none.
	defaultPageLimit = 50

	// searchFetchLimit is the hard ceiling on rows fetched for a search.
	// It bounds recall, not correctness; exceeding it is not an error.
	searchFetchLimit = 100

	// idChunkSize is the backing store's identifier-set query limit.
	idChunkSize = 10
)

// Store is the Spanner-backed ProductStore.
type Store struct {
	client    *spanner.Client
	model     *m_product.Model
	committer *committer.Committer
	clock     clock.Clock
	validate  *validator.Validate
	log       zerolog.Logger
}

var _ contracts.ProductStore = (*Store)(nil)

// New creates a ProductStore over the given Spanner client.
func New(client *spanner.Client, clk clock.Clock, log zerolog.Logger) *Store {
	return &Store{
		client:    client,
		model:     m_product.NewModel(),
		committer: committer.NewCommitter(client),
		clock:     clk,
		validate:  validator.New(),
		log:       log.With().Str("component", "product_store").Logger(),
	}
}

// Create inserts a new product record. The slug-uniqueness query and the
// insert execute in one read-write transaction, so two concurrent creates
// with the same slug cannot both succeed.
func (s *Store) Create(ctx context.Context, params domain.CreateParams) (*domain.Product, error) {
	if err := s.validate.Struct(&params); err != nil {
		return nil, fmt.Errorf("invalid create params: %w", err)
	}

	prod := domain.NewProduct(uuid.NewString(), params, s.clock.Now())
	data, err := m_product.FromDomain(prod)
	if err != nil {
		return nil, s.fail("create", err, map[string]interface{}{"slug": params.Slug})
	}

	_, err = s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		if err := s.checkSlugFree(ctx, txn, prod.Slug); err != nil {
			return err
		}
		return txn.BufferWrite([]*spanner.Mutation{s.model.InsertMut(data)})
	})
	if err != nil {
		return nil, s.fail("create", err, map[string]interface{}{
			"slug":      params.Slug,
			"seller_id": params.SellerID,
		})
	}

	return prod, nil
}

// FindByID returns the record with the given id, or ErrProductNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row, err := s.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, s.fail("find_by_id", err, map[string]interface{}{"id": id})
	}

	prod, err := decodeRow(row)
	if err != nil {
		return nil, s.fail("find_by_id", err, map[string]interface{}{"id": id})
	}
	return prod, nil
}

// FindBySlug returns the record with the given slug, or ErrProductNotFound.
// The lookup is a query limited to one match against the slug index.
func (s *Store) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns...).
		Where(query.Eq(m_product.Slug, slug)).
		Limit(1).
		Build()

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, s.fail("find_by_slug", err, map[string]interface{}{"slug": slug})
	}

	prod, err := decodeRow(row)
	if err != nil {
		return nil, s.fail("find_by_slug", err, map[string]interface{}{"slug": slug})
	}
	return prod, nil
}

// FindAll returns a page of records. Category, seller, status and featured
// filters are pushed down as native equality predicates; price range and
// tag membership are evaluated in memory over the fetched window only, so
// they are page-local, not global.
func (s *Store) FindAll(ctx context.Context, filter contracts.Filter, page contracts.Page) ([]*domain.Product, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	b := s.baseQuery(filter).
		OrderBy(m_product.CreatedAt, query.Desc).
		Limit(limit)
	if page.Offset > 0 {
		b = b.Offset(page.Offset)
	}

	products, err := s.queryProducts(ctx, b.Build())
	if err != nil {
		return nil, s.fail("find_all", err, nil)
	}

	return applyMemoryFilters(products, filter), nil
}

// Search fetches up to searchFetchLimit records matching the equality
// filters and keeps those where q is a case-insensitive substring of the
// name, description, any tag, or the sku. Bounded and unranked.
func (s *Store) Search(ctx context.Context, q string, filter contracts.Filter) ([]*domain.Product, error) {
	stmt := s.baseQuery(filter).
		OrderBy(m_product.CreatedAt, query.Desc).
		Limit(searchFetchLimit).
		Build()

	products, err := s.queryProducts(ctx, stmt)
	if err != nil {
		return nil, s.fail("search", err, map[string]interface{}{"query": q})
	}

	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Update merges the patch inside one read-write transaction. A non-nil
// expectedVersion that does not match the stored version fails with
// ErrVersionMismatch and writes nothing; a nil expectedVersion is
// last-writer-wins. Successful updates increment version by exactly one.
// A slug change re-runs the uniqueness check inside the same transaction.
func (s *Store) Update(ctx context.Context, id string, patch domain.Patch, expectedVersion *int64) (*domain.Product, error) {
	if err := s.validate.Struct(&patch); err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}

	var updated *domain.Product
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		current, err := s.readProduct(ctx, txn, id)
		if err != nil {
			return err
		}

		if expectedVersion != nil && *expectedVersion != current.Version {
			return domain.ErrVersionMismatch
		}

		if patch.Slug != nil && *patch.Slug != current.Slug {
			if err := s.checkSlugFree(ctx, txn, *patch.Slug); err != nil {
				return err
			}
		}

		updates := patchUpdates(patch)
		patch.ApplyTo(current)
		current.Version++
		current.UpdatedAt = s.clock.Now()

		updates[m_product.Version] = current.Version
		updates[m_product.UpdatedAt] = current.UpdatedAt
		updated = current

		return txn.BufferWrite([]*spanner.Mutation{s.model.UpdateMut(id, updates)})
	})
	if err != nil {
		return nil, s.fail("update", err, map[string]interface{}{"id": id})
	}

	return updated, nil
}

// UpdateInventory atomically adds delta to the stored quantity. Two
// concurrent decrements that would jointly drive the quantity negative
// cause exactly one to fail with ErrInsufficientInventory.
func (s *Store) UpdateInventory(ctx context.Context, id string, delta int64) (*domain.Product, error) {
	var updated *domain.Product
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		current, err := s.readProduct(ctx, txn, id)
		if err != nil {
			return err
		}

		newQuantity := current.Quantity + delta
		if newQuantity < 0 {
			return domain.ErrInsufficientInventory
		}

		current.Quantity = newQuantity
		current.Version++
		current.UpdatedAt = s.clock.Now()
		updated = current

		return txn.BufferWrite([]*spanner.Mutation{s.model.UpdateMut(id, map[string]interface{}{
			m_product.Quantity:  current.Quantity,
			m_product.Version:   current.Version,
			m_product.UpdatedAt: current.UpdatedAt,
		})})
	})
	if err != nil {
		return nil, s.fail("update_inventory", err, map[string]interface{}{
			"id":    id,
			"delta": delta,
		})
	}

	return updated, nil
}

// SoftDelete archives the record. It is a normal versioned update, so a
// second SoftDelete still increments version.
func (s *Store) SoftDelete(ctx context.Context, id string) (*domain.Product, error) {
	return s.Update(ctx, id, domain.ArchivePatch(), nil)
}

// Delete permanently removes the record. No version check: hard delete is
// unconditional once the record is known to exist. The slug becomes free
// for reuse.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		_, err := txn.ReadRow(ctx, m_product.TableName, spanner.Key{id}, []string{m_product.ProductID})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return domain.ErrProductNotFound
			}
			return err
		}
		return txn.BufferWrite([]*spanner.Mutation{s.model.DeleteMut(id)})
	})
	if err != nil {
		return s.fail("delete", err, map[string]interface{}{"id": id})
	}
	return nil
}

// BulkDelete removes the given records as one atomic batch. Blind write:
// no existence or version checks, and no partial-success reporting — a
// failure surfaces as one Internal error for the whole batch.
func (s *Store) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	plan := committer.NewPlan()
	for _, id := range ids {
		plan.Add(s.model.DeleteMut(id))
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return s.fail("bulk_delete", err, map[string]interface{}{"count": len(ids)})
	}
	return nil
}

// BulkUpdate merges each patch as one atomic batch. Blind writes: no
// version checks or bumps, and every touched record is stamped with the
// same updatedAt. Callers must not rely on optimistic-lock protection
// for batched mutations.
func (s *Store) BulkUpdate(ctx context.Context, updates []contracts.BulkUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	now := s.clock.Now()
	plan := committer.NewPlan()
	for _, u := range updates {
		if err := s.validate.Struct(&u.Patch); err != nil {
			return fmt.Errorf("invalid patch for product %s: %w", u.ID, err)
		}
		cols := patchUpdates(u.Patch)
		if len(cols) == 0 {
			continue
		}
		cols[m_product.UpdatedAt] = now
		plan.Add(s.model.UpdateMut(u.ID, cols))
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return s.fail("bulk_update", err, map[string]interface{}{"count": len(updates)})
	}
	return nil
}

// FindByIDs fetches the given records, partitioning the id set into
// chunks of idChunkSize and issuing one identifier-set query per chunk.
// Result order does not match input order.
func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	out := make([]*domain.Product, 0, len(ids))
	for _, chunk := range chunkIDs(ids, idChunkSize) {
		stmt := query.From(m_product.TableName).
			Select(m_product.AllColumns...).
			Where(query.In(m_product.ProductID, chunk)).
			Build()

		products, err := s.queryProducts(ctx, stmt)
		if err != nil {
			return nil, s.fail("find_by_ids", err, map[string]interface{}{"count": len(ids)})
		}
		out = append(out, products...)
	}

	return out, nil
}

// Count returns the native count of records matching the equality filters
// without materializing documents. Price range and tag filters cannot be
// pushed down and are rejected with ErrUnsupportedFilter.
func (s *Store) Count(ctx context.Context, filter contracts.Filter) (int64, error) {
	if filter.HasInMemory() {
		return 0, domain.ErrUnsupportedFilter
	}

	stmt := s.baseQuery(filter).Count().Build()

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, s.fail("count", err, nil)
	}

	var n int64
	if err := row.Column(0, &n); err != nil {
		return 0, s.fail("count", err, nil)
	}
	return n, nil
}

// baseQuery builds the pushdown-eligible part of a filtered query.
func (s *Store) baseQuery(filter contracts.Filter) *query.Builder {
	b := query.From(m_product.TableName).Select(m_product.AllColumns...)

	if filter.Category != "" {
		b = b.Where(query.Eq(m_product.Category, filter.Category))
	}
	if filter.SellerID != "" {
		b = b.Where(query.Eq(m_product.SellerID, filter.SellerID))
	}
	if filter.Status != "" {
		b = b.Where(query.Eq(m_product.Status, string(filter.Status)))
	}
	if filter.IsFeatured != nil {
		b = b.Where(query.Eq(m_product.IsFeatured, *filter.IsFeatured))
	}

	return b
}

// checkSlugFree fails with ErrSlugExists if any row holds the slug. Run
// inside a read-write transaction so the check serializes with concurrent
// writers touching the same slug.
func (s *Store) checkSlugFree(ctx context.Context, txn *spanner.ReadWriteTransaction, slug string) error {
	stmt := query.From(m_product.TableName).
		Select(m_product.ProductID).
		Where(query.Eq(m_product.Slug, slug)).
		Limit(1).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	_, err := iter.Next()
	if err == nil {
		return domain.ErrSlugExists
	}
	if err != iterator.Done {
		return fmt.Errorf("slug uniqueness check: %w", err)
	}
	return nil
}

// readProduct reads the full row inside a transaction, mapping the
// driver's not-found code to the domain sentinel.
func (s *Store) readProduct(ctx context.Context, txn *spanner.ReadWriteTransaction, id string) (*domain.Product, error) {
	row, err := txn.ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return decodeRow(row)
}

// queryProducts executes stmt on a read-only transaction and decodes
// every row.
func (s *Store) queryProducts(ctx context.Context, stmt spanner.Statement) ([]*domain.Product, error) {
	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		prod, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, prod)
	}
	return products, nil
}

// fail classifies err at the operation boundary. Domain errors pass
// through unchanged; anything else is logged with the operation name and
// failing inputs, then wrapped as an internal failure.
func (s *Store) fail(op string, err error, fields map[string]interface{}) error {
	if domain.IsDomain(err) {
		return err
	}

	evt := s.log.Error().Err(err).Str("op", op)
	if fields != nil {
		evt = evt.Fields(fields)
	}
	evt.Msg("product store operation failed")

	return fmt.Errorf("%s: %w", op, err)
}

func decodeRow(row *spanner.Row) (*domain.Product, error) {
	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("decode product row: %w", err)
	}
	return data.ToDomain()
}
