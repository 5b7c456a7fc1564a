//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/product-store/internal/app/product/contracts"
	"github.com/light-bringer/product-store/internal/app/product/domain"
	"github.com/light-bringer/product-store/internal/app/product/store"
	"github.com/light-bringer/product-store/internal/pkg/clock"
	"github.com/light-bringer/product-store/tests/testutil"
)

func newStore(t *testing.T) (*store.Store, *spanner.Client, func()) {
	t.Helper()
	client, cleanup := testutil.SetupSpannerTest(t)
	s := store.New(client, clock.NewRealClock(), zerolog.Nop())
	return s, client, cleanup
}

func TestStore_CreateAndRead(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	created, err := s.Create(ctx, testutil.CreateParamsFixture("blue-mug"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, domain.StatusActive, created.Status)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, byID.Slug)

	bySlug, err := s.FindBySlug(ctx, "blue-mug")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = s.FindByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = s.FindBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestStore_DuplicateSlug(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.Create(ctx, testutil.CreateParamsFixture("red-mug"))
	require.NoError(t, err)

	_, err = s.Create(ctx, testutil.CreateParamsFixture("red-mug"))
	assert.ErrorIs(t, err, domain.ErrSlugExists)
}

func TestStore_ConcurrentCreateSameSlug(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, testutil.CreateParamsFixture("contended-slug"))
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrSlugExists)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one create must win")
}

func TestStore_UpdateBumpsVersion(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	created, err := s.Create(ctx, testutil.CreateParamsFixture("versioned"))
	require.NoError(t, err)

	name := "Renamed"
	updated, err := s.Update(ctx, created.ID, domain.Patch{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	price := int64(2500)
	updated, err = s.Update(ctx, created.ID, domain.Patch{Price: &price}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Version)
	assert.Equal(t, "Renamed", updated.Name, "untouched fields must survive partial updates")
}

func TestStore_UpdateOptimisticLock(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	created, err := s.Create(ctx, testutil.CreateParamsFixture("locked"))
	require.NoError(t, err)

	name := "First"
	_, err = s.Update(ctx, created.ID, domain.Patch{Name: &name}, nil)
	require.NoError(t, err)

	stale := int64(1)
	name = "Second"
	_, err = s.Update(ctx, created.ID, domain.Patch{Name: &name}, &stale)
	assert.ErrorIs(t, err, domain.ErrVersionMismatch)

	current := int64(2)
	updated, err := s.Update(ctx, created.ID, domain.Patch{Name: &name}, &current)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Version)
}

func TestStore_UpdateSlugUniqueness(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.Create(ctx, testutil.CreateParamsFixture("taken"))
	require.NoError(t, err)

	other, err := s.Create(ctx, testutil.CreateParamsFixture("free"))
	require.NoError(t, err)

	taken := "taken"
	_, err = s.Update(ctx, other.ID, domain.Patch{Slug: &taken}, nil)
	assert.ErrorIs(t, err, domain.ErrSlugExists)

	fresh := "fresh"
	updated, err := s.Update(ctx, other.ID, domain.Patch{Slug: &fresh}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fresh", updated.Slug)
}

func TestStore_InventoryNeverNegative(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	params := testutil.CreateParamsFixture("stocked")
	params.Quantity = 5
	created, err := s.Create(ctx, params)
	require.NoError(t, err)

	after, err := s.UpdateInventory(ctx, created.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.Quantity)
	assert.Equal(t, int64(2), after.Version)

	_, err = s.UpdateInventory(ctx, created.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)

	// The failed adjustment must not change anything.
	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Equal(t, int64(2), got.Version)
}

func TestStore_SoftDeleteIsIdempotentButVersions(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	created, err := s.Create(ctx, testutil.CreateParamsFixture("ephemeral"))
	require.NoError(t, err)

	first, err := s.SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, first.Status)
	assert.Equal(t, int64(2), first.Version)

	// Archiving an archived product is a normal update and still bumps version.
	second, err := s.SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, second.Status)
	assert.Equal(t, int64(3), second.Version)
}

func TestStore_HardDelete(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	created, err := s.Create(ctx, testutil.CreateParamsFixture("doomed"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), domain.ErrProductNotFound)
}

func TestStore_FindAllFiltersAndPagination(t *testing.T) {
	s, client, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, fx := range []testutil.ProductFixture{
		{Slug: "cheap-mug", Category: "mugs", Price: 500, Tags: []string{"ceramic"}},
		{Slug: "mid-mug", Category: "mugs", Price: 1500, Tags: []string{"ceramic", "red"}},
		{Slug: "pricey-mug", Category: "mugs", Price: 5000, Tags: []string{"steel"}},
		{Slug: "lamp", Category: "lighting", Price: 1500},
	} {
		testutil.InsertTestProduct(t, client, fx)
	}

	mugs, err := s.FindAll(ctx, contracts.Filter{Category: "mugs"}, contracts.Page{})
	require.NoError(t, err)
	assert.Len(t, mugs, 3)

	min, max := int64(500), int64(1500)
	ranged, err := s.FindAll(ctx, contracts.Filter{Category: "mugs", MinPrice: &min, MaxPrice: &max}, contracts.Page{})
	require.NoError(t, err)
	assert.Len(t, ranged, 2, "price bounds are inclusive")

	tagged, err := s.FindAll(ctx, contracts.Filter{Tags: []string{"red", "steel"}}, contracts.Page{})
	require.NoError(t, err)
	assert.Len(t, tagged, 2, "any matching tag qualifies")

	page, err := s.FindAll(ctx, contracts.Filter{}, contracts.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestStore_Search(t *testing.T) {
	s, client, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	testutil.InsertTestProduct(t, client, testutil.ProductFixture{
		Slug: "red-ceramic-mug", Name: "Red Ceramic Mug", Tags: []string{"kitchen"},
	})
	testutil.InsertTestProduct(t, client, testutil.ProductFixture{
		Slug: "desk-lamp", Name: "Desk Lamp",
	})

	results, err := s.Search(ctx, "MUG", contracts.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "red-ceramic-mug", results[0].Slug)

	byTag, err := s.Search(ctx, "kitchen", contracts.Filter{})
	require.NoError(t, err)
	assert.Len(t, byTag, 1)
}

func TestStore_FindByIDsChunks(t *testing.T) {
	s, client, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 25; i++ {
		id := testutil.InsertTestProduct(t, client, testutil.ProductFixture{
			Slug: fmt.Sprintf("bulk-%02d", i),
		})
		ids = append(ids, id)
	}

	got, err := s.FindByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, got, 25, "all chunks must be unioned")

	// Unknown ids are silently skipped.
	got, err = s.FindByIDs(ctx, append(ids[:3:3], "missing-id"))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestStore_Count(t *testing.T) {
	s, client, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "c1", Category: "mugs"})
	testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "c2", Category: "mugs"})
	testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "c3", Category: "lighting"})

	n, err := s.Count(ctx, contracts.Filter{Category: "mugs"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	min := int64(100)
	_, err = s.Count(ctx, contracts.Filter{MinPrice: &min})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFilter)
}

func TestStore_BulkUpdate(t *testing.T) {
	s, client, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	a := testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "bu-a", Price: 100})
	b := testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "bu-b", Price: 200})

	newPrice := int64(999)
	featured := true
	err := s.BulkUpdate(ctx, []contracts.BulkUpdate{
		{ID: a, Patch: domain.Patch{Price: &newPrice}},
		{ID: b, Patch: domain.Patch{IsFeatured: &featured}},
	})
	require.NoError(t, err)

	gotA, err := s.FindByID(ctx, a)
	require.NoError(t, err)
	gotB, err := s.FindByID(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, int64(999), gotA.Price)
	assert.True(t, gotB.IsFeatured)
	// Bulk writes are blind: no version bump, one shared timestamp.
	assert.Equal(t, int64(1), gotA.Version)
	assert.Equal(t, int64(1), gotB.Version)
	assert.Equal(t, gotA.UpdatedAt, gotB.UpdatedAt)
}

func TestStore_BulkDelete(t *testing.T) {
	s, client, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	a := testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "bd-a"})
	b := testutil.InsertTestProduct(t, client, testutil.ProductFixture{Slug: "bd-b"})

	require.NoError(t, s.BulkDelete(ctx, []string{a, b, "already-gone"}))

	_, err := s.FindByID(ctx, a)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = s.FindByID(ctx, b)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// Lifecycle walk-through mirroring a storefront flow: create, collide on the
// slug, sell down to zero, then fail the oversell.
func TestStore_ProductLifecycle(t *testing.T) {
	s, _, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	params := testutil.CreateParamsFixture("red-mug")
	params.Quantity = 5
	created, err := s.Create(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	_, err = s.Create(ctx, testutil.CreateParamsFixture("red-mug"))
	assert.ErrorIs(t, err, domain.ErrSlugExists)

	sold, err := s.UpdateInventory(ctx, created.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sold.Quantity)
	assert.Equal(t, int64(2), sold.Version)

	_, err = s.UpdateInventory(ctx, created.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}
