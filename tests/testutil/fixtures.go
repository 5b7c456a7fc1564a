package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/product-store/internal/app/product/domain"
	"github.com/light-bringer/product-store/internal/models/m_product"
)

// ProductFixture describes the fields InsertTestProduct lets a test vary.
// Zero values fall back to sensible defaults.
type ProductFixture struct {
	Slug       string
	SellerID   string
	Name       string
	Price      int64
	Quantity   int64
	Category   string
	Tags       []string
	Status     domain.Status
	IsFeatured bool
}

// InsertTestProduct writes a product row directly, bypassing the store,
// and returns its generated id.
func InsertTestProduct(t *testing.T, client *spanner.Client, fx ProductFixture) string {
	t.Helper()

	if fx.SellerID == "" {
		fx.SellerID = "seller-test"
	}
	if fx.Name == "" {
		fx.Name = "Test Product"
	}
	if fx.Status == "" {
		fx.Status = domain.StatusActive
	}

	ctx := context.Background()
	now := time.Now().UTC()

	product := &domain.Product{
		ID:         uuid.NewString(),
		Slug:       fx.Slug,
		SellerID:   fx.SellerID,
		Name:       fx.Name,
		Price:      fx.Price,
		Quantity:   fx.Quantity,
		Category:   fx.Category,
		Tags:       fx.Tags,
		Status:     fx.Status,
		IsFeatured: fx.IsFeatured,
		Images:     []string{},
		Videos:     []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	data, err := m_product.FromDomain(product)
	require.NoError(t, err, "failed to convert fixture product")

	model := m_product.NewModel()
	_, err = client.Apply(ctx, []*spanner.Mutation{model.InsertMut(data)})
	require.NoError(t, err, "failed to insert test product")

	return product.ID
}

// CreateParamsFixture returns minimal valid creation params with the given slug.
func CreateParamsFixture(slug string) domain.CreateParams {
	return domain.CreateParams{
		Slug:     slug,
		SellerID: "seller-test",
		Name:     "Test Product",
		Price:    1000,
		Quantity: 10,
		Status:   domain.StatusActive,
	}
}
