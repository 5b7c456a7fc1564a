package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a product.
// Plain Insert, not InsertOrUpdate: creation must never overwrite an
// existing row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.ProductID,
			data.Slug,
			data.SellerID,
			data.Name,
			data.Description,
			data.ShortDescription,
			data.Price,
			data.CompareAtPrice,
			data.Cost,
			data.SKU,
			data.Barcode,
			data.Quantity,
			data.LowStockThreshold,
			data.Weight,
			data.WeightUnit,
			data.Dimensions,
			data.Category,
			data.CategorySlug,
			data.Tags,
			data.Status,
			data.IsFeatured,
			data.Images,
			data.Videos,
			data.CreatedAt,
			data.UpdatedAt,
			data.Version,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific product fields.
// The updates map contains column names as keys and new values.
func (m *Model) UpdateMut(productID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, ProductID)
	values = append(values, productID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a product (hard delete).
func (m *Model) DeleteMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
