package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("products").
		Select("product_id", "slug", "name").
		Build()

	assert.Equal(t, "SELECT product_id, slug, name FROM products", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("products").Build()

	assert.Equal(t, "SELECT * FROM products", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SingleWhereCondition(t *testing.T) {
	stmt := From("products").
		Select("product_id", "name").
		Where(Eq("category", "mugs")).
		Build()

	assert.Equal(t, "SELECT product_id, name FROM products WHERE category = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "mugs",
	}, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	stmt := From("products").
		Select("product_id", "name").
		Where(Eq("category", "mugs")).
		Where(Eq("status", "active")).
		Where(Eq("is_featured", true)).
		Build()

	assert.Equal(t, "SELECT product_id, name FROM products WHERE category = @p0 AND status = @p1 AND is_featured = @p2", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "mugs",
		"p1": "active",
		"p2": true,
	}, stmt.Params)
}

func TestBuilder_InCondition(t *testing.T) {
	ids := []string{"id-1", "id-2", "id-3"}
	stmt := From("products").
		Select("product_id").
		Where(In("product_id", ids)).
		Build()

	assert.Equal(t, "SELECT product_id FROM products WHERE product_id IN UNNEST(@p0)", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": ids,
	}, stmt.Params)
}

func TestBuilder_InCombinedWithEq(t *testing.T) {
	stmt := From("products").
		Select("product_id").
		Where(Eq("status", "active")).
		Where(In("product_id", []string{"a", "b"})).
		Build()

	assert.Equal(t, "SELECT product_id FROM products WHERE status = @p0 AND product_id IN UNNEST(@p1)", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "active",
		"p1": []string{"a", "b"},
	}, stmt.Params)
}

func TestBuilder_OrderByDesc(t *testing.T) {
	stmt := From("products").
		Select("product_id", "name").
		OrderBy("created_at", Desc).
		Build()

	assert.Equal(t, "SELECT product_id, name FROM products ORDER BY created_at DESC", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_LimitAndOffset(t *testing.T) {
	stmt := From("products").
		Select("product_id").
		Limit(50).
		Offset(100).
		Build()

	assert.Equal(t, "SELECT product_id FROM products LIMIT @limit OFFSET @offset", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"limit":  int64(50),
		"offset": int64(100),
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	stmt := From("products").
		Select("product_id", "name").
		Where(Eq("seller_id", "seller-1")).
		OrderBy("created_at", Desc).
		Limit(50).
		Offset(10).
		Count().
		Build()

	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE seller_id = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "seller-1",
	}, stmt.Params)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("products").Select("product_id").Where(Eq("status", "active"))

	withLimit := base.Limit(10)
	withCount := base.Count()

	assert.Equal(t, "SELECT product_id FROM products WHERE status = @p0", base.Build().SQL)
	assert.Equal(t, "SELECT product_id FROM products WHERE status = @p0 LIMIT @limit", withLimit.Build().SQL)
	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE status = @p0", withCount.Build().SQL)
}
