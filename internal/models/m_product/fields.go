package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID         = "product_id"
	Slug              = "slug"
	SellerID          = "seller_id"
	Name              = "name"
	Description       = "description"
	ShortDescription  = "short_description"
	Price             = "price"
	CompareAtPrice    = "compare_at_price"
	Cost              = "cost"
	SKU               = "sku"
	Barcode           = "barcode"
	Quantity          = "quantity"
	LowStockThreshold = "low_stock_threshold"
	Weight            = "weight"
	WeightUnit        = "weight_unit"
	DimensionsJSON    = "dimensions"
	Category          = "category"
	CategorySlug      = "category_slug"
	Tags              = "tags"
	Status            = "status"
	IsFeatured        = "is_featured"
	Images            = "images"
	Videos            = "videos"
	CreatedAt         = "created_at"
	UpdatedAt         = "updated_at"
	Version           = "version"
)

// AllColumns lists every column of the products table in DDL order.
// Reads that reconstruct a full record select exactly this set.
var AllColumns = []string{
	ProductID,
	Slug,
	SellerID,
	Name,
	Description,
	ShortDescription,
	Price,
	CompareAtPrice,
	Cost,
	SKU,
	Barcode,
	Quantity,
	LowStockThreshold,
	Weight,
	WeightUnit,
	DimensionsJSON,
	Category,
	CategorySlug,
	Tags,
	Status,
	IsFeatured,
	Images,
	Videos,
	CreatedAt,
	UpdatedAt,
	Version,
}
