package m_product

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/product-store/internal/app/product/domain"
)

// Data represents one row of the products table.
type Data struct {
	ProductID         string           `spanner:"product_id"`
	Slug              string           `spanner:"slug"`
	SellerID          string           `spanner:"seller_id"`
	Name              string           `spanner:"name"`
	Description       string           `spanner:"description"`
	ShortDescription  string           `spanner:"short_description"`
	Price             int64            `spanner:"price"`
	CompareAtPrice    int64            `spanner:"compare_at_price"`
	Cost              int64            `spanner:"cost"`
	SKU               string           `spanner:"sku"`
	Barcode           string           `spanner:"barcode"`
	Quantity          int64            `spanner:"quantity"`
	LowStockThreshold int64            `spanner:"low_stock_threshold"`
	Weight            float64          `spanner:"weight"`
	WeightUnit        string           `spanner:"weight_unit"`
	Dimensions        spanner.NullJSON `spanner:"dimensions"`
	Category          string           `spanner:"category"`
	CategorySlug      string           `spanner:"category_slug"`
	Tags              []string         `spanner:"tags"`
	Status            string           `spanner:"status"`
	IsFeatured        bool             `spanner:"is_featured"`
	Images            []string         `spanner:"images"`
	Videos            []string         `spanner:"videos"`
	CreatedAt         time.Time        `spanner:"created_at"`
	UpdatedAt         time.Time        `spanner:"updated_at"`
	Version           int64            `spanner:"version"`
}

// FromDomain converts a domain record to row data.
func FromDomain(p *domain.Product) (*Data, error) {
	data := &Data{
		ProductID:         p.ID,
		Slug:              p.Slug,
		SellerID:          p.SellerID,
		Name:              p.Name,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		Cost:              p.Cost,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		Weight:            p.Weight,
		WeightUnit:        p.WeightUnit,
		Category:          p.Category,
		CategorySlug:      p.CategorySlug,
		Tags:              p.Tags,
		Status:            string(p.Status),
		IsFeatured:        p.IsFeatured,
		Images:            p.Images,
		Videos:            p.Videos,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}

	if p.Dimensions != nil {
		data.Dimensions = spanner.NullJSON{Value: p.Dimensions, Valid: true}
	}

	return data, nil
}

// ToDomain converts row data back to a domain record.
func (d *Data) ToDomain() (*domain.Product, error) {
	p := &domain.Product{
		ID:                d.ProductID,
		Slug:              d.Slug,
		SellerID:          d.SellerID,
		Name:              d.Name,
		Description:       d.Description,
		ShortDescription:  d.ShortDescription,
		Price:             d.Price,
		CompareAtPrice:    d.CompareAtPrice,
		Cost:              d.Cost,
		SKU:               d.SKU,
		Barcode:           d.Barcode,
		Quantity:          d.Quantity,
		LowStockThreshold: d.LowStockThreshold,
		Weight:            d.Weight,
		WeightUnit:        d.WeightUnit,
		Category:          d.Category,
		CategorySlug:      d.CategorySlug,
		Tags:              d.Tags,
		Status:            domain.Status(d.Status),
		IsFeatured:        d.IsFeatured,
		Images:            d.Images,
		Videos:            d.Videos,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}

	if d.Tags == nil {
		p.Tags = []string{}
	}
	if d.Images == nil {
		p.Images = []string{}
	}
	if d.Videos == nil {
		p.Videos = []string{}
	}

	if d.Dimensions.Valid {
		raw, err := d.Dimensions.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("invalid dimensions json: %w", err)
		}
		var dims domain.Dimensions
		if err := json.Unmarshal(raw, &dims); err != nil {
			return nil, fmt.Errorf("invalid dimensions json: %w", err)
		}
		p.Dimensions = &dims
	}

	return p, nil
}
