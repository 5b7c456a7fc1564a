package domain

// Patch is a typed partial update of a product record. A nil field means
// "no change". Identity and store-owned fields (id, sellerId, createdAt,
// updatedAt, version) are deliberately absent; unknown fields are rejected
// at the decoding boundary.
type Patch struct {
	Slug              *string     `json:"slug,omitempty"              validate:"omitempty,max=200"`
	Name              *string     `json:"name,omitempty"              validate:"omitempty,max=500"`
	Description       *string     `json:"description,omitempty"`
	ShortDescription  *string     `json:"shortDescription,omitempty"  validate:"omitempty,max=1000"`
	Price             *int64      `json:"price,omitempty"             validate:"omitempty,min=0"`
	CompareAtPrice    *int64      `json:"compareAtPrice,omitempty"    validate:"omitempty,min=0"`
	Cost              *int64      `json:"cost,omitempty"              validate:"omitempty,min=0"`
	SKU               *string     `json:"sku,omitempty"`
	Barcode           *string     `json:"barcode,omitempty"`
	Quantity          *int64      `json:"quantity,omitempty"          validate:"omitempty,min=0"`
	LowStockThreshold *int64      `json:"lowStockThreshold,omitempty"`
	Weight            *float64    `json:"weight,omitempty"            validate:"omitempty,min=0"`
	WeightUnit        *string     `json:"weightUnit,omitempty"`
	Dimensions        *Dimensions `json:"dimensions,omitempty"`
	Category          *string     `json:"category,omitempty"`
	CategorySlug      *string     `json:"categorySlug,omitempty"`
	Tags              []string    `json:"tags,omitempty"`
	Status            *Status     `json:"status,omitempty"            validate:"omitempty,oneof=draft active archived"`
	IsFeatured        *bool       `json:"isFeatured,omitempty"`
	Images            []string    `json:"images,omitempty"`
	Videos            []string    `json:"videos,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Slug == nil &&
		p.Name == nil &&
		p.Description == nil &&
		p.ShortDescription == nil &&
		p.Price == nil &&
		p.CompareAtPrice == nil &&
		p.Cost == nil &&
		p.SKU == nil &&
		p.Barcode == nil &&
		p.Quantity == nil &&
		p.LowStockThreshold == nil &&
		p.Weight == nil &&
		p.WeightUnit == nil &&
		p.Dimensions == nil &&
		p.Category == nil &&
		p.CategorySlug == nil &&
		p.Tags == nil &&
		p.Status == nil &&
		p.IsFeatured == nil &&
		p.Images == nil &&
		p.Videos == nil
}

// ApplyTo merges the patch into prod, field by field. The caller bumps
// version and updatedAt afterwards.
func (p *Patch) ApplyTo(prod *Product) {
	if p.Slug != nil {
		prod.Slug = *p.Slug
	}
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.ShortDescription != nil {
		prod.ShortDescription = *p.ShortDescription
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.CompareAtPrice != nil {
		prod.CompareAtPrice = *p.CompareAtPrice
	}
	if p.Cost != nil {
		prod.Cost = *p.Cost
	}
	if p.SKU != nil {
		prod.SKU = *p.SKU
	}
	if p.Barcode != nil {
		prod.Barcode = *p.Barcode
	}
	if p.Quantity != nil {
		prod.Quantity = *p.Quantity
	}
	if p.LowStockThreshold != nil {
		prod.LowStockThreshold = *p.LowStockThreshold
	}
	if p.Weight != nil {
		prod.Weight = *p.Weight
	}
	if p.WeightUnit != nil {
		prod.WeightUnit = *p.WeightUnit
	}
	if p.Dimensions != nil {
		prod.Dimensions = p.Dimensions
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.CategorySlug != nil {
		prod.CategorySlug = *p.CategorySlug
	}
	if p.Tags != nil {
		prod.Tags = p.Tags
	}
	if p.Status != nil {
		prod.Status = *p.Status
	}
	if p.IsFeatured != nil {
		prod.IsFeatured = *p.IsFeatured
	}
	if p.Images != nil {
		prod.Images = p.Images
	}
	if p.Videos != nil {
		prod.Videos = p.Videos
	}
}

// ArchivePatch returns the patch used for soft deletion.
func ArchivePatch() Patch {
	archived := StatusArchived
	return Patch{Status: &archived}
}
