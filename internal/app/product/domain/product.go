package domain

import (
	"time"
)

// Status represents the lifecycle status of a product record.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// Dimensions holds physical shipping dimensions of a product.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// Product is a single catalog product record.
//
// ID is assigned by the store at creation and never changes. Version starts
// at 1 and is incremented by exactly one on every successful mutation; it is
// the only concurrency-control token. All monetary amounts are integer minor
// units of the seller's currency.
type Product struct {
	ID                string      `json:"id"`
	Slug              string      `json:"slug"`
	SellerID          string      `json:"sellerId"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	ShortDescription  string      `json:"shortDescription"`
	Price             int64       `json:"price"`
	CompareAtPrice    int64       `json:"compareAtPrice"`
	Cost              int64       `json:"cost"`
	SKU               string      `json:"sku"`
	Barcode           string      `json:"barcode"`
	Quantity          int64       `json:"quantity"`
	LowStockThreshold int64       `json:"lowStockThreshold"`
	Weight            float64     `json:"weight"`
	WeightUnit        string      `json:"weightUnit"`
	Dimensions        *Dimensions `json:"dimensions,omitempty"`
	Category          string      `json:"category"`
	CategorySlug      string      `json:"categorySlug"`
	Tags              []string    `json:"tags"`
	Status            Status      `json:"status"`
	IsFeatured        bool        `json:"isFeatured"`
	Images            []string    `json:"images"`
	Videos            []string    `json:"videos"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	Version           int64       `json:"version"`
}

// CreateParams is the caller-supplied payload for creating a product.
// Slug and SellerID are required; everything else defaults (quantity 0,
// status draft, empty tag/media sequences).
type CreateParams struct {
	Slug              string      `json:"slug"              validate:"required,max=200"`
	SellerID          string      `json:"sellerId"          validate:"required"`
	Name              string      `json:"name"              validate:"max=500"`
	Description       string      `json:"description"`
	ShortDescription  string      `json:"shortDescription"  validate:"max=1000"`
	Price             int64       `json:"price"             validate:"min=0"`
	CompareAtPrice    int64       `json:"compareAtPrice"    validate:"min=0"`
	Cost              int64       `json:"cost"              validate:"min=0"`
	SKU               string      `json:"sku"`
	Barcode           string      `json:"barcode"`
	Quantity          int64       `json:"quantity"          validate:"min=0"`
	LowStockThreshold int64       `json:"lowStockThreshold"`
	Weight            float64     `json:"weight"            validate:"min=0"`
	WeightUnit        string      `json:"weightUnit"`
	Dimensions        *Dimensions `json:"dimensions,omitempty"`
	Category          string      `json:"category"`
	CategorySlug      string      `json:"categorySlug"`
	Tags              []string    `json:"tags"`
	Status            Status      `json:"status"            validate:"omitempty,oneof=draft active archived"`
	IsFeatured        bool        `json:"isFeatured"`
	Images            []string    `json:"images"`
	Videos            []string    `json:"videos"`
}

// NewProduct builds a fully populated record from creation params.
// The caller supplies the assigned id and creation time; the store owns both.
func NewProduct(id string, params CreateParams, now time.Time) *Product {
	status := params.Status
	if status == "" {
		status = StatusDraft
	}

	return &Product{
		ID:                id,
		Slug:              params.Slug,
		SellerID:          params.SellerID,
		Name:              params.Name,
		Description:       params.Description,
		ShortDescription:  params.ShortDescription,
		Price:             params.Price,
		CompareAtPrice:    params.CompareAtPrice,
		Cost:              params.Cost,
		SKU:               params.SKU,
		Barcode:           params.Barcode,
		Quantity:          params.Quantity,
		LowStockThreshold: params.LowStockThreshold,
		Weight:            params.Weight,
		WeightUnit:        params.WeightUnit,
		Dimensions:        params.Dimensions,
		Category:          params.Category,
		CategorySlug:      params.CategorySlug,
		Tags:              emptyIfNil(params.Tags),
		Status:            status,
		IsFeatured:        params.IsFeatured,
		Images:            emptyIfNil(params.Images),
		Videos:            emptyIfNil(params.Videos),
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
