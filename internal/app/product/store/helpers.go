package store

import (
	"strings"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/product-store/internal/app/product/contracts"
	"github.com/light-bringer/product-store/internal/app/product/domain"
	"github.com/light-bringer/product-store/internal/models/m_product"
)

// patchUpdates converts a patch into the column map for an update
// mutation. Only patched fields appear; version and updated_at are the
// caller's responsibility since batch writes do not bump version.
func patchUpdates(p domain.Patch) map[string]interface{} {
	updates := make(map[string]interface{})

	if p.Slug != nil {
		updates[m_product.Slug] = *p.Slug
	}
	if p.Name != nil {
		updates[m_product.Name] = *p.Name
	}
	if p.Description != nil {
		updates[m_product.Description] = *p.Description
	}
	if p.ShortDescription != nil {
		updates[m_product.ShortDescription] = *p.ShortDescription
	}
	if p.Price != nil {
		updates[m_product.Price] = *p.Price
	}
	if p.CompareAtPrice != nil {
		updates[m_product.CompareAtPrice] = *p.CompareAtPrice
	}
	if p.Cost != nil {
		updates[m_product.Cost] = *p.Cost
	}
	if p.SKU != nil {
		updates[m_product.SKU] = *p.SKU
	}
	if p.Barcode != nil {
		updates[m_product.Barcode] = *p.Barcode
	}
	if p.Quantity != nil {
		updates[m_product.Quantity] = *p.Quantity
	}
	if p.LowStockThreshold != nil {
		updates[m_product.LowStockThreshold] = *p.LowStockThreshold
	}
	if p.Weight != nil {
		updates[m_product.Weight] = *p.Weight
	}
	if p.WeightUnit != nil {
		updates[m_product.WeightUnit] = *p.WeightUnit
	}
	if p.Dimensions != nil {
		updates[m_product.DimensionsJSON] = spanner.NullJSON{Value: p.Dimensions, Valid: true}
	}
	if p.Category != nil {
		updates[m_product.Category] = *p.Category
	}
	if p.CategorySlug != nil {
		updates[m_product.CategorySlug] = *p.CategorySlug
	}
	if p.Tags != nil {
		updates[m_product.Tags] = p.Tags
	}
	if p.Status != nil {
		updates[m_product.Status] = string(*p.Status)
	}
	if p.IsFeatured != nil {
		updates[m_product.IsFeatured] = *p.IsFeatured
	}
	if p.Images != nil {
		updates[m_product.Images] = p.Images
	}
	if p.Videos != nil {
		updates[m_product.Videos] = p.Videos
	}

	return updates
}

// chunkIDs partitions ids into consecutive chunks of at most size.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// dedupe removes duplicate ids, preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// applyMemoryFilters evaluates the non-pushdown predicates (price range,
// tag membership) over an already-fetched page. Matching is page-local.
func applyMemoryFilters(products []*domain.Product, f contracts.Filter) []*domain.Product {
	if !f.HasInMemory() {
		return products
	}

	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(p.Tags, f.Tags) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// hasAnyTag reports whether any requested tag is present on the record.
func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// matchesQuery reports whether q is a case-insensitive substring of the
// record's name, description, any tag, or its sku.
func matchesQuery(p *domain.Product, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}

	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.SKU), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
