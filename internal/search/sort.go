package search

import (
	"fmt"
	"sort"

	"swissprop/server/internal/models"
	"swissprop/server/internal/pricing"
)

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortSizeAsc   SortOrder = "size_asc"
	SortSizeDesc  SortOrder = "size_desc"
)

// DefaultPageSize is the number of listings per result page.
const DefaultPageSize = 5

// ParseSortOrder maps a query value to a SortOrder. Empty means SortPriceAsc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortPriceAsc, nil
	case SortPriceAsc, SortPriceDesc, SortSizeAsc, SortSizeDesc:
		return SortOrder(s), nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// SortProperties orders records in place. The sort is stable so listings
// with equal keys keep their extraction order; unpriced listings sort last
// ascending and first descending.
func SortProperties(records []models.PropertyRecord, order SortOrder) {
	switch order {
	case SortPriceDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return pricing.ParsePrice(records[i].Price) > pricing.ParsePrice(records[j].Price)
		})
	case SortSizeAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return pricing.ParseSize(records[i].Size) < pricing.ParseSize(records[j].Size)
		})
	case SortSizeDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return pricing.ParseSize(records[i].Size) > pricing.ParseSize(records[j].Size)
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return pricing.ParsePrice(records[i].Price) < pricing.ParsePrice(records[j].Price)
		})
	}
}

// Page is one slice of a result list.
type Page struct {
	Properties []models.PropertyRecord `json:"properties"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	TotalPages int                     `json:"total_pages"`
	Total      int                     `json:"total"`
}

// Paginate returns page (1-based) of records. Out-of-range pages are clamped
// to the nearest valid page.
func Paginate(records []models.PropertyRecord, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	items := make([]models.PropertyRecord, 0, end-start)
	if start < end {
		items = append(items, records[start:end]...)
	}
	return Page{
		Properties: items,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}
}
