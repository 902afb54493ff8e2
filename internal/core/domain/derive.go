package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// A Page is the visible slice of the derived product list.
type Page struct {
	Items       []Product
	TotalItems  int
	TotalPages  int
	CurrentPage int
	PageSize    int
}

func (p Page) Empty() bool {
	return p.TotalItems == 0
}

func (p Page) HasPrev() bool {
	return p.CurrentPage > 1
}

func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Derive filters products by search term, category, price ceiling and
// minimum rating, then stable-sorts them by price.
//
// Products with equal price keep their catalog order in both directions.
func Derive(products []Product, f FilterState) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matchSearch(p) {
			result = append(result, p)
		}
	}

	result = slices.DeleteFunc(result, func(p Product) bool {
		return !f.matchCategory(p)
	})

	result = slices.DeleteFunc(result, func(p Product) bool {
		return !f.matchPrice(p)
	})

	result = slices.DeleteFunc(result, func(p Product) bool {
		return !f.matchRating(p)
	})

	slices.SortStableFunc(result, func(a, b Product) int {
		if f.Sort == SortDesc {
			return b.Price.Cmp(a.Price)
		}
		return a.Price.Cmp(b.Price)
	})

	return result
}

// Paginate returns the page of items selected by p. The current page
// is clamped to the available range first.
func Paginate(items []Product, p PaginationState) Page {
	p = p.Clamp(len(items))
	total := TotalPages(len(items), p.PageSize)

	start := min((p.CurrentPage-1)*p.PageSize, len(items))
	end := min(start+p.PageSize, len(items))

	return Page{
		Items:       slices.Clone(items[start:end]),
		TotalItems:  len(items),
		TotalPages:  total,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
	}
}

// PriceRange returns the lowest and highest price in products.
func PriceRange(products []Product) (lo, hi decimal.Decimal) {
	for i, p := range products {
		if i == 0 || p.Price.LessThan(lo) {
			lo = p.Price
		}
		if i == 0 || p.Price.GreaterThan(hi) {
			hi = p.Price
		}
	}
	return lo, hi
}
