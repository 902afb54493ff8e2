package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CategoryAll bypasses the category predicate.
const CategoryAll = "all"

type (
	Product struct {
		ID          int
		Name        string
		Price       decimal.Decimal
		Category    string
		Image       string
		Description string
		Rating      float64
	}

	// A ProductSnapshot is a copy of the product fields embedded
	// in cart lines, wishlist and comparison entries.
	ProductSnapshot struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Category    string          `json:"category"`
		Image       string          `json:"image"`
		Description string          `json:"description"`
		Rating      float64         `json:"rating"`
	}
)

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		Rating:      p.Rating,
	}
}

// A Catalog is the immutable list of purchasable products.
type Catalog struct {
	products []Product
}

func NewCatalog(products []Product) Catalog {
	return Catalog{products: slices.Clone(products)}
}

// Products returns a copy of the catalog in its original order.
func (c Catalog) Products() []Product {
	return slices.Clone(c.products)
}

func (c Catalog) Len() int {
	return len(c.products)
}

func (c Catalog) Product(id int) (Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// Categories returns the distinct categories present in the catalog
// in lexicographical order.
func (c Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c.products))
	var cats []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	slices.Sort(cats)
	return cats
}

// HasCategory reports whether category is "all" or present in the catalog.
func (c Catalog) HasCategory(category string) bool {
	if category == CategoryAll {
		return true
	}
	for _, p := range c.products {
		if p.Category == category {
			return true
		}
	}
	return false
}
