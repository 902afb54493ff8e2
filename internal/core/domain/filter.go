package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortAsc, SortDesc:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

const maxRating = 5

// PriceBounds is the configured range the price ceiling may take.
type PriceBounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (b PriceBounds) Clamp(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(b.Min) {
		return b.Min
	}
	if v.GreaterThan(b.Max) {
		return b.Max
	}
	return v
}

type FilterState struct {
	SearchTerm   string          `json:"search_term"`
	Category     string          `json:"category"`
	PriceCeiling decimal.Decimal `json:"price_ceiling"`
	Sort         SortOrder       `json:"sort"`
	MinRating    float64         `json:"min_rating"`
}

// A FilterUpdate holds the filter fields to change. Nil fields are kept.
type FilterUpdate struct {
	SearchTerm   *string
	Category     *string
	PriceCeiling *decimal.Decimal
	Sort         *SortOrder
	MinRating    *float64
}

func (u FilterUpdate) Empty() bool {
	return u.SearchTerm == nil && u.Category == nil &&
		u.PriceCeiling == nil && u.Sort == nil && u.MinRating == nil
}

var filterMessages = messages{
	"category":     "Unknown category",
	"sort":         "Sort must be asc or desc",
	"minRating":    "Minimum rating must be between 0 and 5",
	"priceCeiling": "Price must not be negative",
}

// Validate checks the fields present in u. A category must be empty,
// "all" or one of the categories of c.
func (u FilterUpdate) Validate(c Catalog) error {
	fields := make(FieldErrors)
	if u.Category != nil {
		filterMessages.check(fields, "category", *u.Category, categoryTag(c))
	}
	if u.Sort != nil {
		filterMessages.check(fields, "sort", string(*u.Sort), "oneof=asc desc")
	}
	if u.MinRating != nil {
		filterMessages.check(fields, "minRating", *u.MinRating, "gte=0,lte=5")
	}
	if u.PriceCeiling != nil {
		filterMessages.check(fields, "priceCeiling", *u.PriceCeiling, "gte=0")
	}
	return validationError(fields)
}

func categoryTag(c Catalog) string {
	cats := append([]string{CategoryAll}, c.Categories()...)
	for i, cat := range cats {
		cats[i] = "'" + cat + "'"
	}
	return "omitempty,oneof=" + strings.Join(cats, " ")
}

func DefaultFilters(b PriceBounds) FilterState {
	return FilterState{
		Category:     CategoryAll,
		PriceCeiling: b.Max,
		Sort:         SortAsc,
	}
}

func (f FilterState) WithSearchTerm(term string) FilterState {
	f.SearchTerm = term
	return f
}

func (f FilterState) WithCategory(category string) FilterState {
	if category == "" {
		category = CategoryAll
	}
	f.Category = category
	return f
}

// WithPriceCeiling sets the ceiling clamped into b.
func (f FilterState) WithPriceCeiling(v decimal.Decimal, b PriceBounds) FilterState {
	f.PriceCeiling = b.Clamp(v)
	return f
}

func (f FilterState) WithSort(o SortOrder) FilterState {
	f.Sort = o
	return f
}

func (f FilterState) WithMinRating(r float64) FilterState {
	f.MinRating = min(max(r, 0), maxRating)
	return f
}

// Apply applies every non-nil field of u.
func (f FilterState) Apply(u FilterUpdate, b PriceBounds) FilterState {
	if u.SearchTerm != nil {
		f = f.WithSearchTerm(*u.SearchTerm)
	}
	if u.Category != nil {
		f = f.WithCategory(*u.Category)
	}
	if u.PriceCeiling != nil {
		f = f.WithPriceCeiling(*u.PriceCeiling, b)
	}
	if u.Sort != nil {
		f = f.WithSort(*u.Sort)
	}
	if u.MinRating != nil {
		f = f.WithMinRating(*u.MinRating)
	}
	return f
}

// Normalize repairs a state read from outside, e.g. persisted storage.
func (f FilterState) Normalize(b PriceBounds) FilterState {
	f = f.WithCategory(f.Category)
	f.PriceCeiling = b.Clamp(f.PriceCeiling)
	if _, err := ParseSortOrder(string(f.Sort)); err != nil {
		f.Sort = SortAsc
	}
	return f.WithMinRating(f.MinRating)
}

func (f FilterState) ActiveCount(b PriceBounds) int {
	var n int
	if f.SearchTerm != "" {
		n++
	}
	if f.Category != CategoryAll {
		n++
	}
	if !f.PriceCeiling.Equal(b.Max) {
		n++
	}
	if f.Sort != SortAsc {
		n++
	}
	if f.MinRating != 0 {
		n++
	}
	return n
}

func (f FilterState) IsActive(b PriceBounds) bool {
	return f.ActiveCount(b) != 0
}

func (f FilterState) matchSearch(p Product) bool {
	if f.SearchTerm == "" {
		return true
	}
	term := strings.ToLower(f.SearchTerm)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func (f FilterState) matchCategory(p Product) bool {
	return f.Category == CategoryAll || p.Category == f.Category
}

func (f FilterState) matchPrice(p Product) bool {
	return !p.Price.IsNegative() && p.Price.LessThanOrEqual(f.PriceCeiling)
}

func (f FilterState) matchRating(p Product) bool {
	return p.Rating >= f.MinRating
}

// Matches reports whether p satisfies every active predicate.
func (f FilterState) Matches(p Product) bool {
	return f.matchSearch(p) && f.matchCategory(p) &&
		f.matchPrice(p) && f.matchRating(p)
}
