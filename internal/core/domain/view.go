package domain

import "github.com/shopspring/decimal"

// CatalogView is everything the catalog root renders.
type CatalogView struct {
	Page        Page
	PageWindow  []int
	PageSizes   []int
	Categories  []string
	Filters     FilterState
	ActiveCount int
	PriceBounds PriceBounds
}

type ProductDetail struct {
	Product      Product
	Reviews      ReviewSummary
	InCart       bool
	InWishlist   bool
	InComparison bool
}

type ProductReviews struct {
	Reviews []Review
	Summary ReviewSummary
}

type CheckoutView struct {
	Status CheckoutStatus
	Cart   Cart
	Order  *Order
}

func (v CheckoutView) Total() decimal.Decimal {
	if v.Order != nil {
		return v.Order.Total
	}
	return v.Cart.Total()
}
