package domain_test

import (
	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wireless Headphones", Price: price("79.99"), Category: "Electronics", Description: "Noise cancellation and 30-hour battery life.", Rating: 4.5},
		{ID: 2, Name: "Smart Watch", Price: price("199.99"), Category: "Electronics", Description: "Fitness tracking and heart rate monitor.", Rating: 4.3},
		{ID: 3, Name: "Running Shoes", Price: price("89.99"), Category: "Footwear", Description: "Advanced cushioning technology.", Rating: 4.6},
		{ID: 4, Name: "Yoga Mat", Price: price("29.99"), Category: "Sports", Description: "Non-slip mat for all fitness levels.", Rating: 4.4},
	}
}

func testBounds() domain.PriceBounds {
	return domain.PriceBounds{Min: decimal.Zero, Max: price("300")}
}
