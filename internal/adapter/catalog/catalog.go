// Package catalog holds the built-in product list and seed reviews.
package catalog

import (
	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/shopspring/decimal"
)

const imageParams = "?w=300&h=300&fit=crop&q=80"

func image(photo string) string {
	return "https://images.unsplash.com/" + photo + imageParams
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Products returns a fresh copy of the built-in catalog.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:          1,
			Name:        "Wireless Headphones",
			Price:       price("79.99"),
			Category:    "Electronics",
			Image:       image("photo-1505740420928-5e560c06d30e"),
			Description: "High-quality wireless headphones with noise cancellation and 30-hour battery life.",
			Rating:      4.5,
		},
		{
			ID:          2,
			Name:        "Smart Watch",
			Price:       price("199.99"),
			Category:    "Electronics",
			Image:       image("photo-1523275335684-37898b6baf30"),
			Description: "Feature-rich smartwatch with fitness tracking and heart rate monitor.",
			Rating:      4.3,
		},
		{
			ID:          3,
			Name:        "Running Shoes",
			Price:       price("89.99"),
			Category:    "Footwear",
			Image:       image("photo-1542291026-7eec264c27ff"),
			Description: "Comfortable running shoes with advanced cushioning technology.",
			Rating:      4.6,
		},
		{
			ID:          4,
			Name:        "Yoga Mat",
			Price:       price("29.99"),
			Category:    "Sports",
			Image:       image("photo-1601925260368-ae2f83cf8b7f"),
			Description: "Non-slip yoga mat perfect for all fitness levels.",
			Rating:      4.4,
		},
		{
			ID:          5,
			Name:        "Backpack",
			Price:       price("49.99"),
			Category:    "Accessories",
			Image:       image("photo-1553062407-98eeb64c6a62"),
			Description: "Durable and spacious backpack for travel and daily use.",
			Rating:      4.2,
		},
		{
			ID:          6,
			Name:        "Portable Speaker",
			Price:       price("59.99"),
			Category:    "Electronics",
			Image:       image("photo-1608043152269-423dbba4e7e1"),
			Description: "Waterproof portable speaker with 360-degree sound.",
			Rating:      4.7,
		},
		{
			ID:          7,
			Name:        "Winter Jacket",
			Price:       price("129.99"),
			Category:    "Clothing",
			Image:       image("photo-1551028719-00167b16ebc5"),
			Description: "Warm and stylish winter jacket with water-resistant material.",
			Rating:      4.5,
		},
		{
			ID:          8,
			Name:        "Sunglasses",
			Price:       price("99.99"),
			Category:    "Accessories",
			Image:       image("photo-1572635196237-14b3f281503f"),
			Description: "UV-protective sunglasses with premium lens quality.",
			Rating:      4.3,
		},
	}
}

func Catalog() domain.Catalog {
	return domain.NewCatalog(Products())
}

func Reviews() []domain.Review {
	return []domain.Review{
		{ID: 1, ProductID: 1, Rating: 5, Text: "Excellent product!", Author: "John Doe", Date: "2024-01-15"},
		{ID: 2, ProductID: 1, Rating: 4, Text: "Good quality", Author: "Jane Smith", Date: "2024-01-10"},
		{ID: 3, ProductID: 2, Rating: 5, Text: "Amazing!", Author: "Bob Johnson", Date: "2024-01-12"},
	}
}
