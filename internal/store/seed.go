package store

import (
	"context"
	"fmt"

	"mobile-store/internal/models"

	"github.com/shopspring/decimal"
)

func price(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

var seedProducts = []models.Product{
	{Name: "iPhone 15 Pro", Brand: "Apple", Model: "iPhone 15 Pro", Price: price(999), Storage: "128GB", Color: "Natural Titanium", ImageURL: "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=500", Description: "Latest iPhone with A17 Pro chip, titanium design, and advanced camera system.", Stock: 50},
	{Name: "iPhone 15 Pro", Brand: "Apple", Model: "iPhone 15 Pro", Price: price(1099), Storage: "256GB", Color: "Natural Titanium", ImageURL: "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=500", Description: "Latest iPhone with A17 Pro chip, titanium design, and advanced camera system.", Stock: 30},
	{Name: "iPhone 15", Brand: "Apple", Model: "iPhone 15", Price: price(799), Storage: "128GB", Color: "Blue", ImageURL: "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=500", Description: "iPhone 15 with A16 Bionic chip and Dynamic Island.", Stock: 40},
	{Name: "iPhone 14", Brand: "Apple", Model: "iPhone 14", Price: price(699), Storage: "128GB", Color: "Purple", ImageURL: "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=500", Description: "iPhone 14 with A15 Bionic chip and improved cameras.", Stock: 35},
	{Name: "Samsung Galaxy S24 Ultra", Brand: "Samsung", Model: "Galaxy S24 Ultra", Price: price(1199), Storage: "256GB", Color: "Titanium Black", ImageURL: "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?w=500", Description: "Flagship Samsung phone with S Pen, 200MP camera, and Snapdragon 8 Gen 3.", Stock: 25},
	{Name: "Samsung Galaxy S24", Brand: "Samsung", Model: "Galaxy S24", Price: price(799), Storage: "128GB", Color: "Onyx Black", ImageURL: "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?w=500", Description: "Compact flagship with Galaxy AI features.", Stock: 45},
	{Name: "Samsung Galaxy A54", Brand: "Samsung", Model: "Galaxy A54", Price: price(449), Storage: "128GB", Color: "Awesome Violet", ImageURL: "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?w=500", Description: "Mid-range phone with 120Hz AMOLED display.", Stock: 60},
	{Name: "Google Pixel 8 Pro", Brand: "Google", Model: "Pixel 8 Pro", Price: price(999), Storage: "128GB", Color: "Obsidian", ImageURL: "https://images.unsplash.com/photo-1598327105666-5b89351aff97?w=500", Description: "Google's flagship with Tensor G3 and advanced AI photography.", Stock: 30},
	{Name: "Google Pixel 8", Brand: "Google", Model: "Pixel 8", Price: price(699), Storage: "128GB", Color: "Hazel", ImageURL: "https://images.unsplash.com/photo-1598327105666-5b89351aff97?w=500", Description: "Compact Pixel with 7 years of OS updates.", Stock: 40},
	{Name: "OnePlus 12", Brand: "OnePlus", Model: "OnePlus 12", Price: price(799), Storage: "256GB", Color: "Flowy Emerald", ImageURL: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=500", Description: "Flagship killer with Snapdragon 8 Gen 3 and 100W charging.", Stock: 35},
	{Name: "Xiaomi 14", Brand: "Xiaomi", Model: "Xiaomi 14", Price: price(899), Storage: "256GB", Color: "Jade Green", ImageURL: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=500", Description: "Leica optics and Snapdragon 8 Gen 3 in a compact body.", Stock: 20},
	{Name: "Nothing Phone (2)", Brand: "Nothing", Model: "Phone (2)", Price: price(599), Storage: "256GB", Color: "White", ImageURL: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=500", Description: "Transparent design with the Glyph interface.", Stock: 25},
}

// Seed populates the catalog when the products table is empty.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products"); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range seedProducts {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (name, brand, model, price, storage, color, image_url, description, stock)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Brand, p.Model, p.Price, p.Storage, p.Color, p.ImageURL, p.Description, p.Stock)
		if err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}
	return nil
}
