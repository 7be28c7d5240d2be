// Package catalog provides the static, read-only shop registry.
package catalog

import (
	"spending-wallet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Provider implements ports.CatalogProvider over a fixed list of shops.
type Provider struct {
	shops []domain.Shop
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// New creates the catalog with the built-in shops.
func New() *Provider {
	return &Provider{
		shops: []domain.Shop{
			{
				ID:   "fruit-stand",
				Name: "Fruit Stand",
				Products: []domain.Product{
					{ID: "apple", Name: "Apple", UnitPrice: price(50), Icon: "🍎"},
					{ID: "banana", Name: "Banana", UnitPrice: price(70), Icon: "🍌"},
					{ID: "orange", Name: "Orange", UnitPrice: price(60), Icon: "🍊"},
					{ID: "grape", Name: "Grape", UnitPrice: price(120), Icon: "🍇"},
					{ID: "lemon", Name: "Lemon", UnitPrice: price(40), Icon: "🍋"},
				},
			},
			{
				ID:   "bakery",
				Name: "Bakery",
				Products: []domain.Product{
					{ID: "bread", Name: "Bread", UnitPrice: price(45), Icon: "🍞"},
					{ID: "croissant", Name: "Croissant", UnitPrice: price(65), Icon: "🥐"},
					{ID: "pretzel", Name: "Pretzel", UnitPrice: price(55), Icon: "🥨"},
					{ID: "cake", Name: "Cake", UnitPrice: price(210), Icon: "🍰"},
				},
			},
			{
				ID:   "coffee-corner",
				Name: "Coffee Corner",
				Products: []domain.Product{
					{ID: "espresso", Name: "Espresso", UnitPrice: price(55), Icon: "☕"},
					{ID: "latte", Name: "Latte", UnitPrice: price(85), Icon: "🥛"},
					{ID: "tea", Name: "Tea", UnitPrice: price(50), Icon: "🍵"},
					{ID: "cookie", Name: "Cookie", UnitPrice: price(35), Icon: "🍪"},
				},
			},
		},
	}
}

// ListShops returns all shops in declaration order. Callers receive copies,
// so the registry stays immutable.
func (p *Provider) ListShops() []domain.Shop {
	out := make([]domain.Shop, len(p.shops))
	for i, s := range p.shops {
		out[i] = copyShop(s)
	}
	return out
}

// GetShop returns the shop with the given id.
func (p *Provider) GetShop(shopID string) (domain.Shop, bool) {
	for _, s := range p.shops {
		if s.ID == shopID {
			return copyShop(s), true
		}
	}
	return domain.Shop{}, false
}

// FindProduct resolves a product within a shop. Not-found in either the shop
// or the product is reported as false, never as an error.
func (p *Provider) FindProduct(shopID, productID string) (domain.Product, bool) {
	for _, s := range p.shops {
		if s.ID == shopID {
			return s.FindProduct(productID)
		}
	}
	return domain.Product{}, false
}

func copyShop(s domain.Shop) domain.Shop {
	products := make([]domain.Product, len(s.Products))
	copy(products, s.Products)
	s.Products = products
	return s
}
