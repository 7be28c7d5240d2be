package domain

import "github.com/shopspring/decimal"

// Product is a single purchasable item in a shop's catalog.
// Products are defined at compile time and never mutated.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Icon      string          `json:"icon"`
}

// Shop is a named, ordered collection of purchasable products.
type Shop struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// FindProduct returns the product with the given id, or false when the shop
// does not carry it. Not-found is a normal condition, never a failure.
func (s Shop) FindProduct(productID string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == productID {
			return p, true
		}
	}
	return Product{}, false
}
