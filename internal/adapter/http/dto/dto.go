package dto

// TopUpRequest is the request body for a balance top-up. The amount is the
// raw input text; the engine owns parsing and validation.
type TopUpRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// SetShopRequest is the request body for switching the active shop.
type SetShopRequest struct {
	ShopID string `json:"shop_id" binding:"required"`
}

// AdjustQuantityRequest is the request body for changing a product's
// selected quantity. Delta is usually +1 or -1 but any non-zero value works.
type AdjustQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}

// ClearRequest is the request body for wiping all wallet data. The confirm
// flag is the explicit yes/no gate in front of the destructive operation.
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// ProductResponse is one catalog product.
type ProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Icon      string `json:"icon"`
}

// ShopResponse is one catalog shop with its products.
type ShopResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products"`
}

// WalletResponse is the full wallet snapshot for the presentation layer.
type WalletResponse struct {
	Balance             string         `json:"balance"`
	PurchaseCount       int            `json:"purchase_count"`
	ActiveShopID        string         `json:"active_shop_id"`
	Selection           map[string]int `json:"selection"`
	Total               string         `json:"total"`
	Status              string         `json:"status"`
	CanPurchase         bool           `json:"can_purchase"`
	HasPersistedHistory bool           `json:"has_persisted_history"`
}

// TopUpResponse is the response body after a successful top-up.
type TopUpResponse struct {
	Balance string `json:"balance"`
}

// AdjustQuantityResponse reports the product's new selected quantity.
type AdjustQuantityResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PurchaseRecordResponse is one line of purchase history.
type PurchaseRecordResponse struct {
	ID             string `json:"id"`
	ShopName       string `json:"shop_name,omitempty"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	TotalItemPrice string `json:"total_item_price"`
	Timestamp      string `json:"timestamp"`
}

// PurchaseResponse is the response body after a successful purchase.
type PurchaseResponse struct {
	Records       []PurchaseRecordResponse `json:"records"`
	Total         string                   `json:"total"`
	Balance       string                   `json:"balance"`
	PurchaseCount int                      `json:"purchase_count"`
}
