package ports

import (
	"context"

	"spending-wallet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CatalogProvider is the read-only registry of shops and their products.
// Implementations are immutable and side-effect free; the only failure mode
// is not-found, reported as a boolean.
type CatalogProvider interface {
	// ListShops returns all shops in stable order.
	ListShops() []domain.Shop
	// GetShop returns the shop with the given id.
	GetShop(shopID string) (domain.Shop, bool)
	// FindProduct resolves a product within a shop.
	FindProduct(shopID, productID string) (domain.Product, bool)
}

// WalletSnapshot is the full engine state handed to the presentation layer,
// including the derived flags it needs to enable or disable controls.
type WalletSnapshot struct {
	Balance             decimal.Decimal
	PurchaseCount       int
	ActiveShopID        string
	Selection           map[string]int
	Total               decimal.Decimal
	Status              domain.WalletStatus
	CanPurchase         bool
	HasPersistedHistory bool
}

// PurchaseResult is the outcome of a successful purchase: the history records
// generated for this purchase event plus the post-purchase wallet figures.
type PurchaseResult struct {
	Records       []domain.PurchaseRecord
	Total         decimal.Decimal
	Balance       decimal.Decimal
	PurchaseCount int
}

// WalletEngine owns all wallet state transitions. Every operation is atomic:
// it validates first and mutates only when validation passed, so a failed
// call never leaves partial state behind.
type WalletEngine interface {
	// Initialize rehydrates balance and history from the key-value store.
	// Corrupt or missing data silently falls back to an empty wallet; this
	// must run before any user-triggered operation is accepted.
	Initialize(ctx context.Context)

	// TopUp parses amountText and adds it to the balance. Non-numeric or
	// negative input fails with InvalidAmount and mutates nothing.
	// Returns the new balance.
	TopUp(ctx context.Context, amountText string) (decimal.Decimal, error)

	// SetActiveShop switches the active shop and clears the selection.
	// Reselecting the already-active shop is a no-op.
	SetActiveShop(ctx context.Context, shopID string) error

	// AdjustQuantity adds delta to a product's selected quantity. A result of
	// zero or below removes the entry. Returns the new quantity.
	AdjustQuantity(ctx context.Context, productID string, delta int) (int, error)

	// ComputeTotal sums unit price times quantity over the current selection.
	ComputeTotal() decimal.Decimal

	// Purchase converts the selection into history records and deducts the
	// total from the balance. Fails with NothingSelected or InsufficientFunds.
	Purchase(ctx context.Context) (*PurchaseResult, error)

	// ClearAll resets the wallet and removes the persisted keys. The caller
	// is responsible for obtaining user confirmation first.
	ClearAll(ctx context.Context) error

	// Snapshot returns the current state plus derived presentation flags.
	Snapshot() WalletSnapshot

	// History returns the purchase history, newest first.
	History() []domain.PurchaseRecord

	// CanTopUp reports whether amountText parses to a non-negative number.
	CanTopUp(amountText string) bool

	// HasPersistedHistory reports whether the persisted history is non-empty.
	HasPersistedHistory() bool
}
