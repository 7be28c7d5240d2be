package domain

import "github.com/shopspring/decimal"

// WalletState is the aggregate root of the spending wallet: balance, the
// per-shop quantity selection, the session purchase counter, and the purchase
// history (newest first). Balance and history are persisted; the selection
// and the purchase counter are session-scoped.
type WalletState struct {
	Balance       decimal.Decimal
	PurchaseCount int
	ActiveShopID  string
	Selection     map[string]int // product id -> quantity; absence means zero
	History       []PurchaseRecord
}

// NewWalletState creates an empty wallet pointed at the given shop.
func NewWalletState(activeShopID string) WalletState {
	return WalletState{
		Balance:      decimal.Zero,
		ActiveShopID: activeShopID,
		Selection:    make(map[string]int),
		History:      []PurchaseRecord{},
	}
}

// WalletStatus is the contextual prompt shown next to the balance.
type WalletStatus string

const (
	// StatusTopUpToStart: fresh wallet, nothing bought, nothing selected.
	StatusTopUpToStart WalletStatus = "top_up_to_start"
	// StatusOutOfFunds: purchases were made and the balance is exhausted.
	StatusOutOfFunds WalletStatus = "out_of_funds"
	// StatusExceedsBalance: the selection costs more than the wallet holds.
	StatusExceedsBalance WalletStatus = "selection_exceeds_balance"
	// StatusPickProducts: funds available, nothing selected yet.
	StatusPickProducts WalletStatus = "pick_products"
	// StatusReadyToPurchase: a valid selection is ready to be confirmed.
	StatusReadyToPurchase WalletStatus = "ready_to_purchase"
)

// DeriveStatus computes the wallet status from balance, session purchase
// count, and the running selection total.
func DeriveStatus(balance decimal.Decimal, purchaseCount int, total decimal.Decimal) WalletStatus {
	balanceZero := balance.IsZero()
	totalZero := total.IsZero()

	switch {
	case balanceZero && purchaseCount == 0 && totalZero:
		return StatusTopUpToStart
	case balanceZero && purchaseCount > 0 && totalZero:
		return StatusOutOfFunds
	case total.GreaterThan(balance):
		return StatusExceedsBalance
	case totalZero && balance.IsPositive():
		return StatusPickProducts
	default:
		return StatusReadyToPurchase
	}
}
