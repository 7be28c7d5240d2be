package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"spending-wallet/internal/core/domain"
	"spending-wallet/internal/core/ports"
	"spending-wallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Storage keys for the two persisted entries.
const (
	balanceKey = "walletBalance"
	historyKey = "purchaseHistory"
)

// WalletServiceImpl implements ports.WalletEngine.
//
// Every operation follows validate-then-commit: all failure paths are checked
// before the first mutation, so a failed call never leaves partial state.
// Balance and history are written through to the key-value store on every
// committing mutation; persistence write failures are logged and absorbed,
// matching the port's best-effort durability contract.
type WalletServiceImpl struct {
	catalog ports.CatalogProvider
	store   ports.KeyValueStore
	log     zerolog.Logger

	mu                  sync.Mutex
	state               domain.WalletState
	hasPersistedHistory bool
}

// NewWalletService creates a wallet pointed at the first catalogued shop.
// Call Initialize before serving user operations.
func NewWalletService(catalog ports.CatalogProvider, store ports.KeyValueStore, log zerolog.Logger) *WalletServiceImpl {
	activeShopID := ""
	if shops := catalog.ListShops(); len(shops) > 0 {
		activeShopID = shops[0].ID
	}

	return &WalletServiceImpl{
		catalog: catalog,
		store:   store,
		log:     log,
		state:   domain.NewWalletState(activeShopID),
	}
}

// Initialize rehydrates balance and history from the key-value store.
// Missing or corrupt entries fall back to an empty wallet and are never
// surfaced to the caller. The session purchase counter always starts at zero.
func (s *WalletServiceImpl) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.store.Get(ctx, balanceKey); err != nil {
		s.log.Warn().Err(err).Msg("reading persisted balance failed, starting at zero")
	} else if raw != nil {
		balance, perr := decimal.NewFromString(string(raw))
		if perr != nil || balance.IsNegative() {
			s.log.Warn().Str("value", string(raw)).Msg("persisted balance malformed, starting at zero")
		} else {
			s.state.Balance = balance
		}
	}

	if raw, err := s.store.Get(ctx, historyKey); err != nil {
		s.log.Warn().Err(err).Msg("reading persisted history failed, starting empty")
	} else if raw != nil {
		history, perr := domain.DecodeHistory(raw)
		if perr != nil {
			s.log.Warn().Err(perr).Msg("persisted history malformed, starting empty")
		} else {
			s.state.History = history
		}
	}

	s.hasPersistedHistory = len(s.state.History) > 0

	s.log.Info().
		Str("balance", s.state.Balance.String()).
		Int("history_entries", len(s.state.History)).
		Str("active_shop", s.state.ActiveShopID).
		Msg("wallet state rehydrated")
}

// TopUp parses amountText and adds it to the balance.
func (s *WalletServiceImpl) TopUp(ctx context.Context, amountText string) (decimal.Decimal, error) {
	amount, err := parseAmount(amountText)
	if err != nil {
		return decimal.Zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Balance = s.state.Balance.Add(amount)
	s.persistBalance(ctx)

	s.log.Info().
		Str("amount", amount.String()).
		Str("balance", s.state.Balance.String()).
		Msg("balance topped up")

	return s.state.Balance, nil
}

// SetActiveShop switches the active shop and clears the selection.
// Reselecting the already-active shop changes nothing, so the selection
// survives redundant calls.
func (s *WalletServiceImpl) SetActiveShop(_ context.Context, shopID string) error {
	if _, ok := s.catalog.GetShop(shopID); !ok {
		return apperror.ErrShopNotFound(shopID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ActiveShopID == shopID {
		return nil
	}

	s.state.ActiveShopID = shopID
	s.state.Selection = make(map[string]int)

	s.log.Info().Str("shop_id", shopID).Msg("active shop switched, selection cleared")
	return nil
}

// AdjustQuantity adds delta to a product's selected quantity. A resulting
// quantity of zero or below removes the entry; quantities are never stored
// as zero or negative. There is no stock limit.
func (s *WalletServiceImpl) AdjustQuantity(_ context.Context, productID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.FindProduct(s.state.ActiveShopID, productID); !ok {
		return 0, apperror.ErrProductNotFound(productID)
	}

	newQty := s.state.Selection[productID] + delta
	if newQty <= 0 {
		delete(s.state.Selection, productID)
		return 0, nil
	}

	s.state.Selection[productID] = newQty
	return newQty, nil
}

// ComputeTotal sums unit price times quantity over the current selection.
func (s *WalletServiceImpl) ComputeTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.computeTotalLocked()
}

// computeTotalLocked must be called with s.mu held. Selection entries that no
// longer resolve against the active shop contribute zero rather than failing.
func (s *WalletServiceImpl) computeTotalLocked() decimal.Decimal {
	total := decimal.Zero
	for productID, qty := range s.state.Selection {
		product, ok := s.catalog.FindProduct(s.state.ActiveShopID, productID)
		if !ok || qty <= 0 {
			continue
		}
		total = total.Add(product.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// Purchase converts the selection into history records and deducts the total.
func (s *WalletServiceImpl) Purchase(ctx context.Context) (*ports.PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.computeTotalLocked()
	if total.IsZero() {
		return nil, apperror.ErrNothingSelected()
	}
	if s.state.Balance.LessThan(total) {
		return nil, apperror.ErrInsufficientFunds(total, s.state.Balance)
	}

	shop, ok := s.catalog.GetShop(s.state.ActiveShopID)
	if !ok {
		// Selection invariant guarantees this cannot happen; treat it like
		// an empty selection rather than crashing.
		return nil, apperror.ErrNothingSelected()
	}

	// One record per distinct selected product, generated in catalog order so
	// the batch is deterministic.
	now := time.Now()
	records := make([]domain.PurchaseRecord, 0, len(s.state.Selection))
	for _, product := range shop.Products {
		qty := s.state.Selection[product.ID]
		if qty > 0 {
			records = append(records, domain.NewPurchaseRecord(shop.Name, product, qty, now))
		}
	}

	// Commit: all validation passed, mutate and persist.
	s.state.Balance = s.state.Balance.Sub(total)
	s.state.PurchaseCount++

	newHistory := make([]domain.PurchaseRecord, 0, len(records)+len(s.state.History))
	newHistory = append(newHistory, records...)
	newHistory = append(newHistory, s.state.History...)
	s.state.History = newHistory

	s.state.Selection = make(map[string]int)

	s.persistBalance(ctx)
	s.persistHistory(ctx)

	s.log.Info().
		Str("shop_id", shop.ID).
		Str("total", total.String()).
		Str("balance", s.state.Balance.String()).
		Int("items", len(records)).
		Int("purchase_count", s.state.PurchaseCount).
		Msg("purchase completed")

	return &ports.PurchaseResult{
		Records:       records,
		Total:         total,
		Balance:       s.state.Balance,
		PurchaseCount: s.state.PurchaseCount,
	}, nil
}

// ClearAll wipes the wallet and removes both persisted entries. The caller
// must have gathered explicit user confirmation before invoking this.
func (s *WalletServiceImpl) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Balance = decimal.Zero
	s.state.PurchaseCount = 0
	s.state.Selection = make(map[string]int)
	s.state.History = []domain.PurchaseRecord{}
	s.hasPersistedHistory = false

	if err := s.store.Delete(ctx, balanceKey); err != nil {
		s.log.Warn().Err(err).Msg("removing persisted balance failed")
	}
	if err := s.store.Delete(ctx, historyKey); err != nil {
		s.log.Warn().Err(err).Msg("removing persisted history failed")
	}

	s.log.Info().Msg("wallet data cleared")
	return nil
}

// Snapshot returns the current state plus derived presentation flags.
func (s *WalletServiceImpl) Snapshot() ports.WalletSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	selection := make(map[string]int, len(s.state.Selection))
	for productID, qty := range s.state.Selection {
		selection[productID] = qty
	}

	total := s.computeTotalLocked()
	balance := s.state.Balance

	return ports.WalletSnapshot{
		Balance:             balance,
		PurchaseCount:       s.state.PurchaseCount,
		ActiveShopID:        s.state.ActiveShopID,
		Selection:           selection,
		Total:               total,
		Status:              domain.DeriveStatus(balance, s.state.PurchaseCount, total),
		CanPurchase:         total.IsPositive() && balance.GreaterThanOrEqual(total) && balance.IsPositive(),
		HasPersistedHistory: s.hasPersistedHistory,
	}
}

// History returns the purchase history, newest first.
func (s *WalletServiceImpl) History() []domain.PurchaseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PurchaseRecord, len(s.state.History))
	copy(out, s.state.History)
	return out
}

// CanTopUp reports whether amountText would be accepted by TopUp.
func (s *WalletServiceImpl) CanTopUp(amountText string) bool {
	_, err := parseAmount(amountText)
	return err == nil
}

// HasPersistedHistory reports whether the persisted history is non-empty.
func (s *WalletServiceImpl) HasPersistedHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasPersistedHistory
}

// parseAmount accepts any non-negative decimal literal, fractional included.
// Step or format restrictions are a presentation concern.
func parseAmount(amountText string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(amountText))
	if err != nil || amount.IsNegative() {
		return decimal.Zero, apperror.ErrInvalidAmount(amountText)
	}
	return amount, nil
}

// persistBalance must be called with s.mu held.
func (s *WalletServiceImpl) persistBalance(ctx context.Context) {
	if err := s.store.Set(ctx, balanceKey, []byte(s.state.Balance.String())); err != nil {
		s.log.Warn().Err(err).Msg("persisting balance failed")
	}
}

// persistHistory must be called with s.mu held. The persisted-history flag is
// recomputed here so it tracks every history mutation.
func (s *WalletServiceImpl) persistHistory(ctx context.Context) {
	data, err := domain.EncodeHistory(s.state.History)
	if err != nil {
		s.log.Warn().Err(err).Msg("encoding history failed")
		return
	}
	if err := s.store.Set(ctx, historyKey, data); err != nil {
		s.log.Warn().Err(err).Msg("persisting history failed")
	}
	s.hasPersistedHistory = len(s.state.History) > 0
}
