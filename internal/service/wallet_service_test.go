package service

import (
	"context"
	"testing"

	"spending-wallet/internal/adapter/storage/memory"
	"spending-wallet/internal/catalog"
	"spending-wallet/internal/core/domain"
	"spending-wallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(t *testing.T) (*WalletServiceImpl, *memory.KVStore) {
	t.Helper()
	store := memory.NewKVStore()
	svc := NewWalletService(catalog.New(), store, zerolog.Nop())
	svc.Initialize(context.Background())
	return svc, store
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

// ==================== TopUp ====================

func TestTopUp_AddsExactly(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	balance, err := svc.TopUp(ctx, "100")
	require.NoError(t, err)
	assert.True(t, d("100").Equal(balance))

	balance, err = svc.TopUp(ctx, "50.25")
	require.NoError(t, err)
	assert.True(t, d("150.25").Equal(balance))
}

func TestTopUp_SequentialTopUpsAreAdditive(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	for _, amount := range []string{"10", "0", "39.5", "0.5"} {
		_, err := svc.TopUp(ctx, amount)
		require.NoError(t, err)
	}

	assert.True(t, d("50").Equal(svc.Snapshot().Balance))
}

func TestTopUp_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a number", "abc"},
		{"empty", ""},
		{"negative integer", "-5"},
		{"negative fraction", "-0.01"},
		{"garbage suffix", "10грн"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestWallet(t)
			_, err := svc.TopUp(context.Background(), "30")
			require.NoError(t, err)

			_, err = svc.TopUp(context.Background(), tt.input)
			assertCode(t, err, "WAL_001")
			assert.True(t, d("30").Equal(svc.Snapshot().Balance), "failed top-up must not touch the balance")
		})
	}
}

func TestTopUp_PersistsBalanceWriteThrough(t *testing.T) {
	svc, store := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, "42.5")
	require.NoError(t, err)

	raw, err := store.Get(ctx, "walletBalance")
	require.NoError(t, err)
	assert.Equal(t, "42.5", string(raw))
}

func TestCanTopUp(t *testing.T) {
	svc, _ := newTestWallet(t)

	assert.True(t, svc.CanTopUp("100"))
	assert.True(t, svc.CanTopUp("0"))
	assert.True(t, svc.CanTopUp("12.75"))
	assert.False(t, svc.CanTopUp("-1"))
	assert.False(t, svc.CanTopUp("abc"))
	assert.False(t, svc.CanTopUp(""))
}

// ==================== AdjustQuantity ====================

func TestAdjustQuantity_IncrementAndDecrement(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	qty, err := svc.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	qty, err = svc.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	qty, err = svc.AdjustQuantity(ctx, "apple", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
}

func TestAdjustQuantity_DownPastZeroRemovesEntry(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)

	qty, err := svc.AdjustQuantity(ctx, "apple", -1)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	snap := svc.Snapshot()
	_, present := snap.Selection["apple"]
	assert.False(t, present, "entry must be removed, never stored as zero")
}

func TestAdjustQuantity_LargeNegativeDeltaClampsToRemoval(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.AdjustQuantity(ctx, "banana", 2)
	require.NoError(t, err)

	qty, err := svc.AdjustQuantity(ctx, "banana", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
	assert.NotContains(t, svc.Snapshot().Selection, "banana")
}

func TestAdjustQuantity_ArbitraryPositiveDelta(t *testing.T) {
	svc, _ := newTestWallet(t)

	qty, err := svc.AdjustQuantity(context.Background(), "grape", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)
}

func TestAdjustQuantity_UnknownProduct(t *testing.T) {
	svc, _ := newTestWallet(t)

	_, err := svc.AdjustQuantity(context.Background(), "croissant", 1)
	assertCode(t, err, "CAT_002")
	assert.Empty(t, svc.Snapshot().Selection)
}

// ==================== ComputeTotal ====================

func TestComputeTotal_EmptySelection(t *testing.T) {
	svc, _ := newTestWallet(t)
	assert.True(t, svc.ComputeTotal().IsZero())
}

func TestComputeTotal_SumsUnitPriceTimesQuantity(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	// 2 apples (50 each) + 1 banana (70)
	_, err := svc.AdjustQuantity(ctx, "apple", 2)
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "banana", 1)
	require.NoError(t, err)

	assert.True(t, d("170").Equal(svc.ComputeTotal()))
}

// ==================== SetActiveShop ====================

func TestSetActiveShop_ClearsSelectionOnChange(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.AdjustQuantity(ctx, "apple", 3)
	require.NoError(t, err)

	require.NoError(t, svc.SetActiveShop(ctx, "bakery"))

	snap := svc.Snapshot()
	assert.Equal(t, "bakery", snap.ActiveShopID)
	assert.Empty(t, snap.Selection, "selections do not carry across shops")
	assert.True(t, snap.Total.IsZero())
}

func TestSetActiveShop_RedundantReselectionIsNoOp(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.AdjustQuantity(ctx, "apple", 2)
	require.NoError(t, err)

	require.NoError(t, svc.SetActiveShop(ctx, "fruit-stand"))

	assert.Equal(t, map[string]int{"apple": 2}, svc.Snapshot().Selection,
		"reselecting the active shop must not clear the selection")
}

func TestSetActiveShop_UnknownShop(t *testing.T) {
	svc, _ := newTestWallet(t)

	err := svc.SetActiveShop(context.Background(), "hardware-store")
	assertCode(t, err, "CAT_001")
	assert.Equal(t, "fruit-stand", svc.Snapshot().ActiveShopID)
}

// ==================== Purchase ====================

func TestPurchase_NothingSelected(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, "100")
	require.NoError(t, err)

	_, err = svc.Purchase(ctx)
	assertCode(t, err, "WAL_002")

	snap := svc.Snapshot()
	assert.True(t, d("100").Equal(snap.Balance))
	assert.Equal(t, 0, snap.PurchaseCount)
	assert.Empty(t, svc.History())
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	// Scenario: balance 30, one apple at 50.
	_, err := svc.TopUp(ctx, "30")
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)

	_, err = svc.Purchase(ctx)
	assertCode(t, err, "WAL_003")
	assert.Contains(t, err.Error(), "50")
	assert.Contains(t, err.Error(), "30")

	snap := svc.Snapshot()
	assert.True(t, d("30").Equal(snap.Balance), "balance must be untouched")
	assert.Equal(t, 0, snap.PurchaseCount)
	assert.Equal(t, map[string]int{"apple": 1}, snap.Selection, "selection must survive a failed purchase")
	assert.Empty(t, svc.History())
}

func TestPurchase_EndToEnd(t *testing.T) {
	svc, store := newTestWallet(t)
	ctx := context.Background()

	// Scenario: top up 100, buy 2 apples at 50.
	_, err := svc.TopUp(ctx, "100")
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "apple", 2)
	require.NoError(t, err)
	require.True(t, d("100").Equal(svc.ComputeTotal()))

	result, err := svc.Purchase(ctx)
	require.NoError(t, err)

	assert.True(t, result.Balance.IsZero())
	assert.Equal(t, 1, result.PurchaseCount)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	assert.Equal(t, "Apple", rec.Name)
	assert.Equal(t, "Fruit Stand", rec.ShopName)
	assert.Equal(t, 2, rec.Quantity)
	assert.True(t, d("100").Equal(rec.TotalItemPrice))
	assert.True(t, d("50").Equal(rec.UnitPrice))

	snap := svc.Snapshot()
	assert.True(t, snap.Balance.IsZero())
	assert.Equal(t, 1, snap.PurchaseCount)
	assert.Empty(t, snap.Selection, "selection is cleared after purchase")
	assert.True(t, snap.HasPersistedHistory)

	// Write-through: both keys updated.
	raw, err := store.Get(ctx, "walletBalance")
	require.NoError(t, err)
	assert.Equal(t, "0", string(raw))

	raw, err = store.Get(ctx, "purchaseHistory")
	require.NoError(t, err)
	persisted, err := domain.DecodeHistory(raw)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, rec.ID, persisted[0].ID)
}

func TestPurchase_OneRecordPerDistinctProduct(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, "1000")
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "banana", 3)
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "lemon", 2)
	require.NoError(t, err)

	result, err := svc.Purchase(ctx)
	require.NoError(t, err)

	// One record per product, not per unit; catalog order within the batch.
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Banana", result.Records[0].Name)
	assert.Equal(t, 3, result.Records[0].Quantity)
	assert.Equal(t, "Lemon", result.Records[1].Name)
	assert.Equal(t, 2, result.Records[1].Quantity)

	assert.True(t, d("710").Equal(svc.Snapshot().Balance))
}

func TestPurchase_HistoryIsNewestFirst(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, "500")
	require.NoError(t, err)

	_, err = svc.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx)
	require.NoError(t, err)

	_, err = svc.AdjustQuantity(ctx, "grape", 1)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx)
	require.NoError(t, err)

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, "Grape", history[0].Name, "latest purchase first")
	assert.Equal(t, "Apple", history[1].Name)
	assert.Equal(t, 2, svc.Snapshot().PurchaseCount)
}

func TestPurchase_ExactBalanceSpendsToZero(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, "40")
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "lemon", 1)
	require.NoError(t, err)

	result, err := svc.Purchase(ctx)
	require.NoError(t, err)
	assert.True(t, result.Balance.IsZero())
}

// ==================== ClearAll ====================

func TestClearAll_ResetsEverything(t *testing.T) {
	svc, store := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, "200")
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx)
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "banana", 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(ctx))

	snap := svc.Snapshot()
	assert.True(t, snap.Balance.IsZero())
	assert.Equal(t, 0, snap.PurchaseCount)
	assert.Empty(t, snap.Selection)
	assert.Empty(t, svc.History())
	assert.False(t, svc.HasPersistedHistory())

	raw, err := store.Get(ctx, "walletBalance")
	require.NoError(t, err)
	assert.Nil(t, raw)
	raw, err = store.Get(ctx, "purchaseHistory")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

// ==================== Initialize / rehydration ====================

func TestInitialize_RehydratesPersistedState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()

	// First session: buy something.
	first := NewWalletService(catalog.New(), store, zerolog.Nop())
	first.Initialize(ctx)
	_, err := first.TopUp(ctx, "120.5")
	require.NoError(t, err)
	_, err = first.AdjustQuantity(ctx, "apple", 1)
	require.NoError(t, err)
	_, err = first.Purchase(ctx)
	require.NoError(t, err)

	// Second session over the same store.
	second := NewWalletService(catalog.New(), store, zerolog.Nop())
	second.Initialize(ctx)

	snap := second.Snapshot()
	assert.True(t, d("70.5").Equal(snap.Balance))
	assert.Equal(t, 0, snap.PurchaseCount, "purchase count is session-scoped, never persisted")
	assert.True(t, snap.HasPersistedHistory)

	history := second.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Apple", history[0].Name)
	assert.Equal(t, first.History()[0].ID, history[0].ID)
}

func TestInitialize_CorruptBalanceFallsBackToZero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, "walletBalance", []byte("not-a-number")))

	svc := NewWalletService(catalog.New(), store, zerolog.Nop())
	svc.Initialize(ctx)

	assert.True(t, svc.Snapshot().Balance.IsZero())
}

func TestInitialize_NegativePersistedBalanceRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, "walletBalance", []byte("-50")))

	svc := NewWalletService(catalog.New(), store, zerolog.Nop())
	svc.Initialize(ctx)

	assert.True(t, svc.Snapshot().Balance.IsZero(), "balance must never be negative")
}

func TestInitialize_CorruptHistoryFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, "purchaseHistory", []byte("{broken")))

	svc := NewWalletService(catalog.New(), store, zerolog.Nop())
	svc.Initialize(ctx)

	assert.Empty(t, svc.History())
	assert.False(t, svc.HasPersistedHistory())
}

func TestInitialize_EmptyStore(t *testing.T) {
	svc, _ := newTestWallet(t)

	snap := svc.Snapshot()
	assert.True(t, snap.Balance.IsZero())
	assert.Empty(t, svc.History())
	assert.False(t, snap.HasPersistedHistory)
	assert.Equal(t, "fruit-stand", snap.ActiveShopID, "first catalogued shop is active by default")
}

// ==================== Snapshot flags ====================

func TestSnapshot_CanPurchase(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	// Nothing selected, no funds.
	assert.False(t, svc.Snapshot().CanPurchase)

	// Funds but nothing selected.
	_, err := svc.TopUp(ctx, "100")
	require.NoError(t, err)
	assert.False(t, svc.Snapshot().CanPurchase)

	// Funds and affordable selection.
	_, err = svc.AdjustQuantity(ctx, "apple", 2)
	require.NoError(t, err)
	assert.True(t, svc.Snapshot().CanPurchase)

	// Selection exceeds balance.
	_, err = svc.AdjustQuantity(ctx, "grape", 5)
	require.NoError(t, err)
	assert.False(t, svc.Snapshot().CanPurchase)
}

func TestSnapshot_Status(t *testing.T) {
	svc, _ := newTestWallet(t)
	ctx := context.Background()

	assert.Equal(t, domain.StatusTopUpToStart, svc.Snapshot().Status)

	_, err := svc.TopUp(ctx, "50")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickProducts, svc.Snapshot().Status)

	_, err = svc.AdjustQuantity(ctx, "lemon", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReadyToPurchase, svc.Snapshot().Status)

	_, err = svc.Purchase(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfFunds, svc.Snapshot().Status)
}

func TestSnapshot_SelectionIsACopy(t *testing.T) {
	svc, _ := newTestWallet(t)

	_, err := svc.AdjustQuantity(context.Background(), "apple", 1)
	require.NoError(t, err)

	snap := svc.Snapshot()
	snap.Selection["apple"] = 99

	assert.Equal(t, 1, svc.Snapshot().Selection["apple"], "snapshot must not alias engine state")
}
