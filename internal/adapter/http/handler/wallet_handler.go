package handler

import (
	"spending-wallet/internal/adapter/http/dto"
	"spending-wallet/internal/core/domain"
	"spending-wallet/internal/core/ports"
	"spending-wallet/pkg/apperror"
	"spending-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes the wallet engine operations over HTTP. It owns no
// business rules: it binds input, forwards to the engine, and renders the
// outcome, including the confirmation gate in front of ClearAll.
type WalletHandler struct {
	engine ports.WalletEngine
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(engine ports.WalletEngine) *WalletHandler {
	return &WalletHandler{engine: engine}
}

// GetWallet handles GET /api/v1/wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	response.OK(c, toWalletResponse(h.engine.Snapshot()))
}

// GetHistory handles GET /api/v1/wallet/history.
func (h *WalletHandler) GetHistory(c *gin.Context) {
	history := h.engine.History()

	out := make([]dto.PurchaseRecordResponse, 0, len(history))
	for _, rec := range history {
		out = append(out, toPurchaseRecordResponse(rec))
	}
	response.OK(c, out)
}

// TopUp handles POST /api/v1/wallet/topup.
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	balance, err := h.engine.TopUp(c.Request.Context(), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TopUpResponse{Balance: balance.String()})
}

// SetShop handles PUT /api/v1/wallet/shop.
func (h *WalletHandler) SetShop(c *gin.Context) {
	var req dto.SetShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.engine.SetActiveShop(c.Request.Context(), req.ShopID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(h.engine.Snapshot()))
}

// AdjustQuantity handles POST /api/v1/wallet/selection.
func (h *WalletHandler) AdjustQuantity(c *gin.Context) {
	var req dto.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	qty, err := h.engine.AdjustQuantity(c.Request.Context(), req.ProductID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AdjustQuantityResponse{
		ProductID: req.ProductID,
		Quantity:  qty,
	})
}

// Purchase handles POST /api/v1/wallet/purchase.
func (h *WalletHandler) Purchase(c *gin.Context) {
	result, err := h.engine.Purchase(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	records := make([]dto.PurchaseRecordResponse, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, toPurchaseRecordResponse(rec))
	}

	response.Created(c, dto.PurchaseResponse{
		Records:       records,
		Total:         result.Total.String(),
		Balance:       result.Balance.String(),
		PurchaseCount: result.PurchaseCount,
	})
}

// Clear handles DELETE /api/v1/wallet. The destructive reset only proceeds
// when the request carries the explicit confirmation flag.
func (h *WalletHandler) Clear(c *gin.Context) {
	var req dto.ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if !req.Confirm {
		response.Error(c, apperror.ErrConfirmationRequired())
		return
	}

	if err := h.engine.ClearAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(h.engine.Snapshot()))
}

func toWalletResponse(snap ports.WalletSnapshot) dto.WalletResponse {
	return dto.WalletResponse{
		Balance:             snap.Balance.String(),
		PurchaseCount:       snap.PurchaseCount,
		ActiveShopID:        snap.ActiveShopID,
		Selection:           snap.Selection,
		Total:               snap.Total.String(),
		Status:              string(snap.Status),
		CanPurchase:         snap.CanPurchase,
		HasPersistedHistory: snap.HasPersistedHistory,
	}
}

func toPurchaseRecordResponse(rec domain.PurchaseRecord) dto.PurchaseRecordResponse {
	return dto.PurchaseRecordResponse{
		ID:             rec.ID,
		ShopName:       rec.ShopName,
		Name:           rec.Name,
		Icon:           rec.Icon,
		Quantity:       rec.Quantity,
		UnitPrice:      rec.UnitPrice.String(),
		TotalItemPrice: rec.TotalItemPrice.String(),
		Timestamp:      rec.Timestamp,
	}
}
