package handler

import (
	"net/http"

	"spending-wallet/internal/adapter/http/dto"
	"spending-wallet/internal/core/domain"
	"spending-wallet/internal/core/ports"
	"spending-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only shop registry.
type CatalogHandler struct {
	catalog ports.CatalogProvider
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog ports.CatalogProvider) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListShops handles GET /api/v1/shops.
func (h *CatalogHandler) ListShops(c *gin.Context) {
	shops := h.catalog.ListShops()

	out := make([]dto.ShopResponse, 0, len(shops))
	for _, shop := range shops {
		out = append(out, toShopResponse(shop))
	}
	response.OK(c, out)
}

func toShopResponse(shop domain.Shop) dto.ShopResponse {
	products := make([]dto.ProductResponse, 0, len(shop.Products))
	for _, p := range shop.Products {
		products = append(products, dto.ProductResponse{
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice.String(),
			Icon:      p.Icon,
		})
	}
	return dto.ShopResponse{
		ID:       shop.ID,
		Name:     shop.Name,
		Products: products,
	}
}

// HealthCheck handles GET /health — verifies the storage backend.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
