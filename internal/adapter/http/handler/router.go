package handler

import (
	"spending-wallet/internal/adapter/http/middleware"
	"spending-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Engine         ports.WalletEngine
	Catalog        ports.CatalogProvider
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 16)) // wallet payloads are tiny

	// Health check (verifies the storage backend)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	catalogHandler := NewCatalogHandler(deps.Catalog)
	v1.GET("/shops", catalogHandler.ListShops)

	walletHandler := NewWalletHandler(deps.Engine)
	wallet := v1.Group("/wallet")
	{
		wallet.GET("", walletHandler.GetWallet)
		wallet.GET("/history", walletHandler.GetHistory)
		wallet.POST("/topup", walletHandler.TopUp)
		wallet.PUT("/shop", walletHandler.SetShop)
		wallet.POST("/selection", walletHandler.AdjustQuantity)
		wallet.POST("/purchase", walletHandler.Purchase)
		wallet.DELETE("", walletHandler.Clear)
	}

	return r
}
