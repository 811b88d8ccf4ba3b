// README: API gateway; builds the Gin engine and registers all routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/http/handlers"
	"courier/internal/http/middleware"
	"courier/internal/modules/order"
	"courier/internal/modules/verification"
	"courier/internal/modules/wallet"
	"courier/internal/realtime"
)

type ServerDeps struct {
	Order        *order.Service
	Wallet       *wallet.Service
	Verification *verification.Service
	VerifyStore  *verification.Store
	Hub          *realtime.Hub
}

func NewRouter(deps ServerDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.Auth())

	orderHandler := handlers.NewOrderHandler(deps.Order)
	r.POST("/orders", orderHandler.Create)
	r.POST("/orders/accept", orderHandler.Accept)
	r.PUT("/orders/start/:orderId", orderHandler.Start)
	r.PUT("/orders/mark-delivered/:orderId", orderHandler.MarkDelivered)
	r.GET("/orders/available", orderHandler.ListAvailable)
	r.GET("/orders/current/:driverId", orderHandler.ListCurrent)
	r.GET("/orders/shop/:customerId", orderHandler.ListByShop)
	r.GET("/orders/:id", orderHandler.Get)
	r.GET("/orders/:id/status", orderHandler.Status)

	walletHandler := handlers.NewWalletHandler(deps.Wallet)
	r.POST("/wallet/add-funds", walletHandler.AddFunds)
	r.GET("/wallet/:userType/:userId", walletHandler.Get)
	r.GET("/wallet/:userType/:userId/transactions", walletHandler.Transactions)

	verificationHandler := handlers.NewVerificationHandler(deps.Verification, deps.VerifyStore)
	r.POST("/drivers/:driverId/verification", verificationHandler.Submit)
	r.PUT("/drivers/:driverId/verification", verificationHandler.Review)
	r.GET("/drivers/:driverId/verification", verificationHandler.Get)

	wsHandler := handlers.NewWSHandler(deps.Hub)
	r.GET("/ws", wsHandler.Connect)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
