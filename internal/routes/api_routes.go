package routes

import (
	"github.com/gin-gonic/gin"

	"kopilka/internal/handlers"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup, h *handlers.API) {
	// --- ОПЕРАЦИИ ---
	transactions := api.Group("/transactions")
	{
		transactions.POST("", h.AddTransactionHandler)
		transactions.GET("", h.ListTransactionsHandler)
		transactions.GET("/summary", h.DailyTotalsHandler)
		transactions.GET("/export", h.ExportTransactionsHandler)
	}

	// --- ОСТАТКИ ---
	balances := api.Group("/balances")
	{
		balances.GET("", h.ListBalancesHandler)
		balances.PUT("", h.UpdateBalanceHandler)
	}
}
