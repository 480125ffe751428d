package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers served under /api/v1
type Handlers struct {
	Dashboard    *DashboardHandler
	Transaction  *TransactionHandler
	Goal         *GoalHandler
	Subscription *SubscriptionHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers, middlewares ...echo.MiddlewareFunc) {
	// API version 1
	api := e.Group("/api/v1", middlewares...)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.POST("/import", h.Transaction.ImportTransactions)
	transactions.GET("", h.Transaction.GetTransactions)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.GET("/detected", h.Subscription.GetDetected)
	subscriptions.POST("/mark-not", h.Subscription.MarkNotSubscription)
}
