// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/triptally/triptally-backend/config"
	"github.com/triptally/triptally-backend/handlers"
	"github.com/triptally/triptally-backend/middleware"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	Config                *config.Config
	TripHandler           *handlers.TripHandler
	ExpenseHandler        *handlers.ExpenseHandler
	InvoiceHandler        *handlers.InvoiceHandler
	ReceiptHandler        *handlers.ReceiptHandler
	ReconciliationHandler *handlers.ReconciliationHandler
	AuthHandler           *handlers.AuthHandler
	HealthHandler         *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes
// defined. GET endpoints are open; mutations require the admin token.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.LivenessCheck)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", deps.AuthHandler.LoginHandler)
		auth.POST("/verify", deps.AuthHandler.VerifyHandler)
	}

	trips := v1.Group("/trips")
	trips.Use(middleware.AdminAuth(deps.Config.Server.AdminToken))
	{
		trips.GET("", deps.TripHandler.ListTripsHandler)
		trips.POST("", deps.TripHandler.CreateTripHandler)
		trips.GET("/:id", deps.TripHandler.GetTripHandler)
		trips.PATCH("/:id", deps.TripHandler.UpdateTripHandler)
		trips.GET("/:id/overview", deps.ReceiptHandler.OverviewHandler)
		trips.GET("/:id/reconciliation", deps.ReconciliationHandler.SummaryHandler)

		participants := trips.Group("/:id/participants")
		{
			participants.GET("", deps.TripHandler.ListParticipantsHandler)
			participants.POST("", deps.TripHandler.AddParticipantHandler)
			participants.DELETE("/:participantId", deps.TripHandler.RemoveParticipantHandler)

			participants.GET("/:participantId/invoices", deps.InvoiceHandler.InvoiceHistoryHandler)
			participants.GET("/:participantId/invoices/preview", deps.InvoiceHandler.PreviewUnbilledHandler)
			participants.POST("/:participantId/invoices", deps.InvoiceHandler.GenerateInvoiceHandler)
			participants.GET("/:participantId/receipts", deps.ReceiptHandler.ReceiptHistoryHandler)
			participants.GET("/:participantId/receipts/preview", deps.ReceiptHandler.PreviewUnpaidHandler)
			participants.POST("/:participantId/receipts", deps.ReceiptHandler.GenerateReceiptHandler)
			participants.GET("/:participantId/refund", deps.ReconciliationHandler.RefundStatementHandler)
		}

		expenses := trips.Group("/:id/expenses")
		{
			expenses.GET("", deps.ExpenseHandler.ListExpensesHandler)
			expenses.POST("", deps.ExpenseHandler.CreateExpenseHandler)
			expenses.GET("/:expenseId", deps.ExpenseHandler.GetExpenseHandler)
			expenses.PUT("/:expenseId", deps.ExpenseHandler.UpdateExpenseHandler)
			expenses.DELETE("/:expenseId", deps.ExpenseHandler.DeleteExpenseHandler)
			expenses.POST("/:expenseId/payment", deps.ExpenseHandler.LogPaymentHandler)
			expenses.DELETE("/:expenseId/payment", deps.ExpenseHandler.ClearPaymentHandler)
		}

		invoices := trips.Group("/:id/invoices")
		{
			invoices.GET("", deps.InvoiceHandler.ListInvoicesHandler)
			invoices.GET("/:invoiceId", deps.InvoiceHandler.GetInvoiceHandler)
			invoices.DELETE("/:invoiceId", deps.InvoiceHandler.DeleteInvoiceHandler)
		}

		receipts := trips.Group("/:id/receipts")
		{
			receipts.GET("", deps.ReceiptHandler.ListReceiptsHandler)
			receipts.GET("/:receiptId", deps.ReceiptHandler.GetReceiptHandler)
			receipts.DELETE("/:receiptId", deps.ReceiptHandler.DeleteReceiptHandler)
		}
	}

	return r
}
