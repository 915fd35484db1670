package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/services/payments"
	httpHandler "github.com/piresc/payments/services/payments/handler/http"
	"github.com/sirupsen/logrus"
)

// Handler combines all handlers for the payments service
type Handler struct {
	paymentsHTTP *httpHandler.PaymentHandler
}

// NewHandler creates a new combined handler
func NewHandler(paymentUC payments.PaymentUC, log logrus.FieldLogger) *Handler {
	return &Handler{
		paymentsHTTP: httpHandler.NewPaymentHandler(paymentUC, log),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo, m ...echo.MiddlewareFunc) {
	v1 := e.Group("/api/v1", m...)

	paymentsGroup := v1.Group("/payments")
	paymentsGroup.POST("", h.paymentsHTTP.CreatePayment)
	paymentsGroup.GET("", h.paymentsHTTP.ListPayments)
	paymentsGroup.GET("/:paymentID", h.paymentsHTTP.GetPayment)
}
