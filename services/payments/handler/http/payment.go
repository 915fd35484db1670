package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/internal/pkg/apperror"
	"github.com/piresc/payments/internal/pkg/middleware"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/piresc/payments/internal/utils"
	"github.com/piresc/payments/services/payments"
	"github.com/sirupsen/logrus"
)

const (
	invalidJSONMessage   = "Invalid JSON input"
	invalidAmountMessage = "Amount must be a positive number"
)

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentUC payments.PaymentUC
	log       logrus.FieldLogger
}

// NewPaymentHandler creates a new payment HTTP handler
func NewPaymentHandler(paymentUC payments.PaymentUC, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
		log:       log,
	}
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req models.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		if errors.Is(err, models.ErrAmountNotNumber) {
			return h.fail(c, apperror.Wrap(apperror.CodeValidation, invalidAmountMessage, err))
		}
		return h.fail(c, apperror.Wrap(apperror.CodeInvalidInput, invalidJSONMessage, err))
	}

	payment, err := h.paymentUC.CreatePayment(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Payment created successfully", payment)
}

// GetPayment handles GET /api/v1/payments/:paymentID
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	payment, err := h.paymentUC.GetPayment(c.Request().Context(), c.Param("paymentID"))
	if err != nil {
		return h.fail(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Payment retrieved successfully", payment)
}

// ListPayments handles GET /api/v1/payments with an optional currency query
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	list, err := h.paymentUC.ListPayments(c.Request().Context(), c.QueryParam("currency"))
	if err != nil {
		return h.fail(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Payments retrieved successfully", list)
}

func (h *PaymentHandler) fail(c echo.Context, err error) error {
	status, _ := apperror.HTTPStatus(err)
	entry := h.log.WithError(err).WithFields(logrus.Fields{
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"request_id": middleware.GetRequestID(c),
		"code":       string(apperror.CodeOf(err)),
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Payment request failed")
	} else {
		entry.Warn("Payment request rejected")
	}

	return utils.DomainErrorResponse(c, err)
}
