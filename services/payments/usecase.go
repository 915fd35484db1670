package payments

import (
	"context"

	"github.com/piresc/payments/internal/pkg/models"
)

// PaymentUC defines the interface for payment business logic
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/payments/services/payments PaymentUC
type PaymentUC interface {
	CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPayments(ctx context.Context, currency string) ([]*models.Payment, error)
}
