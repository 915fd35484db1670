package payments

import (
	"context"

	"github.com/piresc/payments/internal/pkg/models"
)

// PaymentRepo defines the interface for payment data access operations.
// GetByID returns nil and no error when the payment does not exist.
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/payments/services/payments PaymentRepo
type PaymentRepo interface {
	GetByID(ctx context.Context, paymentID string) (*models.Payment, error)
	ListAll(ctx context.Context) ([]*models.Payment, error)
	ListByCurrency(ctx context.Context, currency string) ([]*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
}
