package payments

import (
	"context"

	"github.com/piresc/payments/internal/pkg/models"
)

// PaymentGW publishes payment events to other services
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/payments/services/payments PaymentGW
type PaymentGW interface {
	PublishPaymentCreated(ctx context.Context, payment *models.Payment) error
}
