package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/piresc/payments/services/payments"
	"github.com/sirupsen/logrus"
)

// PaymentUC implements payments.PaymentUC
type PaymentUC struct {
	repo  payments.PaymentRepo
	gw    payments.PaymentGW
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string
}

// Option customizes a PaymentUC
type Option func(*PaymentUC)

// WithClock replaces the time source used for createdAt/updatedAt
func WithClock(now func() time.Time) Option {
	return func(uc *PaymentUC) {
		uc.now = now
	}
}

// WithIDGenerator replaces the payment id generator
func WithIDGenerator(newID func() string) Option {
	return func(uc *PaymentUC) {
		uc.newID = newID
	}
}

// NewPaymentUC creates a new payment use case
func NewPaymentUC(repo payments.PaymentRepo, gw payments.PaymentGW, log logrus.FieldLogger, opts ...Option) *PaymentUC {
	uc := &PaymentUC{
		repo:  repo,
		gw:    gw,
		log:   log,
		now:   models.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
