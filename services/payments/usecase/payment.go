package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/piresc/payments/internal/pkg/apperror"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	currencyCodeLength = 3

	// amounts are stored as NUMERIC(20, 8)
	maxAmountScale         = 8
	maxAmountIntegerDigits = 12

	// cheap bounds checked before any arithmetic on the amount
	maxAmountCoefficientBits = 256
	minAmountExponent        = -100

	msgInvalidAmount   = "Amount must be a positive number"
	msgAmountPrecision = "Amount must have at most 12 integer digits and 8 decimal places"
	msgInvalidCurrency = "Currency must be a valid 3-letter code"
)

var maxAmount = decimal.New(1, maxAmountIntegerDigits)

// NormalizeCurrency trims surrounding whitespace and upper-cases a currency code
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// GetPayment returns the payment with the given id
func (uc *PaymentUC) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	uc.log.WithField("payment_id", paymentID).Info("Getting payment")

	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, apperror.Validation("Payment ID is required")
	}

	payment, err := uc.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound(fmt.Sprintf("Payment with ID %s not found", paymentID))
	}

	return payment, nil
}

// ListPayments returns every payment, or only those in currency when it is set
func (uc *PaymentUC) ListPayments(ctx context.Context, currency string) ([]*models.Payment, error) {
	currency = NormalizeCurrency(currency)
	uc.log.WithField("currency", currency).Info("Listing payments")

	var (
		list []*models.Payment
		err  error
	)
	if currency == "" {
		list, err = uc.repo.ListAll(ctx)
	} else {
		list, err = uc.repo.ListByCurrency(ctx, currency)
	}
	if err != nil {
		return nil, err
	}

	if currency == "" {
		if list == nil {
			list = []*models.Payment{}
		}
		return list, nil
	}

	matching := make([]*models.Payment, 0, len(list))
	for _, p := range list {
		if p != nil && NormalizeCurrency(p.Currency) == currency {
			matching = append(matching, p)
		}
	}
	return matching, nil
}

// CreatePayment validates req and persists a new PENDING payment
func (uc *PaymentUC) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"amount":   req.Amount.String(),
		"currency": req.Currency,
	}).Info("Creating payment")

	now := uc.now()
	payment := &models.Payment{
		ID:        uc.newID(),
		Amount:    req.Amount,
		Currency:  NormalizeCurrency(req.Currency),
		Status:    models.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if uc.gw != nil {
		if err := uc.gw.PublishPaymentCreated(ctx, payment); err != nil {
			// the payment is stored; a lost event must not fail the request
			uc.log.WithError(err).WithField("payment_id", payment.ID).Warn("Failed to publish payment created event")
		}
	}

	return payment, nil
}

func validateCreateRequest(req models.CreatePaymentRequest) error {
	if !req.Amount.IsPositive() {
		return apperror.Validation(msgInvalidAmount)
	}

	if err := validateAmountPrecision(req.Amount); err != nil {
		return err
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Currency)) != currencyCodeLength {
		return apperror.Validation(msgInvalidCurrency)
	}

	return nil
}

// validateAmountPrecision rejects amounts the payments column cannot hold
// exactly. Exponent and coefficient size are checked first: rendering or
// rescaling an amount like 1e30000000 is unbounded work.
func validateAmountPrecision(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp >= maxAmountIntegerDigits || exp < minAmountExponent ||
		amount.Coefficient().BitLen() > maxAmountCoefficientBits {
		return apperror.Validation(msgAmountPrecision)
	}

	if amount.GreaterThanOrEqual(maxAmount) || !amount.Equal(amount.Truncate(maxAmountScale)) {
		return apperror.Validation(msgAmountPrecision)
	}

	return nil
}
