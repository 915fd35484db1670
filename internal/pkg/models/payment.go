package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsValid reports whether s is one of the known payment states
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment represents a monetary transaction record
type Payment struct {
	ID        string          `json:"id" db:"id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Currency  string          `json:"currency" db:"currency"`
	Status    PaymentStatus   `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// ErrAmountNotNumber is returned when a create payload carries the amount as
// anything other than a JSON number or null
var ErrAmountNotNumber = errors.New("amount must be a JSON number")

// CreatePaymentRequest is the payload accepted when creating a payment
type CreatePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// UnmarshalJSON decodes the payload. A missing or null amount decodes to zero;
// a quoted amount is rejected with ErrAmountNotNumber.
func (r *CreatePaymentRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   json.RawMessage `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Currency = raw.Currency
	r.Amount = decimal.Decimal{}

	amount := bytes.TrimSpace(raw.Amount)
	if len(amount) == 0 || bytes.Equal(amount, []byte("null")) {
		return nil
	}
	if amount[0] != '-' && (amount[0] < '0' || amount[0] > '9') {
		return ErrAmountNotNumber
	}

	return r.Amount.UnmarshalJSON(amount)
}

// PaymentEvent is published after a payment has been persisted
type PaymentEvent struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    PaymentStatus   `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewPaymentEvent builds the event announcing p
func NewPaymentEvent(p *Payment) PaymentEvent {
	return PaymentEvent{
		ID:        p.ID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status,
		Timestamp: Now(),
	}
}
