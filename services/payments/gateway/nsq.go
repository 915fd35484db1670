package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/payments/internal/pkg/models"
	"github.com/piresc/payments/internal/pkg/retry"
)

// Publisher sends a JSON-encodable message to a topic
type Publisher interface {
	Publish(topic string, message interface{}) error
}

// PaymentGW publishes payment events over NSQ. With a nil publisher it does nothing.
type PaymentGW struct {
	publisher Publisher
	topic     string
	retrier   *retry.Retrier
}

// Option configures a PaymentGW
type Option func(*PaymentGW)

// WithRetrier retries failed publishes with backoff
func WithRetrier(r *retry.Retrier) Option {
	return func(g *PaymentGW) {
		g.retrier = r
	}
}

// NewPaymentGW creates a new payment event gateway
func NewPaymentGW(publisher Publisher, topic string, opts ...Option) *PaymentGW {
	gw := &PaymentGW{
		publisher: publisher,
		topic:     topic,
	}
	for _, opt := range opts {
		opt(gw)
	}
	return gw
}

// PublishPaymentCreated announces a newly stored payment
func (g *PaymentGW) PublishPaymentCreated(ctx context.Context, payment *models.Payment) error {
	if g.publisher == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	event := models.NewPaymentEvent(payment)
	publish := func(context.Context) error {
		return g.publisher.Publish(g.topic, event)
	}

	var err error
	if g.retrier != nil {
		err = g.retrier.Execute(ctx, publish)
	} else {
		err = publish(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to publish %s event for payment %s: %w", g.topic, payment.ID, err)
	}
	return nil
}
