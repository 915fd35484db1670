package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/payments/internal/pkg/database"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/piresc/payments/services/payments"
	"github.com/sirupsen/logrus"
)

const paymentKeyPrefix = "payment:"

// CachedPaymentRepo keeps point lookups in Redis in front of another PaymentRepo.
// Cache failures are logged and never returned to the caller.
type CachedPaymentRepo struct {
	next  payments.PaymentRepo
	redis *database.RedisClient
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewCachedPaymentRepository wraps next with a Redis read-through cache
func NewCachedPaymentRepository(next payments.PaymentRepo, redisClient *database.RedisClient, ttl time.Duration, log logrus.FieldLogger) *CachedPaymentRepo {
	return &CachedPaymentRepo{
		next:  next,
		redis: redisClient,
		ttl:   ttl,
		log:   log,
	}
}

// PaymentKey returns the cache key for a payment id
func PaymentKey(paymentID string) string {
	return paymentKeyPrefix + paymentID
}

// GetByID serves from cache when possible and fills the cache on a miss
func (r *CachedPaymentRepo) GetByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	if payment := r.fromCache(ctx, paymentID); payment != nil {
		return payment, nil
	}

	payment, err := r.next.GetByID(ctx, paymentID)
	if err != nil || payment == nil {
		return payment, err
	}

	r.store(ctx, payment)
	return payment, nil
}

// ListAll is not cached
func (r *CachedPaymentRepo) ListAll(ctx context.Context) ([]*models.Payment, error) {
	return r.next.ListAll(ctx)
}

// ListByCurrency is not cached
func (r *CachedPaymentRepo) ListByCurrency(ctx context.Context, currency string) ([]*models.Payment, error) {
	return r.next.ListByCurrency(ctx, currency)
}

// Create writes through to the underlying repository, then caches the payment
func (r *CachedPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.next.Create(ctx, payment); err != nil {
		return err
	}
	r.store(ctx, payment)
	return nil
}

func (r *CachedPaymentRepo) fromCache(ctx context.Context, paymentID string) *models.Payment {
	raw, err := r.redis.Get(ctx, PaymentKey(paymentID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).WithField("payment_id", paymentID).Warn("Failed to read payment from cache")
		}
		return nil
	}

	var payment models.Payment
	if err := json.Unmarshal([]byte(raw), &payment); err != nil {
		r.log.WithError(err).WithField("payment_id", paymentID).Warn("Discarding malformed cached payment")
		return nil
	}
	if payment.ID != paymentID || !payment.Status.IsValid() {
		r.log.WithFields(logrus.Fields{
			"payment_id": paymentID,
			"cached_id":  payment.ID,
			"status":     payment.Status,
		}).Warn("Discarding malformed cached payment")
		return nil
	}
	return &payment
}

func (r *CachedPaymentRepo) store(ctx context.Context, payment *models.Payment) {
	data, err := json.Marshal(payment)
	if err != nil {
		r.log.WithError(err).WithField("payment_id", payment.ID).Warn("Failed to encode payment for cache")
		return
	}

	if err := r.redis.Set(ctx, PaymentKey(payment.ID), data, r.ttl); err != nil {
		r.log.WithError(err).WithField("payment_id", payment.ID).Warn("Failed to cache payment")
	}
}
