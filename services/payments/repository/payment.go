package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/payments/internal/pkg/apperror"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/sirupsen/logrus"
)

// DefaultTableName is used when no table name is configured
const DefaultTableName = "payments"

// PaymentRepo stores payments in a single PostgreSQL table keyed by id
type PaymentRepo struct {
	db    *sqlx.DB
	table string
	log   logrus.FieldLogger
}

// table names are interpolated into SQL, so only plain identifiers pass
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// NewPaymentRepository creates a new payment repository. It fails when the
// configured table name is not a plain SQL identifier.
func NewPaymentRepository(cfg *models.Config, db *sqlx.DB, log logrus.FieldLogger) (*PaymentRepo, error) {
	table := cfg.Payments.TableName
	if table == "" {
		table = DefaultTableName
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid payments table name %q", table)
	}
	return &PaymentRepo{
		db:    db,
		table: table,
		log:   log,
	}, nil
}

// EnsureSchema creates the payments table and its currency index if they do not exist
func (r *PaymentRepo) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id         TEXT PRIMARY KEY,
			amount     NUMERIC(20, 8) NOT NULL CHECK (amount > 0),
			currency   CHAR(3) NOT NULL,
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS %[1]s_currency_idx ON %[1]s (currency);
	`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure %s schema: %w", r.table, err)
	}
	return nil
}

// GetByID retrieves a payment by id, returning nil when it does not exist
func (r *PaymentRepo) GetByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT id, amount, currency, status, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.table)

	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.WithError(err).WithField("payment_id", paymentID).Error("Failed to get payment")
		return nil, apperror.Repository("Failed to retrieve payment", err)
	}

	return normalize(&payment), nil
}

// ListAll returns every payment ordered by creation time
func (r *PaymentRepo) ListAll(ctx context.Context) ([]*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT id, amount, currency, status, created_at, updated_at
		FROM %s
		ORDER BY created_at, id
	`, r.table)

	payments := []*models.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		r.log.WithError(err).Error("Failed to list payments")
		return nil, apperror.Repository("Failed to retrieve payments", err)
	}

	for _, p := range payments {
		normalize(p)
	}
	return payments, nil
}

// ListByCurrency returns the payments whose currency equals currency
func (r *PaymentRepo) ListByCurrency(ctx context.Context, currency string) ([]*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT id, amount, currency, status, created_at, updated_at
		FROM %s
		WHERE currency = $1
		ORDER BY created_at, id
	`, r.table)

	payments := []*models.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, currency); err != nil {
		r.log.WithError(err).WithField("currency", currency).Error("Failed to list payments by currency")
		return nil, apperror.Repository(fmt.Sprintf("Failed to retrieve payments for currency %s", currency), err)
	}

	for _, p := range payments {
		normalize(p)
	}
	return payments, nil
}

// Create inserts a new payment
func (r *PaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, amount, currency, status, created_at, updated_at)
		VALUES (:id, :amount, :currency, :status, :created_at, :updated_at)
	`, r.table)

	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		r.log.WithError(err).WithField("payment_id", payment.ID).Error("Failed to create payment")
		return apperror.Repository("Failed to create payment", err)
	}

	return nil
}

// normalize returns timestamps in UTC regardless of the session time zone
func normalize(p *models.Payment) *models.Payment {
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p
}
