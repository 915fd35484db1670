package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/payments/internal/pkg/apperror"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/piresc/payments/services/payments/mocks"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

type testDeps struct {
	repo *mocks.MockPaymentRepo
	gw   *mocks.MockPaymentGW
	hook *test.Hook
	uc   *PaymentUC
}

func setup(t *testing.T) testDeps {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log, hook := test.NewNullLogger()
	repo := mocks.NewMockPaymentRepo(ctrl)
	gw := mocks.NewMockPaymentGW(ctrl)

	uc := NewPaymentUC(repo, gw, log,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "pay-123" }),
	)

	return testDeps{repo: repo, gw: gw, hook: hook, uc: uc}
}

func TestCreatePayment_Success(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	d.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Payment) error {
			assert.Equal(t, "pay-123", p.ID)
			assert.Equal(t, models.PaymentStatusPending, p.Status)
			return nil
		}).
		Times(1)
	d.gw.EXPECT().PublishPaymentCreated(ctx, gomock.Any()).Return(nil).Times(1)

	payment, err := d.uc.CreatePayment(ctx, models.CreatePaymentRequest{
		Amount:   decimal.RequireFromString("100.50"),
		Currency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, "pay-123", payment.ID)
	assert.True(t, decimal.RequireFromString("100.50").Equal(payment.Amount))
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, fixedNow, payment.CreatedAt)
	assert.Equal(t, payment.CreatedAt, payment.UpdatedAt)
}

func TestCreatePayment_NormalizesCurrency(t *testing.T) {
	d := setup(t)

	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	d.gw.EXPECT().PublishPaymentCreated(gomock.Any(), gomock.Any()).Return(nil)

	payment, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
		Amount:   decimal.NewFromInt(5),
		Currency: " eur ",
	})

	require.NoError(t, err)
	assert.Equal(t, "EUR", payment.Currency)
}

func TestCreatePayment_DefaultGeneratorsProduceEqualTimestamps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log, _ := test.NewNullLogger()
	repo := mocks.NewMockPaymentRepo(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	uc := NewPaymentUC(repo, nil, log)

	first, err := uc.CreatePayment(context.Background(), models.CreatePaymentRequest{Amount: decimal.NewFromInt(1), Currency: "GBP"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Len(t, first.ID, 36)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
	assert.Equal(t, time.UTC, first.CreatedAt.Location())
}

func TestCreatePayment_InvalidAmount(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-1),
		decimal.RequireFromString("-0.01"),
		{},
	}

	for _, amount := range amounts {
		t.Run(amount.String(), func(t *testing.T) {
			d := setup(t)

			payment, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
				Amount:   amount,
				Currency: "USD",
			})

			assert.Nil(t, payment)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
			assert.Contains(t, err.Error(), "Amount must be a positive number")
		})
	}
}

func TestCreatePayment_InvalidCurrency(t *testing.T) {
	currencies := []string{"", "US", "USDX", "   ", "dollars"}

	for _, currency := range currencies {
		t.Run("currency="+currency, func(t *testing.T) {
			d := setup(t)

			payment, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
				Amount:   decimal.NewFromInt(10),
				Currency: currency,
			})

			assert.Nil(t, payment)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
			assert.Contains(t, err.Error(), "Currency must be a valid 3-letter code")
		})
	}
}

func TestCreatePayment_RepositoryError(t *testing.T) {
	d := setup(t)
	repoErr := apperror.Repository("Failed to create payment", errors.New("connection reset"))

	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repoErr)

	payment, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
	})

	assert.Nil(t, payment)
	assert.True(t, apperror.HasCode(err, apperror.CodeRepository))
}

func TestCreatePayment_PublishFailureIsLogged(t *testing.T) {
	d := setup(t)

	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	d.gw.EXPECT().PublishPaymentCreated(gomock.Any(), gomock.Any()).Return(errors.New("nsqd unavailable"))

	payment, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, "pay-123", payment.ID)

	entry := d.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Failed to publish payment created event", entry.Message)
}

func TestGetPayment_Success(t *testing.T) {
	d := setup(t)
	expected := &models.Payment{ID: "pay-1", Currency: "USD", Status: models.PaymentStatusPending}

	d.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(expected, nil)

	payment, err := d.uc.GetPayment(context.Background(), "pay-1")

	require.NoError(t, err)
	assert.Equal(t, expected, payment)
}

func TestGetPayment_EmptyID(t *testing.T) {
	for _, id := range []string{"", "  "} {
		d := setup(t)

		payment, err := d.uc.GetPayment(context.Background(), id)

		assert.Nil(t, payment)
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		assert.Contains(t, err.Error(), "Payment ID is required")
	}
}

func TestGetPayment_NotFound(t *testing.T) {
	d := setup(t)

	d.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, nil)

	payment, err := d.uc.GetPayment(context.Background(), "missing")

	assert.Nil(t, payment)
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
	assert.Contains(t, err.Error(), "Payment with ID missing not found")
}

func TestGetPayment_RepositoryError(t *testing.T) {
	d := setup(t)

	d.repo.EXPECT().GetByID(gomock.Any(), "pay-1").
		Return(nil, apperror.Repository("Failed to retrieve payment", errors.New("timeout")))

	_, err := d.uc.GetPayment(context.Background(), "pay-1")

	assert.True(t, apperror.HasCode(err, apperror.CodeRepository))
}

func TestListPayments(t *testing.T) {
	usd := []*models.Payment{{ID: "1", Currency: "USD"}, {ID: "3", Currency: "USD"}}
	all := append([]*models.Payment{{ID: "2", Currency: "EUR"}}, usd...)

	t.Run("without filter scans everything", func(t *testing.T) {
		d := setup(t)
		d.repo.EXPECT().ListAll(gomock.Any()).Return(all, nil)

		list, err := d.uc.ListPayments(context.Background(), "")

		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("with filter uses the currency scan", func(t *testing.T) {
		d := setup(t)
		d.repo.EXPECT().ListByCurrency(gomock.Any(), "USD").Return(usd, nil)

		list, err := d.uc.ListPayments(context.Background(), "usd")

		require.NoError(t, err)
		for _, p := range list {
			assert.Equal(t, "USD", p.Currency)
		}
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		d := setup(t)
		d.repo.EXPECT().ListByCurrency(gomock.Any(), "JPY").Return(nil, nil)

		list, err := d.uc.ListPayments(context.Background(), "JPY")

		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("repository error is returned", func(t *testing.T) {
		d := setup(t)
		d.repo.EXPECT().ListAll(gomock.Any()).
			Return(nil, apperror.Repository("Failed to retrieve payments", errors.New("boom")))

		_, err := d.uc.ListPayments(context.Background(), "")

		assert.True(t, apperror.HasCode(err, apperror.CodeRepository))
	})
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrency(" usd\t"))
	assert.Equal(t, "", NormalizeCurrency("   "))
}

func TestCreatePayment_AmountLimits(t *testing.T) {
	accepted := []string{
		"0.00000001",
		"999999999999.99999999",
		"1.10000000000",
		"12.5",
		"5e2",
	}
	for _, amount := range accepted {
		t.Run("accepts "+amount, func(t *testing.T) {
			d := setup(t)
			d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			d.gw.EXPECT().PublishPaymentCreated(gomock.Any(), gomock.Any()).Return(nil)

			payment, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
				Amount:   decimal.RequireFromString(amount),
				Currency: "USD",
			})

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(amount).Equal(payment.Amount))
		})
	}

	rejected := []string{
		"0.000000001",
		"1.123456789",
		"1000000000000",
		"1e12",
		"123456789012345.5",
		"1e-101",
		"1e30000000",
		"1e-30000000",
		"1e2147483647",
		"123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890e-80",
	}
	for _, amount := range rejected {
		name := amount
		if len(name) > 24 {
			name = name[:24]
		}
		t.Run("rejects "+name, func(t *testing.T) {
			d := setup(t)

			done := make(chan error, 1)
			go func() {
				_, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
					Amount:   decimal.RequireFromString(amount),
					Currency: "USD",
				})
				done <- err
			}()

			select {
			case err := <-done:
				assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
				assert.Contains(t, err.Error(), "Amount must have at most 12 integer digits and 8 decimal places")
			case <-time.After(2 * time.Second):
				t.Fatal("amount validation did not finish")
			}
		})
	}
}

func TestCreatePayment_RejectedAmountIsNotLogged(t *testing.T) {
	d := setup(t)

	_, err := d.uc.CreatePayment(context.Background(), models.CreatePaymentRequest{
		Amount:   decimal.RequireFromString("1e30000000"),
		Currency: "USD",
	})

	require.Error(t, err)
	for _, entry := range d.hook.AllEntries() {
		assert.NotContains(t, entry.Data, "amount")
	}
}

func TestListPayments_FilterDropsOtherCurrencies(t *testing.T) {
	d := setup(t)
	mixed := []*models.Payment{
		{ID: "1", Currency: "USD"},
		{ID: "2", Currency: "EUR"},
		{ID: "3", Currency: "usd"},
		{ID: "4", Currency: "GBP"},
	}
	d.repo.EXPECT().ListByCurrency(gomock.Any(), "USD").Return(mixed, nil)

	list, err := d.uc.ListPayments(context.Background(), " usd ")

	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}
