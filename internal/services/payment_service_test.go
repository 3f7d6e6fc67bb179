package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard_backend/internal/config"
	"jobboard_backend/internal/entitlement"
	"jobboard_backend/internal/gateway"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing() config.PaymentsConfig {
	return config.PaymentsConfig{
		JobUnlockPrice:    20.00,
		SubscriptionPrice: 20.00,
		Currency:          "usd",
		FreeApplicantCap:  3,
	}
}

type paymentFixture struct {
	payments *memPaymentRepo
	users    *memUserRepo
	jobs     *memJobRepo
	gw       *fakeGateway
	svc      *paymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		payments: newMemPaymentRepo(),
		users:    newMemUserRepo(),
		jobs:     newMemJobRepo(),
		gw:       newFakeGateway(),
	}
	f.svc = NewPaymentService(f.payments, f.users, f.jobs, f.gw, testPricing()).(*paymentService)

	f.users.put(&models.User{
		BaseModel: models.BaseModel{ID: "emp-1"},
		Email:     "employer@example.com",
		Role:      models.UserRoleEmployer,
	})
	f.jobs.put(&models.Job{
		BaseModel:  models.BaseModel{ID: "job-1"},
		EmployerID: "emp-1",
		Title:      "Backend Engineer",
		Status:     models.JobStatusActive,
	})
	return f
}

func TestCreateJobUnlockIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending record tied to the job", func(t *testing.T) {
		f := newPaymentFixture(t)

		resp, err := f.svc.CreateJobUnlockIntent(ctx, "emp-1", &dto.CreateIntentRequest{
			Amount: 20.00,
			JobID:  "job-1",
			UserID: "emp-1",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.PaymentIntentID)
		assert.NotEmpty(t, resp.ClientSecret)

		rec, err := f.payments.FindByIntentID(ctx, resp.PaymentIntentID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, rec.Status)
		assert.Equal(t, models.PaymentKindJobUnlock, rec.Kind)
		require.NotNil(t, rec.JobID)
		assert.Equal(t, "job-1", *rec.JobID)
		assert.Equal(t, 20.00, rec.Amount)
	})

	t.Run("rejects a caller paying for another user", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.svc.CreateJobUnlockIntent(ctx, "someone-else", &dto.CreateIntentRequest{
			Amount: 20.00,
			JobID:  "job-1",
			UserID: "emp-1",
		})
		assert.ErrorIs(t, err, apperrors.ErrUserMismatch)
	})

	t.Run("rejects a caller that does not own the job", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.users.put(&models.User{
			BaseModel: models.BaseModel{ID: "emp-2"},
			Email:     "other@example.com",
			Role:      models.UserRoleEmployer,
		})

		_, err := f.svc.CreateJobUnlockIntent(ctx, "emp-2", &dto.CreateIntentRequest{
			Amount: 20.00,
			JobID:  "job-1",
			UserID: "emp-2",
		})
		assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)
	})

	t.Run("rejects an amount that disagrees with the configured price", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.svc.CreateJobUnlockIntent(ctx, "emp-1", &dto.CreateIntentRequest{
			Amount: 5.00,
			JobID:  "job-1",
			UserID: "emp-1",
		})
		assert.ErrorIs(t, err, apperrors.ErrPaymentAmountInvalid)
	})

	t.Run("no record is written when the gateway fails", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gw.createErr = apperrors.ErrGateway(errors.New("boom"))

		_, err := f.svc.CreateJobUnlockIntent(ctx, "emp-1", &dto.CreateIntentRequest{
			Amount: 20.00,
			JobID:  "job-1",
			UserID: "emp-1",
		})
		require.Error(t, err)

		records, err := f.payments.ListByUser(ctx, "emp-1")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	createUnlock := func(t *testing.T, f *paymentFixture) string {
		t.Helper()
		resp, err := f.svc.CreateJobUnlockIntent(ctx, "emp-1", &dto.CreateIntentRequest{
			Amount: 20.00,
			JobID:  "job-1",
			UserID: "emp-1",
		})
		require.NoError(t, err)
		return resp.PaymentIntentID
	}

	t.Run("finalizes on the gateway's succeeded status", func(t *testing.T) {
		f := newPaymentFixture(t)
		intentID := createUnlock(t, f)
		f.gw.setStatus(intentID, gateway.IntentStatusSucceeded)

		resp, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		require.NoError(t, err)
		assert.Equal(t, "succeeded", resp.Status)
		assert.Equal(t, models.PaymentStatusSucceeded, resp.Payment.Status)
		assert.NotEmpty(t, resp.Payment.GatewayMetadata)
	})

	t.Run("leaves the record pending while the gateway is still processing", func(t *testing.T) {
		f := newPaymentFixture(t)
		intentID := createUnlock(t, f)
		// The client may claim success; the gateway has not settled yet.

		resp, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)

		rec, err := f.payments.FindByIntentID(ctx, intentID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, rec.Status)
	})

	t.Run("records a cancellation reported by the gateway", func(t *testing.T) {
		f := newPaymentFixture(t)
		intentID := createUnlock(t, f)
		f.gw.setStatus(intentID, gateway.IntentStatusCanceled)

		resp, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCanceled, resp.Payment.Status)
	})

	t.Run("repeated confirmation with the same outcome is idempotent", func(t *testing.T) {
		f := newPaymentFixture(t)
		intentID := createUnlock(t, f)
		f.gw.setStatus(intentID, gateway.IntentStatusSucceeded)

		first, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		require.NoError(t, err)
		second, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		require.NoError(t, err)
		assert.Equal(t, first.Payment.Status, second.Payment.Status)
	})

	t.Run("a different terminal outcome after finalization is rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		intentID := createUnlock(t, f)
		f.gw.setStatus(intentID, gateway.IntentStatusCanceled)

		_, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		require.NoError(t, err)

		// The gateway now flips its answer; the local record must not move.
		f.gw.setStatus(intentID, gateway.IntentStatusSucceeded)
		_, err = f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

		rec, err := f.payments.FindByIntentID(ctx, intentID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCanceled, rec.Status)
	})

	t.Run("rejects confirmation of another user's payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		intentID := createUnlock(t, f)

		_, err := f.svc.ConfirmPayment(ctx, "someone-else", &dto.ConfirmPaymentRequest{PaymentIntentID: intentID})
		assert.ErrorIs(t, err, apperrors.ErrUserMismatch)
	})

	t.Run("unknown intent id is a not-found", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: "pi_missing"})
		assert.ErrorIs(t, err, apperrors.ErrPaymentNotFound)
	})

	t.Run("successful subscription payment refreshes the cached state", func(t *testing.T) {
		f := newPaymentFixture(t)

		resp, err := f.svc.CreateSubscriptionIntent(ctx, "emp-1", &dto.CreateSubscriptionRequest{UserID: "emp-1"})
		require.NoError(t, err)
		f.gw.setStatus(resp.PaymentIntentID, gateway.IntentStatusSucceeded)

		_, err = f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: resp.PaymentIntentID})
		require.NoError(t, err)

		user, err := f.users.FindByID(ctx, "emp-1")
		require.NoError(t, err)
		assert.True(t, user.Subscription.IsActive)
		require.NotNil(t, user.Subscription.ExpiresAt)
		require.NotNil(t, user.Subscription.Plan)
		assert.Equal(t, models.SubscriptionPlanMonthly, *user.Subscription.Plan)
	})

	t.Run("cache refresh failure does not fail the confirmation", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.users.updateErr = errors.New("db gone")

		resp, err := f.svc.CreateSubscriptionIntent(ctx, "emp-1", &dto.CreateSubscriptionRequest{UserID: "emp-1"})
		require.NoError(t, err)
		f.gw.setStatus(resp.PaymentIntentID, gateway.IntentStatusSucceeded)

		confirm, err := f.svc.ConfirmPayment(ctx, "emp-1", &dto.ConfirmPaymentRequest{PaymentIntentID: resp.PaymentIntentID})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusSucceeded, confirm.Payment.Status)
	})
}

func TestCreateSubscriptionIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("only employers may subscribe", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.users.put(&models.User{
			BaseModel: models.BaseModel{ID: "tal-1"},
			Email:     "talent@example.com",
			Role:      models.UserRoleTalent,
		})

		_, err := f.svc.CreateSubscriptionIntent(ctx, "tal-1", &dto.CreateSubscriptionRequest{UserID: "tal-1"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
	})

	t.Run("creates a pending record without a job scope", func(t *testing.T) {
		f := newPaymentFixture(t)

		resp, err := f.svc.CreateSubscriptionIntent(ctx, "emp-1", &dto.CreateSubscriptionRequest{UserID: "emp-1"})
		require.NoError(t, err)

		rec, err := f.payments.FindByIntentID(ctx, resp.PaymentIntentID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentKindMonthlySubscription, rec.Kind)
		assert.Nil(t, rec.JobID)
	})
}

func TestGetSubscriptionStatus(t *testing.T) {
	ctx := context.Background()

	succeededSub := func(intentID string, createdAt time.Time) *models.PaymentRecord {
		return &models.PaymentRecord{
			BaseModel:       models.BaseModel{CreatedAt: createdAt},
			PaymentIntentID: intentID,
			UserID:          "emp-1",
			Kind:            models.PaymentKindMonthlySubscription,
			Amount:          20.00,
			Currency:        "usd",
		}
	}

	t.Run("active within the window", func(t *testing.T) {
		f := newPaymentFixture(t)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		f.svc.now = func() time.Time { return now }

		rec := succeededSub("pi_sub_1", now.Add(-10*24*time.Hour))
		require.NoError(t, f.payments.CreatePending(ctx, rec))
		_, err := f.payments.Finalize(ctx, "pi_sub_1", models.PaymentStatusSucceeded, nil)
		require.NoError(t, err)

		resp, err := f.svc.GetSubscriptionStatus(ctx, "emp-1", "emp-1")
		require.NoError(t, err)
		assert.True(t, resp.Subscription.IsActive)
		require.NotNil(t, resp.Subscription.ExpiresAt)
		assert.Equal(t, rec.CreatedAt.Add(entitlement.SubscriptionPeriod), *resp.Subscription.ExpiresAt)
	})

	t.Run("expired subscription triggers a deactivation write-back", func(t *testing.T) {
		f := newPaymentFixture(t)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		f.svc.now = func() time.Time { return now }

		paidAt := now.Add(-40 * 24 * time.Hour)
		rec := succeededSub("pi_sub_old", paidAt)
		require.NoError(t, f.payments.CreatePending(ctx, rec))
		_, err := f.payments.Finalize(ctx, "pi_sub_old", models.PaymentStatusSucceeded, nil)
		require.NoError(t, err)

		// Cache still says active from when the payment landed.
		expiresAt := paidAt.Add(entitlement.SubscriptionPeriod)
		plan := models.SubscriptionPlanMonthly
		f.users.put(&models.User{
			BaseModel: models.BaseModel{ID: "emp-1"},
			Email:     "employer@example.com",
			Role:      models.UserRoleEmployer,
			Subscription: models.SubscriptionState{
				IsActive:      true,
				Plan:          &plan,
				ExpiresAt:     &expiresAt,
				LastPaymentAt: &paidAt,
			},
		})

		resp, err := f.svc.GetSubscriptionStatus(ctx, "emp-1", "emp-1")
		require.NoError(t, err)
		assert.False(t, resp.Subscription.IsActive)

		user, err := f.users.FindByID(ctx, "emp-1")
		require.NoError(t, err)
		assert.False(t, user.Subscription.IsActive)
		assert.Equal(t, 1, f.users.updates)

		// A repeated read finds the cache already consistent and leaves it
		// alone.
		_, err = f.svc.GetSubscriptionStatus(ctx, "emp-1", "emp-1")
		require.NoError(t, err)
		assert.Equal(t, 1, f.users.updates)
	})

	t.Run("write-back failure still serves the computed state", func(t *testing.T) {
		f := newPaymentFixture(t)
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		f.svc.now = func() time.Time { return now }
		f.users.updateErr = errors.New("db gone")

		paidAt := now.Add(-40 * 24 * time.Hour)
		rec := succeededSub("pi_sub_old", paidAt)
		require.NoError(t, f.payments.CreatePending(ctx, rec))
		_, err := f.payments.Finalize(ctx, "pi_sub_old", models.PaymentStatusSucceeded, nil)
		require.NoError(t, err)

		expiresAt := paidAt.Add(entitlement.SubscriptionPeriod)
		f.users.put(&models.User{
			BaseModel: models.BaseModel{ID: "emp-1"},
			Email:     "employer@example.com",
			Role:      models.UserRoleEmployer,
			Subscription: models.SubscriptionState{
				IsActive:  true,
				ExpiresAt: &expiresAt,
			},
		})

		resp, err := f.svc.GetSubscriptionStatus(ctx, "emp-1", "emp-1")
		require.NoError(t, err)
		assert.False(t, resp.Subscription.IsActive)
	})

	t.Run("rejects reading another user's subscription", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.svc.GetSubscriptionStatus(ctx, "emp-1", "someone-else")
		assert.ErrorIs(t, err, apperrors.ErrUserMismatch)
	})
}

func TestGetPaymentHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the caller's records only", func(t *testing.T) {
		f := newPaymentFixture(t)

		require.NoError(t, f.payments.CreatePending(ctx, &models.PaymentRecord{
			PaymentIntentID: "pi_mine",
			UserID:          "emp-1",
			Kind:            models.PaymentKindJobUnlock,
		}))
		require.NoError(t, f.payments.CreatePending(ctx, &models.PaymentRecord{
			PaymentIntentID: "pi_theirs",
			UserID:          "emp-2",
			Kind:            models.PaymentKindJobUnlock,
		}))

		resp, err := f.svc.GetPaymentHistory(ctx, "emp-1", "emp-1")
		require.NoError(t, err)
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "pi_mine", resp.Payments[0].PaymentIntentID)
	})

	t.Run("rejects reading another user's history", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.svc.GetPaymentHistory(ctx, "emp-1", "emp-2")
		assert.ErrorIs(t, err, apperrors.ErrUserMismatch)
	})
}
