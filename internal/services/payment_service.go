package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"jobboard_backend/internal/config"
	"jobboard_backend/internal/entitlement"
	"jobboard_backend/internal/gateway"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type PaymentService interface {
	// CreateJobUnlockIntent starts a one-time charge scoped to a single job.
	// The caller must be the employer that owns the job.
	CreateJobUnlockIntent(ctx context.Context, callerID string, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error)
	// CreateSubscriptionIntent starts a monthly subscription charge.
	CreateSubscriptionIntent(ctx context.Context, callerID string, req *dto.CreateSubscriptionRequest) (*dto.CreateIntentResponse, error)
	// ConfirmPayment reconciles the local record with the processor's own
	// status. The client's claim of success is never an input.
	ConfirmPayment(ctx context.Context, callerID string, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error)
	// GetSubscriptionStatus recomputes the entitlement from payment records
	// and refreshes the cached copy on the user row when they disagree.
	GetSubscriptionStatus(ctx context.Context, callerID, userID string) (*dto.SubscriptionResponse, error)
	GetPaymentHistory(ctx context.Context, callerID, userID string) (*dto.PaymentHistoryResponse, error)
}

type paymentService struct {
	payments repositories.PaymentRepository
	users    repositories.UserRepository
	jobs     repositories.JobRepository
	gateway  gateway.PaymentGateway
	pricing  config.PaymentsConfig
	now      func() time.Time
}

func NewPaymentService(
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	jobs repositories.JobRepository,
	gw gateway.PaymentGateway,
	pricing config.PaymentsConfig,
) PaymentService {
	return &paymentService{
		payments: payments,
		users:    users,
		jobs:     jobs,
		gateway:  gw,
		pricing:  pricing,
		now:      time.Now,
	}
}

func (s *paymentService) CreateJobUnlockIntent(ctx context.Context, callerID string, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	if req.UserID != callerID {
		return nil, apperrors.ErrUserMismatch
	}
	if req.Amount <= 0 {
		return nil, apperrors.ErrPaymentAmountInvalid
	}

	job, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	if job.EmployerID != callerID {
		return nil, apperrors.ErrNotJobOwner
	}

	// Price and currency come from configuration, not from the request.
	// The client's values only have to agree with them.
	if req.Amount != s.pricing.JobUnlockPrice {
		return nil, apperrors.ErrPaymentAmountInvalid
	}
	if req.Currency != "" && req.Currency != s.pricing.Currency {
		return nil, apperrors.NewBadRequestError("Unsupported currency: " + req.Currency)
	}

	intent, err := s.gateway.CreateIntent(ctx, s.pricing.JobUnlockPrice, s.pricing.Currency, map[string]string{
		"kind":    string(models.PaymentKindJobUnlock),
		"user_id": callerID,
		"job_id":  req.JobID,
	})
	if err != nil {
		return nil, err
	}

	jobID := req.JobID
	rec := &models.PaymentRecord{
		PaymentIntentID: intent.IntentID,
		UserID:          callerID,
		JobID:           &jobID,
		Kind:            models.PaymentKindJobUnlock,
		Amount:          s.pricing.JobUnlockPrice,
		Currency:        s.pricing.Currency,
	}
	if err := s.payments.CreatePending(ctx, rec); err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	logger.CtxInfo(ctx, "job unlock intent created",
		"payment_intent_id", intent.IntentID,
		"job_id", req.JobID,
	)

	return &dto.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.IntentID,
	}, nil
}

func (s *paymentService) CreateSubscriptionIntent(ctx context.Context, callerID string, req *dto.CreateSubscriptionRequest) (*dto.CreateIntentResponse, error) {
	if req.UserID != callerID {
		return nil, apperrors.ErrUserMismatch
	}

	user, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	if user.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInvalidUserRole
	}

	intent, err := s.gateway.CreateIntent(ctx, s.pricing.SubscriptionPrice, s.pricing.Currency, map[string]string{
		"kind":    string(models.PaymentKindMonthlySubscription),
		"user_id": callerID,
	})
	if err != nil {
		return nil, err
	}

	rec := &models.PaymentRecord{
		PaymentIntentID: intent.IntentID,
		UserID:          callerID,
		Kind:            models.PaymentKindMonthlySubscription,
		Amount:          s.pricing.SubscriptionPrice,
		Currency:        s.pricing.Currency,
	}
	if err := s.payments.CreatePending(ctx, rec); err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	logger.CtxInfo(ctx, "subscription intent created",
		"payment_intent_id", intent.IntentID,
	)

	return &dto.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.IntentID,
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, callerID string, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
	rec, err := s.payments.FindByIntentID(ctx, req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.PersistenceError(err)
	}
	if rec.UserID != callerID {
		return nil, apperrors.ErrUserMismatch
	}

	// The processor is the source of truth. Whatever the client believes
	// happened, the record only moves on what Retrieve reports.
	retrieved, err := s.gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	var terminal models.PaymentStatus
	switch retrieved.Status {
	case gateway.IntentStatusSucceeded:
		terminal = models.PaymentStatusSucceeded
	case gateway.IntentStatusCanceled:
		terminal = models.PaymentStatusCanceled
	default:
		// Still in flight at the processor. Leave the record pending and
		// report the processor's status as-is.
		return &dto.ConfirmPaymentResponse{
			Status:  string(retrieved.Status),
			Payment: rec,
		}, nil
	}

	metadata := gatewaySnapshot(retrieved)
	finalized, err := s.payments.Finalize(ctx, req.PaymentIntentID, terminal, metadata)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidTransition) {
			return nil, apperrors.ErrInvalidTransition
		}
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.PersistenceError(err)
	}

	logger.CtxInfo(ctx, "payment finalized",
		"payment_intent_id", req.PaymentIntentID,
		"status", string(terminal),
		"kind", string(finalized.Kind),
	)

	if terminal == models.PaymentStatusSucceeded && finalized.Kind == models.PaymentKindMonthlySubscription {
		s.refreshSubscriptionCache(ctx, callerID)
	}

	return &dto.ConfirmPaymentResponse{
		Status:  string(terminal),
		Payment: finalized,
	}, nil
}

func (s *paymentService) GetSubscriptionStatus(ctx context.Context, callerID, userID string) (*dto.SubscriptionResponse, error) {
	if userID != callerID {
		return nil, apperrors.ErrUserMismatch
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}

	records, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	state := entitlement.ComputeSubscriptionState(records, s.now())

	// Deactivation-only write-back: when the cached flag says active but
	// the recomputed state has expired, clear the cache. Repeating the
	// write is harmless, and a write failure never fails the read.
	if user.Subscription.IsActive && !state.IsActive {
		if err := s.users.UpdateSubscriptionState(ctx, userID, state); err != nil {
			logger.CtxWarn(ctx, "subscription cache write-back failed",
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}

	return &dto.SubscriptionResponse{Subscription: state}, nil
}

func (s *paymentService) GetPaymentHistory(ctx context.Context, callerID, userID string) (*dto.PaymentHistoryResponse, error) {
	if userID != callerID {
		return nil, apperrors.ErrUserMismatch
	}

	records, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	return &dto.PaymentHistoryResponse{
		Payments: records,
		Total:    len(records),
	}, nil
}

// refreshSubscriptionCache recomputes the advisory subscription columns
// after a successful subscription payment. Best effort only; the payment
// record already carries the truth.
func (s *paymentService) refreshSubscriptionCache(ctx context.Context, userID string) {
	records, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		logger.CtxWarn(ctx, "subscription cache refresh failed", "user_id", userID, "error", err.Error())
		return
	}

	state := entitlement.ComputeSubscriptionState(records, s.now())
	if err := s.users.UpdateSubscriptionState(ctx, userID, state); err != nil {
		logger.CtxWarn(ctx, "subscription cache refresh failed", "user_id", userID, "error", err.Error())
	}
}

// gatewaySnapshot captures what the processor reported at finalization
// time, stored alongside the record for audits.
func gatewaySnapshot(ri *gateway.RetrievedIntent) datatypes.JSON {
	snapshot := map[string]interface{}{
		"gateway_status": string(ri.Status),
		"amount":         ri.Amount,
		"currency":       ri.Currency,
	}
	if len(ri.Metadata) > 0 {
		snapshot["metadata"] = ri.Metadata
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
