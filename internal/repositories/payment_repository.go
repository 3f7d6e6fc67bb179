package repositories

import (
	"context"
	"errors"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound   = errors.New("payment record not found")
	ErrInvalidTransition = errors.New("payment record already finalized with a different status")
)

// PaymentRepository is the Payment Record Store: an append-only trail whose
// only mutation point is Finalize.
type PaymentRepository interface {
	CreatePending(ctx context.Context, rec *models.PaymentRecord) error
	// Finalize moves the record for paymentIntentID from pending to the
	// given terminal status. Repeating the same terminal status is an
	// idempotent no-op; a different terminal status is ErrInvalidTransition.
	Finalize(ctx context.Context, paymentIntentID string, status models.PaymentStatus, gatewayMetadata datatypes.JSON) (*models.PaymentRecord, error)
	FindByIntentID(ctx context.Context, paymentIntentID string) (*models.PaymentRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.PaymentRecord, error)
	ListByJob(ctx context.Context, jobID string) ([]models.PaymentRecord, error)
	// ListStalePending feeds the reconciliation sweep: pending records that
	// have not changed since the cutoff.
	ListStalePending(ctx context.Context, olderThan time.Time) ([]models.PaymentRecord, error)
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) CreatePending(ctx context.Context, rec *models.PaymentRecord) error {
	rec.Status = models.PaymentStatusPending
	return r.db.WithContext(ctx).Create(rec).Error
}

// Finalize serializes concurrent attempts (duplicate webhook vs. client
// confirmation) through a conditional UPDATE instead of read-then-write,
// so a lost update can never double-credit a terminal status.
func (r *PaymentRepositoryImpl) Finalize(ctx context.Context, paymentIntentID string, status models.PaymentStatus, gatewayMetadata datatypes.JSON) (*models.PaymentRecord, error) {
	if !status.Terminal() {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": status}
	if len(gatewayMetadata) > 0 {
		updates["gateway_metadata"] = gatewayMetadata
	}

	res := r.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Where("payment_intent_id = ? AND status = ?", paymentIntentID, models.PaymentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Either the record does not exist, or it is already terminal.
		rec, err := r.FindByIntentID(ctx, paymentIntentID)
		if err != nil {
			return nil, err
		}
		if rec.Status == status {
			return rec, nil // safe retry / duplicate delivery
		}
		return nil, ErrInvalidTransition
	}

	return r.FindByIntentID(ctx, paymentIntentID)
}

func (r *PaymentRepositoryImpl) FindByIntentID(ctx context.Context, paymentIntentID string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := r.db.WithContext(ctx).Where("payment_intent_id = ?", paymentIntentID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PaymentRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *PaymentRepositoryImpl) ListByJob(ctx context.Context, jobID string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *PaymentRepositoryImpl) ListStalePending(ctx context.Context, olderThan time.Time) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, olderThan).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
