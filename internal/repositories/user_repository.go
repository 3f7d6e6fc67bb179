package repositories

import (
	"context"
	"errors"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateSubscriptionState overwrites the cached, advisory subscription
	// columns. Entitlement decisions never read these back as truth.
	UpdateSubscriptionState(ctx context.Context, userID string, state models.SubscriptionState) error
	// DeactivateExpiredSubscriptions clears stale active flags in bulk,
	// used by the background sweep.
	DeactivateExpiredSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) UpdateSubscriptionState(ctx context.Context, userID string, state models.SubscriptionState) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_is_active":       state.IsActive,
			"subscription_plan":            state.Plan,
			"subscription_expires_at":      state.ExpiresAt,
			"subscription_last_payment_at": state.LastPaymentAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) DeactivateExpiredSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("subscription_is_active = ? AND subscription_expires_at <= ?", true, now).
		Update("subscription_is_active", false)
	return res.RowsAffected, res.Error
}
