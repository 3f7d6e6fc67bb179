package repositories

import (
	"context"
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	// ListByJob returns newest first; the visibility filter relies on the
	// caller-supplied order and never re-sorts.
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	ExistsByJobAndApplicant(ctx context.Context, jobID, applicantID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ExistsByJobAndApplicant(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
