package services

import (
	"context"
	"encoding/json"
	"errors"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type ApplicationService interface {
	Apply(ctx context.Context, applicantID, jobID string, req *dto.CreateApplicationRequest) (*models.Application, error)
	ListMyApplications(ctx context.Context, applicantID string) ([]models.Application, error)
	// UpdateStatus moves an application through the employer pipeline.
	// Only the owner of the job may do this.
	UpdateStatus(ctx context.Context, employerID, applicationID string, req *dto.UpdateApplicationStatusRequest) error
}

type applicationService struct {
	applications repositories.ApplicationRepository
	jobs         repositories.JobRepository
	users        repositories.UserRepository
}

func NewApplicationService(
	applications repositories.ApplicationRepository,
	jobs repositories.JobRepository,
	users repositories.UserRepository,
) ApplicationService {
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		users:        users,
	}
}

func (s *applicationService) Apply(ctx context.Context, applicantID, jobID string, req *dto.CreateApplicationRequest) (*models.Application, error) {
	applicant, err := s.users.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	if applicant.Role != models.UserRoleTalent {
		return nil, apperrors.ErrInvalidUserRole
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	if job.Status != models.JobStatusActive {
		return nil, apperrors.ErrJobClosed
	}

	exists, err := s.applications.ExistsByJobAndApplicant(ctx, jobID, applicantID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateApplication
	}

	var skills datatypes.JSON
	if len(req.Skills) > 0 {
		raw, err := json.Marshal(req.Skills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		skills = datatypes.JSON(raw)
	}

	app := &models.Application{
		JobID:           jobID,
		ApplicantID:     applicantID,
		ApplicantName:   applicant.FullName,
		ApplicantEmail:  applicant.Email,
		ApplicantSkills: skills,
		CoverMessage:    req.CoverMessage,
		Status:          models.ApplicationStatusSubmitted,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		// Unique index on (job_id, applicant_id) backs up the pre-check
		// against a concurrent double submit.
		return nil, apperrors.ErrAlreadyExists(err)
	}

	logger.CtxInfo(ctx, "application submitted", "job_id", jobID, "application_id", app.ID)
	return app, nil
}

func (s *applicationService) ListMyApplications(ctx context.Context, applicantID string) ([]models.Application, error) {
	apps, err := s.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	return apps, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, employerID, applicationID string, req *dto.UpdateApplicationStatusRequest) error {
	status := models.ApplicationStatus(req.Status)
	if !status.Valid() {
		return apperrors.ErrInvalidApplicationStatus
	}

	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.PersistenceError(err)
	}

	job, err := s.jobs.FindByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.PersistenceError(err)
	}
	if job.EmployerID != employerID {
		return apperrors.ErrNotJobOwner
	}

	if err := s.applications.UpdateStatus(ctx, applicationID, status); err != nil {
		return apperrors.PersistenceError(err)
	}

	logger.CtxInfo(ctx, "application status updated",
		"application_id", applicationID,
		"status", string(status),
	)
	return nil
}
