package services

import (
	"context"
	"errors"
	"time"

	"jobboard_backend/internal/entitlement"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

type JobService interface {
	CreateJob(ctx context.Context, employerID string, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error)
	ListMyJobs(ctx context.Context, employerID string) ([]models.Job, error)
	CloseJob(ctx context.Context, employerID, jobID string) error
	// GetJobApplicants is the paywalled read: the owner sees the first few
	// applicants for free and the full list once the job is unlocked.
	GetJobApplicants(ctx context.Context, employerID, jobID string) (*dto.JobApplicantsResponse, error)
}

type jobService struct {
	jobs         repositories.JobRepository
	applications repositories.ApplicationRepository
	payments     repositories.PaymentRepository
	users        repositories.UserRepository
	freeLimit    int
	now          func() time.Time
}

func NewJobService(
	jobs repositories.JobRepository,
	applications repositories.ApplicationRepository,
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	freeLimit int,
) JobService {
	if freeLimit <= 0 {
		freeLimit = entitlement.DefaultFreeLimit
	}
	return &jobService{
		jobs:         jobs,
		applications: applications,
		payments:     payments,
		users:        users,
		freeLimit:    freeLimit,
		now:          time.Now,
	}
}

func (s *jobService) CreateJob(ctx context.Context, employerID string, req *dto.CreateJobRequest) (*models.Job, error) {
	employer, err := s.users.FindByID(ctx, employerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	if employer.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInvalidUserRole
	}

	// Company identity is snapshotted onto the posting at creation time.
	companyName := ""
	if employer.CompanyName != nil {
		companyName = *employer.CompanyName
	}

	job := &models.Job{
		EmployerID:   employerID,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		JobType:      req.JobType,
		SalaryAmount: req.SalaryAmount,
		CompanyName:  companyName,
		CompanyLogo:  employer.CompanyLogo,
		Status:       models.JobStatusActive,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "title", job.Title)
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	jobs, err := s.jobs.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	return jobs, nil
}

func (s *jobService) ListMyJobs(ctx context.Context, employerID string) ([]models.Job, error) {
	jobs, err := s.jobs.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	return jobs, nil
}

func (s *jobService) CloseJob(ctx context.Context, employerID, jobID string) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.PersistenceError(err)
	}
	if job.EmployerID != employerID {
		return apperrors.ErrNotJobOwner
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, models.JobStatusClosed); err != nil {
		return apperrors.PersistenceError(err)
	}

	logger.CtxInfo(ctx, "job closed", "job_id", jobID)
	return nil
}

func (s *jobService) GetJobApplicants(ctx context.Context, employerID, jobID string) (*dto.JobApplicantsResponse, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.PersistenceError(err)
	}
	if job.EmployerID != employerID {
		return nil, apperrors.ErrNotJobOwner
	}

	all, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	// Entitlement is recomputed from payment records on every read; the
	// cached subscription columns on the user row are never consulted.
	records, err := s.payments.ListByUser(ctx, employerID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	unlocked := entitlement.IsUnlocked(records, jobID, s.now())

	visible, hidden := entitlement.VisibleApplications(all, unlocked, s.freeLimit)

	return &dto.JobApplicantsResponse{
		Applications: visible,
		Total:        len(all),
		HiddenCount:  hidden,
		IsUnlocked:   unlocked,
	}, nil
}
