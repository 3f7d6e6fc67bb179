package services

import (
	"context"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applicationFixture struct {
	apps  *memApplicationRepo
	jobs  *memJobRepo
	users *memUserRepo
	svc   ApplicationService
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	f := &applicationFixture{
		apps:  newMemApplicationRepo(),
		jobs:  newMemJobRepo(),
		users: newMemUserRepo(),
	}
	f.svc = NewApplicationService(f.apps, f.jobs, f.users)

	f.users.put(&models.User{
		BaseModel: models.BaseModel{ID: "tal-1"},
		Email:     "talent@example.com",
		FullName:  "Tess Talent",
		Role:      models.UserRoleTalent,
	})
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

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the applicant profile", func(t *testing.T) {
		f := newApplicationFixture(t)

		app, err := f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{
			Skills: []string{"go", "postgres"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Tess Talent", app.ApplicantName)
		assert.Equal(t, "talent@example.com", app.ApplicantEmail)
		assert.Equal(t, models.ApplicationStatusSubmitted, app.Status)
		assert.JSONEq(t, `["go","postgres"]`, string(app.ApplicantSkills))
	})

	t.Run("one application per applicant per job", func(t *testing.T) {
		f := newApplicationFixture(t)

		_, err := f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{})
		require.NoError(t, err)

		_, err = f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
	})

	t.Run("closed jobs do not accept applications", func(t *testing.T) {
		f := newApplicationFixture(t)
		require.NoError(t, f.jobs.UpdateStatus(ctx, "job-1", models.JobStatusClosed))

		_, err := f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{})
		assert.ErrorIs(t, err, apperrors.ErrJobClosed)
	})

	t.Run("employers cannot apply", func(t *testing.T) {
		f := newApplicationFixture(t)

		_, err := f.svc.Apply(ctx, "emp-1", "job-1", &dto.CreateApplicationRequest{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
	})
}

func TestUpdateApplicationStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner moves the application through the pipeline", func(t *testing.T) {
		f := newApplicationFixture(t)
		app, err := f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{})
		require.NoError(t, err)

		err = f.svc.UpdateStatus(ctx, "emp-1", app.ID, &dto.UpdateApplicationStatusRequest{Status: "interview"})
		require.NoError(t, err)

		got, err := f.apps.FindByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusInterview, got.Status)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newApplicationFixture(t)
		app, err := f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{})
		require.NoError(t, err)

		err = f.svc.UpdateStatus(ctx, "emp-2", app.ID, &dto.UpdateApplicationStatusRequest{Status: "viewed"})
		assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)
	})

	t.Run("status outside the pipeline enum is rejected", func(t *testing.T) {
		f := newApplicationFixture(t)
		app, err := f.svc.Apply(ctx, "tal-1", "job-1", &dto.CreateApplicationRequest{})
		require.NoError(t, err)

		err = f.svc.UpdateStatus(ctx, "emp-1", app.ID, &dto.UpdateApplicationStatusRequest{Status: "hired"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidApplicationStatus)
	})
}
