package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"jobboard_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user directly, hashing the password when the field
// still holds plaintext.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()

	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		require.NoError(t, err)
		user.PasswordHash = string(hashed)
	}

	require.NoError(t, db.Create(user).Error)
}

// CreateAndLoginUser creates a user through the database and logs in
// through the API, returning the bearer token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, name, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: password,
		FullName:     name,
		Role:         role,
	}
	if role == models.UserRoleEmployer {
		company := name + " Inc."
		user.CompanyName = &company
	}
	CreateUser(t, ts.DB, user)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: "+body)

	var loginResponse struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &loginResponse))
	require.NotEmpty(t, loginResponse.Token)

	return loginResponse.Token, user
}

// CreateJob inserts a job posting directly.
func CreateJob(t *testing.T, db *gorm.DB, employerID, title string) *models.Job {
	t.Helper()

	job := &models.Job{
		EmployerID:  employerID,
		Title:       title,
		Location:    "Remote",
		JobType:     "full_time",
		CompanyName: "Test Co",
		Status:      models.JobStatusActive,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// CreateApplications inserts n applications from distinct talent users.
func CreateApplications(t *testing.T, ts *TestServer, jobID string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		suffix := string(rune('a' + i))
		talent := &models.User{
			Email:        "applicant-" + suffix + "-" + jobID + "@test.com",
			PasswordHash: "password123",
			FullName:     "Applicant " + strings.ToUpper(suffix),
			Role:         models.UserRoleTalent,
		}
		CreateUser(t, ts.DB, talent)

		app := &models.Application{
			JobID:          jobID,
			ApplicantID:    talent.ID,
			ApplicantName:  talent.FullName,
			ApplicantEmail: talent.Email,
			Status:         models.ApplicationStatusSubmitted,
		}
		require.NoError(t, ts.DB.Create(app).Error)
	}
}
