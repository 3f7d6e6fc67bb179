package dto

import "jobboard_backend/internal/models"

type CreateJobRequest struct {
	Title        string   `json:"title" binding:"required" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=10000"`
	Location     string   `json:"location" binding:"required" validate:"required,max=200"`
	JobType      string   `json:"job_type" binding:"required" validate:"required,is-job-type"`
	SalaryAmount *float64 `json:"salary_amount,omitempty" validate:"omitempty,gt=0"`
}

// JobApplicantsResponse is the employer dashboard payload: the visible
// slice plus enough counters for the "unlock all N applicants" banner.
type JobApplicantsResponse struct {
	Applications []models.Application `json:"applications"`
	Total        int                  `json:"total"`
	HiddenCount  int                  `json:"hidden_count"`
	IsUnlocked   bool                 `json:"is_unlocked"`
}
