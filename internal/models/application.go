package models

import "gorm.io/datatypes"

// Application carries a snapshot of the applicant profile so the employer
// dashboard does not join against the users table on every listing.
type Application struct {
	BaseModel
	JobID           string            `gorm:"not null;index;uniqueIndex:idx_app_job_applicant" json:"job_id"`
	ApplicantID     string            `gorm:"not null;index;uniqueIndex:idx_app_job_applicant" json:"applicant_id"`
	ApplicantName   string            `json:"applicant_name"`
	ApplicantEmail  string            `json:"applicant_email"`
	ApplicantSkills datatypes.JSON    `gorm:"type:jsonb" json:"applicant_skills"` // ["go", "sql", ...]
	CoverMessage    *string           `json:"cover_message,omitempty"`
	Status          ApplicationStatus `gorm:"type:varchar(20);default:'submitted'" json:"status"`
}
