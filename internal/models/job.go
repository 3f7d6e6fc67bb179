package models

type Job struct {
	BaseModel
	EmployerID   string    `gorm:"not null;index" json:"employer_id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	JobType      string    `json:"job_type"` // full_time | part_time | contract | internship
	SalaryAmount *float64  `json:"salary_amount,omitempty"`
	CompanyName  string    `json:"company_name"`
	CompanyLogo  *string   `json:"company_logo,omitempty"`
	Status       JobStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
}
