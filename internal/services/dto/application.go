package dto

type CreateApplicationRequest struct {
	CoverMessage *string  `json:"cover_message,omitempty" validate:"omitempty,max=5000"`
	Skills       []string `json:"skills,omitempty" validate:"max=30,dive,max=60"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required,is-application-status"`
}
