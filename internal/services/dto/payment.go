package dto

import "jobboard_backend/internal/models"

type CreateIntentRequest struct {
	Amount   float64 `json:"amount" binding:"required" validate:"required,gt=0"`
	Currency string  `json:"currency,omitempty" validate:"omitempty,iso4217-lower"`
	JobID    string  `json:"job_id" binding:"required" validate:"required"`
	UserID   string  `json:"user_id" binding:"required" validate:"required"`
}

type CreateSubscriptionRequest struct {
	UserID string `json:"user_id" binding:"required" validate:"required"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required" validate:"required"`
}

type CreateIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// ConfirmPaymentResponse reflects the gateway's own status, which is the
// only input that ever finalizes the local record.
type ConfirmPaymentResponse struct {
	Status  string                `json:"status"`
	Payment *models.PaymentRecord `json:"payment"`
}

type SubscriptionResponse struct {
	Subscription models.SubscriptionState `json:"subscription"`
}

type PaymentHistoryResponse struct {
	Payments []models.PaymentRecord `json:"payments"`
	Total    int                    `json:"total"`
}
