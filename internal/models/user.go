package models

import "time"

// SubscriptionState is the cached, advisory copy of the employer's
// recurring entitlement. It is recomputed from payment records on every
// read and never used as an authorization input on its own.
type SubscriptionState struct {
	IsActive      bool       `json:"is_active"`
	Plan          *string    `json:"plan"`
	ExpiresAt     *time.Time `json:"expires_at"`
	LastPaymentAt *time.Time `json:"last_payment_at"`
}

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `json:"full_name"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`

	// Employer company snapshot, copied onto postings at creation time
	CompanyName *string `json:"company_name,omitempty"`
	CompanyLogo *string `json:"company_logo,omitempty"`

	Subscription SubscriptionState `gorm:"embedded;embeddedPrefix:subscription_" json:"subscription"`
}
