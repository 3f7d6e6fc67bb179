package models

import "gorm.io/datatypes"

// PaymentRecord is the durable trail of one payment attempt. Records are
// append-only: status moves once from pending to a terminal state through
// the repository's conditional update and rows are never deleted.
type PaymentRecord struct {
	BaseModel
	PaymentIntentID string      `gorm:"uniqueIndex;not null" json:"payment_intent_id"`
	UserID          string      `gorm:"not null;index" json:"user_id"`
	JobID           *string     `gorm:"index" json:"job_id,omitempty"` // nil for subscription payments
	Kind            PaymentKind `gorm:"type:varchar(30);not null" json:"kind"`
	Amount          float64     `gorm:"not null" json:"amount"` // major units
	Currency        string      `gorm:"type:varchar(3);not null" json:"currency"`
	Status          PaymentStatus  `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	GatewayMetadata datatypes.JSON `gorm:"type:jsonb" json:"gateway_metadata,omitempty"`
}
