package models

// UserRole distinguishes the two marketplace sides.
type UserRole string

const (
	UserRoleEmployer UserRole = "employer"
	UserRoleTalent   UserRole = "talent"
)

// JobStatus - lifecycle of a posting.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// ApplicationStatus - the employer-driven pipeline an application moves
// through.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusViewed    ApplicationStatus = "viewed"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusOffer     ApplicationStatus = "offer"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusViewed,
		ApplicationStatusInterview, ApplicationStatusOffer,
		ApplicationStatusRejected:
		return true
	}
	return false
}

// PaymentKind - what a payment record buys.
type PaymentKind string

const (
	// PaymentKindJobUnlock is the one-time unlock scoped to a single job.
	PaymentKindJobUnlock PaymentKind = "job_unlock"
	// PaymentKindMonthlySubscription unlocks every job of the employer for
	// a fixed 30-day window.
	PaymentKindMonthlySubscription PaymentKind = "monthly_subscription"
)

// PaymentStatus - gateway-reported lifecycle of a record. A record moves
// from pending to exactly one terminal status and never back.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCanceled  PaymentStatus = "canceled"
)

// Terminal reports whether no further transition is permitted.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCanceled:
		return true
	}
	return false
}

// SubscriptionPlanMonthly is the only recurring plan the product sells.
const SubscriptionPlanMonthly = "monthly"
