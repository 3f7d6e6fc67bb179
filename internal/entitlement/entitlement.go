// Package entitlement holds the pure decision logic behind applicant
// visibility: whether an employer's view of a job is unlocked, and which
// slice of the applications the employer may see. No I/O happens here;
// callers load payment records and pass them in together with the clock.
package entitlement

import (
	"time"

	"jobboard_backend/internal/models"
)

// SubscriptionPeriod is the fixed validity window of one subscription
// payment. Deliberately not calendar-month aware.
const SubscriptionPeriod = 30 * 24 * time.Hour

// DefaultFreeLimit is how many applicants a job shows before payment.
const DefaultFreeLimit = 3

// ComputeSubscriptionState derives the recurring entitlement from the raw
// payment records. Only the most recent succeeded monthly_subscription
// record counts; expiry is strict, so now == expiresAt is already expired.
func ComputeSubscriptionState(records []models.PaymentRecord, now time.Time) models.SubscriptionState {
	var latest *models.PaymentRecord
	for i := range records {
		rec := &records[i]
		if rec.Kind != models.PaymentKindMonthlySubscription || rec.Status != models.PaymentStatusSucceeded {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}

	if latest == nil {
		return models.SubscriptionState{}
	}

	lastPayment := latest.CreatedAt
	expiresAt := lastPayment.Add(SubscriptionPeriod)
	plan := models.SubscriptionPlanMonthly

	return models.SubscriptionState{
		IsActive:      now.Before(expiresAt),
		Plan:          &plan,
		ExpiresAt:     &expiresAt,
		LastPaymentAt: &lastPayment,
	}
}

// IsUnlocked decides whether the employer sees the full applicant list for
// jobID: either a succeeded one-time unlock scoped to this job exists, or
// the subscription computed from the same records is active at now.
func IsUnlocked(records []models.PaymentRecord, jobID string, now time.Time) bool {
	for i := range records {
		rec := &records[i]
		if rec.Kind == models.PaymentKindJobUnlock &&
			rec.Status == models.PaymentStatusSucceeded &&
			rec.JobID != nil && *rec.JobID == jobID {
			return true
		}
	}
	return ComputeSubscriptionState(records, now).IsActive
}

// VisibleApplications applies the flat positional cutoff: the first
// freeLimit entries in the order supplied, or everything when unlocked.
// The input slice is never mutated and no placeholders are fabricated for
// hidden entries. hidden is reported for UI messaging.
func VisibleApplications(all []models.Application, unlocked bool, freeLimit int) (visible []models.Application, hidden int) {
	if unlocked || len(all) <= freeLimit {
		return all, 0
	}
	if freeLimit < 0 {
		freeLimit = 0
	}
	return all[:freeLimit], len(all) - freeLimit
}
