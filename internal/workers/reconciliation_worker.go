package workers

import (
	"context"
	"time"

	"jobboard_backend/internal/gateway"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
)

// ReconciliationWorker runs the two periodic sweeps behind the payment
// core: finalizing payment records the client never confirmed, and
// clearing subscription flags that expired since the last read.
type ReconciliationWorker struct {
	payments repositories.PaymentRepository
	users    repositories.UserRepository
	gateway  gateway.PaymentGateway

	sweepInterval time.Duration
	pendingMaxAge time.Duration
}

func NewReconciliationWorker(
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	gw gateway.PaymentGateway,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		payments:      payments,
		users:         users,
		gateway:       gw,
		sweepInterval: 15 * time.Minute,
		pendingMaxAge: time.Hour,
	}
}

func (w *ReconciliationWorker) Start(ctx context.Context) {
	go w.reconcileStalePayments(ctx)
	go w.deactivateExpiredSubscriptions(ctx)
}

// reconcileStalePayments re-reads the gateway for pending records whose
// client-side confirmation never arrived. A window closed mid-payment
// otherwise leaves the record pending forever.
func (w *ReconciliationWorker) reconcileStalePayments(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("payment reconciliation worker stopped")
			return
		case <-ticker.C:
			w.sweepOnce(ctx)
		}
	}
}

func (w *ReconciliationWorker) sweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-w.pendingMaxAge)
	stale, err := w.payments.ListStalePending(ctx, cutoff)
	if err != nil {
		logger.Error("stale payment sweep failed", "error", err.Error())
		return
	}

	for _, rec := range stale {
		retrieved, err := w.gateway.RetrieveIntent(ctx, rec.PaymentIntentID)
		if err != nil {
			logger.Warn("stale payment lookup failed",
				"payment_intent_id", rec.PaymentIntentID,
				"error", err.Error(),
			)
			continue
		}

		var terminal models.PaymentStatus
		switch retrieved.Status {
		case gateway.IntentStatusSucceeded:
			terminal = models.PaymentStatusSucceeded
		case gateway.IntentStatusCanceled:
			terminal = models.PaymentStatusCanceled
		default:
			continue // still in flight at the processor
		}

		if _, err := w.payments.Finalize(ctx, rec.PaymentIntentID, terminal, nil); err != nil {
			logger.Warn("stale payment finalize failed",
				"payment_intent_id", rec.PaymentIntentID,
				"error", err.Error(),
			)
			continue
		}
		logger.Info("stale payment reconciled",
			"payment_intent_id", rec.PaymentIntentID,
			"status", string(terminal),
		)
	}
}

// deactivateExpiredSubscriptions clears stale active flags in bulk. The
// flags are advisory, so the sweep only keeps dashboards honest between
// on-demand recomputations.
func (w *ReconciliationWorker) deactivateExpiredSubscriptions(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription sweep worker stopped")
			return
		case <-ticker.C:
			n, err := w.users.DeactivateExpiredSubscriptions(ctx, time.Now())
			if err != nil {
				logger.Error("subscription sweep failed", "error", err.Error())
				continue
			}
			if n > 0 {
				logger.Info("expired subscriptions deactivated", "count", n)
			}
		}
	}
}
