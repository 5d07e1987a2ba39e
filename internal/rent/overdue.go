package rent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rentfolio/internal/models"
)

// OverdueStore is the persistence the OverdueDetector needs.
type OverdueStore interface {
	OverdueCandidates(ctx context.Context, ownerID uint, now time.Time) ([]models.RentPayment, error)
	MarkOverdue(ctx context.Context, ids []uint) (int64, error)
}

// OverdueDetector lists payments past their due date and flips the PENDING
// ones to OVERDUE. Repeated calls return the same rows without rewriting them.
type OverdueDetector struct {
	store OverdueStore
	log   *zap.Logger
}

func NewOverdueDetector(store OverdueStore, log *zap.Logger) *OverdueDetector {
	return &OverdueDetector{store: store, log: log}
}

// Detect returns the owner's payments due before now whose rent is unpaid,
// oldest first. The management fee status is never touched.
func (d *OverdueDetector) Detect(ctx context.Context, ownerID uint, now time.Time) ([]models.RentPayment, error) {
	payments, err := d.store.OverdueCandidates(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}

	var pending []uint
	for _, p := range payments {
		if p.RentStatus == models.PaymentStatusPending {
			pending = append(pending, p.ID)
		}
	}
	if len(pending) == 0 {
		return payments, nil
	}

	flipped, err := d.store.MarkOverdue(ctx, pending)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].RentStatus == models.PaymentStatusPending {
			payments[i].RentStatus = models.PaymentStatusOverdue
		}
	}

	d.log.Info("marked payments overdue",
		zap.Uint("owner_id", ownerID),
		zap.Int("candidates", len(payments)),
		zap.Int64("flipped", flipped),
	)
	return payments, nil
}
