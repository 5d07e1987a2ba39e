// Package scheduler runs the overdue payment sweep on an interval.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rentfolio/internal/models"
)

const lockKey = "rentfolio:overdue-sweep"

// Detector flags one owner's overdue payments.
type Detector interface {
	Detect(ctx context.Context, ownerID uint, now time.Time) ([]models.RentPayment, error)
}

// OwnerLister lists the owners to sweep.
type OwnerLister interface {
	OwnerIDs(ctx context.Context) ([]uint, error)
}

// Sweeper runs the overdue detector for every owner.
type Sweeper struct {
	owners   OwnerLister
	detector Detector
	locker   Locker // nil runs unlocked
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewSweeper builds a Sweeper. locker may be nil.
func NewSweeper(owners OwnerLister, detector Detector, locker Locker, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		owners:   owners,
		detector: detector,
		locker:   locker,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for each pass.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	if now != nil {
		s.now = now
	}
	return s
}

// Run sweeps once immediately and then every interval until ctx is done. A
// non-positive interval disables the sweeper.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("overdue sweep disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("overdue sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce runs one pass and returns how many overdue payments it saw. It
// does nothing when another replica holds the lock. A failure for one owner
// is logged and the pass continues.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, lockKey, s.lockTTL())
		if err != nil {
			return 0, err
		}
		if !ok {
			s.log.Debug("overdue sweep already running elsewhere")
			return 0, nil
		}
		defer release()
	}

	owners, err := s.owners.OwnerIDs(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	total := 0
	for _, ownerID := range owners {
		overdue, err := s.detector.Detect(ctx, ownerID, now)
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			s.log.Error("overdue sweep failed for owner", zap.Uint("owner_id", ownerID), zap.Error(err))
			continue
		}
		total += len(overdue)
	}

	s.log.Info("overdue sweep finished", zap.Int("owners", len(owners)), zap.Int("overdue", total))
	return total, nil
}

func (s *Sweeper) lockTTL() time.Duration {
	if s.interval > 0 && s.interval < 10*time.Minute {
		return s.interval
	}
	return 10 * time.Minute
}
