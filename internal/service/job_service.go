package service

import (
	"context"
	"fmt"
	"time"

	"parkinglot/internal/logging"
	"parkinglot/internal/metrics"
)

type JobStore interface {
	GetExpiredReservationIDs(ctx context.Context, now time.Time) ([]int64, error)
	DeleteReservations(ctx context.Context, ids []int64) (int64, error)
}

type JobService struct {
	store JobStore
	now   func() time.Time
}

func NewJobService(store JobStore) *JobService {
	return &JobService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// PurgeExpiredReservations deletes reservations whose expiry has passed and
// returns how many were removed.
func (s *JobService) PurgeExpiredReservations(ctx context.Context) (int64, error) {
	logging.Debug(ctx).Msg("cron job: checking for expired reservations")

	ids, err := s.store.GetExpiredReservationIDs(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("cron job: get expired reservations: %w", err)
	}
	if len(ids) == 0 {
		logging.Debug(ctx).Msg("cron job: no expired reservations")
		return 0, nil
	}

	logging.Info(ctx).Ints64("reservation_ids", ids).Msg("cron job: expiring reservations")
	n, err := s.store.DeleteReservations(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("cron job: delete expired reservations: %w", err)
	}
	metrics.ReservationsExpired.Add(float64(n))
	logging.Info(ctx).Int64("deleted", n).Msg("cron job: expired reservations removed")
	return n, nil
}
