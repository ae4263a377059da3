package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"parkinglot/internal/db"
)

// JobRepository backs the background expiry job.
type JobRepository struct {
	DB *sqlx.DB
}

func NewJobRepository(d *db.DB) *JobRepository {
	return &JobRepository{DB: d.DB}
}

// GetExpiredReservationIDs returns reservations whose expired_time is before now.
func (r *JobRepository) GetExpiredReservationIDs(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	err := r.DB.SelectContext(ctx, &ids,
		`SELECT reservation_id FROM reservations WHERE expired_time < $1 ORDER BY reservation_id`, now)
	if err != nil {
		return nil, fmt.Errorf("query expired reservations: %w", err)
	}
	return ids, nil
}

// DeleteReservations removes the given reservations and reports how many rows went.
func (r *JobRepository) DeleteReservations(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete expired reservations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
