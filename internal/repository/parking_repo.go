package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"parkinglot/internal/db"
)

type LotAvailability struct {
	ParkingLotID    int64  `db:"parking_lot_id"`
	Name            string `db:"name"`
	CurrentCapacity int    `db:"current_capacity"`
	MaximumCapacity int    `db:"spot_counts"`
	Priority        bool   `db:"priority"`
}

type ParkedCar struct {
	CarID             int64     `db:"car_id"`
	ParkingSpotNumber int       `db:"number"`
	AreaName          string    `db:"area_name"`
	AreaFloor         int       `db:"area_floor"`
	ParkingLotName    string    `db:"parking_lot_name"`
	StartTime         time.Time `db:"start_time"`
}

type SpotEvent struct {
	Type      string       `db:"type"`
	UserID    int64        `db:"user_id"`
	License   string       `db:"license"`
	StartTime time.Time    `db:"start_time"`
	EndTime   sql.NullTime `db:"end_time"`
}

type UserFlags struct {
	Exists   bool `db:"user_exists"`
	Parked   bool `db:"parked"`
	Reserved bool `db:"reserved"`
}

type ParkingStore interface {
	ListLotAvailability(ctx context.Context) ([]LotAvailability, error)
	ParkedCarByUser(ctx context.Context, userID int64) (*ParkedCar, error)
	SpotHistory(ctx context.Context, spotID int64) ([]SpotEvent, error)
	UserStatus(ctx context.Context, userID int64) (UserFlags, error)
	SpotExists(ctx context.Context, spotID int64) (bool, error)
	UpdateSpot(ctx context.Context, spotID int64, available *bool, priority *string) (*db.ParkingSpot, error)
}

type parkingRepository struct {
	db *sqlx.DB
}

func NewParkingRepository(d *db.DB) ParkingStore {
	return &parkingRepository{db: d.DB}
}

// ListLotAvailability counts, per lot, the spots that are flagged available
// and neither reserved nor occupied.
func (r *parkingRepository) ListLotAvailability(ctx context.Context) ([]LotAvailability, error) {
	var lots []LotAvailability
	err := r.db.SelectContext(ctx, &lots, `
		SELECT
			pl.parking_lot_id,
			pl.name,
			pl.spot_counts,
			COUNT(ps.parking_spot_id) FILTER (
				WHERE ps.available
				AND NOT EXISTS (SELECT 1 FROM reservations r WHERE r.parking_spot_id = ps.parking_spot_id)
				AND NOT EXISTS (SELECT 1 FROM attendances a WHERE a.parking_spot_id = ps.parking_spot_id AND a.end_time IS NULL)
			) AS current_capacity,
			COALESCE(BOOL_OR(ps.priority <> $1), FALSE) AS priority
		FROM parking_lots pl
		LEFT JOIN areas ar ON ar.parking_lot_id = pl.parking_lot_id
		LEFT JOIN parking_spots ps ON ps.area_id = ar.area_id
		GROUP BY pl.parking_lot_id, pl.name, pl.spot_counts
		ORDER BY pl.parking_lot_id`, db.PriorityNormal)
	if err != nil {
		return nil, fmt.Errorf("list lot availability: %w", err)
	}
	return lots, nil
}

// ParkedCarByUser returns where the user's car is parked right now, or nil.
func (r *parkingRepository) ParkedCarByUser(ctx context.Context, userID int64) (*ParkedCar, error) {
	var p ParkedCar
	err := r.db.GetContext(ctx, &p, `
		SELECT c.car_id, ps.number, ar.name AS area_name, ar.floor AS area_floor,
			pl.name AS parking_lot_name, a.start_time
		FROM attendances a
		JOIN cars c ON c.car_id = a.car_id
		JOIN parking_spots ps ON ps.parking_spot_id = a.parking_spot_id
		JOIN areas ar ON ar.area_id = ps.area_id
		JOIN parking_lots pl ON pl.parking_lot_id = ar.parking_lot_id
		WHERE c.user_id = $1 AND a.end_time IS NULL
		ORDER BY a.start_time DESC
		LIMIT 1`, userID)
	if err != nil {
		return nil, noRows(err)
	}
	return &p, nil
}

// SpotHistory lists every attendance at the spot plus its current
// reservation, newest first.
func (r *parkingRepository) SpotHistory(ctx context.Context, spotID int64) ([]SpotEvent, error) {
	var events []SpotEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT 'attendance' AS type, c.user_id, c.license, a.start_time, a.end_time
		FROM attendances a
		JOIN cars c ON c.car_id = a.car_id
		WHERE a.parking_spot_id = $1
		UNION ALL
		SELECT 'reservation' AS type, c.user_id, c.license, r.reservation_time, r.expired_time
		FROM reservations r
		JOIN cars c ON c.car_id = r.car_id
		WHERE r.parking_spot_id = $1
		ORDER BY start_time DESC`, spotID)
	if err != nil {
		return nil, fmt.Errorf("spot history: %w", err)
	}
	return events, nil
}

func (r *parkingRepository) UserStatus(ctx context.Context, userID int64) (UserFlags, error) {
	var f UserFlags
	err := r.db.GetContext(ctx, &f, `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE user_id = $1) AS user_exists,
			EXISTS (
				SELECT 1 FROM attendances a JOIN cars c ON c.car_id = a.car_id
				WHERE c.user_id = $1 AND a.end_time IS NULL
			) AS parked,
			EXISTS (
				SELECT 1 FROM reservations r JOIN cars c ON c.car_id = r.car_id
				WHERE c.user_id = $1
			) AS reserved`, userID)
	if err != nil {
		return UserFlags{}, fmt.Errorf("user status: %w", err)
	}
	return f, nil
}

func (r *parkingRepository) SpotExists(ctx context.Context, spotID int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM parking_spots WHERE parking_spot_id = $1)`, spotID)
	if err != nil {
		return false, fmt.Errorf("spot exists: %w", err)
	}
	return ok, nil
}

// UpdateSpot applies the non-nil fields and returns the updated row, or nil
// when the spot does not exist.
func (r *parkingRepository) UpdateSpot(ctx context.Context, spotID int64, available *bool, priority *string) (*db.ParkingSpot, error) {
	var s db.ParkingSpot
	err := r.db.GetContext(ctx, &s, `
		UPDATE parking_spots
		SET available = COALESCE($2, available),
			priority = COALESCE($3, priority)
		WHERE parking_spot_id = $1
		RETURNING `+spotColumns, spotID, available, priority)
	if err != nil {
		if err = noRows(err); err != nil {
			return nil, translateError(fmt.Errorf("update spot: %w", err))
		}
		return nil, nil
	}
	return &s, nil
}
