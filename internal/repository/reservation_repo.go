package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"parkinglot/internal/db"
)

const (
	carColumns         = `car_id, license, user_id`
	spotColumns        = `parking_spot_id, area_id, number, available, priority`
	areaColumns        = `area_id, parking_lot_id, name, floor`
	lotColumns         = `parking_lot_id, name, spot_counts`
	reservationColumns = `reservation_id, car_id, parking_spot_id, reservation_time, expired_time`
	attendanceColumns  = `attendance_id, car_id, parking_spot_id, start_time, end_time`
)

// ReservationView is a reservation joined with everything needed to display it.
type ReservationView struct {
	CarID             int64     `db:"car_id"`
	CarLicense        string    `db:"license"`
	ParkingSpotNumber int       `db:"number"`
	ParkingSpotID     int64     `db:"parking_spot_id"`
	AreaName          string    `db:"area_name"`
	AreaFloor         int       `db:"area_floor"`
	ParkingLotName    string    `db:"parking_lot_name"`
	ReservationTime   time.Time `db:"reservation_time"`
	ExpiredTime       time.Time `db:"expired_time"`
}

// ReservationRepository answers the single-row lookups the reservation
// endpoints are built from. Every lookup returns (nil, nil) when the row is
// absent.
type ReservationRepository struct {
	DB *sqlx.DB
}

func NewReservationRepository(d *db.DB) *ReservationRepository {
	return &ReservationRepository{DB: d.DB}
}

func (r *ReservationRepository) CarByID(ctx context.Context, carID int64) (*db.Car, error) {
	var c db.Car
	err := r.DB.GetContext(ctx, &c, `SELECT `+carColumns+` FROM cars WHERE car_id = $1`, carID)
	if err != nil {
		return nil, noRows(err)
	}
	return &c, nil
}

func (r *ReservationRepository) ParkingSpotByID(ctx context.Context, spotID int64) (*db.ParkingSpot, error) {
	var s db.ParkingSpot
	err := r.DB.GetContext(ctx, &s, `SELECT `+spotColumns+` FROM parking_spots WHERE parking_spot_id = $1`, spotID)
	if err != nil {
		return nil, noRows(err)
	}
	return &s, nil
}

func (r *ReservationRepository) AreaByID(ctx context.Context, areaID int64) (*db.Area, error) {
	var a db.Area
	err := r.DB.GetContext(ctx, &a, `SELECT `+areaColumns+` FROM areas WHERE area_id = $1`, areaID)
	if err != nil {
		return nil, noRows(err)
	}
	return &a, nil
}

func (r *ReservationRepository) ParkingLotByID(ctx context.Context, lotID int64) (*db.ParkingLot, error) {
	var l db.ParkingLot
	err := r.DB.GetContext(ctx, &l, `SELECT `+lotColumns+` FROM parking_lots WHERE parking_lot_id = $1`, lotID)
	if err != nil {
		return nil, noRows(err)
	}
	return &l, nil
}

func (r *ReservationRepository) ReservationByCar(ctx context.Context, carID int64) (*db.Reservation, error) {
	return r.reservationWhere(ctx, "car_id", carID)
}

func (r *ReservationRepository) ReservationBySpot(ctx context.Context, spotID int64) (*db.Reservation, error) {
	return r.reservationWhere(ctx, "parking_spot_id", spotID)
}

func (r *ReservationRepository) reservationWhere(ctx context.Context, column string, id int64) (*db.Reservation, error) {
	var res db.Reservation
	q := fmt.Sprintf(`SELECT %s FROM reservations WHERE %s = $1 LIMIT 1`, reservationColumns, column)
	if err := r.DB.GetContext(ctx, &res, q, id); err != nil {
		return nil, noRows(err)
	}
	return &res, nil
}

// AttendanceByCar returns the car's active attendance, if any.
func (r *ReservationRepository) AttendanceByCar(ctx context.Context, carID int64) (*db.Attendance, error) {
	return r.activeAttendanceWhere(ctx, "car_id", carID)
}

// AttendanceBySpot returns the spot's active attendance, if any.
func (r *ReservationRepository) AttendanceBySpot(ctx context.Context, spotID int64) (*db.Attendance, error) {
	return r.activeAttendanceWhere(ctx, "parking_spot_id", spotID)
}

func (r *ReservationRepository) activeAttendanceWhere(ctx context.Context, column string, id int64) (*db.Attendance, error) {
	var a db.Attendance
	q := fmt.Sprintf(`SELECT %s FROM attendances WHERE %s = $1 AND end_time IS NULL LIMIT 1`, attendanceColumns, column)
	if err := r.DB.GetContext(ctx, &a, q, id); err != nil {
		return nil, noRows(err)
	}
	return &a, nil
}

// CreateReservation inserts res and commits, filling in ReservationID.
// Constraint failures at insert or commit come back as ErrIntegrityViolation.
func (r *ReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO reservations (car_id, parking_spot_id, reservation_time, expired_time)
		VALUES ($1, $2, $3, $4)
		RETURNING reservation_id`,
		res.CarID, res.ParkingSpotID, res.ReservationTime, res.ExpiredTime,
	).Scan(&res.ReservationID)
	if err != nil {
		return translateError(fmt.Errorf("insert reservation: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return translateError(fmt.Errorf("commit reservation: %w", err))
	}
	return nil
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, reservationID int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = $1`, reservationID); err != nil {
		return translateError(fmt.Errorf("delete reservation: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return translateError(fmt.Errorf("commit delete: %w", err))
	}
	return nil
}

func (r *ReservationRepository) ListReservationViews(ctx context.Context) ([]ReservationView, error) {
	var views []ReservationView
	err := r.DB.SelectContext(ctx, &views, `
		SELECT
			r.car_id, c.license, ps.number, r.parking_spot_id,
			ar.name AS area_name, ar.floor AS area_floor, pl.name AS parking_lot_name,
			r.reservation_time, r.expired_time
		FROM reservations r
		JOIN cars c ON c.car_id = r.car_id
		JOIN parking_spots ps ON ps.parking_spot_id = r.parking_spot_id
		JOIN areas ar ON ar.area_id = ps.area_id
		JOIN parking_lots pl ON pl.parking_lot_id = ar.parking_lot_id
		ORDER BY r.reservation_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return views, nil
}
