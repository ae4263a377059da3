package db

import (
	"database/sql"
	"time"
)

type ParkingLot struct {
	ParkingLotID int64  `db:"parking_lot_id"`
	Name         string `db:"name"`
	SpotCounts   int    `db:"spot_counts"`
}

type Area struct {
	AreaID       int64  `db:"area_id"`
	ParkingLotID int64  `db:"parking_lot_id"`
	Name         string `db:"name"`
	Floor        int    `db:"floor"`
}

type ParkingSpot struct {
	ParkingSpotID int64  `db:"parking_spot_id"`
	AreaID        int64  `db:"area_id"`
	Number        int    `db:"number"`
	Available     bool   `db:"available"`
	Priority      string `db:"priority"`
}

type User struct {
	UserID       int64     `db:"user_id"`
	Account      string    `db:"account"`
	PasswordHash string    `db:"password_hash"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type Car struct {
	CarID   int64  `db:"car_id"`
	License string `db:"license"`
	UserID  int64  `db:"user_id"`
}

type Reservation struct {
	ReservationID   int64     `db:"reservation_id"`
	CarID           int64     `db:"car_id"`
	ParkingSpotID   int64     `db:"parking_spot_id"`
	ReservationTime time.Time `db:"reservation_time"`
	ExpiredTime     time.Time `db:"expired_time"`
}

// Attendance is a car physically occupying a spot. EndTime is NULL while
// the car is still there.
type Attendance struct {
	AttendanceID  int64        `db:"attendance_id"`
	CarID         int64        `db:"car_id"`
	ParkingSpotID int64        `db:"parking_spot_id"`
	StartTime     time.Time    `db:"start_time"`
	EndTime       sql.NullTime `db:"end_time"`
}

func (a *Attendance) Active() bool {
	return !a.EndTime.Valid
}

// Profile holds a user's parking preferences. Role and Priority describe the
// parker (e.g. "Staff", "Disabled") and are valid until Expired.
type Profile struct {
	ProfileID        int64     `db:"profile_id"`
	UserID           int64     `db:"user_id"`
	PreferenceAreaID int64     `db:"preference_area_id"`
	Role             string    `db:"role"`
	Priority         string    `db:"priority"`
	Expired          time.Time `db:"expired"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PriorityNormal = "Normal"
)
