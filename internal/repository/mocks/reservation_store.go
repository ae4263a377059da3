package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"parkinglot/internal/db"
	"parkinglot/internal/repository"
)

// ReservationStore is a testify mock of the reservation persistence layer.
type ReservationStore struct {
	mock.Mock
}

func (m *ReservationStore) CarByID(ctx context.Context, carID int64) (*db.Car, error) {
	args := m.Called(ctx, carID)
	c, _ := args.Get(0).(*db.Car)
	return c, args.Error(1)
}

func (m *ReservationStore) ParkingSpotByID(ctx context.Context, spotID int64) (*db.ParkingSpot, error) {
	args := m.Called(ctx, spotID)
	s, _ := args.Get(0).(*db.ParkingSpot)
	return s, args.Error(1)
}

func (m *ReservationStore) AreaByID(ctx context.Context, areaID int64) (*db.Area, error) {
	args := m.Called(ctx, areaID)
	a, _ := args.Get(0).(*db.Area)
	return a, args.Error(1)
}

func (m *ReservationStore) ParkingLotByID(ctx context.Context, lotID int64) (*db.ParkingLot, error) {
	args := m.Called(ctx, lotID)
	l, _ := args.Get(0).(*db.ParkingLot)
	return l, args.Error(1)
}

func (m *ReservationStore) ReservationByCar(ctx context.Context, carID int64) (*db.Reservation, error) {
	args := m.Called(ctx, carID)
	r, _ := args.Get(0).(*db.Reservation)
	return r, args.Error(1)
}

func (m *ReservationStore) ReservationBySpot(ctx context.Context, spotID int64) (*db.Reservation, error) {
	args := m.Called(ctx, spotID)
	r, _ := args.Get(0).(*db.Reservation)
	return r, args.Error(1)
}

func (m *ReservationStore) AttendanceByCar(ctx context.Context, carID int64) (*db.Attendance, error) {
	args := m.Called(ctx, carID)
	a, _ := args.Get(0).(*db.Attendance)
	return a, args.Error(1)
}

func (m *ReservationStore) AttendanceBySpot(ctx context.Context, spotID int64) (*db.Attendance, error) {
	args := m.Called(ctx, spotID)
	a, _ := args.Get(0).(*db.Attendance)
	return a, args.Error(1)
}

func (m *ReservationStore) CreateReservation(ctx context.Context, res *db.Reservation) error {
	return m.Called(ctx, res).Error(0)
}

func (m *ReservationStore) DeleteReservation(ctx context.Context, reservationID int64) error {
	return m.Called(ctx, reservationID).Error(0)
}

func (m *ReservationStore) ListReservationViews(ctx context.Context) ([]repository.ReservationView, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]repository.ReservationView)
	return v, args.Error(1)
}

// JobStore is a testify mock of the expiry job's persistence.
type JobStore struct {
	mock.Mock
}

func (m *JobStore) GetExpiredReservationIDs(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *JobStore) DeleteReservations(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}
