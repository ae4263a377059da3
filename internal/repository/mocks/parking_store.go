package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"parkinglot/internal/db"
	"parkinglot/internal/repository"
)

type ParkingStore struct {
	mock.Mock
}

func (m *ParkingStore) ListLotAvailability(ctx context.Context) ([]repository.LotAvailability, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]repository.LotAvailability)
	return l, args.Error(1)
}

func (m *ParkingStore) ParkedCarByUser(ctx context.Context, userID int64) (*repository.ParkedCar, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*repository.ParkedCar)
	return p, args.Error(1)
}

func (m *ParkingStore) SpotHistory(ctx context.Context, spotID int64) ([]repository.SpotEvent, error) {
	args := m.Called(ctx, spotID)
	e, _ := args.Get(0).([]repository.SpotEvent)
	return e, args.Error(1)
}

func (m *ParkingStore) UserStatus(ctx context.Context, userID int64) (repository.UserFlags, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(repository.UserFlags), args.Error(1)
}

func (m *ParkingStore) SpotExists(ctx context.Context, spotID int64) (bool, error) {
	args := m.Called(ctx, spotID)
	return args.Bool(0), args.Error(1)
}

func (m *ParkingStore) UpdateSpot(ctx context.Context, spotID int64, available *bool, priority *string) (*db.ParkingSpot, error) {
	args := m.Called(ctx, spotID, available, priority)
	s, _ := args.Get(0).(*db.ParkingSpot)
	return s, args.Error(1)
}
