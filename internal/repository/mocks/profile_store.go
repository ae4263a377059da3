package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"parkinglot/internal/db"
	"parkinglot/internal/repository"
)

type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) ProfileByUser(ctx context.Context, userID int64) (*repository.ProfileView, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*repository.ProfileView)
	return v, args.Error(1)
}

func (m *ProfileStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileStore) AreaExists(ctx context.Context, areaID int64) (bool, error) {
	args := m.Called(ctx, areaID)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileStore) CreateProfile(ctx context.Context, p *db.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProfileStore) UpdateProfile(ctx context.Context, userID int64, areaID *int64, role, priority *string, expired time.Time) (*db.Profile, error) {
	args := m.Called(ctx, userID, areaID, role, priority, expired)
	p, _ := args.Get(0).(*db.Profile)
	return p, args.Error(1)
}
