package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"parkinglot/internal/db"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByAccount(ctx context.Context, account string) (*db.User, error) {
	args := m.Called(ctx, account)
	u, _ := args.Get(0).(*db.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetByID(ctx context.Context, userID int64) (*db.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*db.User)
	return u, args.Error(1)
}

func (m *UserRepository) CreateUser(ctx context.Context, u *db.User) error {
	return m.Called(ctx, u).Error(0)
}
