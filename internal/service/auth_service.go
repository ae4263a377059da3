package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"parkinglot/internal/auth"
	"parkinglot/internal/db"
	"parkinglot/internal/entities"
	apperrors "parkinglot/internal/errors"
	"parkinglot/internal/logging"
	"parkinglot/internal/repository"
	"parkinglot/internal/utils"
)

type AuthService interface {
	Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error)
	CreateUser(ctx context.Context, req entities.CreateUserRequest) (*entities.UserResponse, error)
}

type authService struct {
	repo   repository.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(repo repository.UserRepository, secret string, ttl time.Duration) AuthService {
	return &authService{repo: repo, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	if req.Account == "" || req.Password == "" {
		return nil, apperrors.ErrBadRequest("account and password are required")
	}
	user, err := s.repo.GetByAccount(ctx, req.Account)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logging.Info(ctx).Str("account", req.Account).Msg("login rejected")
		return nil, apperrors.ErrUnauthorized("Invalid credentials")
	}

	token, err := auth.IssueToken(s.secret, user.UserID, user.Account, user.Role, s.now(), s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &entities.LoginResponse{
		UserID:    user.UserID,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.ttl.Seconds()),
	}, nil
}

func (s *authService) CreateUser(ctx context.Context, req entities.CreateUserRequest) (*entities.UserResponse, error) {
	if req.Account == "" || req.Password == "" {
		return nil, apperrors.ErrBadRequest("account and password are required")
	}
	role := req.Role
	if role == "" {
		role = db.RoleUser
	}
	if role != db.RoleUser && role != db.RoleAdmin {
		return nil, apperrors.ErrBadRequest("role must be user or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &db.User{
		Account:      req.Account,
		PasswordHash: string(hash),
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrIntegrityViolation) {
			return nil, apperrors.ErrConflict("Account already exists")
		}
		return nil, err
	}
	logging.Info(ctx).Int64("user_id", user.UserID).Str("role", role).Msg("user created")

	return &entities.UserResponse{
		UserID:    user.UserID,
		Account:   user.Account,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: utils.FormatTimestamp(user.CreatedAt),
	}, nil
}
