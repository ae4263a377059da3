package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkinglot/internal/db"
	"parkinglot/internal/entities"
	apperrors "parkinglot/internal/errors"
	"parkinglot/internal/logging"
	"parkinglot/internal/repository"
	"parkinglot/internal/utils"
)

// ProfileService manages each user's parking preferences. Every write pushes
// the profile's expiry to now + ttl.
type ProfileService struct {
	store repository.ProfileStore
	ttl   time.Duration
	now   func() time.Time
}

func NewProfileService(store repository.ProfileStore, ttl time.Duration) *ProfileService {
	return &ProfileService{store: store, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*entities.ProfileResponse, error) {
	v, err := s.store.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if v == nil {
		return nil, apperrors.ErrNotFound("Profile not found")
	}
	return &entities.ProfileResponse{
		ID:                 v.ProfileID,
		PreferenceLotID:    v.PreferenceLotID,
		PreferenceLotName:  v.PreferenceLotName,
		PreferenceAreaID:   v.PreferenceAreaID,
		PreferenceAreaName: v.PreferenceAreaName,
		Preference:         v.PreferenceAreaID,
		Role:               v.Role,
		Priority:           v.Priority,
		Expired:            utils.FormatTimestamp(v.Expired),
	}, nil
}

func (s *ProfileService) CreateProfile(ctx context.Context, userID int64, req entities.ProfileRequest) (*entities.ProfileWriteResponse, error) {
	if req.UserID != nil && *req.UserID != userID {
		return nil, apperrors.ErrBadRequest("user_id does not match the path")
	}
	if req.Preference == nil {
		return nil, apperrors.ErrBadRequest("preference is required")
	}
	if req.Role == nil || *req.Role == "" {
		return nil, apperrors.ErrBadRequest("role is required")
	}
	priority := db.PriorityNormal
	if req.Priority != nil {
		if *req.Priority == "" {
			return nil, apperrors.ErrBadRequest("priority cannot be empty")
		}
		priority = *req.Priority
	}

	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFound("User not found")
	}
	if err := s.checkArea(ctx, *req.Preference); err != nil {
		return nil, err
	}

	p := &db.Profile{
		UserID:           userID,
		PreferenceAreaID: *req.Preference,
		Role:             *req.Role,
		Priority:         priority,
		Expired:          s.expiry(),
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, repository.ErrIntegrityViolation) {
			return nil, apperrors.ErrConflict("Profile already exists")
		}
		return nil, err
	}
	logging.Info(ctx).Int64("user_id", userID).Int64("profile_id", p.ProfileID).Msg("profile created")
	return writeResponse(p), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req entities.ProfileRequest) (*entities.ProfileWriteResponse, error) {
	if req.UserID != nil && *req.UserID != userID {
		return nil, apperrors.ErrBadRequest("user_id does not match the path")
	}
	if req.Preference == nil && req.Role == nil && req.Priority == nil {
		return nil, apperrors.ErrBadRequest("preference, role or priority is required")
	}
	if (req.Role != nil && *req.Role == "") || (req.Priority != nil && *req.Priority == "") {
		return nil, apperrors.ErrBadRequest("role and priority cannot be empty")
	}
	if req.Preference != nil {
		if err := s.checkArea(ctx, *req.Preference); err != nil {
			return nil, err
		}
	}

	p, err := s.store.UpdateProfile(ctx, userID, req.Preference, req.Role, req.Priority, s.expiry())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.ErrNotFound("Profile not found")
	}
	return writeResponse(p), nil
}

func (s *ProfileService) checkArea(ctx context.Context, areaID int64) error {
	ok, err := s.store.AreaExists(ctx, areaID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrBadRequest("preference does not name an existing area")
	}
	return nil
}

func (s *ProfileService) expiry() time.Time {
	return utils.TruncateToSecond(s.now()).Add(s.ttl)
}

func writeResponse(p *db.Profile) *entities.ProfileWriteResponse {
	return &entities.ProfileWriteResponse{
		ID:         p.ProfileID,
		Preference: p.PreferenceAreaID,
		Role:       p.Role,
		Priority:   p.Priority,
		Expired:    utils.FormatTimestamp(p.Expired),
	}
}
