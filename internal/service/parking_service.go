package service

import (
	"context"
	"fmt"

	"parkinglot/internal/entities"
	apperrors "parkinglot/internal/errors"
	"parkinglot/internal/repository"
	"parkinglot/internal/utils"
)

// ParkingService serves the read-mostly views the frontend polls.
type ParkingService struct {
	store repository.ParkingStore
}

func NewParkingService(store repository.ParkingStore) *ParkingService {
	return &ParkingService{store: store}
}

func (s *ParkingService) ListParkingLots(ctx context.Context) ([]entities.ParkingLotAvailability, error) {
	lots, err := s.store.ListLotAvailability(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ParkingLotAvailability, 0, len(lots))
	for _, l := range lots {
		out = append(out, entities.ParkingLotAvailability{
			ParkingLotID:    l.ParkingLotID,
			Name:            l.Name,
			CurrentCapacity: l.CurrentCapacity,
			MaximumCapacity: l.MaximumCapacity,
			Priority:        l.Priority,
		})
	}
	return out, nil
}

func (s *ParkingService) MyCar(ctx context.Context, userID int64) (*entities.MyCarResponse, error) {
	p, err := s.store.ParkedCarByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get parked car: %w", err)
	}
	if p == nil {
		return nil, apperrors.ErrNotFound("No parked car for this user")
	}
	return &entities.MyCarResponse{
		CarID:             p.CarID,
		ParkingSpotNumber: p.ParkingSpotNumber,
		AreaName:          p.AreaName,
		AreaFloor:         p.AreaFloor,
		ParkingLotName:    p.ParkingLotName,
		StartTime:         utils.FormatTimestamp(p.StartTime),
	}, nil
}

func (s *ParkingService) History(ctx context.Context, spotID int64) ([]entities.HistoryEntry, error) {
	ok, err := s.store.SpotExists(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFound("Parking spot not found")
	}
	events, err := s.store.SpotHistory(ctx, spotID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.HistoryEntry, 0, len(events))
	for _, e := range events {
		out = append(out, entities.HistoryEntry{
			Type:      e.Type,
			UserID:    e.UserID,
			License:   e.License,
			StartTime: utils.FormatTimestamp(e.StartTime),
			EndTime:   utils.FormatNullTimestamp(e.EndTime),
		})
	}
	return out, nil
}

// UserStatus reports parked over reserved over idle.
func (s *ParkingService) UserStatus(ctx context.Context, userID int64) (*entities.UserStatusResponse, error) {
	f, err := s.store.UserStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !f.Exists {
		return nil, apperrors.ErrNotFound("User not found")
	}
	status := entities.UserStatusIdle
	switch {
	case f.Parked:
		status = entities.UserStatusParked
	case f.Reserved:
		status = entities.UserStatusReserved
	}
	return &entities.UserStatusResponse{Status: status}, nil
}

// UpdateSpot is the operator override for a spot's flags.
func (s *ParkingService) UpdateSpot(ctx context.Context, spotID int64, req entities.SpotUpdateRequest) (*entities.SpotResponse, error) {
	if req.Available == nil && req.Priority == nil {
		return nil, apperrors.ErrBadRequest("available or priority is required")
	}
	if req.Priority != nil && *req.Priority == "" {
		return nil, apperrors.ErrBadRequest("priority cannot be empty")
	}
	spot, err := s.store.UpdateSpot(ctx, spotID, req.Available, req.Priority)
	if err != nil {
		return nil, err
	}
	if spot == nil {
		return nil, apperrors.ErrNotFound("Parking spot not found")
	}
	return &entities.SpotResponse{
		ParkingSpotID: spot.ParkingSpotID,
		AreaID:        spot.AreaID,
		Number:        spot.Number,
		Available:     spot.Available,
		Priority:      spot.Priority,
	}, nil
}
