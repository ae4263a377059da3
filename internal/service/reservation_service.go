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
	"parkinglot/internal/metrics"
	"parkinglot/internal/repository"
	"parkinglot/internal/utils"
)

// ReservationStore is the persistence the reservation endpoints need.
// Lookups return (nil, nil) when the row does not exist.
type ReservationStore interface {
	CarByID(ctx context.Context, carID int64) (*db.Car, error)
	ParkingSpotByID(ctx context.Context, spotID int64) (*db.ParkingSpot, error)
	AreaByID(ctx context.Context, areaID int64) (*db.Area, error)
	ParkingLotByID(ctx context.Context, lotID int64) (*db.ParkingLot, error)
	ReservationByCar(ctx context.Context, carID int64) (*db.Reservation, error)
	ReservationBySpot(ctx context.Context, spotID int64) (*db.Reservation, error)
	AttendanceByCar(ctx context.Context, carID int64) (*db.Attendance, error)
	AttendanceBySpot(ctx context.Context, spotID int64) (*db.Attendance, error)
	CreateReservation(ctx context.Context, res *db.Reservation) error
	DeleteReservation(ctx context.Context, reservationID int64) error
	ListReservationViews(ctx context.Context) ([]repository.ReservationView, error)
}

type ReservationService struct {
	store    ReservationStore
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
}

// NewReservationService builds the service. notifier may be nil.
func NewReservationService(store ReservationStore, notifier Notifier, ttl time.Duration) *ReservationService {
	return &ReservationService{
		store:    store,
		notifier: notifier,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReservationService) GetReservation(ctx context.Context, carID int64) (*entities.ReservationResponse, error) {
	car, res, err := s.carReservation(ctx, carID)
	if err != nil {
		return nil, err
	}
	spot, err := s.store.ParkingSpotByID(ctx, res.ParkingSpotID)
	if err != nil {
		return nil, fmt.Errorf("get parking spot: %w", err)
	}
	if spot == nil {
		return nil, fmt.Errorf("reservation %d references missing parking spot %d", res.ReservationID, res.ParkingSpotID)
	}
	return s.project(ctx, car, spot, res)
}

func (s *ReservationService) CreateReservation(ctx context.Context, req entities.ReservationRequest) (*entities.ReservationResponse, error) {
	if req.CarID == nil {
		return nil, apperrors.ErrBadRequest("car_id is required")
	}
	if req.ParkingSpotID == nil {
		return nil, apperrors.ErrBadRequest("parking_spot_id is required")
	}

	car, err := s.store.CarByID(ctx, *req.CarID)
	if err != nil {
		return nil, fmt.Errorf("get car: %w", err)
	}
	if car == nil {
		return nil, apperrors.ErrNotFound("Car not found")
	}
	spot, err := s.store.ParkingSpotByID(ctx, *req.ParkingSpotID)
	if err != nil {
		return nil, fmt.Errorf("get parking spot: %w", err)
	}
	if spot == nil {
		return nil, apperrors.ErrNotFound("Parking spot not found")
	}

	taken, err := s.taken(ctx, car.CarID, spot.ParkingSpotID)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.ReservationConflicts.Inc()
		return nil, apperrors.ErrConflict("Car or parking spot is not available")
	}

	now := utils.TruncateToSecond(s.now())
	res := &db.Reservation{
		CarID:           car.CarID,
		ParkingSpotID:   spot.ParkingSpotID,
		ReservationTime: now,
		ExpiredTime:     now.Add(s.ttl),
	}
	if err := s.store.CreateReservation(ctx, res); err != nil {
		return nil, s.commitError(ctx, "create", err)
	}
	metrics.ReservationsCreated.Inc()
	logging.Info(ctx).
		Int64("reservation_id", res.ReservationID).
		Int64("car_id", res.CarID).
		Int64("parking_spot_id", res.ParkingSpotID).
		Msg("reservation created")

	view, err := s.project(ctx, car, spot, res)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.ReservationConfirmed(context.WithoutCancel(ctx), car.UserID, *view)
	}
	return view, nil
}

func (s *ReservationService) DeleteReservation(ctx context.Context, carID int64) error {
	car, res, err := s.carReservation(ctx, carID)
	if err != nil {
		return err
	}

	// Built before the row goes so the cancellation notice can describe it.
	var view *entities.ReservationResponse
	if s.notifier != nil {
		view = s.bestEffortView(ctx, car, res)
	}

	if err := s.store.DeleteReservation(ctx, res.ReservationID); err != nil {
		return s.commitError(ctx, "delete", err)
	}
	metrics.ReservationsDeleted.Inc()
	logging.Info(ctx).
		Int64("reservation_id", res.ReservationID).
		Int64("car_id", res.CarID).
		Msg("reservation deleted")

	if view != nil {
		s.notifier.ReservationCancelled(context.WithoutCancel(ctx), car.UserID, *view)
	}
	return nil
}

// ListReservations returns every current reservation, newest first.
func (s *ReservationService) ListReservations(ctx context.Context) (*entities.ReservationsList, error) {
	views, err := s.store.ListReservationViews(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ReservationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, entities.ReservationResponse{
			CarID:             v.CarID,
			CarLicense:        v.CarLicense,
			ParkingSpotNumber: v.ParkingSpotNumber,
			ParkingSpotID:     v.ParkingSpotID,
			AreaName:          v.AreaName,
			AreaFloor:         v.AreaFloor,
			ParkingLotName:    v.ParkingLotName,
			ReservationTime:   utils.FormatTimestamp(v.ReservationTime),
			ExpiredTime:       utils.FormatTimestamp(v.ExpiredTime),
		})
	}
	return &entities.ReservationsList{Total: len(out), Reservations: out}, nil
}

func (s *ReservationService) carReservation(ctx context.Context, carID int64) (*db.Car, *db.Reservation, error) {
	car, err := s.store.CarByID(ctx, carID)
	if err != nil {
		return nil, nil, fmt.Errorf("get car: %w", err)
	}
	if car == nil {
		return nil, nil, apperrors.ErrNotFound("Car not found")
	}
	res, err := s.store.ReservationByCar(ctx, car.CarID)
	if err != nil {
		return nil, nil, fmt.Errorf("get reservation: %w", err)
	}
	if res == nil {
		return nil, nil, apperrors.ErrNotFound("Reservation not found")
	}
	return car, res, nil
}

// taken runs all four exclusivity lookups and reports whether any matched.
func (s *ReservationService) taken(ctx context.Context, carID, spotID int64) (bool, error) {
	carRes, err := s.store.ReservationByCar(ctx, carID)
	if err != nil {
		return false, fmt.Errorf("get reservation by car: %w", err)
	}
	carAtt, err := s.store.AttendanceByCar(ctx, carID)
	if err != nil {
		return false, fmt.Errorf("get attendance by car: %w", err)
	}
	spotRes, err := s.store.ReservationBySpot(ctx, spotID)
	if err != nil {
		return false, fmt.Errorf("get reservation by spot: %w", err)
	}
	spotAtt, err := s.store.AttendanceBySpot(ctx, spotID)
	if err != nil {
		return false, fmt.Errorf("get attendance by spot: %w", err)
	}
	return carRes != nil || carAtt != nil || spotRes != nil || spotAtt != nil, nil
}

func (s *ReservationService) commitError(ctx context.Context, op string, err error) error {
	if errors.Is(err, repository.ErrIntegrityViolation) {
		metrics.IntegrityViolations.Inc()
		logging.Warn(ctx).Err(err).Str("op", op).Msg("reservation rejected by database constraint")
		return apperrors.ErrServiceUnavailable("Could not save reservation, try again")
	}
	return fmt.Errorf("%s reservation: %w", op, err)
}

func (s *ReservationService) project(ctx context.Context, car *db.Car, spot *db.ParkingSpot, res *db.Reservation) (*entities.ReservationResponse, error) {
	area, err := s.store.AreaByID(ctx, spot.AreaID)
	if err != nil {
		return nil, fmt.Errorf("get area: %w", err)
	}
	if area == nil {
		return nil, fmt.Errorf("parking spot %d references missing area %d", spot.ParkingSpotID, spot.AreaID)
	}
	lot, err := s.store.ParkingLotByID(ctx, area.ParkingLotID)
	if err != nil {
		return nil, fmt.Errorf("get parking lot: %w", err)
	}
	if lot == nil {
		return nil, fmt.Errorf("area %d references missing parking lot %d", area.AreaID, area.ParkingLotID)
	}
	return &entities.ReservationResponse{
		CarID:             car.CarID,
		CarLicense:        car.License,
		ParkingSpotNumber: spot.Number,
		ParkingSpotID:     res.ParkingSpotID,
		AreaName:          area.Name,
		AreaFloor:         area.Floor,
		ParkingLotName:    lot.Name,
		ReservationTime:   utils.FormatTimestamp(res.ReservationTime),
		ExpiredTime:       utils.FormatTimestamp(res.ExpiredTime),
	}, nil
}

func (s *ReservationService) bestEffortView(ctx context.Context, car *db.Car, res *db.Reservation) *entities.ReservationResponse {
	spot, err := s.store.ParkingSpotByID(ctx, res.ParkingSpotID)
	if err != nil || spot == nil {
		logging.Warn(ctx).Err(err).Int64("parking_spot_id", res.ParkingSpotID).Msg("cannot describe reservation for notification")
		return nil
	}
	view, err := s.project(ctx, car, spot, res)
	if err != nil {
		logging.Warn(ctx).Err(err).Msg("cannot describe reservation for notification")
		return nil
	}
	return view
}
