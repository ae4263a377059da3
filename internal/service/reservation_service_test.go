package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parkinglot/internal/db"
	"parkinglot/internal/entities"
	apperrors "parkinglot/internal/errors"
	"parkinglot/internal/repository"
	"parkinglot/internal/repository/mocks"
)

var (
	ctxArg   = mock.Anything
	fixedNow = time.Date(2023, 11, 1, 23, 59, 59, 0, time.UTC)
)

func newTestReservationService(store *mocks.ReservationStore, n Notifier) *ReservationService {
	s := NewReservationService(store, n, 24*time.Hour)
	s.now = func() time.Time { return fixedNow.Add(300 * time.Millisecond) }
	return s
}

func int64p(v int64) *int64 { return &v }

func stubLocation(store *mocks.ReservationStore) {
	store.On("ParkingSpotByID", ctxArg, int64(1)).Return(&db.ParkingSpot{ParkingSpotID: 1, AreaID: 2, Number: 10, Available: true, Priority: "Normal"}, nil)
	store.On("AreaByID", ctxArg, int64(2)).Return(&db.Area{AreaID: 2, ParkingLotID: 3, Name: "Test Area", Floor: 2}, nil)
	store.On("ParkingLotByID", ctxArg, int64(3)).Return(&db.ParkingLot{ParkingLotID: 3, Name: "Test ParkingLot", SpotCounts: 20}, nil)
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []entities.ReservationResponse
	cancelled []entities.ReservationResponse
	users     []int64
}

func (n *recordingNotifier) ReservationConfirmed(_ context.Context, userID int64, v entities.ReservationResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	n.confirmed = append(n.confirmed, v)
}

func (n *recordingNotifier) ReservationCancelled(_ context.Context, userID int64, v entities.ReservationResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	n.cancelled = append(n.cancelled, v)
}

func TestGetReservation_NoCar(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(nil, nil)

	_, err := newTestReservationService(store, nil).GetReservation(context.Background(), 1)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	store.AssertNotCalled(t, "ReservationByCar", mock.Anything, mock.Anything)
}

func TestGetReservation_NoReservation(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1, License: "AGE-6277", UserID: 1}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(nil, nil)

	_, err := newTestReservationService(store, nil).GetReservation(context.Background(), 1)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestGetReservation_Success(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1, License: "AGE-6277", UserID: 1}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(&db.Reservation{
		ReservationID:   7,
		CarID:           1,
		ParkingSpotID:   1,
		ReservationTime: time.Date(2023, 11, 1, 23, 59, 59, 0, time.UTC),
		ExpiredTime:     time.Date(2023, 11, 2, 23, 59, 59, 0, time.UTC),
	}, nil)
	stubLocation(store)

	got, err := newTestReservationService(store, nil).GetReservation(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &entities.ReservationResponse{
		CarID:             1,
		CarLicense:        "AGE-6277",
		ParkingSpotNumber: 10,
		ParkingSpotID:     1,
		AreaName:          "Test Area",
		AreaFloor:         2,
		ParkingLotName:    "Test ParkingLot",
		ReservationTime:   "2023-11-01 23:59:59",
		ExpiredTime:       "2023-11-02 23:59:59",
	}, got)
	store.AssertExpectations(t)
}

func TestGetReservation_MissingAreaIsInternal(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(&db.Reservation{CarID: 1, ParkingSpotID: 1}, nil)
	store.On("ParkingSpotByID", ctxArg, int64(1)).Return(&db.ParkingSpot{ParkingSpotID: 1, AreaID: 2}, nil)
	store.On("AreaByID", ctxArg, int64(2)).Return(nil, nil)

	_, err := newTestReservationService(store, nil).GetReservation(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
}

func TestCreateReservation_MissingFields(t *testing.T) {
	store := new(mocks.ReservationStore)
	s := newTestReservationService(store, nil)

	_, err := s.CreateReservation(context.Background(), entities.ReservationRequest{})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	_, err = s.CreateReservation(context.Background(), entities.ReservationRequest{CarID: int64p(1)})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	store.AssertNotCalled(t, "CarByID", mock.Anything, mock.Anything)
}

func TestCreateReservation_CarNotFound(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(nil, nil)

	_, err := newTestReservationService(store, nil).CreateReservation(context.Background(),
		entities.ReservationRequest{CarID: int64p(1), ParkingSpotID: int64p(1)})
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestCreateReservation_SpotNotFound(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1}, nil)
	store.On("ParkingSpotByID", ctxArg, int64(1)).Return(nil, nil)

	_, err := newTestReservationService(store, nil).CreateReservation(context.Background(),
		entities.ReservationRequest{CarID: int64p(1), ParkingSpotID: int64p(1)})
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestCreateReservation_Conflicts(t *testing.T) {
	tests := []struct {
		name                             string
		carRes, carAtt, spotRes, spotAtt bool
	}{
		{name: "car already reserved", carRes: true},
		{name: "car already parked", carAtt: true},
		{name: "spot already reserved", spotRes: true},
		{name: "spot occupied", spotAtt: true},
		{name: "everything taken", carRes: true, carAtt: true, spotRes: true, spotAtt: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.ReservationStore)
			store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1}, nil)
			store.On("ParkingSpotByID", ctxArg, int64(5)).Return(&db.ParkingSpot{ParkingSpotID: 5}, nil)
			store.On("ReservationByCar", ctxArg, int64(1)).Return(reservationIf(tt.carRes), nil).Once()
			store.On("AttendanceByCar", ctxArg, int64(1)).Return(attendanceIf(tt.carAtt), nil).Once()
			store.On("ReservationBySpot", ctxArg, int64(5)).Return(reservationIf(tt.spotRes), nil).Once()
			store.On("AttendanceBySpot", ctxArg, int64(5)).Return(attendanceIf(tt.spotAtt), nil).Once()

			_, err := newTestReservationService(store, nil).CreateReservation(context.Background(),
				entities.ReservationRequest{CarID: int64p(1), ParkingSpotID: int64p(5)})
			assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
			store.AssertExpectations(t)
			store.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
		})
	}
}

func reservationIf(ok bool) *db.Reservation {
	if ok {
		return &db.Reservation{}
	}
	return nil
}

func attendanceIf(ok bool) *db.Attendance {
	if ok {
		return &db.Attendance{}
	}
	return nil
}

func stubFreeCarAndSpot(store *mocks.ReservationStore) {
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1, License: "AGE-6277", UserID: 9}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(nil, nil).Once()
	store.On("AttendanceByCar", ctxArg, int64(1)).Return(nil, nil).Once()
	store.On("ReservationBySpot", ctxArg, int64(1)).Return(nil, nil).Once()
	store.On("AttendanceBySpot", ctxArg, int64(1)).Return(nil, nil).Once()
}

func TestCreateReservation_IntegrityViolation(t *testing.T) {
	store := new(mocks.ReservationStore)
	stubFreeCarAndSpot(store)
	stubLocation(store)
	store.On("CreateReservation", ctxArg, mock.AnythingOfType("*db.Reservation")).
		Return(repository.ErrIntegrityViolation)
	n := &recordingNotifier{}

	_, err := newTestReservationService(store, n).CreateReservation(context.Background(),
		entities.ReservationRequest{CarID: int64p(1), ParkingSpotID: int64p(1)})
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.StatusCode(err))
	assert.Empty(t, n.confirmed)
}

func TestCreateReservation_OtherStoreErrorIsInternal(t *testing.T) {
	store := new(mocks.ReservationStore)
	stubFreeCarAndSpot(store)
	stubLocation(store)
	store.On("CreateReservation", ctxArg, mock.Anything).Return(errors.New("connection reset"))

	_, err := newTestReservationService(store, nil).CreateReservation(context.Background(),
		entities.ReservationRequest{CarID: int64p(1), ParkingSpotID: int64p(1)})
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
}

func TestCreateReservation_Success(t *testing.T) {
	store := new(mocks.ReservationStore)
	stubFreeCarAndSpot(store)
	stubLocation(store)

	var saved *db.Reservation
	store.On("CreateReservation", ctxArg, mock.AnythingOfType("*db.Reservation")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*db.Reservation)
			saved.ReservationID = 11
		}).
		Return(nil)
	n := &recordingNotifier{}

	got, err := newTestReservationService(store, n).CreateReservation(context.Background(),
		entities.ReservationRequest{CarID: int64p(1), ParkingSpotID: int64p(1)})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, fixedNow, saved.ReservationTime)
	assert.Equal(t, fixedNow.Add(24*time.Hour), saved.ExpiredTime)
	assert.Equal(t, "AGE-6277", got.CarLicense)
	assert.Equal(t, 10, got.ParkingSpotNumber)
	assert.Equal(t, "Test Area", got.AreaName)
	assert.Equal(t, 2, got.AreaFloor)
	assert.Equal(t, "Test ParkingLot", got.ParkingLotName)
	assert.Equal(t, "2023-11-01 23:59:59", got.ReservationTime)
	assert.Equal(t, "2023-11-02 23:59:59", got.ExpiredTime)

	require.Len(t, n.confirmed, 1)
	assert.Equal(t, []int64{9}, n.users)
	assert.Equal(t, *got, n.confirmed[0])
	store.AssertExpectations(t)
}

func TestDeleteReservation_NoReservation(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(nil, nil)

	err := newTestReservationService(store, nil).DeleteReservation(context.Background(), 1)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestDeleteReservation_IntegrityViolation(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(&db.Reservation{ReservationID: 3, CarID: 1}, nil)
	store.On("DeleteReservation", ctxArg, int64(3)).Return(repository.ErrIntegrityViolation)

	err := newTestReservationService(store, nil).DeleteReservation(context.Background(), 1)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.StatusCode(err))
}

func TestDeleteReservation_Success(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1, License: "AGE-6277", UserID: 4}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(&db.Reservation{ReservationID: 3, CarID: 1, ParkingSpotID: 1}, nil)
	stubLocation(store)
	store.On("DeleteReservation", ctxArg, int64(3)).Return(nil)
	n := &recordingNotifier{}

	err := newTestReservationService(store, n).DeleteReservation(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, n.cancelled, 1)
	assert.Equal(t, "Test ParkingLot", n.cancelled[0].ParkingLotName)
	assert.Equal(t, []int64{4}, n.users)
	store.AssertExpectations(t)
}

func TestDeleteReservation_NoNotifierSkipsLocationLookups(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("CarByID", ctxArg, int64(1)).Return(&db.Car{CarID: 1, UserID: 4}, nil)
	store.On("ReservationByCar", ctxArg, int64(1)).Return(&db.Reservation{ReservationID: 3, CarID: 1, ParkingSpotID: 1}, nil)
	store.On("DeleteReservation", ctxArg, int64(3)).Return(nil)

	err := newTestReservationService(store, nil).DeleteReservation(context.Background(), 1)
	require.NoError(t, err)
	store.AssertNotCalled(t, "ParkingSpotByID", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "AreaByID", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestListReservations(t *testing.T) {
	store := new(mocks.ReservationStore)
	store.On("ListReservationViews", ctxArg).Return([]repository.ReservationView{{
		CarID:           1,
		CarLicense:      "AGE-6277",
		ParkingSpotID:   1,
		ReservationTime: fixedNow,
		ExpiredTime:     fixedNow.Add(24 * time.Hour),
	}}, nil)

	got, err := newTestReservationService(store, nil).ListReservations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "2023-11-02 23:59:59", got.Reservations[0].ExpiredTime)
}
