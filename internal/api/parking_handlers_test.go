package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"parkinglot/internal/repository"
)

func TestListParkingLotsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.parking.On("ListLotAvailability", mock.Anything).Return([]repository.LotAvailability{
		{ParkingLotID: 1, Name: "North", CurrentCapacity: 4, MaximumCapacity: 20, Priority: false},
	}, nil)

	rr := env.do(http.MethodGet, "/parkinglots", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"parkinglot_id":1,"name":"North","current_capacity":4,"maximum_capacity":20,"priority":false}]`, rr.Body.String())
}

func TestListParkingLotsHandler_StoreErrorIsHidden(t *testing.T) {
	env := newTestEnv(t)
	env.parking.On("ListLotAvailability", mock.Anything).Return(nil, errors.New("pq: relation does not exist"))

	rr := env.do(http.MethodGet, "/parkinglots", "", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rr.Body.String())
}

func TestMyCarHandler(t *testing.T) {
	env := newTestEnv(t)
	env.parking.On("ParkedCarByUser", mock.Anything, int64(3)).Return(&repository.ParkedCar{
		CarID: 1, ParkingSpotNumber: 7, AreaName: "A", AreaFloor: 1, ParkingLotName: "North",
		StartTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}, nil)
	env.parking.On("ParkedCarByUser", mock.Anything, int64(4)).Return(nil, nil)

	rr := env.do(http.MethodGet, "/mycar/3", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"car_id":1,"parking_spot_number":7,"area_name":"A","area_floor":1,"parking_lot_name":"North","start_time":"2024-01-01 08:00:00"}`, rr.Body.String())

	rr = env.do(http.MethodGet, "/mycar/4", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHistoryHandler(t *testing.T) {
	env := newTestEnv(t)
	env.parking.On("SpotExists", mock.Anything, int64(2)).Return(true, nil)
	env.parking.On("SpotHistory", mock.Anything, int64(2)).Return([]repository.SpotEvent{
		{Type: "attendance", UserID: 5, License: "ABC-1", StartTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
	}, nil)

	rr := env.do(http.MethodGet, "/history/2", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"type":"attendance","user_id":5,"license":"ABC-1","start_time":"2024-01-01 08:00:00","end_time":null}]`, rr.Body.String())
}

func TestUserStatusHandler(t *testing.T) {
	env := newTestEnv(t)
	env.parking.On("UserStatus", mock.Anything, int64(5)).Return(repository.UserFlags{Exists: true, Reserved: true}, nil)

	rr := env.do(http.MethodGet, "/userstatus/5", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"reserved"}`, rr.Body.String())
}
