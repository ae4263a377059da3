package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkinglot/internal/db"
)

func newMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()
	mdb, sm, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mdb.Close() })
	return &db.DB{DB: sqlx.NewDb(mdb, "postgres")}, sm
}

// sqlLike builds a pattern that matches the given fragments in order.
func sqlLike(fragments ...string) string {
	quoted := make([]string, len(fragments))
	for i, f := range fragments {
		quoted[i] = regexp.QuoteMeta(f)
	}
	out := quoted[0]
	for _, q := range quoted[1:] {
		out += ".*" + q
	}
	return out
}

var attendanceCols = []string{"attendance_id", "car_id", "parking_spot_id", "start_time", "end_time"}

func TestAttendanceLookupsOnlySeeActiveRows(t *testing.T) {
	d, sm := newMockDB(t)
	repo := NewReservationRepository(d)
	start := time.Date(2023, 11, 1, 8, 0, 0, 0, time.UTC)

	sm.ExpectQuery(sqlLike("FROM attendances WHERE car_id = $1 AND end_time IS NULL LIMIT 1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(attendanceCols))
	sm.ExpectQuery(sqlLike("FROM attendances WHERE parking_spot_id = $1 AND end_time IS NULL LIMIT 1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(attendanceCols).AddRow(int64(5), int64(1), int64(2), start, nil))

	a, err := repo.AttendanceByCar(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = repo.AttendanceBySpot(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.Active())
	assert.Equal(t, int64(5), a.AttendanceID)

	require.NoError(t, sm.ExpectationsWereMet())
}

func TestReservationLookupMissingRow(t *testing.T) {
	d, sm := newMockDB(t)
	sm.ExpectQuery(sqlLike("FROM reservations WHERE parking_spot_id = $1 LIMIT 1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}))

	res, err := NewReservationRepository(d).ReservationBySpot(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NoError(t, sm.ExpectationsWereMet())
}

func TestCreateReservation(t *testing.T) {
	now := time.Date(2023, 11, 1, 23, 59, 59, 0, time.UTC)
	insert := sqlLike("INSERT INTO reservations (car_id, parking_spot_id, reservation_time, expired_time)", "RETURNING reservation_id")

	t.Run("commits and fills the id", func(t *testing.T) {
		d, sm := newMockDB(t)
		sm.ExpectBegin()
		sm.ExpectQuery(insert).
			WithArgs(int64(1), int64(2), now, now.Add(24*time.Hour)).
			WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}).AddRow(int64(7)))
		sm.ExpectCommit()

		res := &db.Reservation{CarID: 1, ParkingSpotID: 2, ReservationTime: now, ExpiredTime: now.Add(24 * time.Hour)}
		require.NoError(t, NewReservationRepository(d).CreateReservation(context.Background(), res))
		assert.Equal(t, int64(7), res.ReservationID)
		require.NoError(t, sm.ExpectationsWereMet())
	})

	t.Run("unique violation on insert rolls back", func(t *testing.T) {
		d, sm := newMockDB(t)
		sm.ExpectBegin()
		sm.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23505"})
		sm.ExpectRollback()

		err := NewReservationRepository(d).CreateReservation(context.Background(), &db.Reservation{CarID: 1, ParkingSpotID: 2})
		assert.ErrorIs(t, err, ErrIntegrityViolation)
		require.NoError(t, sm.ExpectationsWereMet())
	})

	t.Run("constraint failure at commit", func(t *testing.T) {
		d, sm := newMockDB(t)
		sm.ExpectBegin()
		sm.ExpectQuery(insert).WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}).AddRow(int64(7)))
		sm.ExpectCommit().WillReturnError(&pq.Error{Code: "23503"})

		err := NewReservationRepository(d).CreateReservation(context.Background(), &db.Reservation{CarID: 1, ParkingSpotID: 2})
		assert.ErrorIs(t, err, ErrIntegrityViolation)
		require.NoError(t, sm.ExpectationsWereMet())
	})
}

func TestDeleteReservationPassesThroughOtherErrors(t *testing.T) {
	d, sm := newMockDB(t)
	boom := errors.New("connection reset")
	sm.ExpectBegin()
	sm.ExpectExec(sqlLike("DELETE FROM reservations WHERE reservation_id = $1")).
		WithArgs(int64(3)).
		WillReturnError(boom)
	sm.ExpectRollback()

	err := NewReservationRepository(d).DeleteReservation(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrIntegrityViolation)
	require.NoError(t, sm.ExpectationsWereMet())
}

func TestListReservationViewsNewestFirst(t *testing.T) {
	d, sm := newMockDB(t)
	sm.ExpectQuery(sqlLike("FROM reservations r", "ORDER BY r.reservation_time DESC")).
		WillReturnRows(sqlmock.NewRows([]string{
			"car_id", "license", "number", "parking_spot_id", "area_name", "area_floor",
			"parking_lot_name", "reservation_time", "expired_time",
		}).AddRow(int64(1), "AGE-6277", 10, int64(1), "Test Area", 2, "Test ParkingLot", time.Now(), time.Now()))

	views, err := NewReservationRepository(d).ListReservationViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "AGE-6277", views[0].CarLicense)
	require.NoError(t, sm.ExpectationsWereMet())
}
