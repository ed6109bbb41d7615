package bookings

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestConditionalTransitionCompletesAndCountsAttendance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "total_persons"}).AddRow(7, 3))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "activities" SET "attended_count"=attended_count +`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := repo.ConditionalTransition(context.Background(), "TICK-1", StatusConfirmed, StatusCompleted)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalTransitionLostRaceTouchesNothingElse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	applied, err := repo.ConditionalTransition(context.Background(), "TICK-1", StatusConfirmed, StatusCompleted)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalTransitionCancelSkipsAttendance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := repo.ConditionalTransition(context.Background(), "TICK-1", StatusPending, StatusCancelled)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalTransitionRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	applied, err := repo.ConditionalTransition(context.Background(), "TICK-1", StatusConfirmed, StatusCompleted)
	require.Error(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalTransitionRejectsIllegalStep(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	applied, err := repo.ConditionalTransition(context.Background(), "TICK-1", StatusCompleted, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

	_, err := repo.GetBookingByID(context.Background(), "TICK-404")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "activity_id", "user_email", "title", "booking_date", "total_persons", "order_number", "status"}).
		AddRow("TICK-1", 7, "traveler@example.com", "Sunrise Kayak", "2025-07-01", 2, "ORD-1", "CONFIRMED")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(rows)

	booking, err := repo.GetBookingByID(context.Background(), "TICK-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, booking.Status)
	assert.Equal(t, uint(7), booking.ActivityID)
	assert.Equal(t, 2, booking.TotalPersons)
	assert.NoError(t, mock.ExpectationsWereMet())
}
