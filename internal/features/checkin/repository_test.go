package checkin

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ensureQuery = `INSERT INTO accounts (discord_id) VALUES ($1) ON CONFLICT (discord_id) DO NOTHING`
	lockQuery   = `SELECT bebits, current_streak, total_checkins, last_checkin
		 FROM accounts WHERE discord_id = $1 FOR UPDATE`
	updateQuery = `UPDATE accounts
		 SET bebits = $2, current_streak = $3, total_checkins = $4,
		     last_checkin = $5, updated_at = NOW()
		 WHERE discord_id = $1`
)

func TestRepository_PerformCheckin_First(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(ensureQuery)).
		WithArgs("user1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs("user1").
		WillReturnRows(pgxmock.NewRows([]string{"bebits", "current_streak", "total_checkins", "last_checkin"}).
			AddRow(int64(0), 0, 0, (*time.Time)(nil)))
	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("user1", int64(1), 1, 1, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	repo := NewRepository(mock)
	res, err := repo.PerformCheckin(context.Background(), "user1", now)
	require.NoError(t, err)
	assert.Equal(t, KindFirst, res.Decision.Kind)
	assert.Equal(t, int64(1), res.State.Bebits)
	assert.Equal(t, 1, res.State.CurrentStreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PerformCheckin_CooldownDoesNotWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	last := now.Add(-10 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(ensureQuery)).
		WithArgs("user1").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs("user1").
		WillReturnRows(pgxmock.NewRows([]string{"bebits", "current_streak", "total_checkins", "last_checkin"}).
			AddRow(int64(10), 3, 10, &last))
	mock.ExpectRollback()

	repo := NewRepository(mock)
	res, err := repo.PerformCheckin(context.Background(), "user1", now)
	require.NoError(t, err)
	assert.Equal(t, KindCooldown, res.Decision.Kind)
	assert.Equal(t, 14, res.Decision.RemainingHours)
	assert.Equal(t, 0, res.Decision.RemainingMinutes)
	// Untouched snapshot comes back with the rejection.
	assert.Equal(t, int64(10), res.State.Bebits)
	assert.Equal(t, 3, res.State.CurrentStreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PerformCheckin_RecoveredAwardsOneBebit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	last := now.Add(-50 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(ensureQuery)).
		WithArgs("user1").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs("user1").
		WillReturnRows(pgxmock.NewRows([]string{"bebits", "current_streak", "total_checkins", "last_checkin"}).
			AddRow(int64(40), 3, 20, &last))
	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("user1", int64(41), 4, 21, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	repo := NewRepository(mock)
	res, err := repo.PerformCheckin(context.Background(), "user1", now)
	require.NoError(t, err)
	assert.Equal(t, KindRecovered, res.Decision.Kind)
	assert.Equal(t, int64(41), res.State.Bebits)
	assert.Equal(t, 4, res.State.CurrentStreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PerformCheckin_UpdateFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(ensureQuery)).
		WithArgs("user1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
		WithArgs("user1").
		WillReturnRows(pgxmock.NewRows([]string{"bebits", "current_streak", "total_checkins", "last_checkin"}).
			AddRow(int64(0), 0, 0, (*time.Time)(nil)))
	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("user1", int64(1), 1, 1, now).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	repo := NewRepository(mock)
	_, err = repo.PerformCheckin(context.Background(), "user1", now)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
