package accounts

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beboa.bot/discord-bot/internal/common"
)

func TestRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	last := now.Add(-25 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(selectAccount)).
		WithArgs("user1").
		WillReturnRows(pgxmock.NewRows([]string{
			"discord_id", "bebits", "current_streak", "last_checkin",
			"total_checkins", "created_at", "updated_at",
		}).AddRow("user1", int64(42), 5, &last, 12, now, now))

	repo := NewRepository(mock)
	account, err := repo.GetByID(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "user1", account.DiscordID)
	assert.Equal(t, int64(42), account.Bebits)
	assert.Equal(t, 5, account.CurrentStreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectAccount)).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepository(mock)
	_, err = repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestRepository_AddBebits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE accounts`).
		WithArgs("user1", int64(25)).
		WillReturnRows(pgxmock.NewRows([]string{"bebits"}).AddRow(int64(75)))

	repo := NewRepository(mock)
	balance, err := repo.AddBebits(context.Background(), "user1", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(75), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RemoveBebits_ClampsAtZero(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Removing more than the balance leaves zero, not a negative.
	mock.ExpectQuery(`UPDATE accounts`).
		WithArgs("user1", int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"bebits"}).AddRow(int64(0)))

	repo := NewRepository(mock)
	balance, err := repo.RemoveBebits(context.Background(), "user1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestRepository_GetTop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT discord_id, bebits, current_streak`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"discord_id", "bebits", "current_streak"}).
			AddRow("rich", int64(500), 30).
			AddRow("poor", int64(5), 1))

	repo := NewRepository(mock)
	top, err := repo.GetTop(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "rich", top[0].DiscordID)
	assert.Equal(t, int64(500), top[0].Bebits)
}

func TestRepository_GetRank(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("user1").
		WillReturnRows(pgxmock.NewRows([]string{"rank"}).AddRow(4))

	repo := NewRepository(mock)
	rank, err := repo.GetRank(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, 4, rank)
}
