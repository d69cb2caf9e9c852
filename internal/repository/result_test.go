package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resultpost/internal/config"
	"resultpost/internal/http-server/handlers/mysql"
	"resultpost/internal/http-server/model"
)

func TestResultRepository_SaveResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	machine := "9,16,28,33,45"
	result := model.Result{
		DrawID:         7,
		WinningNumbers: "12,23,34,41,7",
		MachineNumbers: &machine,
		ShareCopy:      "Rand Lottery • STAR LOTTO • 2025-03-01 19:15\nWinning: 12, 23, 34, 41, 7",
		ShareHashtags:  []string{"RandLottery"},
		ShareTargets:   []string{"facebook", "twitter"},
		Status:         config.PendingReview,
	}

	mock.ExpectPrepare("INSERT INTO results").
		ExpectExec().
		WithArgs(result.DrawID, result.WinningNumbers, machine, result.ShareCopy,
			"RandLottery", "facebook,twitter", result.Status, result.Verified, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	repo := NewResultRepository(*mysql.New(db))

	id, err := repo.SaveResult(result)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepository_GetResultByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "draw_id", "winning_numbers", "machine_numbers", "share_copy", "share_hashtags",
		"share_targets", "status", "verified", "verified_at", "submitted_by_id", "created_at", "updated_at",
	}).AddRow(42, 7, "12,23,34,41,7", "9,16,28,33,45", "copy", "RandLottery, GhanaLotto", "facebook",
		"pending_review", false, nil, nil, now, now)

	mock.ExpectPrepare("SELECT (.+) FROM results r WHERE r.id").
		ExpectQuery().
		WithArgs(int64(42)).
		WillReturnRows(rows)

	repo := NewResultRepository(*mysql.New(db))

	result, err := repo.GetResultByID(42)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(7), result.DrawID)
	assert.Equal(t, []string{"RandLottery", "GhanaLotto"}, result.ShareHashtags)
	assert.Equal(t, []string{"facebook"}, result.ShareTargets)
	assert.Equal(t, config.PendingReview, result.Status)
}

func TestResultRepository_GetResultByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare("SELECT (.+) FROM results r WHERE r.id").
		ExpectQuery().
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewResultRepository(*mysql.New(db))

	result, err := repo.GetResultByID(99)
	require.NoError(t, err)
	assert.Nil(t, result)
}
