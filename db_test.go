package kaede

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_DoTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = mockDB.Close() }()
		db, err := OpenDB(mockDB)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO .*").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = db.DoTx(context.Background(), func(ctx context.Context, tx *Tx) error {
			res := NewInserter[TestModel](tx).Values(&TestModel{Id: 1}).Exec(ctx)
			return res.Err()
		}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = mockDB.Close() }()
		db, err := OpenDB(mockDB)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback()

		bizErr := errors.New("biz error")
		err = db.DoTx(context.Background(), func(ctx context.Context, tx *Tx) error {
			return bizErr
		}, nil)
		assert.Equal(t, bizErr, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTx_RollbackIfNotCommit(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()
	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	// 已经提交过，再回滚不算错
	assert.NoError(t, tx.RollbackIfNotCommit())
}
