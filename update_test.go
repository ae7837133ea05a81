package kaede

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coderi421/kaede/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdater_Build(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name      string
		q         QueryBuilder
		wantQuery *Query
		wantErr   error
	}{
		{
			name:    "no columns",
			q:       NewUpdater[TestModel](db),
			wantErr: errs.ErrNoUpdatedColumns,
		},
		{
			// 值从更新用的结构体里面取
			name: "single column",
			q: NewUpdater[TestModel](db).
				Update(&TestModel{
					Age: 18,
				}).
				Set(C("Age")),
			wantQuery: &Query{
				SQL:  "UPDATE `test_model` SET `age`=?;",
				Args: []any{int8(18)},
			},
		},
		{
			name: "assignment",
			q: NewUpdater[TestModel](db).
				Update(&TestModel{
					Age:       18,
					FirstName: "Zheng",
				}).
				Set(C("Age"), Assign("FirstName", "Da")),
			wantQuery: &Query{
				SQL:  "UPDATE `test_model` SET `age`=?,`first_name`=?;",
				Args: []any{int8(18), "Da"},
			},
		},
		{
			// SET 的参数在前，WHERE 的参数在后
			name: "with where",
			q: NewUpdater[TestModel](db).
				Set(Assign("Age", 19)).
				Where(C("Id").EQ(1)),
			wantQuery: &Query{
				SQL:  "UPDATE `test_model` SET `age`=? WHERE `id` = ?;",
				Args: []any{19, 1},
			},
		},
		{
			// 基于列自身的表达式
			name: "math expression",
			q: NewUpdater[TestModel](db).
				Set(Assign("Age", C("Age").Add(1))).
				Where(C("Id").EQ(1)),
			wantQuery: &Query{
				SQL:  "UPDATE `test_model` SET `age`=`age`+? WHERE `id` = ?;",
				Args: []any{1, 1},
			},
		},
		{
			name:    "invalid column",
			q:       NewUpdater[TestModel](db).Set(C("Invalid")),
			wantErr: errs.NewErrUnknownField("Invalid"),
		},
		{
			name:    "read only",
			q:       NewUpdater[ReadOnlyView](db).Set(Assign("Name", "x")),
			wantErr: errs.NewErrReadOnlyTable("read_only_view"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := tc.q.Build()
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantQuery, query)
		})
	}
}

func TestUpdater_Exec(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE `test_model` .*").WillReturnResult(sqlmock.NewResult(0, 1))

	res := NewUpdater[TestModel](db).
		Update(&TestModel{
			FirstName: "Da",
			LastName:  &sql.NullString{String: "Ming", Valid: true},
		}).
		Set(C("FirstName"), C("LastName")).
		Where(C("Id").EQ(1)).
		Exec(context.Background())
	require.NoError(t, res.Err())
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}
