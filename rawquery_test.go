package kaede

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawQuerier_Build(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name      string
		q         QueryBuilder
		wantQuery *Query
	}{
		{
			name: "verbatim",
			q:    RawQuery[TestModel](db, "SELECT * FROM `test_model` WHERE `id` = ?", 1),
			wantQuery: &Query{
				SQL:  "SELECT * FROM `test_model` WHERE `id` = ?",
				Args: []any{1},
			},
		},
		{
			// {*} 展开成模型的全部列
			name: "star token",
			q:    RawQuery[TestModel](db, "SELECT {*} FROM `test_model` WHERE `id` = ?", 1),
			wantQuery: &Query{
				SQL:  "SELECT `id`,`first_name`,`age`,`last_name` FROM `test_model` WHERE `id` = ?",
				Args: []any{1},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := tc.q.Build()
			require.NoError(t, err)
			assert.Equal(t, tc.wantQuery, query)
		})
	}
}

func TestRawQuerier_Get(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "first_name", "age", "last_name"})
	rows.AddRow([]byte("1"), []byte("Da"), []byte("18"), []byte("Ming"))
	mock.ExpectQuery("SELECT .*").WillReturnRows(rows)

	res, err := RawQuery[TestModel](db, "SELECT {*} FROM `test_model` WHERE `id` = ?", 1).
		Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &TestModel{
		Id:        1,
		FirstName: "Da",
		Age:       18,
		LastName:  &sql.NullString{String: "Ming", Valid: true},
	}, res)
}
