package kaede

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coderi421/kaede/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ReadOnlyView 模拟一个映射到视图上的只读关系
type ReadOnlyView struct {
	Id   int64
	Name string
}

func (ReadOnlyView) ReadOnly() bool {
	return true
}

func TestInserter_Build(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name      string
		q         QueryBuilder
		wantQuery *Query
		wantErr   error
	}{
		{
			// 不提供数据
			name:    "no value",
			q:       NewInserter[TestModel](db).Values(),
			wantErr: errs.ErrInsertZeroRow,
		},
		{
			name: "single values",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				}),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?);",
				Args: []any{int64(1), "Zheng", int8(18), &sql.NullString{String: "Tianyi", Valid: true}},
			},
		},
		{
			name: "multiple values",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				},
				&TestModel{
					Id:        2,
					FirstName: "Tom",
					Age:       16,
					LastName:  &sql.NullString{String: "Jerry", Valid: true},
				}),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?),(?,?,?,?);",
				Args: []any{int64(1), "Zheng", int8(18), &sql.NullString{String: "Tianyi", Valid: true}, int64(2), "Tom", int8(16), &sql.NullString{String: "Jerry", Valid: true}},
			},
		},
		{
			// 指定列
			name: "specify columns",
			q: NewInserter[TestModel](db).Columns("FirstName", "LastName").Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				}),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`first_name`,`last_name`) VALUES (?,?);",
				Args: []any{"Zheng", &sql.NullString{String: "Tianyi", Valid: true}},
			},
		},
		{
			// 指定 非法列
			name: "invalid columns",
			q: NewInserter[TestModel](db).Columns("FirstName", "Invalid").Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
				}),
			wantErr: errs.NewErrUnknownField("Invalid"),
		},
		{
			// 行集来自查询
			name: "insert from select",
			q: NewInserter[TestModel](db).Columns("FirstName", "LastName").
				Select(NewSelector[TestModel](db).
					Select(C("FirstName"), C("LastName")).
					Where(C("Age").GT(18))),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`first_name`,`last_name`) SELECT `first_name`,`last_name` FROM `test_model` AS `this_1` WHERE `age` > ?;",
				Args: []any{18},
			},
		},
		{
			// 只读关系拒绝插入，错误在构造阶段就锁存了
			name:    "read only",
			q:       NewInserter[ReadOnlyView](db).Values(&ReadOnlyView{Id: 1}),
			wantErr: errs.NewErrReadOnlyTable("read_only_view"),
		},
		{
			// upsert
			name: "upsert",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				}).OnDuplicateKey().Update(Assign("FirstName", "Z")),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?) ON DUPLICATE KEY UPDATE `first_name`=?;",
				Args: []any{int64(1), "Zheng", int8(18), &sql.NullString{String: "Tianyi", Valid: true}, "Z"},
			},
		},
		{
			name: "upsert invalid column",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id: 1,
				}).OnDuplicateKey().Update(Assign("Invalid", "zheng")),
			wantErr: errs.NewErrUnknownField("Invalid"),
		},
		{
			// 使用原本插入的值
			name: "upsert use insert value",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				},
				&TestModel{
					Id:        2,
					FirstName: "Tom",
					Age:       16,
					LastName:  &sql.NullString{String: "Jerry", Valid: true},
				}).OnDuplicateKey().Update(C("FirstName"), C("LastName")),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?),(?,?,?,?) ON DUPLICATE KEY UPDATE `first_name`=VALUES(`first_name`),`last_name`=VALUES(`last_name`);",
				Args: []any{int64(1), "Zheng", int8(18), &sql.NullString{String: "Tianyi", Valid: true}, int64(2), "Tom", int8(16), &sql.NullString{String: "Jerry", Valid: true}},
			},
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

func TestUpsert_SQLite3_Build(t *testing.T) {
	db := memoryDB(t, DBWithDialect(SQLite3))
	testCases := []struct {
		name      string
		q         QueryBuilder
		wantQuery *Query
		wantErr   error
	}{
		{
			name: "upsert",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				}).OnDuplicateKey().ConflictColumns("Id").Update(Assign("FirstName", "zheng")),
			wantQuery: &Query{
				SQL:  "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?) ON CONFLICT(`id`) DO UPDATE SET `first_name`=?;",
				Args: []any{int64(1), "Zheng", int8(18), &sql.NullString{String: "Tianyi", Valid: true}, "zheng"},
			},
		},
		{
			// conflict invalid column
			name: "conflict invalid column",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id: 1,
				}).OnDuplicateKey().ConflictColumns("Invalid").
				Update(Assign("FirstName", "zheng")),
			wantErr: errs.NewErrUnknownField("Invalid"),
		},
		{
			// 使用原本插入的值
			name: "upsert use insert value",
			q: NewInserter[TestModel](db).Values(
				&TestModel{
					Id:        1,
					FirstName: "Zheng",
					Age:       18,
					LastName:  &sql.NullString{String: "Tianyi", Valid: true},
				},
				&TestModel{
					Id:        2,
					FirstName: "Tom",
					Age:       16,
					LastName:  &sql.NullString{String: "Jerry", Valid: true},
				}).OnDuplicateKey().ConflictColumns("Id").Update(C("FirstName"), C("LastName")),
			wantQuery: &Query{
				SQL: "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?),(?,?,?,?) ON CONFLICT(`id`) DO UPDATE SET `first_name`=excluded.`first_name`,`last_name`=excluded.`last_name`;",
				Args: []any{int64(1), "Zheng", int8(18), &sql.NullString{String: "Tianyi", Valid: true},
					int64(2), "Tom", int8(16), &sql.NullString{String: "Jerry", Valid: true}},
			},
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

func TestInserter_Exec(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO .*").WillReturnError(errors.New("db error"))
		res := NewInserter[TestModel](db).Values(&TestModel{Id: 1}).Exec(context.Background())
		assert.Equal(t, errors.New("db error"), res.Err())
	})

	t.Run("last insert id", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO .*").WillReturnResult(sqlmock.NewResult(12, 1))
		res := NewInserter[TestModel](db).Values(&TestModel{Id: 12}).Exec(context.Background())
		require.NoError(t, res.Err())
		id, err := res.LastInsertId()
		require.NoError(t, err)
		assert.Equal(t, int64(12), id)
	})
}
