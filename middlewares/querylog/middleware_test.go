package querylog

import (
	"context"
	"database/sql"
	"log"
	"testing"

	"github.com/coderi421/kaede"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareBuilder(t *testing.T) {
	var query string
	var args []any

	customLogFunc := func(q string, as []any) {
		query = q
		args = as
		log.Printf("sql: %s, args: %v", query, args)
	}

	m := (&MiddlewareBuilder{}).LogFunc(customLogFunc)

	db, err := kaede.Open("sqlite3",
		"file:querylog.db?cache=shared&mode=memory",
		kaede.DBWithMiddlewares(m.Build()))
	require.NoError(t, err)

	_, _ = kaede.NewSelector[TestModel](db).Where(kaede.C("Id").EQ(10)).Get(context.Background())
	assert.Equal(t, "SELECT * FROM `test_model` AS `this_1` WHERE `id` = ?;", query)
	assert.Equal(t, []any{10}, args)

	_ = kaede.NewInserter[TestModel](db).Values(&TestModel{Id: 18}).Exec(context.Background())
	assert.Equal(t, "INSERT INTO `test_model` (`id`,`first_name`,`age`,`last_name`) VALUES (?,?,?,?);", query)
	assert.Equal(t, []any{int64(18), "", int8(0), (*sql.NullString)(nil)}, args)
}

type TestModel struct {
	Id        int64
	FirstName string
	Age       int8
	LastName  *sql.NullString
}
