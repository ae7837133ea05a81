package kaede

import (
	"context"
)

type Querier[T any] interface {
	// Get retrieves a T object from the database.
	// It takes a context as input and returns a pointer to T and an error.
	// Get 遵守唯一结果契约：没有数据返回 ErrNoRows，多于一行返回 ErrTooManyRows
	Get(ctx context.Context) (*T, error)
	GetMulti(ctx context.Context) ([]*T, error)
}

type Executor interface {
	Exec(ctx context.Context) Result
}

// Query 一条渲染好的语句：SQL 文本，以及与 ? 占位符顺序一一对应的参数
type Query struct {
	SQL  string
	Args []any
}

type QueryBuilder interface {
	Build() (*Query, error)
}
