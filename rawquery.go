package kaede

import (
	"context"
	"database/sql"
	"strings"
)

// starToken 在原生 SQL 里面展开成模型的全部列
// 例如 RawQuery[User](db, "SELECT {*} FROM `user`")
const starToken = "{*}"

type RawQuerier[T any] struct {
	core
	sess Session
	sql  string
	args []any
}

// RawQuery 创建一个 RawQuerier 实例
// 泛型参数 T 是目标类型。
// 例如，如果查询 User 的数据，那么 T 就是 User
func RawQuery[T any](sess Session, query string, args ...any) *RawQuerier[T] {
	c := sess.getCore()
	return &RawQuerier[T]{
		core: c,
		sess: sess,
		sql:  query,
		args: args,
	}
}

func (r *RawQuerier[T]) Build() (*Query, error) {
	q := r.sql
	if strings.Contains(q, starToken) {
		m, err := r.r.Get(new(T))
		if err != nil {
			return nil, err
		}
		quoter := string(r.dialect.quoter())
		cols := make([]string, 0, len(m.Fields))
		for _, fd := range m.Fields {
			cols = append(cols, quoter+fd.ColName+quoter)
		}
		q = strings.ReplaceAll(q, starToken, strings.Join(cols, ","))
	}
	return &Query{
		SQL:  q,
		Args: r.args,
	}, nil
}

func (r *RawQuerier[T]) Exec(ctx context.Context) Result {
	m, err := r.r.Get(new(T))
	if err != nil {
		return Result{
			err: err,
		}
	}

	res := exec(ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
		Model:   m,
	})

	var sqlRes sql.Result
	if res.Result != nil {
		sqlRes = res.Result.(sql.Result)
	}
	return Result{
		err: res.Err,
		res: sqlRes,
	}
}

func (r *RawQuerier[T]) Get(ctx context.Context) (*T, error) {
	// 获取 model 在中间件中使用
	m, err := r.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	res := get[T](ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
		Model:   m,
	})

	if res.Result != nil {
		return res.Result.(*T), res.Err
	}
	return nil, res.Err
}

func (r *RawQuerier[T]) GetMulti(ctx context.Context) ([]*T, error) {
	m, err := r.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	res := getMulti[T](ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Multi:   true,
		Builder: r,
		Model:   m,
	})

	if res.Result != nil {
		return res.Result.([]*T), res.Err
	}
	return nil, res.Err
}
