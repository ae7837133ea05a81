package kaede

import (
	"context"

	"github.com/coderi421/kaede/internal/errs"
	"github.com/coderi421/kaede/internal/valuer"
	"github.com/coderi421/kaede/model"
)

type core struct {
	dialect    Dialect
	r          model.Registry // 存储数据库表和 struct 映射关系的实例
	valCreator valuer.Creator // 与DB交互映射的实现
	mdls       []Middleware
	validators []Validator
	// seqs 按名字注册的取值器，插入的时候给带 seq 标签的列生成值
	seqs map[string]Sequence
}

// get 单行查询的入口，把 getHandler 包进中间件链
func get[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	var handler Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getHandler[T](ctx, sess, c, qc)
	}
	for i := len(c.mdls) - 1; i >= 0; i-- {
		handler = c.mdls[i](handler)
	}
	return handler(ctx, qc)
}

// getHandler 执行查询并且校验唯一结果契约：
// 第一行取出之后再探测一次游标，发现第二行立刻报错
func getHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}
	defer func() {
		_ = rows.Close()
	}()

	if !rows.Next() {
		return &QueryResult{
			Err: errs.ErrNoRows,
		}
	}

	// 创建与 db table 对应的 *struct
	tp := new(T)
	// 开始进行映射 db table 和 struct 的关系
	val := c.valCreator(tp, qc.Model)
	// 使用存在映射关系的实体 val， 将 rows 中的数据 映射到 *struct[T] 中
	if err = val.SetColumns(rows); err != nil {
		return &QueryResult{
			Err: err,
		}
	}

	// 唯一结果契约：多于一行是调用方的查询写错了
	if rows.Next() {
		return &QueryResult{
			Err: errs.ErrTooManyRows,
		}
	}

	return &QueryResult{
		Result: tp,
	}
}

func getMulti[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	var handler Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getMultiHandler[T](ctx, sess, c, qc)
	}
	for i := len(c.mdls) - 1; i >= 0; i-- {
		handler = c.mdls[i](handler)
	}
	return handler(ctx, qc)
}

// getMultiHandler 空结果集返回空切片，不是错误
func getMultiHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*T, 0, 16)
	for rows.Next() {
		tp := new(T)
		val := c.valCreator(tp, qc.Model)
		if err = val.SetColumns(rows); err != nil {
			return &QueryResult{
				Err: err,
			}
		}
		res = append(res, tp)
	}

	return &QueryResult{
		Result: res,
	}
}

// exec 写语句的入口，和 get 走同一条中间件链
func exec(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	var handler Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{
				Err: err,
			}
		}
		res, err := sess.execContext(ctx, q.SQL, q.Args...)
		return &QueryResult{
			Result: res,
			Err:    err,
		}
	}
	for i := len(c.mdls) - 1; i >= 0; i-- {
		handler = c.mdls[i](handler)
	}
	return handler(ctx, qc)
}
