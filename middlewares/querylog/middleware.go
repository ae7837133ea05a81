package querylog

import (
	"context"
	"log"

	"github.com/coderi421/kaede"
)

type MiddlewareBuilder struct {
	logFunc func(query string, args []any)
}

// LogFunc 替换默认的日志函数
// 传 nil 会导致 panic，这里不做防御
func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Build() kaede.Middleware {
	if m.logFunc == nil {
		m.logFunc = func(query string, args []any) {
			log.Printf("sql: %s, args: %v", query, args)
		}
	}
	return func(next kaede.Handler) kaede.Handler {
		return func(ctx context.Context, qc *kaede.QueryContext) *kaede.QueryResult {
			q, err := qc.Builder.Build()
			if err != nil {
				// 语句都没构造出来，没什么好记的
				return &kaede.QueryResult{
					Err: err,
				}
			}
			m.logFunc(q.SQL, q.Args)
			return next(ctx, qc)
		}
	}
}
