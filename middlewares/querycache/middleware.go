package querycache

import (
	"context"
	"errors"
	"fmt"

	"github.com/coderi421/kaede"
)

// ErrKeyNotFound Store 的实现用它表达缓存未命中
var ErrKeyNotFound = errors.New("querycache: key 不存在")

// Store 查询结果缓存的抽象
// key 由查询形态、SQL 文本和参数拼出来，同一条语句同样的参数就会命中
type Store interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, val any) error
}

type MiddlewareBuilder struct {
	store Store
}

func NewMiddlewareBuilder(store Store) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		store: store,
	}
}

// Build 只拦截 SELECT，写语句直接放行
// 这里不做失效，写多读少的表不该挂这个中间件
func (m *MiddlewareBuilder) Build() kaede.Middleware {
	return func(next kaede.Handler) kaede.Handler {
		return func(ctx context.Context, qc *kaede.QueryContext) *kaede.QueryResult {
			if qc.Type != "SELECT" {
				return next(ctx, qc)
			}
			q, err := qc.Builder.Build()
			if err != nil {
				return &kaede.QueryResult{
					Err: err,
				}
			}

			// Get 存的是 *T，GetMulti 存的是 []*T
			// 查询形态必须进 key，不然两者会互相击中对方的缓存
			mode := "get"
			if qc.Multi {
				mode = "multi"
			}
			key := fmt.Sprintf("%s-%s-%v", mode, q.SQL, q.Args)
			val, err := m.store.Get(ctx, key)
			if err == nil {
				// 命中返回的是缓存里的同一个实例，调用方不要原地修改查询结果
				return &kaede.QueryResult{
					Result: val,
				}
			}

			res := next(ctx, qc)
			if res.Err == nil {
				// 回填失败不影响本次查询的结果
				_ = m.store.Set(ctx, key, res.Result)
			}
			return res
		}
	}
}
