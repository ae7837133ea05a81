package memory

import (
	"context"
	"time"

	"github.com/coderi421/kaede/middlewares/querycache"
	cache "github.com/patrickmn/go-cache"
)

// Store 利用一个内存缓存来帮助我们管理过期时间
type Store struct {
	c          *cache.Cache
	expiration time.Duration
}

// NewStore creates a new Store instance.
// The expiration parameter specifies the duration for which the cached values
func NewStore(expiration time.Duration) *Store {
	return &Store{
		c:          cache.New(expiration, time.Second),
		expiration: expiration,
	}
}

func (s *Store) Get(ctx context.Context, key string) (any, error) {
	val, ok := s.c.Get(key)
	if !ok {
		return nil, querycache.ErrKeyNotFound
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, val any) error {
	s.c.Set(key, val, s.expiration)
	return nil
}
