package lru

import (
	"context"

	"github.com/coderi421/kaede/middlewares/querycache"
	lru "github.com/hashicorp/golang-lru"
)

// Store 定长的 LRU 缓存，没有过期时间，靠淘汰控制内存
type Store struct {
	c *lru.Cache
}

func NewStore(size int) (*Store, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{
		c: c,
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) (any, error) {
	val, ok := s.c.Get(key)
	if !ok {
		return nil, querycache.ErrKeyNotFound
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, val any) error {
	s.c.Add(key, val)
	return nil
}
