package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// SequenceOption is a function type for configuring a Sequence.
type SequenceOption func(seq *Sequence)

// Sequence 基于 Redis INCR 的单调序列
// 多个实例共享同一个 key 的时候也不会发出重复的值
type Sequence struct {
	prefix string // redis 中 key 的前缀
	name   string
	client redis.Cmdable
}

// NewSequence creates a new instance of the Sequence struct.
// It takes a redis.Cmdable client and the sequence name as arguments.
func NewSequence(client redis.Cmdable, name string, opts ...SequenceOption) *Sequence {
	res := &Sequence{
		client: client,
		name:   name,
		prefix: "seq",
	}

	for _, opt := range opts {
		opt(res)
	}

	return res
}

// WithPrefix sets the prefix value of the sequence key.
func WithPrefix(prefix string) SequenceOption {
	return func(seq *Sequence) {
		seq.prefix = prefix
	}
}

func (s *Sequence) key() string {
	return fmt.Sprintf("%s_%s", s.prefix, s.name)
}

// Next 返回下一个值，类型是 int64
func (s *Sequence) Next(ctx context.Context) (any, error) {
	return s.client.Incr(ctx, s.key()).Result()
}
