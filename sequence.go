package kaede

import (
	"context"

	"github.com/google/uuid"
)

// Sequence 给声明了 orm:"seq=name" 的字段在插入前生成值
// 实现自己决定值从哪里来：UUID、Redis 自增、数据库序列都可以
type Sequence interface {
	Next(ctx context.Context) (any, error)
}

// UUIDSequence 用随机 UUID 填充字符串主键
type UUIDSequence struct {
}

func (s UUIDSequence) Next(ctx context.Context) (any, error) {
	return uuid.NewString(), nil
}
