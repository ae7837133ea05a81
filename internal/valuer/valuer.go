package valuer

import (
	"database/sql"

	"github.com/coderi421/kaede/model"
)

// Value 是对结构体实例的内部抽象
// 屏蔽了反射和 unsafe 两种实现方式的差异
type Value interface {
	// Field 返回字段对应的值
	Field(name string) (any, error)
	// SetColumns 将查询结果集的当前行设置到结构体上
	SetColumns(rows *sql.Rows) error
}

// Creator 本质上也可以看做是一种工厂模式
// val 必须是指向结构体实例的指针
type Creator func(val any, meta *model.Model) Value
