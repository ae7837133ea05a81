package model

import "reflect"

// Option is a function type that modifies a Model.
type Option func(model *Model) error

// Model 结构体映射db后的结构
// 初始化完成之后不再修改，可以在多个 goroutine 之间安全共享
type Model struct {
	// TableName 结构体对应的表名
	TableName string
	// ReadOnly 标记只读关系（例如视图），写语句会在构造时被拒绝
	ReadOnly bool
	// Fields 按照结构体声明顺序排列
	Fields    []*Field
	FieldMap  map[string]*Field // 结构体 属性名 attr name 为 key  ItemId
	ColumnMap map[string]*Field // DB column name 为 key    item_id
	// PrimaryKey 有且只有一个主键
	// 通过 pk 标签指定，或者默认取名为 Id 的字段
	PrimaryKey *Field
	// Associations 外键关联，指向父关系
	Associations []*Association
	// Constraints 从标签推导出来的约束描述
	Constraints []*Constraint
}

// Field 字段相关的属性
type Field struct {
	ColName string       // 数据库中的字段名
	GoName  string       // go struct 中的名字
	Type    reflect.Type // go 中的数据类型，转换成 reflect.Value 的时候，知道是什么类型，不然那没法转
	// Offset 相对于对象起始地址的字段偏移量
	// uintptr 这个类型的值，只是简单记录一下位置
	Offset uintptr
	// Index 是字段在结构体中的下标
	Index int
	// PrimaryKey 标记主键字段
	PrimaryKey bool
	// Sequence 为空表示该字段不由序列生成
	// 否则记录了在 DB 上注册的序列名字
	Sequence string
	NotNull  bool
	Unique   bool
}

// Association 描述一个指向父关系的外键
type Association struct {
	// FieldName 本关系中持有外键的字段
	FieldName string
	// RefTable 父关系的表名
	RefTable string
	// RefColumn 父关系中被引用的列
	RefColumn string
}

type ConstraintType string

const (
	ConstraintPrimaryKey ConstraintType = "PRIMARY KEY"
	ConstraintNotNull    ConstraintType = "NOT NULL"
	ConstraintUnique     ConstraintType = "UNIQUE"
	ConstraintForeignKey ConstraintType = "FOREIGN KEY"
)

// Constraint 描述一个表级约束
type Constraint struct {
	Type ConstraintType
	// Fields 受约束的字段
	Fields []string
	// RefTable 和 RefColumn 只在外键约束中有值
	RefTable  string
	RefColumn string
}

// 我们支持的全部标签上的 key 都放在这里
// 方便用户查找，和我们后期维护
const (
	tagKeyColumn   = "column"
	tagKeyPK       = "pk"
	tagKeySequence = "seq"
	tagKeyFK       = "fk"
	tagKeyNotNull  = "notnull"
	tagKeyUnique   = "unique"
	tagORMName     = "orm"
)

// TableName 用户实现这个接口来返回自定义的表名
type TableName interface {
	TableName() string
}

// ReadOnlyTable 用户实现这个接口来把关系标记为只读
type ReadOnlyTable interface {
	ReadOnly() bool
}
