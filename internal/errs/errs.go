package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRows 代表没有找到数据
	ErrNoRows = errors.New("kaede: 没有数据")
	// ErrTooManyRows 代表唯一结果查询返回了不止一行
	ErrTooManyRows = errors.New("kaede: 唯一结果查询命中多行数据")
	// ErrPointerOnly 只支持一级指针作为输入
	// 看到这个 error 说明你输入了其它的东西
	// 我们并不希望用户能够直接使用 err == ErrPointerOnly 这种方式来判断
	ErrPointerOnly = errors.New("kaede: 只支持一级指针作为输入，例如 *User")
	// ErrInsertZeroRow 代表插入 0 行
	ErrInsertZeroRow = errors.New("kaede: 插入 0 行")
	// ErrNoUpdatedColumns 代表 UPDATE 语句没有任何 SET 子句
	ErrNoUpdatedColumns = errors.New("kaede: 未指定更新的列")

	ErrTooManyReturnedColumns = errors.New("kaede: 过多列")

	// ErrRecordNotIdentified 记录还没有和数据库中的行建立对应关系
	// 先 Insert 或者用带主键的实体构造记录
	ErrRecordNotIdentified = errors.New("kaede: 记录尚未定位到数据库中的行")
)

func NewErrFailedToRollbackTx(bizErr error, rbErr error, panicked bool) error {
	return fmt.Errorf("kaede: 事务闭包回滚失败，业务错误：%w，回滚错误：%s，是否panic：%t",
		bizErr, rbErr, panicked)
}

// NewErrIncompatibleSequenceValue 序列给出的值无法转换成字段类型
func NewErrIncompatibleSequenceValue(field string, val any) error {
	return fmt.Errorf("kaede: 序列产生的值 %v 无法赋给字段 %s", val, field)
}

// NewErrUnknownField 返回代表未知字段的错误
// 一般意味着你可能输入的是列名，或者输入了错误的字段名
func NewErrUnknownField(fd string) error {
	return fmt.Errorf("kaede: 未知字段 %s", fd)
}

// NewErrUnknownColumn 返回代表未知列名的错误
// 一般意味着你使用了错误的列名
// 注意和 NewErrUnknownField 区别开来
func NewErrUnknownColumn(col string) error {
	return fmt.Errorf("kaede: 未知列 %s", col)
}

func NewErrUnsupportedExpressionType(exp any) error {
	return fmt.Errorf("kaede: 不支持的表达式 %v", exp)
}

func NewErrUnsupportedSelectable(exp any) error {
	return fmt.Errorf("kaede: 不支持的目标列 %v", exp)
}

func NewErrUnsupportedAssignableType(exp any) error {
	return fmt.Errorf("kaede: 不支持的赋值表达式类型 %v", exp)
}

func NewErrUnsupportedTable(table any) error {
	return fmt.Errorf("kaede: 不支持的 TableReference 类型 %v", table)
}

func NewErrInvalidTagContent(tag string) error {
	return fmt.Errorf("kaede: 错误的标签设置: %s", tag)
}

// NewErrReadOnlyTable 只读关系不允许被任何写语句指向
func NewErrReadOnlyTable(table string) error {
	return fmt.Errorf("kaede: 只读关系 %s 不允许执行写操作", table)
}

// NewErrMultiplePrimaryKeys 一个关系有且只有一个主键
func NewErrMultiplePrimaryKeys(table string) error {
	return fmt.Errorf("kaede: 关系 %s 声明了多个主键", table)
}

func NewErrMissingPrimaryKey(table string) error {
	return fmt.Errorf("kaede: 关系 %s 没有主键", table)
}

// NewErrMissingSequence 字段声明了序列，但是 DB 上没有注册对应的实现
func NewErrMissingSequence(name string) error {
	return fmt.Errorf("kaede: 未注册的序列 %s", name)
}

func NewErrUnsupportedDialect(feature string) error {
	return fmt.Errorf("kaede: 方言不支持 %s", feature)
}

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Field   string
	Message string
}

// ValidationError 聚合了一次校验产生的全部字段错误
// 调用方可以依据它走可恢复路径，例如重新渲染表单
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	sb := strings.Builder{}
	sb.WriteString("kaede: 校验失败")
	for _, f := range e.Fields {
		sb.WriteString("; ")
		sb.WriteString(f.Field)
		sb.WriteString(": ")
		sb.WriteString(f.Message)
	}
	return sb.String()
}

func NewValidationError(fields []FieldError) error {
	return &ValidationError{Fields: fields}
}
