package kaede

import "github.com/coderi421/kaede/internal/errs"

// 为了用户检测 error 的类型，暴露出去
// 简单的负责转发的工具
var (
	// ErrNoRows 代表没有找到数据
	ErrNoRows = errs.ErrNoRows
	// ErrTooManyRows 唯一结果查询命中了多行
	ErrTooManyRows = errs.ErrTooManyRows
	// ErrRecordNotIdentified 记录还没有定位到数据库中的行
	ErrRecordNotIdentified = errs.ErrRecordNotIdentified
)

// ValidationError 校验失败时 Record 的保存方法返回它
// errors.As 拿到之后可以逐字段处理
type ValidationError = errs.ValidationError

// FieldError 单个字段的校验失败信息
type FieldError = errs.FieldError
