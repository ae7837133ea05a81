package kaede

import (
	"github.com/coderi421/kaede/internal/errs"
	"github.com/coderi421/kaede/model"
)

// Validator 在记录落库之前检查实体
// 返回的每一条 FieldError 都会聚合进同一个 ValidationError
type Validator interface {
	Validate(entity any, m *model.Model) []errs.FieldError
}

// ValidatorFunc 函数适配器，和 http.HandlerFunc 一个套路
type ValidatorFunc func(entity any, m *model.Model) []errs.FieldError

func (f ValidatorFunc) Validate(entity any, m *model.Model) []errs.FieldError {
	return f(entity, m)
}
