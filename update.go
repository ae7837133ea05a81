package kaede

import (
	"context"
	"database/sql"

	"github.com/coderi421/kaede/internal/errs"
)

type Updater[T any] struct {
	builder
	assigns []Assignable // 由于处理 name=zheng
	val     *T           // 更新用的结构体
	where   []Predicate
}

func NewUpdater[T any](sess Session) *Updater[T] {
	c := sess.getCore()
	u := &Updater[T]{
		builder: builder{
			core:   c,
			sess:   sess,
			quoter: c.dialect.quoter(),
		},
	}

	m, err := c.r.Get(new(T))
	if err != nil {
		u.err = err
		return u
	}
	if m.ReadOnly {
		u.err = errs.NewErrReadOnlyTable(m.TableName)
		return u
	}
	u.model = m
	return u
}

func (u *Updater[T]) Update(t *T) *Updater[T] {
	u.val = t
	return u
}

func (u *Updater[T]) Set(assigns ...Assignable) *Updater[T] {
	u.assigns = append(u.assigns, assigns...)
	return u
}

func (u *Updater[T]) Where(ps ...Predicate) *Updater[T] {
	u.where = append(u.where, ps...)
	return u
}

// Build SET 的参数在前，WHERE 的参数在后，和占位符的文本顺序一致
func (u *Updater[T]) Build() (*Query, error) {
	if u.err != nil {
		return nil, u.err
	}
	if u.q != nil {
		return u.q, nil
	}
	if len(u.assigns) == 0 {
		return nil, errs.ErrNoUpdatedColumns
	}

	if u.val == nil {
		u.val = new(T)
	}

	u.sb.WriteString("UPDATE ")
	u.quote(u.model.TableName)
	u.sb.WriteString(" SET ")
	val := u.valCreator(u.val, u.model)
	for i, a := range u.assigns {
		if i > 0 {
			u.sb.WriteByte(',')
		}
		switch assign := a.(type) {
		case Column:
			// 值从更新用的结构体里面取
			if err := u.buildColumn(Column{name: assign.name}); err != nil {
				return nil, err
			}
			u.sb.WriteString("=?")
			arg, err := val.Field(assign.name)
			if err != nil {
				return nil, err
			}
			u.addArgs(arg)
		case Assignment:
			if err := u.buildAssignment(assign); err != nil {
				return nil, err
			}
		default:
			return nil, errs.NewErrUnsupportedAssignableType(a)
		}
	}
	if len(u.where) > 0 {
		u.sb.WriteString(" WHERE ")
		if err := u.buildPredicates(u.where); err != nil {
			return nil, err
		}
	}
	u.sb.WriteByte(';')
	u.q = &Query{
		SQL:  u.sb.String(),
		Args: u.args,
	}
	return u.q, nil
}

func (u *Updater[T]) buildAssignment(assign Assignment) error {
	if err := u.buildColumn(Column{name: assign.column}); err != nil {
		return err
	}
	u.sb.WriteByte('=')
	return u.buildExpression(assign.val)
}

func (u *Updater[T]) Exec(ctx context.Context) Result {
	if u.err != nil {
		return Result{
			err: u.err,
		}
	}

	res := exec(ctx, u.sess, u.core, &QueryContext{
		Type:    "UPDATE",
		Builder: u,
		Model:   u.model,
	})

	var sqlRes sql.Result
	if res.Result != nil {
		sqlRes = res.Result.(sql.Result)
	}
	return Result{
		err: res.Err,
		res: sqlRes,
	}
}
