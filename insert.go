package kaede

import (
	"context"
	"database/sql"
	"strings"

	"github.com/coderi421/kaede/internal/errs"
	"github.com/coderi421/kaede/model"
)

type Inserter[T any] struct {
	builder
	values  []*T     // 缓存要插入的数据
	columns []string // insert 语句中，要插入哪些字段
	// sub 不为 nil 的时候是 INSERT ... SELECT 形态
	sub    QueryBuilder
	upsert *Upsert
}

func NewInserter[T any](sess Session) *Inserter[T] {
	c := sess.getCore()
	i := &Inserter[T]{
		builder: builder{
			core:   c,
			sess:   sess,
			quoter: c.dialect.quoter(),
		},
	}

	// 写语句在构造的时候就检查目标关系
	// 只读关系的错误被锁存，Build 和 Exec 都会先抛它
	m, err := c.r.Get(new(T))
	if err != nil {
		i.err = err
		return i
	}
	if m.ReadOnly {
		i.err = errs.NewErrReadOnlyTable(m.TableName)
		return i
	}
	i.model = m
	return i
}

// Values
//
//	@Description: 将插入数据库中的数据
//	@receiver i
//	@param val
//	@return *Inserter[T]
func (i *Inserter[T]) Values(val ...*T) *Inserter[T] {
	i.values = val
	return i
}

// Columns
//
//	@Description: 插入指定的字段
//	@receiver i
//	@param cols
//	@return *Inserter[T]
func (i *Inserter[T]) Columns(cols ...string) *Inserter[T] {
	i.columns = cols
	return i
}

// Select 切换到 INSERT ... SELECT 形态，行集来自查询而不是实体
func (i *Inserter[T]) Select(sub QueryBuilder) *Inserter[T] {
	i.sub = sub
	return i
}

// OnDuplicateKey 进入 upsert 的构造分支
func (i *Inserter[T]) OnDuplicateKey() *UpsertBuilder[T] {
	return &UpsertBuilder[T]{
		i: i,
	}
}

type UpsertBuilder[T any] struct {
	i               *Inserter[T]
	conflictColumns []string
}

// Upsert 冲突时的更新动作
type Upsert struct {
	conflictColumns []string
	assigns         []Assignable
}

// ConflictColumns SQLite 这样的方言需要显式的冲突列
func (u *UpsertBuilder[T]) ConflictColumns(cols ...string) *UpsertBuilder[T] {
	u.conflictColumns = cols
	return u
}

// Update 指定冲突时要更新的列或者赋值，随后回到 Inserter 的链上
func (u *UpsertBuilder[T]) Update(assigns ...Assignable) *Inserter[T] {
	u.i.upsert = &Upsert{
		conflictColumns: u.conflictColumns,
		assigns:         assigns,
	}
	return u.i
}

func (i *Inserter[T]) Build() (*Query, error) {
	if i.err != nil {
		return nil, i.err
	}
	if i.q != nil {
		return i.q, nil
	}
	if i.sub == nil && len(i.values) == 0 {
		return nil, errs.ErrInsertZeroRow
	}

	m := i.model

	i.sb.WriteString("INSERT INTO ")
	i.quote(m.TableName)
	i.sb.WriteString(" (")

	fields := m.Fields
	if len(i.columns) != 0 {
		// 如果只插入部分字段
		fields = make([]*model.Field, 0, len(i.columns))
		for _, c := range i.columns {
			field, ok := m.FieldMap[c]
			if !ok {
				return nil, errs.NewErrUnknownField(c)
			}
			fields = append(fields, field)
		}
	}

	for idx, fd := range fields {
		if idx > 0 {
			i.sb.WriteByte(',')
		}
		i.quote(fd.ColName)
	}
	i.sb.WriteByte(')')

	if i.sub != nil {
		// INSERT ... SELECT，参数全部来自子查询
		q, err := i.sub.Build()
		if err != nil {
			return nil, err
		}
		i.sb.WriteByte(' ')
		i.sb.WriteString(strings.TrimSuffix(q.SQL, ";"))
		if len(q.Args) > 0 {
			i.addArgs(q.Args...)
		}
	} else {
		i.sb.WriteString(" VALUES ")
		// (len(i.values) + 1) 中 +1 是考虑到 UPSERT 语句会传递额外的参数
		i.args = make([]any, 0, len(fields)*len(i.values)+1)
		for vIdx, val := range i.values {
			// 构建 VALUES (?,?,?), (?,?,?)
			if vIdx > 0 {
				i.sb.WriteByte(',')
			}
			refVal := i.valCreator(val, m)
			i.sb.WriteByte('(')
			for fIdx, field := range fields {
				// 构建 (?,?,?)
				if fIdx > 0 {
					i.sb.WriteByte(',')
				}
				i.sb.WriteByte('?')
				fdVal, err := refVal.Field(field.GoName)
				if err != nil {
					return nil, err
				}
				i.addArgs(fdVal)
			}
			i.sb.WriteByte(')')
		}
	}

	if i.upsert != nil {
		// 冲突子句是方言自己的事
		if err := i.dialect.buildUpsert(&i.builder, i.upsert); err != nil {
			return nil, err
		}
	}

	i.sb.WriteByte(';')
	i.q = &Query{
		SQL:  i.sb.String(),
		Args: i.args,
	}
	return i.q, nil
}

func (i *Inserter[T]) Exec(ctx context.Context) Result {
	if i.err != nil {
		return Result{
			err: i.err,
		}
	}

	res := exec(ctx, i.sess, i.core, &QueryContext{
		Type:    "INSERT",
		Builder: i,
		Model:   i.model,
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
