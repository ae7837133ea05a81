package kaede

import (
	"context"
	"reflect"

	"github.com/coderi421/kaede/internal/errs"
	"github.com/coderi421/kaede/model"
	"github.com/gotomicro/ekit/slice"
)

// Record 把一个实体和数据库里的一行绑定起来
// 识别状态由主键决定：主键非零代表这条记录对应已有的行
type Record[T any] struct {
	core
	sess Session
	val  *T
	meta *model.Model
	// identified 为 true 的时候 Update Delete 才有意义
	identified bool
	// err 构造阶段锁存的错误，所有落库动作都先抛它
	err error
}

// NewRecord 包装一个实体
// 只读关系、没有主键的关系在这里就被拒绝
func NewRecord[T any](sess Session, val *T) *Record[T] {
	c := sess.getCore()
	r := &Record[T]{
		core: c,
		sess: sess,
		val:  val,
	}

	m, err := c.r.Get(val)
	if err != nil {
		r.err = err
		return r
	}
	if m.ReadOnly {
		r.err = errs.NewErrReadOnlyTable(m.TableName)
		return r
	}
	if m.PrimaryKey == nil {
		r.err = errs.NewErrMissingPrimaryKey(m.TableName)
		return r
	}
	r.meta = m

	pkVal := reflect.ValueOf(val).Elem().Field(m.PrimaryKey.Index)
	r.identified = !pkVal.IsZero()
	return r
}

// Identified 实体是否已经对应数据库中的一行
func (r *Record[T]) Identified() bool {
	return r.identified
}

// Entity 返回被包装的实体本身
func (r *Record[T]) Entity() *T {
	return r.val
}

// Validate 跑一遍注册在 DB 上的全部校验器
// 所有字段错误聚合在一个 ValidationError 里面返回
func (r *Record[T]) Validate() error {
	if r.err != nil {
		return r.err
	}
	var fields []errs.FieldError
	for _, v := range r.validators {
		fields = append(fields, v.Validate(r.val, r.meta)...)
	}
	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}

// Insert 校验通过后插入，并且把自增主键回填进实体
func (r *Record[T]) Insert(ctx context.Context) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.InsertUnchecked(ctx)
}

// InsertUnchecked 跳过校验直接插入
func (r *Record[T]) InsertUnchecked(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	if err := r.generateFields(ctx); err != nil {
		return err
	}

	res := NewInserter[T](r.sess).Values(r.val).Exec(ctx)
	if res.Err() != nil {
		return res.Err()
	}

	// 数据库生成的自增主键回填进实体
	pkVal := reflect.ValueOf(r.val).Elem().Field(r.meta.PrimaryKey.Index)
	if pkVal.CanInt() && pkVal.IsZero() {
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		pkVal.SetInt(id)
	}
	r.identified = true
	return nil
}

// Update 把实体的全部非主键列写回它对应的行
func (r *Record[T]) Update(ctx context.Context) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.UpdateUnchecked(ctx)
}

func (r *Record[T]) UpdateUnchecked(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	if !r.identified {
		return errs.ErrRecordNotIdentified
	}

	cols := make([]*model.Field, 0, len(r.meta.Fields)-1)
	for _, fd := range r.meta.Fields {
		if !fd.PrimaryKey {
			cols = append(cols, fd)
		}
	}
	assigns := slice.Map(cols, func(idx int, src *model.Field) Assignable {
		return C(src.GoName)
	})

	res := NewUpdater[T](r.sess).
		Update(r.val).
		Set(assigns...).
		Where(r.pkPredicate()).
		Exec(ctx)
	return res.Err()
}

// Delete 删除记录对应的行，实体回到未识别状态
func (r *Record[T]) Delete(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	if !r.identified {
		return errs.ErrRecordNotIdentified
	}

	res := NewDeleter[T](r.sess).Where(r.pkPredicate()).Exec(ctx)
	if res.Err() != nil {
		return res.Err()
	}
	r.identified = false
	return nil
}

// Save 未识别的记录走插入，已识别的走更新
func (r *Record[T]) Save(ctx context.Context) error {
	if r.identified {
		return r.Update(ctx)
	}
	return r.Insert(ctx)
}

func (r *Record[T]) SaveUnchecked(ctx context.Context) error {
	if r.identified {
		return r.UpdateUnchecked(ctx)
	}
	return r.InsertUnchecked(ctx)
}

func (r *Record[T]) pkPredicate() Predicate {
	pk := r.meta.PrimaryKey
	pkVal := reflect.ValueOf(r.val).Elem().Field(pk.Index)
	return C(pk.GoName).EQ(pkVal.Interface())
}

// generateFields 给声明了序列并且还是零值的字段取值
func (r *Record[T]) generateFields(ctx context.Context) error {
	entity := reflect.ValueOf(r.val).Elem()
	for _, fd := range r.meta.Fields {
		if fd.Sequence == "" {
			continue
		}
		fdVal := entity.Field(fd.Index)
		if !fdVal.IsZero() {
			// 调用方自己赋过值，序列不插手
			continue
		}

		seq, ok := r.seqs[fd.Sequence]
		if !ok {
			return errs.NewErrMissingSequence(fd.Sequence)
		}
		next, err := seq.Next(ctx)
		if err != nil {
			return err
		}

		nextVal := reflect.ValueOf(next)
		if !nextVal.Type().ConvertibleTo(fd.Type) {
			return errs.NewErrIncompatibleSequenceValue(fd.GoName, next)
		}
		fdVal.Set(nextVal.Convert(fd.Type))
	}
	return nil
}
