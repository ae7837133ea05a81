package kaede

import (
	"context"
	"database/sql"

	"github.com/coderi421/kaede/internal/errs"
)

type Deleter[T any] struct {
	builder

	table string
	where []Predicate
}

func NewDeleter[T any](sess Session) *Deleter[T] {
	c := sess.getCore()
	d := &Deleter[T]{
		builder: builder{
			core:   c,
			sess:   sess,
			quoter: c.dialect.quoter(),
		},
	}

	m, err := c.r.Get(new(T))
	if err != nil {
		d.err = err
		return d
	}
	if m.ReadOnly {
		d.err = errs.NewErrReadOnlyTable(m.TableName)
		return d
	}
	d.model = m
	return d
}

// Build generates a DELETE query based on the provided parameters.
// It returns the generated query string and any associated arguments,
// or an error if there was a problem building the query.
func (d *Deleter[T]) Build() (*Query, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.q != nil {
		return d.q, nil
	}

	_, _ = d.sb.WriteString("DELETE FROM ")

	// If the table name is not provided, use the name of the T struct.
	if d.table == "" {
		d.quote(d.model.TableName)
	} else {
		// 这里没有处理 添加`符号，让用户自己知道名字自己在做什么
		d.sb.WriteString(d.table)
	}

	// If there are any WHERE clauses, add them to the query.
	if len(d.where) > 0 {
		d.sb.WriteString(" WHERE ")
		if err := d.buildPredicates(d.where); err != nil {
			return nil, err
		}
	}

	d.sb.WriteByte(';')
	d.q = &Query{
		SQL:  d.sb.String(),
		Args: d.args,
	}
	return d.q, nil
}

// From sets the table for the Deleter and returns a pointer to the Deleter.
// The table parameter specifies the name of the table to delete from.
func (d *Deleter[T]) From(table string) *Deleter[T] {
	d.table = table
	return d
}

// Where accepts predicates and adds them to the Deleter's where clause.
func (d *Deleter[T]) Where(predicates ...Predicate) *Deleter[T] {
	d.where = append(d.where, predicates...)
	return d
}

func (d *Deleter[T]) Exec(ctx context.Context) Result {
	if d.err != nil {
		return Result{
			err: d.err,
		}
	}

	res := exec(ctx, d.sess, d.core, &QueryContext{
		Type:    "DELETE",
		Builder: d,
		Model:   d.model,
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
