package kaede

import (
	"strconv"
	"strings"

	"github.com/coderi421/kaede/internal/errs"
	"github.com/coderi421/kaede/model"
)

// builder 是所有语句构造器的公共部分
// 文本和参数永远通过它写入，写入顺序就是占位符的绑定顺序，
// 所以两者不可能错位
// builder（以及嵌入它的语句对象）不是并发安全的，一条语句由单一所有者构造并执行
type builder struct {
	core
	sess   Session
	sb     strings.Builder // sb is used to build the SQL query string.
	args   []any           // args holds the arguments for the query.
	model  *model.Model    // model is the model associated with the statement.
	quoter byte

	// aliasSeq 是本语句私有的别名计数器
	// 任何还没有别名的关系节点或者投影都会从这里拿到 this_<k>
	aliasSeq int

	// err 在构造阶段就能发现的错误，例如向只读关系发起写语句
	// Build 和 Exec 都会在渲染任何 SQL 之前把它抛出去
	err error

	// q 缓存构造结果，中间件和执行器可能都调用 Build
	q *Query
}

func (b *builder) quote(name string) {
	b.sb.WriteByte(b.quoter)
	b.sb.WriteString(name)
	b.sb.WriteByte(b.quoter)
}

func (b *builder) addArgs(args ...any) {
	if b.args == nil {
		b.args = make([]any, 0, 8)
	}
	b.args = append(b.args, args...)
}

// nextAlias 分配一个本语句内唯一的别名
func (b *builder) nextAlias() string {
	b.aliasSeq++
	return "this_" + strconv.Itoa(b.aliasSeq)
}

// assignTableAlias 递归地给还没有别名的关系节点分配别名
// 已经有别名的节点保持不动，所以重复进入是幂等的
func (b *builder) assignTableAlias(ref TableReference) TableReference {
	switch t := ref.(type) {
	case Table:
		if t.alias == "" {
			t.alias = b.nextAlias()
		}
		return t
	case Join:
		t.left = b.assignTableAlias(t.left)
		t.right = b.assignTableAlias(t.right)
		return t
	case Subquery:
		if t.alias == "" {
			t.alias = b.nextAlias()
		}
		return t
	default:
		return ref
	}
}

// buildPredicates builds the predicates for the given list of predicates.
func (b *builder) buildPredicates(ps []Predicate) error {
	// Take the first predicate as the starting node.
	p := ps[0]

	// Iterate through the remaining predicates.
	for i := 1; i < len(ps); i++ {
		// Merge multiple predicates using the `And` method.
		p = p.And(ps[i])
	}

	// Recursively process the where statement.
	return b.buildExpression(p)
}

// buildExpression builds the SQL query for the given expression.
// It takes an expression as input and recursively constructs the SQL query.
// The SQL query is stored in the builder's string buffer (b.sb).
// The argument values are stored in the builder's argument list (b.args).
func (b *builder) buildExpression(e Expression) error {
	// Column 代表是列名，直接拼接列名
	// value 代表参数，加入参数列表
	// Predicate 代表一个查询条件：
	// 如果左边是一个 Predicate，那么加上括号
	// 递归构造左边
	// 构造操作符
	// 如果右边是一个 Predicate，那么加上括号
	if e == nil {
		return nil
	}

	switch expr := e.(type) {
	case Column:
		// Append column name to the SQL query
		return b.buildColumn(expr)
	case Aggregate:
		return b.buildAggregate(expr, false)
	case value:
		// Append placeholder to the SQL query and add value to the argument list
		b.sb.WriteByte('?')
		b.addArgs(expr.val)
	case values:
		b.sb.WriteByte('(')
		for i, v := range expr.vals {
			if i > 0 {
				b.sb.WriteByte(',')
			}
			b.sb.WriteByte('?')
			b.addArgs(v)
		}
		b.sb.WriteByte(')')
	case RawExpr:
		// 执行原生 sql 语句
		b.sb.WriteString(expr.raw)
		if len(expr.args) != 0 {
			b.addArgs(expr.args...)
		}
	case Subquery:
		return b.buildSubquery(expr, false)
	case MathExpr:
		return b.buildBinaryExpr(binaryExpr(expr))
	case binaryExpr:
		return b.buildBinaryExpr(expr)
	case Predicate:
		// Build left expression
		// 如果左边有复杂结构，则在最外边套一层括号
		_, lp := expr.left.(Predicate)
		if lp {
			b.sb.WriteByte('(')
		}
		if err := b.buildExpression(expr.left); err != nil {
			return err
		}
		if lp {
			b.sb.WriteByte(')')
		}

		if expr.op == "" {
			// 如果只有左边（op 符号为空，就不需要连接），例如执行原生 sql raw 的时候，就只有左边
			return nil
		}

		// 处理运算符号
		// Append operator to the SQL query
		b.sb.WriteByte(' ')
		b.sb.WriteString(expr.op.String())
		b.sb.WriteByte(' ')

		// 处理右边的逻辑
		// Build right expression
		_, rp := expr.right.(Predicate)
		if rp {
			b.sb.WriteByte('(')
		}
		if err := b.buildExpression(expr.right); err != nil {
			return err
		}
		if rp {
			b.sb.WriteByte(')')
		}
	default:
		return errs.NewErrUnsupportedExpressionType(expr)
	}

	return nil
}

func (b *builder) buildBinaryExpr(e binaryExpr) error {
	err := b.buildSubExpr(e.left)
	if err != nil {
		return err
	}
	b.sb.WriteString(e.op.String())
	return b.buildSubExpr(e.right)
}

func (b *builder) buildSubExpr(sub Expression) error {
	switch s := sub.(type) {
	case MathExpr:
		b.sb.WriteByte('(')
		if err := b.buildBinaryExpr(binaryExpr(s)); err != nil {
			return err
		}
		b.sb.WriteByte(')')
	case binaryExpr:
		b.sb.WriteByte('(')
		if err := b.buildBinaryExpr(s); err != nil {
			return err
		}
		b.sb.WriteByte(')')
	case Predicate:
		b.sb.WriteByte('(')
		if err := b.buildExpression(s); err != nil {
			return err
		}
		b.sb.WriteByte(')')
	default:
		return b.buildExpression(sub)
	}
	return nil
}

// buildColumn 渲染一个列引用
// 列绑定了显式别名的表引用时才带限定前缀，
// 所以自联结必须给两条腿都起别名
func (b *builder) buildColumn(c Column) error {
	switch tab := c.table.(type) {
	case nil:
		fd, ok := b.model.FieldMap[c.name]
		if !ok {
			return errs.NewErrUnknownField(c.name)
		}
		b.quote(fd.ColName)
	case Table:
		m, err := b.r.Get(tab.entity)
		if err != nil {
			return err
		}
		fd, ok := m.FieldMap[c.name]
		if !ok {
			return errs.NewErrUnknownField(c.name)
		}
		if tab.alias != "" {
			b.quote(tab.alias)
			b.sb.WriteByte('.')
		}
		b.quote(fd.ColName)
	case Subquery:
		// 子查询的输出列沿用原始列名
		if len(tab.columns) > 0 && !hasColumn(tab.columns, c.name) {
			return errs.NewErrUnknownField(c.name)
		}
		m, err := b.r.Get(tab.entity)
		if err != nil {
			return err
		}
		fd, ok := m.FieldMap[c.name]
		if !ok {
			return errs.NewErrUnknownField(c.name)
		}
		if tab.alias != "" {
			b.quote(tab.alias)
			b.sb.WriteByte('.')
		}
		b.quote(fd.ColName)
	default:
		return errs.NewErrUnsupportedTable(tab)
	}
	return nil
}

func hasColumn(cols []Selectable, name string) bool {
	for _, col := range cols {
		if c, ok := col.(Column); ok && c.name == name {
			return true
		}
	}
	return false
}

func (b *builder) buildAggregate(a Aggregate, useAlias bool) error {
	b.sb.WriteString(a.fn)
	b.sb.WriteByte('(')
	if err := b.buildColumn(Column{table: a.table, name: a.arg}); err != nil {
		return err
	}
	b.sb.WriteByte(')')
	if useAlias && a.alias != "" {
		b.buildAs(a.alias)
	}
	return nil
}

func (b *builder) buildAs(alias string) {
	b.sb.WriteString(" AS ")
	b.quote(alias)
}

// buildSubquery 把一个已经构造好的查询嵌进当前语句
// 子查询的参数紧跟在它的文本后面进入参数列表，顺序不会乱
func (b *builder) buildSubquery(sub Subquery, useAlias bool) error {
	q, err := sub.s.Build()
	if err != nil {
		return err
	}
	b.sb.WriteByte('(')
	// 去掉子查询结尾的分号
	b.sb.WriteString(strings.TrimSuffix(q.SQL, ";"))
	b.sb.WriteByte(')')
	if len(q.Args) > 0 {
		b.addArgs(q.Args...)
	}
	if useAlias {
		b.buildAs(sub.alias)
	}
	return nil
}
