package kaede

// Column 代表一个绑定在某个表引用上的列
// table 为 nil 的时候，解析的目标是语句自身的模型
type Column struct {
	table TableReference
	name  string
	alias string
}

func (c Column) expr() {}

func (c Column) selectable() {}

func (c Column) assign() {}

func C(name string) Column {
	return Column{name: name}
}

// As 返回一个带别名的新列，不修改原列
func (c Column) As(alias string) Column {
	return Column{
		table: c.table,
		name:  c.name,
		alias: alias,
	}
}

type value struct {
	val any
}

func (v value) expr() {}

// valueOf creates a new value object with the given value.
// It takes in a generic value and returns a value object.
func valueOf(val any) value {
	return value{val: val}
}

// values 代表 IN 的参数列表
type values struct {
	vals []any
}

func (v values) expr() {}

// EQ 例如 C("id").EQ(12)
func (c Column) EQ(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opEQ,
		right: exprOf(arg), // 如果 arg 不是 Expression 类型 就让他变成这个类型
	}
}

func (c Column) NEQ(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opNEQ,
		right: exprOf(arg),
	}
}

// LT 例如 C("id").LT(12)
func (c Column) LT(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opLT,
		right: exprOf(arg),
	}
}

func (c Column) LTEQ(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opLTEQ,
		right: exprOf(arg),
	}
}

func (c Column) GT(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opGT,
		right: exprOf(arg),
	}
}

func (c Column) GTEQ(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opGTEQ,
		right: exprOf(arg),
	}
}

// In 例如 C("id").In(1, 2, 3)
func (c Column) In(vals ...any) Predicate {
	return Predicate{
		left:  c,
		op:    opIN,
		right: values{vals: vals},
	}
}

// InQuery 列值落在子查询的结果集内
func (c Column) InQuery(sub Subquery) Predicate {
	return Predicate{
		left:  c,
		op:    opIN,
		right: sub,
	}
}

func (c Column) Add(delta any) MathExpr {
	return MathExpr{
		left:  c,
		op:    opAdd,
		right: valueOf(delta),
	}
}

func (c Column) Multi(delta any) MathExpr {
	return MathExpr{
		left:  c,
		op:    opMulti,
		right: valueOf(delta),
	}
}
