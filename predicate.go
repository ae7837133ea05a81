package kaede

type op string

const (
	opEQ     op = "="
	opNEQ    op = "!="
	opLT     op = "<"
	opLTEQ   op = "<="
	opGT     op = ">"
	opGTEQ   op = ">="
	opIN     op = "IN"
	opEXISTS op = "EXISTS"
	opAND    op = "AND"
	opOR     op = "OR"
	opNOT    op = "NOT"
	opAdd    op = "+"
	opMulti  op = "*"
)

func (o op) String() string {
	return string(o)
}

// Predicate 代表一个查询条件
// Predicate 可以通过和 Predicate 组合构成复杂的查询条件
type Predicate struct {
	left  Expression
	op    op
	right Expression
}

func (Predicate) expr() {}

func Not(p Predicate) Predicate {
	return Predicate{
		op:    opNOT,
		right: p,
	}
}

// Exists 构造 EXISTS (子查询) 条件
func Exists(sub Subquery) Predicate {
	return Predicate{
		op:    opEXISTS,
		right: sub,
	}
}

func (p Predicate) And(r Predicate) Predicate {
	return Predicate{
		left:  p,
		op:    opAND,
		right: r,
	}
}

func (p Predicate) Or(r Predicate) Predicate {
	return Predicate{
		left:  p,
		op:    opOR,
		right: r,
	}
}
