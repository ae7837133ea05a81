package kaede

// TableReference 一个可以出现在 FROM 里面的关系节点：
// 基础表、两个节点的 JOIN，或者作为派生表的子查询
type TableReference interface {
	tableAlias() string
}

// Table 代表一个基础表（或者视图）
// alias 为空代表“还没有别名”，在进入 FROM 的时候会被分配 this_<k>
type Table struct {
	entity any
	alias  string
}

// TableOf 例如 TableOf(&Order{})
func TableOf(entity any) Table {
	return Table{
		entity: entity,
	}
}

func (t Table) tableAlias() string {
	return t.alias
}

// As 显式指定别名，自联结必须用它把两条腿区分开
func (t Table) As(alias string) Table {
	return Table{
		entity: t.entity,
		alias:  alias,
	}
}

// C 返回绑定在本表上的列
func (t Table) C(name string) Column {
	return Column{
		table: t,
		name:  name,
	}
}

func (t Table) Join(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  t,
		right: right,
		typ:   "JOIN",
	}
}

func (t Table) LeftJoin(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  t,
		right: right,
		typ:   "LEFT JOIN",
	}
}

func (t Table) RightJoin(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  t,
		right: right,
		typ:   "RIGHT JOIN",
	}
}

type JoinBuilder struct {
	left  TableReference
	right TableReference
	typ   string
}

// On 指定连接条件
func (j *JoinBuilder) On(ps ...Predicate) Join {
	return Join{
		left:  j.left,
		right: j.right,
		typ:   j.typ,
		on:    ps,
	}
}

// Using 指定连接使用的列
func (j *JoinBuilder) Using(cols ...string) Join {
	return Join{
		left:  j.left,
		right: j.right,
		typ:   j.typ,
		using: cols,
	}
}

// Join 两个关系节点的连接，本身也是一个关系节点，可以继续连接
type Join struct {
	left  TableReference
	typ   string
	right TableReference
	on    []Predicate
	using []string
}

// JOIN 节点本身没有别名，别名在两条腿上
func (j Join) tableAlias() string {
	return ""
}

func (j Join) Join(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  j,
		right: right,
		typ:   "JOIN",
	}
}

func (j Join) LeftJoin(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  j,
		right: right,
		typ:   "LEFT JOIN",
	}
}

func (j Join) RightJoin(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  j,
		right: right,
		typ:   "RIGHT JOIN",
	}
}

// Subquery 一个被当做派生表（或者表达式）使用的查询
type Subquery struct {
	// s 是构造好的子查询
	s       QueryBuilder
	entity  any
	alias   string
	columns []Selectable
}

func (s Subquery) expr() {}

func (s Subquery) tableAlias() string {
	return s.alias
}

func (s Subquery) C(name string) Column {
	return Column{
		table: s,
		name:  name,
	}
}

func (s Subquery) Join(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  s,
		right: right,
		typ:   "JOIN",
	}
}

func (s Subquery) LeftJoin(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  s,
		right: right,
		typ:   "LEFT JOIN",
	}
}

func (s Subquery) RightJoin(right TableReference) *JoinBuilder {
	return &JoinBuilder{
		left:  s,
		right: right,
		typ:   "RIGHT JOIN",
	}
}
