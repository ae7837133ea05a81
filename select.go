package kaede

import (
	"context"
	"strings"

	"github.com/coderi421/kaede/internal/errs"
)

// Selector represents a query selector that allows building SQL SELECT statements.
// It holds the necessary information to construct the query.
// 无论构造方法以什么顺序被调用，渲染顺序永远是
// SELECT...FROM...WHERE...GROUP BY...HAVING...集合运算...ORDER BY...LIMIT...OFFSET
type Selector[T any] struct {
	// select delete update insert 都需要使用
	builder

	tables  []TableReference
	columns []Selectable
	where   []Predicate
	groupBy []Selectable
	having  []Predicate
	// setOps 保持调用顺序，渲染顺序必须和它一致
	setOps  []setOp
	orderBy []OrderBy
	offset  int
	// limit -1 代表没有上界，LIMIT 0 是可以表达的
	limit int
}

// NewSelector creates a new instance of Selector.
func NewSelector[T any](sess Session) *Selector[T] {
	c := sess.getCore()
	return &Selector[T]{
		builder: builder{
			core:   c,
			sess:   sess,
			quoter: c.dialect.quoter(),
		},
		limit: -1,
	}
}

// Select 检索指定 column
func (s *Selector[T]) Select(cols ...Selectable) *Selector[T] {
	s.columns = cols
	return s
}

// From 替换 FROM 列表，并且立刻给每个还没有别名的节点分配别名
func (s *Selector[T]) From(refs ...TableReference) *Selector[T] {
	for i, ref := range refs {
		refs[i] = s.assignTableAlias(ref)
	}
	s.tables = refs
	return s
}

// Where 追加 WHERE 查询条件，多个条件之间是 AND 的关系
func (s *Selector[T]) Where(ps ...Predicate) *Selector[T] {
	s.where = append(s.where, ps...)
	return s
}

// GroupBy 按投影分组
// 投影已经出现在 SELECT 列表里的时候直接复用，
// 否则作为辅助投影追加到 SELECT 列表，两边都只会出现一次
// 去重发生在 Build 里面，所以 GroupBy 和 Select 的调用顺序无所谓
func (s *Selector[T]) GroupBy(cols ...Selectable) *Selector[T] {
	s.groupBy = append(s.groupBy, cols...)
	return s
}

// findProjection 在 SELECT 列表里面找结构上相等的投影
func (s *Selector[T]) findProjection(target Selectable) bool {
	for _, c := range s.columns {
		switch tc := target.(type) {
		case Column:
			if cc, ok := c.(Column); ok &&
				cc.name == tc.name && sameTable(cc.table, tc.table) {
				return true
			}
		case Aggregate:
			if ca, ok := c.(Aggregate); ok &&
				ca.fn == tc.fn && ca.arg == tc.arg && sameTable(ca.table, tc.table) {
				return true
			}
		case RawExpr:
			// 原生表达式只看文本
			if cr, ok := c.(RawExpr); ok && cr.raw == tc.raw {
				return true
			}
		}
	}
	return false
}

// sameTable 结构比较，不能直接用 ==，Subquery 里面有切片
func sameTable(a, b TableReference) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	at, ok := a.(Table)
	if !ok {
		return false
	}
	bt, ok := b.(Table)
	if !ok {
		return false
	}
	return at.entity == bt.entity && at.alias == bt.alias
}

func (s *Selector[T]) Having(ps ...Predicate) *Selector[T] {
	s.having = append(s.having, ps...)
	return s
}

func (s *Selector[T]) Offset(offset int) *Selector[T] {
	s.offset = offset
	return s
}

func (s *Selector[T]) Limit(limit int) *Selector[T] {
	s.limit = limit
	return s
}

func (s *Selector[T]) OrderBy(orderBys ...OrderBy) *Selector[T] {
	s.orderBy = append(s.orderBy, orderBys...)
	return s
}

// setOp 一个集合运算算子和它右边的查询
type setOp struct {
	typ string
	q   QueryBuilder
}

// Union 并集，去除重复行
// 两边的查询共享同一个 T，所以结果形状一定一致
func (s *Selector[T]) Union(q *Selector[T]) *Selector[T] {
	return s.combine("UNION", q)
}

func (s *Selector[T]) UnionAll(q *Selector[T]) *Selector[T] {
	return s.combine("UNION ALL", q)
}

func (s *Selector[T]) Intersect(q *Selector[T]) *Selector[T] {
	return s.combine("INTERSECT", q)
}

func (s *Selector[T]) IntersectAll(q *Selector[T]) *Selector[T] {
	return s.combine("INTERSECT ALL", q)
}

func (s *Selector[T]) Except(q *Selector[T]) *Selector[T] {
	return s.combine("EXCEPT", q)
}

func (s *Selector[T]) ExceptAll(q *Selector[T]) *Selector[T] {
	return s.combine("EXCEPT ALL", q)
}

func (s *Selector[T]) combine(typ string, q *Selector[T]) *Selector[T] {
	s.setOps = append(s.setOps, setOp{typ: typ, q: q})
	return s
}

// AsSubquery 把本查询变成一个派生表
// alias 传空字符串的话，会在外层查询里面拿到 this_<k>
func (s *Selector[T]) AsSubquery(alias string) Subquery {
	return Subquery{
		s:       s,
		entity:  new(T),
		alias:   alias,
		columns: s.columns,
	}
}

// Build generates a SQL query for selecting all columns from a table.
// It returns the generated query as a *Query struct or an error if there was any.
func (s *Selector[T]) Build() (*Query, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.q != nil {
		// 中间件和执行器都可能调用 Build
		return s.q, nil
	}

	var err error
	s.model, err = s.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	// 没有调用过 From 就查模型自己的表
	if len(s.tables) == 0 {
		s.tables = []TableReference{s.assignTableAlias(TableOf(new(T)))}
	}

	// 此时 SELECT 列表已经定型，分组投影不在里面的追加成辅助投影
	for _, c := range s.groupBy {
		if len(s.columns) > 0 && !s.findProjection(c) {
			s.columns = append(s.columns, c)
		}
	}
	s.assignProjectionAliases()

	s.sb.WriteString("SELECT ")
	if err = s.buildColumns(); err != nil {
		return nil, err
	}
	s.sb.WriteString(" FROM ")
	for i, ref := range s.tables {
		if i > 0 {
			s.sb.WriteByte(',')
		}
		if err = s.buildTable(ref); err != nil {
			return nil, err
		}
	}

	// construct where
	if len(s.where) > 0 {
		// 类似这种可有可无的部分，都要在前面加一个空格
		s.sb.WriteString(" WHERE ")
		// 取出第一个作为开始的节点
		// 构造 谓语相关逻辑
		if err = s.buildPredicates(s.where); err != nil {
			return nil, err
		}
	}

	// 分组
	if len(s.groupBy) > 0 {
		s.sb.WriteString(" GROUP BY ")
		for i, c := range s.groupBy {
			if i > 0 {
				s.sb.WriteByte(',')
			}
			if err = s.buildGroupBy(c); err != nil {
				return nil, err
			}
		}
	}

	// 筛选
	if len(s.having) > 0 {
		s.sb.WriteString(" HAVING ")
		if err = s.buildPredicates(s.having); err != nil {
			return nil, err
		}
	}

	// 集合运算，按调用顺序渲染
	// 每个被组合查询的参数也按这个顺序进入参数列表
	for _, op := range s.setOps {
		s.sb.WriteByte(' ')
		s.sb.WriteString(op.typ)
		s.sb.WriteByte(' ')
		var q *Query
		q, err = op.q.Build()
		if err != nil {
			return nil, err
		}
		s.sb.WriteString(strings.TrimSuffix(q.SQL, ";"))
		if len(q.Args) > 0 {
			s.addArgs(q.Args...)
		}
	}

	// 排序，作用于整个组合结果
	if len(s.orderBy) > 0 {
		s.sb.WriteString(" ORDER BY ")
		if err = s.buildOrderBy(); err != nil {
			return nil, err
		}
	}

	// 分页
	if s.limit >= 0 {
		s.sb.WriteString(" LIMIT ?")
		// 将 数值 作为参数追加进去
		s.addArgs(s.limit)
	}

	// 偏移量
	if s.offset > 0 {
		s.sb.WriteString(" OFFSET ?")
		// 将 数值 作为参数追加进去
		s.addArgs(s.offset)
	}

	s.sb.WriteByte(';')

	s.q = &Query{
		SQL:  s.sb.String(),
		Args: s.args,
	}
	return s.q, nil
}

// assignProjectionAliases 给还没有别名的聚合投影分配别名
// 普通列天然以列名作为别名，不会被改写
func (s *Selector[T]) assignProjectionAliases() {
	for i, c := range s.columns {
		if agg, ok := c.(Aggregate); ok && agg.alias == "" {
			agg.alias = s.nextAlias()
			s.columns[i] = agg
		}
	}
}

func (s *Selector[T]) buildTable(table TableReference) error {
	switch t := table.(type) {
	case Table:
		m, err := s.r.Get(t.entity)
		if err != nil {
			return err
		}
		s.quote(m.TableName)
		if t.alias != "" {
			s.buildAs(t.alias)
		}
	case Join:
		if err := s.buildTable(t.left); err != nil {
			return err
		}
		s.sb.WriteByte(' ')
		s.sb.WriteString(t.typ)
		s.sb.WriteByte(' ')
		if err := s.buildTable(t.right); err != nil {
			return err
		}
		if len(t.using) > 0 {
			s.sb.WriteString(" USING (")
			for i, col := range t.using {
				if i > 0 {
					s.sb.WriteByte(',')
				}
				if err := s.buildColumn(Column{name: col}); err != nil {
					return err
				}
			}
			s.sb.WriteByte(')')
		}
		if len(t.on) > 0 {
			s.sb.WriteString(" ON ")
			if err := s.buildPredicates(t.on); err != nil {
				return err
			}
		}
	case Subquery:
		return s.buildSubquery(t, true)
	default:
		return errs.NewErrUnsupportedTable(table)
	}
	return nil
}

func (s *Selector[T]) buildColumns() error {
	if len(s.columns) == 0 {
		s.sb.WriteByte('*')
		return nil
	}

	for i, c := range s.columns {
		if i > 0 {
			s.sb.WriteByte(',')
		}

		switch val := c.(type) {
		case Column:
			if err := s.buildColumn(val); err != nil {
				return err
			}
			if val.alias != "" {
				s.buildAs(val.alias)
			}
		case Aggregate:
			if err := s.buildAggregate(val, true); err != nil {
				return err
			}
		case RawExpr:
			// 原生表达式原样输出，不追加别名
			s.sb.WriteString(val.raw)
			if len(val.args) != 0 {
				s.addArgs(val.args...)
			}
		default:
			return errs.NewErrUnsupportedSelectable(c)
		}
	}

	return nil
}

func (s *Selector[T]) buildGroupBy(c Selectable) error {
	switch val := c.(type) {
	case Column:
		return s.buildColumn(val)
	case Aggregate:
		return s.buildAggregate(val, false)
	case RawExpr:
		s.sb.WriteString(val.raw)
		if len(val.args) != 0 {
			s.addArgs(val.args...)
		}
		return nil
	default:
		return errs.NewErrUnsupportedSelectable(c)
	}
}

func (s *Selector[T]) buildOrderBy() error {
	for i, ob := range s.orderBy {
		if i > 0 {
			s.sb.WriteByte(',')
		}

		// 表达式排序携带自己的参数
		if ob.raw.raw != "" {
			s.sb.WriteString(ob.raw.raw)
			if len(ob.raw.args) != 0 {
				s.addArgs(ob.raw.args...)
			}
			continue
		}

		if err := s.buildColumn(Column{name: ob.col}); err != nil {
			return err
		}
		s.sb.WriteByte(' ')
		s.sb.WriteString(ob.order)
	}
	return nil
}

// Get 根据拼接成的 sql 文，到 db 中获取数据
// 遵守唯一结果契约：零行返回 ErrNoRows，
// 第二行会在返回之前被探测到，返回 ErrTooManyRows
func (s *Selector[T]) Get(ctx context.Context) (*T, error) {
	m, err := s.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	s.model = m

	res := get[T](ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   m,
	})
	if res.Result != nil {
		return res.Result.(*T), res.Err
	}
	return nil, res.Err
}

// GetMulti 把结果集完整取出来，空结果集返回空切片，不是错误
func (s *Selector[T]) GetMulti(ctx context.Context) ([]*T, error) {
	m, err := s.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	s.model = m

	res := getMulti[T](ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Multi:   true,
		Builder: s,
		Model:   m,
	})
	if res.Result != nil {
		return res.Result.([]*T), res.Err
	}
	return nil, res.Err
}

// Selectable 暂时没什么作用只是用作标记，可检索指定字段的标记
// 让结构体实现这个接口，就可以传入
// 使用接口为的是：让 聚合函数， columns， 以及 RawExpr（原生sql） 都能作为参数传入统一个函数，做统一处理
type Selectable interface {
	selectable()
}

type OrderBy struct {
	col   string
	order string
	// raw 不为空的时候代表表达式排序，可以携带自己的参数
	raw RawExpr
}

func ASC(col string) OrderBy {
	return OrderBy{
		col:   col,
		order: "ASC",
	}
}

func Desc(col string) OrderBy {
	return OrderBy{
		col:   col,
		order: "DESC",
	}
}

// OrderByRaw 表达式排序，例如 OrderByRaw("`age` % ?", 10)
func OrderByRaw(expr string, args ...any) OrderBy {
	return OrderBy{
		raw: Raw(expr, args...),
	}
}
