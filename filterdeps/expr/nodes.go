// Package expr provides the backend-agnostic predicate expression tree
// that filter criteria produce. Nodes are immutable values built at
// declaration or resolution time and consumed by visitors: the postgres
// subpackage compiles a tree to SQL, the in-memory evaluate visitor runs
// it against map-backed records.
package expr

import "github.com/krew-solutions/filterdeps-go/filterdeps/expr/operators"

type Associativity string

const (
	LeftAssociative  Associativity = "LEFT"
	RightAssociative Associativity = "RIGHT"
	NonAssociative   Associativity = "NON"
)

type Operable interface {
	Associativity() Associativity
	Operator() operators.Operator
}

type Visitable interface {
	Accept(Visitor) error
}

// Predicate is a boolean-valued expression tree. The resolver treats a
// nil Predicate as "no filter".
type Predicate = Visitable

type Visitor interface {
	VisitGlobalScope(GlobalScopeNode) error
	VisitObject(ObjectNode) error
	VisitField(FieldNode) error
	VisitValue(ValueNode) error
	VisitValueList(ValueListNode) error
	VisitPrefix(PrefixNode) error
	VisitInfix(InfixNode) error
	VisitPostfix(PostfixNode) error
	VisitExists(ExistsNode) error
	VisitFunc(FuncNode) error
	VisitGroupedIn(GroupedInNode) error
	VisitRankedIn(RankedInNode) error
}

func Value(value any) ValueNode {
	return ValueNode{
		value: value,
	}
}

type ValueNode struct {
	value any
}

func (n ValueNode) Value() any {
	return n.value
}

func (n ValueNode) Accept(v Visitor) error {
	return v.VisitValue(n)
}

// ValueList is the right-hand operand of IN: a parenthesised list of
// bind parameters.
func ValueList(values ...any) ValueListNode {
	return ValueListNode{
		values: values,
	}
}

type ValueListNode struct {
	values []any
}

func (n ValueListNode) Values() []any {
	return n.values
}

func (n ValueListNode) Accept(v Visitor) error {
	return v.VisitValueList(n)
}

func Not(operand Visitable) PrefixNode {
	return PrefixNode{
		operator:      operators.OperatorNot,
		operand:       operand,
		associativity: RightAssociative,
	}
}

type PrefixNode struct {
	operator      operators.Operator
	operand       Visitable
	associativity Associativity
}

func (n PrefixNode) Operand() Visitable {
	return n.operand
}
func (n PrefixNode) Operator() operators.Operator {
	return n.operator
}
func (n PrefixNode) Associativity() Associativity {
	return n.associativity
}
func (n PrefixNode) Accept(v Visitor) error {
	return v.VisitPrefix(n)
}

func Equal(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorEq, right)
}

func NotEqual(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorNe, right)
}

func GreaterThan(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorGt, right)
}

func GreaterThanEqual(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorGte, right)
}

func LessThan(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorLt, right)
}

func LessThanEqual(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorLte, right)
}

func Is(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorIs, right)
}

func Like(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorLike, right)
}

func ILike(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorILike, right)
}

func RegexMatch(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorRegex, right)
}

func RegexIMatch(left, right Visitable) InfixNode {
	return newComparison(left, operators.OperatorRegexCI, right)
}

func In(left Visitable, values ...any) InfixNode {
	return newComparison(left, operators.OperatorIn, ValueList(values...))
}

func newComparison(left Visitable, op operators.Operator, right Visitable) InfixNode {
	return InfixNode{
		left:          left,
		operator:      op,
		right:         right,
		associativity: NonAssociative,
	}
}

func And(left Visitable, rights ...Visitable) InfixNode {
	left, right := foldRights(And, left, rights...)
	return InfixNode{
		left:          left,
		operator:      operators.OperatorAnd,
		right:         right,
		associativity: LeftAssociative,
	}
}

func Or(left Visitable, rights ...Visitable) InfixNode {
	left, right := foldRights(Or, left, rights...)
	return InfixNode{
		left:          left,
		operator:      operators.OperatorOr,
		right:         right,
		associativity: LeftAssociative,
	}
}

// JSONText accesses a top-level JSON member as text: field ->> key.
func JSONText(left Visitable, key string) InfixNode {
	return InfixNode{
		left:          left,
		operator:      operators.OperatorJSONText,
		right:         Value(key),
		associativity: LeftAssociative,
	}
}

// JSONPath extracts a nested JSON value as text: field #>> path.
func JSONPath(left Visitable, path []string) InfixNode {
	return InfixNode{
		left:          left,
		operator:      operators.OperatorJSONPath,
		right:         Value(path),
		associativity: LeftAssociative,
	}
}

func foldRights(
	aCallable func(Visitable, ...Visitable) InfixNode,
	aLeft Visitable,
	aRights ...Visitable,
) (left, right Visitable) {
	for len(aRights) > 1 {
		aLeft = aCallable(aLeft, aRights[0])
		aRights = aRights[1:]
	}
	return aLeft, aRights[0]
}

type InfixNode struct {
	left          Visitable
	operator      operators.Operator
	right         Visitable
	associativity Associativity
}

func (n InfixNode) Left() Visitable {
	return n.left
}

func (n InfixNode) Operator() operators.Operator {
	return n.operator
}

func (n InfixNode) Right() Visitable {
	return n.right
}

func (n InfixNode) Associativity() Associativity {
	return n.associativity
}

func (n InfixNode) Accept(v Visitor) error {
	return v.VisitInfix(n)
}

func IsNull(operand Visitable) PostfixNode {
	return newPostfix(operand, operators.OperatorIsNull)
}

func IsNotNull(operand Visitable) PostfixNode {
	return newPostfix(operand, operators.OperatorIsNotNull)
}

func IsTrue(operand Visitable) PostfixNode {
	return newPostfix(operand, operators.OperatorIsTrue)
}

func IsFalse(operand Visitable) PostfixNode {
	return newPostfix(operand, operators.OperatorIsFalse)
}

func newPostfix(operand Visitable, op operators.Operator) PostfixNode {
	return PostfixNode{
		operand:       operand,
		operator:      op,
		associativity: NonAssociative,
	}
}

type PostfixNode struct {
	operand       Visitable
	operator      operators.Operator
	associativity Associativity
}

func (n PostfixNode) Operand() Visitable {
	return n.operand
}

func (n PostfixNode) Operator() operators.Operator {
	return n.operator
}

func (n PostfixNode) Associativity() Associativity {
	return n.associativity
}

func (n PostfixNode) Accept(v Visitor) error {
	return v.VisitPostfix(n)
}

// Exists wraps a predicate in an EXISTS subquery over table, aliased so
// that fields built with Object(GlobalScope(), alias) refer to the
// subquery row.
func Exists(table, alias string, predicate Visitable) ExistsNode {
	return ExistsNode{
		table:     table,
		alias:     alias,
		predicate: predicate,
	}
}

type ExistsNode struct {
	table     string
	alias     string
	predicate Visitable
}

func (n ExistsNode) Table() string {
	return n.table
}

func (n ExistsNode) Alias() string {
	return n.alias
}

func (n ExistsNode) Predicate() Visitable {
	return n.predicate
}

func (n ExistsNode) Accept(v Visitor) error {
	return v.VisitExists(n)
}

// Avg is the AVG aggregate over an operand, for HAVING predicates.
func Avg(operand Visitable) FuncNode {
	return FuncNode{name: "AVG", operand: operand}
}

// Sum is the SUM aggregate.
func Sum(operand Visitable) FuncNode {
	return FuncNode{name: "SUM", operand: operand}
}

// Count is the COUNT aggregate over an operand.
func Count(operand Visitable) FuncNode {
	return FuncNode{name: "COUNT", operand: operand}
}

// CountAll is COUNT(*).
func CountAll() FuncNode {
	return FuncNode{name: "COUNT"}
}

// Min is the MIN aggregate.
func Min(operand Visitable) FuncNode {
	return FuncNode{name: "MIN", operand: operand}
}

// Max is the MAX aggregate.
func Max(operand Visitable) FuncNode {
	return FuncNode{name: "MAX", operand: operand}
}

// FuncNode is a function call expression. A nil operand renders as *.
type FuncNode struct {
	name    string
	operand Visitable
}

func (n FuncNode) FuncName() string {
	return n.name
}

func (n FuncNode) Operand() Visitable {
	return n.operand
}

func (n FuncNode) Accept(v Visitor) error {
	return v.VisitFunc(n)
}

// GroupedIn filters rows whose key columns appear in a grouped
// subquery: (keys) IN (SELECT groupBy FROM table GROUP BY groupBy
// HAVING having). Keys are enclosing-query columns, groupBy are
// subquery columns; both sides must pair up positionally.
func GroupedIn(keys []string, table string, groupBy []string, having Visitable) GroupedInNode {
	return GroupedInNode{
		keys:    keys,
		table:   table,
		groupBy: groupBy,
		having:  having,
	}
}

type GroupedInNode struct {
	keys    []string
	table   string
	groupBy []string
	having  Visitable
}

func (n GroupedInNode) Keys() []string {
	return n.keys
}

func (n GroupedInNode) Table() string {
	return n.table
}

func (n GroupedInNode) GroupBy() []string {
	return n.groupBy
}

func (n GroupedInNode) Having() Visitable {
	return n.having
}

func (n GroupedInNode) Accept(v Visitor) error {
	return v.VisitGroupedIn(n)
}

// RankKey is one ORDER BY key inside a RankedIn window.
type RankKey struct {
	Field string
	Desc  bool
}

// RankedIn filters rows whose key columns belong to the top-ranked row
// of each partition, via ROW_NUMBER: (keys) IN (SELECT keys FROM
// (SELECT keys, ROW_NUMBER() OVER (...) AS row_number FROM table)
// ranked WHERE row_number = 1). An empty partition ranks the whole
// table as one group.
func RankedIn(keys []string, table string, partitionBy []string, rankBy []RankKey) RankedInNode {
	return RankedInNode{
		keys:        keys,
		table:       table,
		partitionBy: partitionBy,
		rankBy:      rankBy,
	}
}

type RankedInNode struct {
	keys        []string
	table       string
	partitionBy []string
	rankBy      []RankKey
}

func (n RankedInNode) Keys() []string {
	return n.keys
}

func (n RankedInNode) Table() string {
	return n.table
}

func (n RankedInNode) PartitionBy() []string {
	return n.partitionBy
}

func (n RankedInNode) RankBy() []RankKey {
	return n.rankBy
}

func (n RankedInNode) Accept(v Visitor) error {
	return v.VisitRankedIn(n)
}

type EmptiableObject interface {
	Visitable
	Parent() EmptiableObject
	Name() string
	IsRoot() bool
}

func GlobalScope() GlobalScopeNode {
	return GlobalScopeNode{}
}

type GlobalScopeNode struct{}

func (n GlobalScopeNode) Parent() EmptiableObject {
	return n
}

func (n GlobalScopeNode) Name() string {
	return "Empty"
}

func (n GlobalScopeNode) IsRoot() bool {
	return true
}
func (n GlobalScopeNode) Accept(v Visitor) error {
	return v.VisitGlobalScope(n)
}

func Object(parent EmptiableObject, name string) ObjectNode {
	return ObjectNode{
		parent: parent,
		name:   name,
	}
}

type ObjectNode struct {
	parent EmptiableObject
	name   string
}

func (n ObjectNode) Parent() EmptiableObject {
	return n.parent
}

func (n ObjectNode) Name() string {
	return n.name
}

func (n ObjectNode) IsRoot() bool {
	return false
}

func (n ObjectNode) Accept(v Visitor) error {
	return v.VisitObject(n)
}

func Field(object EmptiableObject, name string) FieldNode {
	return FieldNode{
		object: object,
		name:   name,
	}
}

type FieldNode struct {
	object EmptiableObject
	name   string
}

func (n FieldNode) Name() string {
	return n.name
}

func (n FieldNode) Object() EmptiableObject {
	return n.object
}

func (n FieldNode) Accept(v Visitor) error {
	return v.VisitField(n)
}

func ExtractFieldPath(n FieldNode) []string {
	path := []string{n.Name()}
	var obj EmptiableObject = n.Object()
	for !obj.IsRoot() {
		path = append([]string{obj.Name()}, path...)
		obj = obj.Parent()
	}
	return path
}
