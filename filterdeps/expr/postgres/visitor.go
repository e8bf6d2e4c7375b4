package postgres

import (
	"fmt"
	"strings"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
)

type VisitorOption func(*Visitor)

// PlaceholderOffset shifts the first bind-parameter number, for callers
// that prepend their own parameters to the statement.
func PlaceholderOffset(offset int) VisitorOption {
	return func(v *Visitor) {
		v.placeholderOffset = offset
	}
}

func NewVisitor(opts ...VisitorOption) *Visitor {
	v := &Visitor{
		precedenceMapping: make(map[string]int),
	}
	// https://www.postgresql.org/docs/14/sql-syntax-lexical.html#SQL-PRECEDENCE-TABLE
	v.setPrecedence(100, "(any other operator) LEFT")
	v.setPrecedence(90, "IN NON", "LIKE NON", "ILIKE NON")
	v.setPrecedence(80, "< NON", "> NON", "= NON", "<= NON", ">= NON", "!= NON", "~ NON", "~* NON")
	v.setPrecedence(70, "IS NON", "IS NULL NON", "IS NOT NULL NON", "IS TRUE NON", "IS FALSE NON")
	v.setPrecedence(60, "NOT RIGHT")
	v.setPrecedence(50, "AND LEFT")
	v.setPrecedence(40, "OR LEFT")
	for i := range opts {
		opts[i](v)
	}
	return v
}

// Visitor compiles a predicate tree to PostgreSQL text with numbered
// bind parameters, parenthesising by operator precedence.
type Visitor struct {
	sql               string
	placeholderOffset int
	parameters        []any
	precedence        int
	precedenceMapping map[string]int
}

func (v Visitor) getNodePrecedenceKey(n expr.Operable) string {
	return fmt.Sprintf("%s %s", n.Operator(), n.Associativity())
}

func (v Visitor) setPrecedence(precedence int, keys ...string) {
	for _, key := range keys {
		v.precedenceMapping[key] = precedence
	}
}

func (v *Visitor) visit(precedenceKey string, callable func() error) error {
	outerPrecedence := v.precedence
	innerPrecedence, ok := v.precedenceMapping[precedenceKey]
	if !ok {
		innerPrecedence, ok = v.precedenceMapping["(any other operator) LEFT"]
		if !ok {
			innerPrecedence = outerPrecedence
		}
	}
	v.precedence = innerPrecedence
	if innerPrecedence < outerPrecedence {
		v.sql += "("
	}
	err := callable()
	if err != nil {
		return err
	}
	if innerPrecedence < outerPrecedence {
		v.sql += ")"
	}
	v.precedence = outerPrecedence
	return nil
}

func (v *Visitor) VisitGlobalScope(_ expr.GlobalScopeNode) error {
	return nil
}

func (v *Visitor) VisitObject(_ expr.ObjectNode) error {
	return nil
}

func (v *Visitor) VisitField(n expr.FieldNode) error {
	path := expr.ExtractFieldPath(n)
	v.sql += strings.Join(path, ".")
	return nil
}

func (v *Visitor) VisitValue(n expr.ValueNode) error {
	v.parameters = append(v.parameters, n.Value())
	v.sql += fmt.Sprintf("$%d", v.placeholderOffset+len(v.parameters))
	return nil
}

func (v *Visitor) VisitValueList(n expr.ValueListNode) error {
	v.sql += "("
	for i, value := range n.Values() {
		if i > 0 {
			v.sql += ", "
		}
		v.parameters = append(v.parameters, value)
		v.sql += fmt.Sprintf("$%d", v.placeholderOffset+len(v.parameters))
	}
	v.sql += ")"
	return nil
}

func (v *Visitor) VisitPrefix(n expr.PrefixNode) error {
	precedenceKey := v.getNodePrecedenceKey(n)
	return v.visit(precedenceKey, func() error {
		v.sql += fmt.Sprintf("%s ", n.Operator())
		return n.Operand().Accept(v)
	})
}

func (v *Visitor) VisitInfix(n expr.InfixNode) error {
	precedenceKey := v.getNodePrecedenceKey(n)
	return v.visit(precedenceKey, func() error {
		err := n.Left().Accept(v)
		if err != nil {
			return err
		}
		v.sql += fmt.Sprintf(" %s ", n.Operator())
		return n.Right().Accept(v)
	})
}

func (v *Visitor) VisitPostfix(n expr.PostfixNode) error {
	precedenceKey := v.getNodePrecedenceKey(n)
	return v.visit(precedenceKey, func() error {
		err := n.Operand().Accept(v)
		if err != nil {
			return err
		}
		v.sql += fmt.Sprintf(" %s", n.Operator())
		return nil
	})
}

func (v *Visitor) VisitExists(n expr.ExistsNode) error {
	// EXISTS (SELECT 1 FROM table AS alias WHERE predicate)
	// The subquery body is compiled at top-level precedence.
	outerPrecedence := v.precedence
	v.precedence = 0
	v.sql += "EXISTS (SELECT 1 FROM "
	v.sql += n.Table()
	v.sql += " AS "
	v.sql += n.Alias()
	v.sql += " WHERE "
	err := n.Predicate().Accept(v)
	if err != nil {
		return err
	}
	v.sql += ")"
	v.precedence = outerPrecedence
	return nil
}

func (v *Visitor) VisitFunc(n expr.FuncNode) error {
	v.sql += n.FuncName() + "("
	if n.Operand() == nil {
		v.sql += "*)"
		return nil
	}
	outerPrecedence := v.precedence
	v.precedence = 0
	err := n.Operand().Accept(v)
	if err != nil {
		return err
	}
	v.sql += ")"
	v.precedence = outerPrecedence
	return nil
}

func (v *Visitor) VisitGroupedIn(n expr.GroupedInNode) error {
	// (keys) IN (SELECT groupBy FROM table GROUP BY groupBy HAVING ...)
	return v.visit("IN NON", func() error {
		v.sql += keyTuple(n.Keys())
		v.sql += " IN (SELECT "
		v.sql += strings.Join(n.GroupBy(), ", ")
		v.sql += " FROM "
		v.sql += n.Table()
		v.sql += " GROUP BY "
		v.sql += strings.Join(n.GroupBy(), ", ")
		v.sql += " HAVING "
		outerPrecedence := v.precedence
		v.precedence = 0
		err := n.Having().Accept(v)
		if err != nil {
			return err
		}
		v.sql += ")"
		v.precedence = outerPrecedence
		return nil
	})
}

func (v *Visitor) VisitRankedIn(n expr.RankedInNode) error {
	return v.visit("IN NON", func() error {
		keys := strings.Join(n.Keys(), ", ")
		v.sql += keyTuple(n.Keys())
		v.sql += " IN (SELECT "
		v.sql += keys
		v.sql += " FROM (SELECT "
		v.sql += keys
		v.sql += ", ROW_NUMBER() OVER ("
		if len(n.PartitionBy()) > 0 {
			v.sql += "PARTITION BY "
			v.sql += strings.Join(n.PartitionBy(), ", ")
			v.sql += " "
		}
		v.sql += "ORDER BY "
		for i, key := range n.RankBy() {
			if i > 0 {
				v.sql += ", "
			}
			v.sql += key.Field
			if key.Desc {
				v.sql += " DESC"
			} else {
				v.sql += " ASC"
			}
		}
		v.sql += ") AS row_number FROM "
		v.sql += n.Table()
		v.sql += ") ranked WHERE row_number = 1)"
		return nil
	})
}

func keyTuple(keys []string) string {
	if len(keys) == 1 {
		return keys[0]
	}
	return "(" + strings.Join(keys, ", ") + ")"
}

func (v Visitor) Result() (sql string, params []any, err error) {
	return v.sql, v.parameters, nil
}

var _ expr.Visitor = (*Visitor)(nil)
