package expr

import (
	"errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr/operators"
)

var ErrKeyNotFound = errors.New("key not found")

// Context supplies field values during in-memory evaluation. A nil value
// behaves as SQL NULL.
type Context interface {
	Get(string) (any, error)
}

// MapContext adapts a plain map; missing keys evaluate as NULL.
type MapContext map[string]any

func (c MapContext) Get(name string) (any, error) {
	return c[name], nil
}

func NewEvaluateVisitor(context Context, registry *operators.OperatorRegistry) *EvaluateVisitor {
	return &EvaluateVisitor{
		Context:  context,
		registry: registry,
	}
}

// EvaluateVisitor runs a predicate against a Context without a database.
// Exists nodes are not evaluable in memory.
type EvaluateVisitor struct {
	currentValue any
	stack        []Context
	registry     *operators.OperatorRegistry
	Context
}

func (v *EvaluateVisitor) push(ctx Context) {
	v.stack = append(v.stack, v.Context)
	v.Context = ctx
}

func (v *EvaluateVisitor) pop() {
	v.Context = v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
}

func (v EvaluateVisitor) CurrentValue() any {
	return v.currentValue
}

func (v *EvaluateVisitor) SetCurrentValue(val any) {
	v.currentValue = val
}

func (v *EvaluateVisitor) VisitGlobalScope(n GlobalScopeNode) error {
	v.push(v.Context)
	return nil
}

func (v *EvaluateVisitor) VisitObject(n ObjectNode) error {
	err := n.Parent().Accept(v)
	if err != nil {
		return err
	}
	obj, err := v.Context.Get(n.Name())
	v.pop()
	if err != nil {
		return err
	}
	ctx, ok := obj.(Context)
	if !ok {
		return errors.New("object value is not a Context")
	}
	v.push(ctx)
	return nil
}

func (v *EvaluateVisitor) VisitField(n FieldNode) error {
	err := n.Object().Accept(v)
	if err != nil {
		return err
	}
	value, err := v.Context.Get(n.Name())
	v.pop()
	if err != nil {
		return err
	}
	v.SetCurrentValue(value)
	return nil
}

func (v *EvaluateVisitor) VisitValue(n ValueNode) error {
	v.SetCurrentValue(n.Value())
	return nil
}

func (v *EvaluateVisitor) VisitValueList(n ValueListNode) error {
	v.SetCurrentValue(n.Values())
	return nil
}

func (v *EvaluateVisitor) VisitPrefix(n PrefixNode) error {
	err := n.Operand().Accept(v)
	if err != nil {
		return err
	}
	result, err := v.registry.ExecUnary(n.Operator(), v.CurrentValue())
	if err != nil {
		return err
	}
	v.SetCurrentValue(result)
	return nil
}

func (v *EvaluateVisitor) VisitPostfix(n PostfixNode) error {
	err := n.Operand().Accept(v)
	if err != nil {
		return err
	}
	result, err := v.registry.ExecUnary(n.Operator(), v.CurrentValue())
	if err != nil {
		return err
	}
	v.SetCurrentValue(result)
	return nil
}

func (v *EvaluateVisitor) VisitInfix(n InfixNode) error {
	err := n.Left().Accept(v)
	if err != nil {
		return err
	}
	left := v.CurrentValue()
	err = n.Right().Accept(v)
	if err != nil {
		return err
	}
	right := v.CurrentValue()
	result, err := v.registry.ExecBinary(left, n.Operator(), right)
	if err != nil {
		return err
	}
	v.SetCurrentValue(result)
	return nil
}

func (v *EvaluateVisitor) VisitExists(n ExistsNode) error {
	return errors.New("EXISTS subqueries cannot be evaluated in memory")
}

func (v *EvaluateVisitor) VisitFunc(n FuncNode) error {
	return errors.New("aggregate functions cannot be evaluated in memory")
}

func (v *EvaluateVisitor) VisitGroupedIn(n GroupedInNode) error {
	return errors.New("grouped subqueries cannot be evaluated in memory")
}

func (v *EvaluateVisitor) VisitRankedIn(n RankedInNode) error {
	return errors.New("ranked subqueries cannot be evaluated in memory")
}

// Result reports whether the predicate matched. A NULL outcome is not a
// match, following SQL WHERE semantics.
func (v EvaluateVisitor) Result() (bool, error) {
	result := v.CurrentValue()
	if result == nil {
		return false, nil
	}
	resultTyped, ok := result.(bool)
	if !ok {
		return false, errors.New("the result is not a bool")
	}
	return resultTyped, nil
}

// Evaluate is a convenience wrapper around EvaluateVisitor with the
// default operator registry.
func Evaluate(p Predicate, ctx Context) (bool, error) {
	v := NewEvaluateVisitor(ctx, operators.NewDefaultRegistry())
	if err := p.Accept(v); err != nil {
		return false, err
	}
	return v.Result()
}
