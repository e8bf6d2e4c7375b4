package operators

import (
	"fmt"
	"reflect"
)

type BinaryOp func(left, right any) (any, error)
type UnaryOp func(operand any) (any, error)

type binaryKey struct {
	left  reflect.Type
	op    Operator
	right reflect.Type
}

type unaryKey struct {
	op      Operator
	operand reflect.Type
}

type OperatorRegistry struct {
	binary map[binaryKey]BinaryOp
	unary  map[unaryKey]UnaryOp
}

func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{
		binary: make(map[binaryKey]BinaryOp),
		unary:  make(map[unaryKey]UnaryOp),
	}
}

func RegisterBinary[L, R any](reg *OperatorRegistry, op Operator, fn func(L, R) (any, error)) {
	var zeroL L
	var zeroR R
	key := binaryKey{
		left:  reflect.TypeOf(zeroL),
		op:    op,
		right: reflect.TypeOf(zeroR),
	}
	reg.binary[key] = func(left, right any) (any, error) {
		return fn(left.(L), right.(R))
	}
}

func RegisterUnary[T any](reg *OperatorRegistry, op Operator, fn func(T) (any, error)) {
	var zero T
	key := unaryKey{
		op:      op,
		operand: reflect.TypeOf(zero),
	}
	reg.unary[key] = func(operand any) (any, error) {
		return fn(operand.(T))
	}
}

// ExecBinary executes a binary operator with PostgreSQL NULL semantics.
func (r *OperatorRegistry) ExecBinary(left any, op Operator, right any) (any, error) {
	// Three-valued logic for AND/OR
	if op == OperatorAnd {
		return execAnd(left, right)
	}
	if op == OperatorOr {
		return execOr(left, right)
	}
	// IN compares the left value against each member of the right list.
	if op == OperatorIn {
		return r.execIn(left, right)
	}

	// NULL propagation for all other binary operators
	if left == nil || right == nil {
		return nil, nil
	}

	fn, err := r.lookupBinary(left, op, right)
	if err != nil {
		return nil, err
	}
	return fn(left, right)
}

// ExecUnary executes a unary operator with PostgreSQL NULL semantics.
func (r *OperatorRegistry) ExecUnary(op Operator, operand any) (any, error) {
	// Nullability and truth tests yield a definite result for any value.
	switch op {
	case OperatorIsNull:
		return operand == nil, nil
	case OperatorIsNotNull:
		return operand != nil, nil
	case OperatorIsTrue:
		b, ok := operand.(bool)
		return ok && b, nil
	case OperatorIsFalse:
		b, ok := operand.(bool)
		return ok && !b, nil
	}

	// NULL propagation
	if operand == nil {
		return nil, nil
	}

	key := unaryKey{op: op, operand: reflect.TypeOf(operand)}
	fn, ok := r.unary[key]
	if !ok {
		return nil, fmt.Errorf("no unary operator %q for %T", op, operand)
	}
	return fn(operand)
}

func (r *OperatorRegistry) lookupBinary(left any, op Operator, right any) (BinaryOp, error) {
	key := binaryKey{left: reflect.TypeOf(left), op: op, right: reflect.TypeOf(right)}
	fn, ok := r.binary[key]
	if !ok {
		return nil, fmt.Errorf("no binary operator %T %q %T", left, op, right)
	}
	return fn, nil
}

func (r *OperatorRegistry) execIn(left, right any) (any, error) {
	if left == nil || right == nil {
		return nil, nil
	}
	members, ok := right.([]any)
	if !ok {
		return nil, fmt.Errorf("IN requires a value list, got %T", right)
	}
	for _, m := range members {
		res, err := r.ExecBinary(left, OperatorEq, m)
		if err != nil {
			return nil, err
		}
		if b, ok := res.(bool); ok && b {
			return true, nil
		}
	}
	return false, nil
}

// execAnd implements three-valued AND: false dominates NULL.
func execAnd(left, right any) (any, error) {
	lb, lok := left.(bool)
	rb, rok := right.(bool)
	if lok && !lb {
		return false, nil
	}
	if rok && !rb {
		return false, nil
	}
	if left == nil || right == nil {
		return nil, nil
	}
	if !lok || !rok {
		return nil, fmt.Errorf("AND requires boolean operands, got %T and %T", left, right)
	}
	return lb && rb, nil
}

// execOr implements three-valued OR: true dominates NULL.
func execOr(left, right any) (any, error) {
	lb, lok := left.(bool)
	rb, rok := right.(bool)
	if lok && lb {
		return true, nil
	}
	if rok && rb {
		return true, nil
	}
	if left == nil || right == nil {
		return nil, nil
	}
	if !lok || !rok {
		return nil, fmt.Errorf("OR requires boolean operands, got %T and %T", left, right)
	}
	return lb || rb, nil
}
