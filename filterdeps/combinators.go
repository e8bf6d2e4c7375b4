package filterdeps

import (
	"github.com/pkg/errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// And combines criteria with logical AND. Chains fold pairwise, left
// to right. An operand that yields no predicate acts as identity: the
// other side's predicate passes through alone, and two silent operands
// stay silent.
func And(left Criterion, rights ...Criterion) Criterion {
	return foldCombined(combineAnd, left, rights...)
}

// Or combines criteria with logical OR, with the same identity
// treatment of absent operands as And.
func Or(left Criterion, rights ...Criterion) Criterion {
	return foldCombined(combineOr, left, rights...)
}

// Not negates a criterion's predicate. When the child yields no
// predicate, Not yields none either: there is nothing to negate.
func Not(c Criterion) Criterion {
	return &inverted{child: c}
}

type combineOp int

const (
	combineAnd combineOp = iota
	combineOr
)

func foldCombined(op combineOp, left Criterion, rights ...Criterion) Criterion {
	result := left
	for _, right := range rights {
		result = &combined{op: op, left: result, right: right}
	}
	return result
}

type combined struct {
	op    combineOp
	left  Criterion
	right Criterion
}

func (c *combined) Aliases() []string {
	return append(c.left.Aliases(), c.right.Aliases()...)
}

func (c *combined) BuildFilter(model *schema.Model) (*Producer, error) {
	lp, err := c.left.BuildFilter(model)
	if err != nil {
		return nil, err
	}
	rp, err := c.right.BuildFilter(model)
	if err != nil {
		return nil, err
	}
	params, err := mergeParams(lp.Params, rp.Params)
	if err != nil {
		return nil, err
	}
	op := c.op
	return &Producer{
		Params: params,
		Produce: func(values Values) (expr.Predicate, error) {
			lpred, err := lp.Produce(values)
			if err != nil {
				return nil, err
			}
			rpred, err := rp.Produce(values)
			if err != nil {
				return nil, err
			}
			switch {
			case lpred == nil && rpred == nil:
				return nil, nil
			case lpred == nil:
				return rpred, nil
			case rpred == nil:
				return lpred, nil
			case op == combineAnd:
				return expr.And(lpred, rpred), nil
			default:
				return expr.Or(lpred, rpred), nil
			}
		},
	}, nil
}

type inverted struct {
	child Criterion
}

func (i *inverted) Aliases() []string {
	return i.child.Aliases()
}

func (i *inverted) BuildFilter(model *schema.Model) (*Producer, error) {
	cp, err := i.child.BuildFilter(model)
	if err != nil {
		return nil, err
	}
	return &Producer{
		Params: cp.Params,
		Produce: func(values Values) (expr.Predicate, error) {
			pred, err := cp.Produce(values)
			if err != nil {
				return nil, err
			}
			if pred == nil {
				return nil, nil
			}
			return expr.Not(pred), nil
		},
	}, nil
}

func mergeParams(left, right []Param) ([]Param, error) {
	merged := make([]Param, 0, len(left)+len(right))
	seen := make(map[string]struct{}, len(left)+len(right))
	for _, p := range append(append([]Param{}, left...), right...) {
		if _, ok := seen[p.Name]; ok {
			return nil, errors.Wrapf(ErrConfiguration,
				"parameter %q is declared by more than one combined criterion", p.Name)
		}
		seen[p.Name] = struct{}{}
		merged = append(merged, p)
	}
	return merged, nil
}
