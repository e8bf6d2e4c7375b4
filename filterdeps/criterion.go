// Package filterdeps maps named, typed query parameters to backend
// query predicates. Filter sets are declared once, validated at
// construction, and resolved per request into an ordered predicate
// list; the host framework owns parameter binding and query execution.
package filterdeps

import (
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// ParamType is the primitive type a query parameter coerces to before
// a producer sees it.
type ParamType string

const (
	TypeString     ParamType = "string"
	TypeInt        ParamType = "int"
	TypeFloat      ParamType = "float"
	TypeBool       ParamType = "bool"
	TypeTime       ParamType = "time"
	TypeStringList ParamType = "string_list"
	TypeAny        ParamType = "any"
)

// Param declares one externally visible query parameter.
type Param struct {
	Name        string
	Type        ParamType
	Default     any
	Description string
}

// Values carries resolved parameter values keyed by parameter name.
// A missing key means the parameter was not supplied; producers treat
// it as "no filter".
type Values map[string]any

// Get reports the resolved value for name. A nil value counts as
// absent.
func (v Values) Get(name string) (any, bool) {
	val, ok := v[name]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// ProduceFunc turns resolved parameter values into a predicate. A nil
// predicate means the criterion contributes no filter for this request.
type ProduceFunc func(values Values) (expr.Predicate, error)

// Producer is the per-resolution artifact a criterion builds for a
// model: its declared parameters plus the function that produces the
// predicate. Producers are immutable and safe for concurrent use.
type Producer struct {
	Params  []Param
	Produce ProduceFunc
}

// Criterion is a single filtering capability. Aliases must be static:
// it is consulted at declaration time, before any model is bound, so it
// must not depend on BuildFilter having run. BuildFilter must declare
// the same parameter shape on every call with the same model.
type Criterion interface {
	Aliases() []string
	BuildFilter(model *schema.Model) (*Producer, error)
}
