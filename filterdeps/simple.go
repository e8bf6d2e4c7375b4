package filterdeps

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// LogicFunc maps one resolved parameter value to a predicate. The value
// is never nil: an absent parameter short-circuits before the logic
// runs. Returning a nil predicate declines to filter.
type LogicFunc func(model *schema.Model, value any) (expr.Predicate, error)

// SimpleConfig configures a single-parameter criterion.
type SimpleConfig struct {
	// Field is the model column the filter applies to.
	Field string
	// Alias is the query-parameter name. When a Simple criterion is
	// declared as a filter-set field with an empty alias, the field name
	// becomes the alias.
	Alias string
	// Description feeds host-framework parameter metadata. A default is
	// derived from Field when empty.
	Description string
	// Type is the primitive type the host binds the parameter to.
	Type ParamType
	// Validate, when set, checks the configuration against the model at
	// build time.
	Validate func(model *schema.Model) error
}

// Simple is the single-parameter criterion base: one declared query
// parameter routed to one logic function. All built-in column filters
// and FromFunc adapters are Simple values.
type Simple struct {
	cfg   SimpleConfig
	logic LogicFunc
}

func NewSimple(cfg SimpleConfig, logic LogicFunc) *Simple {
	return &Simple{cfg: cfg, logic: logic}
}

func (s *Simple) Aliases() []string {
	if s.cfg.Alias == "" {
		return nil
	}
	return []string{s.cfg.Alias}
}

func (s *Simple) withDefaultAlias(name string) Criterion {
	if s.cfg.Alias != "" {
		return s
	}
	cfg := s.cfg
	cfg.Alias = name
	return &Simple{cfg: cfg, logic: s.logic}
}

func (s *Simple) BuildFilter(model *schema.Model) (*Producer, error) {
	if s.cfg.Alias == "" {
		return nil, errors.Wrapf(ErrConfiguration,
			"filter for field %q is missing an alias", s.cfg.Field)
	}
	if s.cfg.Type == "" {
		return nil, errors.Wrapf(ErrConfiguration,
			"filter %q is missing a parameter type", s.cfg.Alias)
	}
	if s.logic == nil {
		return nil, errors.Wrapf(ErrContract,
			"filter %q has no logic function", s.cfg.Alias)
	}
	if s.cfg.Validate != nil {
		if err := s.cfg.Validate(model); err != nil {
			return nil, err
		}
	}
	description := s.cfg.Description
	if description == "" {
		description = fmt.Sprintf("Filter by field '%s'", s.cfg.Field)
	}
	alias := s.cfg.Alias
	logic := s.logic
	return &Producer{
		Params: []Param{{
			Name:        alias,
			Type:        s.cfg.Type,
			Description: description,
		}},
		Produce: func(values Values) (expr.Predicate, error) {
			value, ok := values.Get(alias)
			if !ok {
				return nil, nil
			}
			return logic(model, value)
		},
	}, nil
}

// FuncConfig configures a FromFunc criterion.
type FuncConfig struct {
	Field       string
	Alias       string
	Description string
	Type        ParamType
}

// FromFunc adapts a plain (model, value) function into a criterion with
// exactly one declared parameter. The function's result, nil included,
// passes through unchanged.
func FromFunc(cfg FuncConfig, fn LogicFunc) Criterion {
	return NewSimple(SimpleConfig{
		Field:       cfg.Field,
		Alias:       cfg.Alias,
		Description: cfg.Description,
		Type:        cfg.Type,
	}, fn)
}
