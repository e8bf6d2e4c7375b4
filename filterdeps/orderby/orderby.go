// Package orderby resolves a comma-separated order_by query parameter
// against a column whitelist declared at construction time.
package orderby

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// Ordering is one resolved sort key. Field is a whitelisted column
// name, never raw request input.
type Ordering struct {
	Field string
	Desc  bool
}

type config struct {
	param      string
	defaults   string
	tieBreaker string
	allowed    []string
}

type Option func(*config)

// WithParam renames the query parameter, "order_by" by default.
func WithParam(name string) Option {
	return func(c *config) {
		c.param = name
	}
}

// WithDefault sets the ordering applied when the parameter is absent,
// in the same syntax the parameter accepts, e.g. "-created_at".
func WithDefault(spec string) Option {
	return func(c *config) {
		c.defaults = spec
	}
}

// WithTieBreaker appends a column as the final sort key whenever the
// resolved ordering does not already mention it, keeping pagination
// stable. Pass an empty name to disable the default "id".
func WithTieBreaker(column string) Option {
	return func(c *config) {
		c.tieBreaker = column
	}
}

// WithColumns restricts the whitelist to the named columns instead of
// every column the model declares.
func WithColumns(columns ...string) Option {
	return func(c *config) {
		c.allowed = columns
	}
}

// OrderBy validates and resolves sort specifications for one model.
type OrderBy struct {
	param      string
	defaults   string
	tieBreaker string
	allowed    []string
}

// New builds an OrderBy whose whitelist is checked against the model at
// construction time.
func New(model *schema.Model, opts ...Option) (*OrderBy, error) {
	cfg := config{
		param:      "order_by",
		tieBreaker: "id",
	}
	for i := range opts {
		opts[i](&cfg)
	}
	allowed := cfg.allowed
	if len(allowed) == 0 {
		for _, col := range model.Columns() {
			allowed = append(allowed, col.Name)
		}
	}
	for _, name := range allowed {
		if _, err := model.Column(name); err != nil {
			return nil, errors.Wrapf(filterdeps.ErrConfiguration,
				"order_by whitelist: %v", err)
		}
	}
	if cfg.tieBreaker != "" && !model.HasColumn(cfg.tieBreaker) {
		return nil, errors.Wrapf(filterdeps.ErrConfiguration,
			"order_by tie breaker %q is not a column of model %q",
			cfg.tieBreaker, model.Name())
	}
	ob := &OrderBy{
		param:      cfg.param,
		defaults:   cfg.defaults,
		tieBreaker: cfg.tieBreaker,
		allowed:    allowed,
	}
	if cfg.defaults != "" {
		if _, err := ob.parse(cfg.defaults); err != nil {
			return nil, errors.Wrapf(filterdeps.ErrConfiguration,
				"invalid default ordering %q: %v", cfg.defaults, err)
		}
	}
	return ob, nil
}

// Param describes the query parameter for host-framework introspection.
func (ob *OrderBy) Param() filterdeps.Param {
	return filterdeps.Param{
		Name: ob.param,
		Type: filterdeps.TypeString,
		Default: func() any {
			if ob.defaults == "" {
				return nil
			}
			return ob.defaults
		}(),
		Description: fmt.Sprintf(
			"Comma-separated sort keys, '-' prefix for descending. Allowed: %s",
			strings.Join(ob.allowed, ", ")),
	}
}

// Resolve parses a request value into orderings. An absent or empty
// value falls back to the configured default; fields outside the
// whitelist fail with ErrInvalidValue. The tie-breaker column is
// appended unless already present.
func (ob *OrderBy) Resolve(value any) ([]Ordering, error) {
	spec := ob.defaults
	if value != nil {
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue,
				"parameter %q: %v", ob.param, err)
		}
		if strings.TrimSpace(s) != "" {
			spec = s
		}
	}
	if spec == "" {
		return ob.withTieBreaker(nil), nil
	}
	ords, err := ob.parse(spec)
	if err != nil {
		return nil, err
	}
	return ob.withTieBreaker(ords), nil
}

func (ob *OrderBy) parse(spec string) ([]Ordering, error) {
	var ords []Ordering
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if !ob.isAllowed(field) {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue,
				"cannot sort by %q, allowed fields are: %s",
				field, strings.Join(ob.allowed, ", "))
		}
		ords = append(ords, Ordering{Field: field, Desc: desc})
	}
	return ords, nil
}

func (ob *OrderBy) isAllowed(field string) bool {
	for _, a := range ob.allowed {
		if a == field {
			return true
		}
	}
	return false
}

func (ob *OrderBy) withTieBreaker(ords []Ordering) []Ordering {
	if ob.tieBreaker == "" {
		return ords
	}
	for _, o := range ords {
		if o.Field == ob.tieBreaker {
			return ords
		}
	}
	return append(ords, Ordering{Field: ob.tieBreaker})
}
