package filterdeps

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// Field is one named criterion declaration inside a filter set.
type Field struct {
	Name      string
	Criterion Criterion
}

type config struct {
	model    *schema.Model
	abstract bool
	includes []*FilterSet
	fields   []Field
}

type Option func(*config)

// WithModel binds the filter set to the queryable entity its predicates
// target. Required unless the set is abstract.
func WithModel(m *schema.Model) Option {
	return func(c *config) {
		c.model = m
	}
}

// Abstract marks the set as a reusable template: it needs no model and
// cannot be resolved, only included into concrete sets.
func Abstract() Option {
	return func(c *config) {
		c.abstract = true
	}
}

// Include merges the fields of component filter sets, in order, ahead
// of the set's own fields. A later field with the same name overrides
// an earlier one while keeping its first-seen position.
func Include(sets ...*FilterSet) Option {
	return func(c *config) {
		c.includes = append(c.includes, sets...)
	}
}

// WithField declares a named criterion. Declaration order is the
// resolution order.
func WithField(name string, criterion Criterion) Option {
	return func(c *config) {
		c.fields = append(c.fields, Field{Name: name, Criterion: criterion})
	}
}

type boundProducer struct {
	field    string
	producer *Producer
	names    []string
}

// FilterSet is a frozen, ordered collection of named criteria bound to
// one model. Construction validates the whole declaration; afterwards
// the set is immutable and safe to share across concurrent requests.
type FilterSet struct {
	name      string
	model     *schema.Model
	abstract  bool
	fields    []Field
	producers []boundProducer
	params    []Param
}

// aliasDefaulter lets Simple-based criteria inherit the declared field
// name as their alias, the way a filter-set attribute name names its
// query parameter.
type aliasDefaulter interface {
	withDefaultAlias(name string) Criterion
}

// New collects, validates and freezes a filter-set declaration. Every
// configuration problem found is reported; the error accumulates all of
// them rather than stopping at the first.
func New(name string, opts ...Option) (*FilterSet, error) {
	var cfg config
	for i := range opts {
		opts[i](&cfg)
	}

	fs := &FilterSet{
		name:     name,
		model:    cfg.model,
		abstract: cfg.abstract,
	}

	var errs *multierror.Error

	// Merge included sets ahead of own fields, later same-named
	// declarations overriding earlier ones in place.
	index := make(map[string]int)
	for _, inc := range cfg.includes {
		for _, f := range inc.fields {
			fs.upsertField(index, f)
		}
	}
	for _, f := range cfg.fields {
		fs.upsertField(index, f)
	}

	for i, f := range fs.fields {
		if f.Criterion == nil {
			errs = multierror.Append(errs, errors.Wrapf(ErrContract,
				"filter set %q: field %q is not a criterion", name, f.Name))
			continue
		}
		if d, ok := f.Criterion.(aliasDefaulter); ok && len(f.Criterion.Aliases()) == 0 {
			fs.fields[i].Criterion = d.withDefaultAlias(f.Name)
		}
	}

	// Alias uniqueness across the effective declaration.
	owners := make(map[string]string)
	for _, f := range fs.fields {
		if f.Criterion == nil {
			continue
		}
		for _, alias := range f.Criterion.Aliases() {
			if owner, ok := owners[alias]; ok {
				errs = multierror.Append(errs, errors.Wrapf(ErrConfiguration,
					"filter set %q: alias %q is declared by both %q and %q",
					name, alias, owner, f.Name))
				continue
			}
			owners[alias] = f.Name
		}
	}

	if !cfg.abstract && cfg.model == nil {
		errs = multierror.Append(errs, errors.Wrapf(ErrConfiguration,
			"filter set %q: a concrete filter set requires a model", name))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if cfg.abstract {
		return fs, nil
	}

	// Build every producer once and merge the flat parameter set. This
	// catches parameter collisions the alias metadata did not advertise,
	// including the functional adapter's own parameter names.
	declared := make(map[string]string)
	for _, f := range fs.fields {
		producer, err := f.Criterion.BuildFilter(cfg.model)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err,
				"filter set %q: field %q", name, f.Name))
			continue
		}
		bound := boundProducer{field: f.Name, producer: producer}
		for _, p := range producer.Params {
			if owner, ok := declared[p.Name]; ok {
				errs = multierror.Append(errs, errors.Wrapf(ErrConfiguration,
					"filter set %q: parameter %q is declared by both %q and %q",
					name, p.Name, owner, f.Name))
				continue
			}
			declared[p.Name] = f.Name
			fs.params = append(fs.params, p)
			bound.names = append(bound.names, p.Name)
		}
		fs.producers = append(fs.producers, bound)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FilterSet) upsertField(index map[string]int, f Field) {
	if i, ok := index[f.Name]; ok {
		fs.fields[i] = f
		return
	}
	index[f.Name] = len(fs.fields)
	fs.fields = append(fs.fields, f)
}

func (fs *FilterSet) Name() string {
	return fs.name
}

func (fs *FilterSet) Model() *schema.Model {
	return fs.model
}

func (fs *FilterSet) IsAbstract() bool {
	return fs.abstract
}

// Fields returns the effective declarations in resolution order.
func (fs *FilterSet) Fields() []Field {
	return append([]Field(nil), fs.fields...)
}

// Params returns the flattened parameter declarations, in resolution
// order, for host-framework introspection.
func (fs *FilterSet) Params() []Param {
	return append([]Param(nil), fs.params...)
}

// Resolve invokes every producer with its slice of the resolved values,
// in declaration order, and collects the non-nil predicates. Producer
// errors propagate unchanged.
func (fs *FilterSet) Resolve(values Values) ([]expr.Predicate, error) {
	if fs.abstract {
		return nil, errors.Wrapf(ErrConfiguration,
			"filter set %q is abstract and cannot be resolved", fs.name)
	}
	preds := make([]expr.Predicate, 0, len(fs.producers))
	for _, bp := range fs.producers {
		sub := make(Values, len(bp.names))
		for _, n := range bp.names {
			if v, ok := values.Get(n); ok {
				sub[n] = v
			}
		}
		pred, err := bp.producer.Produce(sub)
		if err != nil {
			return nil, err
		}
		if pred != nil {
			preds = append(preds, pred)
		}
	}
	return preds, nil
}
