// Package schema describes the queryable entities filter sets bind to.
// A Model is a plain descriptor of a table: its typed columns and its
// relations to other models. Filters validate their configuration
// against it at declaration time; it is never consulted per request.
package schema

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownRelation = errors.New("unknown relation")
)

type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindTime   Kind = "time"
	KindJSON   Kind = "json"
)

type Column struct {
	Name string
	Kind Kind
}

// ForeignKey maps a child-table column onto a parent-table column.
// Composite keys are expressed as multiple pairs.
type ForeignKey struct {
	ChildColumn  string
	ParentColumn string
}

type Relation struct {
	Name        string
	Model       *Model
	ForeignKeys []ForeignKey
}

type Model struct {
	name       string
	table      string
	columns    map[string]Column
	order      []string
	primaryKey []string
	relations  map[string]Relation
}

type Option func(*Model)

func WithColumn(name string, kind Kind) Option {
	return func(m *Model) {
		if _, ok := m.columns[name]; !ok {
			m.order = append(m.order, name)
		}
		m.columns[name] = Column{Name: name, Kind: kind}
	}
}

// WithPrimaryKey names the key column(s). Filters that need a stable
// row identity (ranked selection, grouped subqueries) require it.
func WithPrimaryKey(names ...string) Option {
	return func(m *Model) {
		m.primaryKey = names
	}
}

func WithRelation(name string, child *Model, fks ...ForeignKey) Option {
	return func(m *Model) {
		m.relations[name] = Relation{Name: name, Model: child, ForeignKeys: fks}
	}
}

func New(name, table string, opts ...Option) *Model {
	m := &Model{
		name:      name,
		table:     table,
		columns:   make(map[string]Column),
		relations: make(map[string]Relation),
	}
	for i := range opts {
		opts[i](m)
	}
	return m
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Table() string {
	return m.table
}

func (m *Model) HasColumn(name string) bool {
	_, ok := m.columns[name]
	return ok
}

func (m *Model) Column(name string) (Column, error) {
	col, ok := m.columns[name]
	if !ok {
		return Column{}, errors.Wrapf(ErrUnknownColumn,
			"column %q does not exist on model %q, available columns are: %s",
			name, m.name, strings.Join(m.order, ", "))
	}
	return col, nil
}

// Columns returns the columns in declaration order.
func (m *Model) Columns() []Column {
	cols := make([]Column, 0, len(m.order))
	for _, name := range m.order {
		cols = append(cols, m.columns[name])
	}
	return cols
}

// PrimaryKey returns the declared key columns, possibly empty.
func (m *Model) PrimaryKey() []string {
	return append([]string(nil), m.primaryKey...)
}

func (m *Model) Relation(name string) (Relation, error) {
	rel, ok := m.relations[name]
	if !ok {
		names := make([]string, 0, len(m.relations))
		for n := range m.relations {
			names = append(names, n)
		}
		return Relation{}, errors.Wrapf(ErrUnknownRelation,
			"relation %q does not exist on model %q, available relations are: %s",
			name, m.name, strings.Join(names, ", "))
	}
	return rel, nil
}
