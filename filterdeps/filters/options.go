// Package filters holds the built-in column criteria: string, numeric,
// time, binary, enum and regex filters over a model's columns. Each is
// a single-parameter criterion built on filterdeps.Simple.
package filters

import "time"

type options struct {
	alias         string
	description   string
	caseSensitive bool
	exclude       bool
	excludeBound  bool
	now           func() time.Time
}

type Option func(*options)

// WithAlias sets the query-parameter name. Without it, the filter-set
// field name is used.
func WithAlias(alias string) Option {
	return func(o *options) {
		o.alias = alias
	}
}

// WithDescription overrides the generated parameter description.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// CaseSensitive makes string matching case-sensitive. The default is
// case-insensitive matching.
func CaseSensitive() Option {
	return func(o *options) {
		o.caseSensitive = true
	}
}

// Exclude inverts set membership: IN becomes NOT IN.
func Exclude() Option {
	return func(o *options) {
		o.exclude = true
	}
}

// ExcludeBound makes relative-time boundaries exclusive.
func ExcludeBound() Option {
	return func(o *options) {
		o.excludeBound = true
	}
}

// WithNow injects the clock used by relative-time filters.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for i := range opts {
		opts[i](&o)
	}
	return o
}
