// Package httpbind coerces raw URL query values into the typed Values a
// filter set resolves. It is the only package that touches the HTTP
// request shape; the core stays transport-agnostic.
package httpbind

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
)

// ErrBind marks query values that fail to coerce to their declared
// parameter type.
var ErrBind = errors.New("bind error")

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Resolve coerces the query values for each declared parameter.
// Parameters absent from the query fall back to their declared default;
// parameters without one stay absent. List parameters accept repeated
// keys as well as comma-separated single values.
func Resolve(params []filterdeps.Param, query url.Values) (filterdeps.Values, error) {
	values := make(filterdeps.Values, len(params))
	for _, p := range params {
		raw, ok := query[p.Name]
		if !ok || len(raw) == 0 {
			if p.Default != nil {
				values[p.Name] = p.Default
			}
			continue
		}
		v, err := coerce(p, raw)
		if err != nil {
			return nil, err
		}
		values[p.Name] = v
	}
	return values, nil
}

// ResolveRequest binds a request's query string against a filter set's
// declared parameters.
func ResolveRequest(fs *filterdeps.FilterSet, r *http.Request) (filterdeps.Values, error) {
	return Resolve(fs.Params(), r.URL.Query())
}

func coerce(p filterdeps.Param, raw []string) (any, error) {
	if p.Type == filterdeps.TypeStringList {
		return coerceList(raw), nil
	}
	first := raw[0]
	switch p.Type {
	case filterdeps.TypeString, filterdeps.TypeAny:
		return first, nil
	case filterdeps.TypeInt:
		n, err := cast.ToInt64E(first)
		if err != nil {
			return nil, errors.Wrapf(ErrBind,
				"parameter %q: %q is not an integer", p.Name, first)
		}
		return n, nil
	case filterdeps.TypeFloat:
		f, err := cast.ToFloat64E(first)
		if err != nil {
			return nil, errors.Wrapf(ErrBind,
				"parameter %q: %q is not a number", p.Name, first)
		}
		return f, nil
	case filterdeps.TypeBool:
		b, err := cast.ToBoolE(first)
		if err != nil {
			return nil, errors.Wrapf(ErrBind,
				"parameter %q: %q is not a boolean", p.Name, first)
		}
		return b, nil
	case filterdeps.TypeTime:
		t, err := parseTime(first)
		if err != nil {
			return nil, errors.Wrapf(ErrBind,
				"parameter %q: %q is not a timestamp", p.Name, first)
		}
		return t, nil
	default:
		return nil, errors.Wrapf(ErrBind,
			"parameter %q has unsupported type %q", p.Name, p.Type)
	}
}

// coerceList flattens repeated keys and splits comma-separated entries,
// so ?tag=a&tag=b and ?tag=a,b read the same.
func coerceList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
