package filters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// RelativeMatch selects how a RelativeTime filter relates the column to
// the computed point in time.
type RelativeMatch string

const (
	// RangeToNow filters for timestamps between the computed time and
	// now (either side, depending on the sign of the offset).
	RangeToNow RelativeMatch = "range_to_now"
	// Before filters for timestamps before the computed time.
	Before RelativeMatch = "before"
	// After filters for timestamps after the computed time.
	After RelativeMatch = "after"
)

var relativeTimePattern = regexp.MustCompile(`^([+-]?)(\d+)([dwmyDWMY])$`)

// RelativeTime filters a timestamp column by an offset from the current
// moment, written as [sign][value][unit], e.g. "-7d", "+1m", "-2y".
// Units are days, weeks, months and years. Bounds are inclusive unless
// ExcludeBound is given; WithNow injects the clock.
func RelativeTime(field string, match RelativeMatch, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	includeBound := !o.excludeBound
	now := o.now
	description := o.description
	if description == "" {
		description = fmt.Sprintf(
			"Filter by relative time on '%s' with match type '%s'. Format: [sign][value][unit] (e.g. -7d, +1m, -2y)",
			field, match)
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeString,
		Validate: func(model *schema.Model) error {
			switch match {
			case RangeToNow, Before, After:
			default:
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid relative time match type %q", match)
			}
			_, err := model.Column(field)
			return err
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		spec, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		offset, unit, err := parseRelativeTime(spec)
		if err != nil {
			return nil, err
		}
		current := now()
		target := shiftTime(current, offset, unit)
		fld := expr.Field(expr.GlobalScope(), field)
		ge := func(t time.Time) expr.Predicate {
			if includeBound {
				return expr.GreaterThanEqual(fld, expr.Value(t))
			}
			return expr.GreaterThan(fld, expr.Value(t))
		}
		le := func(t time.Time) expr.Predicate {
			if includeBound {
				return expr.LessThanEqual(fld, expr.Value(t))
			}
			return expr.LessThan(fld, expr.Value(t))
		}
		switch match {
		case Before:
			return le(target), nil
		case After:
			return ge(target), nil
		default: // RangeToNow
			start, end := target, current
			if offset > 0 {
				start, end = current, target
			}
			return expr.And(ge(start), le(end)), nil
		}
	})
}

func parseRelativeTime(spec string) (offset int, unit string, err error) {
	m := relativeTimePattern.FindStringSubmatch(spec)
	if m == nil {
		return 0, "", errors.Wrapf(filterdeps.ErrInvalidValue,
			"invalid relative time format %q, expected something like '-7d' or '+1m'", spec)
	}
	offset, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, "", errors.Wrapf(filterdeps.ErrInvalidValue, "invalid relative time %q", spec)
	}
	if m[1] == "-" {
		offset = -offset
	}
	return offset, strings.ToLower(m[3]), nil
}

func shiftTime(t time.Time, offset int, unit string) time.Time {
	switch unit {
	case "w":
		return t.AddDate(0, 0, 7*offset)
	case "m":
		return t.AddDate(0, offset, 0)
	case "y":
		return t.AddDate(offset, 0, 0)
	default: // "d"
		return t.AddDate(0, 0, offset)
	}
}
