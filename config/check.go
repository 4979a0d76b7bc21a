package config

import (
	"fmt"
	"reflect"

	"github.com/Comcast/wfsm/core"

	"github.com/mitchellh/mapstructure"
)

// CoercionError occurs when a configuration value has the wrong type
// or isn't one of the allowed values.  The value is replaced with a
// default.
type CoercionError struct {
	// Where says where the value was found (something like
	// "states[1].transitions[0].actions[2].act").
	Where string

	// Want describes what was expected.
	Want string

	// Got is the offending value.
	Got interface{}

	// Default is the value used instead.
	Default interface{}
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: expected %s but got %#v; using %#v", e.Where, e.Want, e.Got, e.Default)
}

// Checker validates the values in a configuration tree.  Each problem
// is reported to Diag, and the offending value is replaced with a
// default.
type Checker struct {
	Diag core.Diag

	// Problems counts the reported problems.
	Problems int
}

// NewChecker makes a Checker that reports to the given Diag.
func NewChecker(d core.Diag) *Checker {
	if d == nil {
		d = core.Discard
	}
	return &Checker{
		Diag: d,
	}
}

func (c *Checker) problem(where, want string, got, def interface{}) {
	c.Problems++
	c.Diag.Error(&CoercionError{
		Where:   where,
		Want:    want,
		Got:     got,
		Default: def,
	})
}

// scalar reports whether x can sensibly be weakly decoded into a
// string or a number.
func scalar(x interface{}) bool {
	switch reflect.ValueOf(x).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// String returns x as a string.  A missing (nil) x gives def without
// complaint.  Numbers and booleans are converted.
func (c *Checker) String(x interface{}, def, where string) string {
	if x == nil {
		return def
	}
	if s, is := x.(string); is {
		return s
	}
	var s string
	if !scalar(x) {
		c.problem(where, "a string", x, def)
		return def
	}
	if err := mapstructure.WeakDecode(x, &s); err != nil {
		c.problem(where, "a string", x, def)
		return def
	}
	return s
}

// Number returns x as a float64.  A missing (nil) x gives def without
// complaint.  Numeric strings are converted.
func (c *Checker) Number(x interface{}, def float64, where string) float64 {
	if x == nil {
		return def
	}
	if f, is := x.(float64); is {
		return f
	}
	var f float64
	if !scalar(x) {
		c.problem(where, "a number", x, def)
		return def
	}
	if err := mapstructure.WeakDecode(x, &f); err != nil {
		c.problem(where, "a number", x, def)
		return def
	}
	return f
}

// OneOf returns x as a string if it's one of the allowed strings.
// Otherwise OneOf returns def (and complains unless x is missing).
func (c *Checker) OneOf(x interface{}, allowed []string, def, where string) string {
	if x == nil {
		return def
	}
	s, is := x.(string)
	if is {
		for _, a := range allowed {
			if s == a {
				return s
			}
		}
	}
	c.problem(where, fmt.Sprintf("one of %q", allowed), x, def)
	return def
}

// Object returns x as a map.  Anything else gives nil (with a
// complaint unless x is missing).
func (c *Checker) Object(x interface{}, where string) map[string]interface{} {
	if x == nil {
		return nil
	}
	switch vv := x.(type) {
	case map[string]interface{}:
		return vv
	case map[interface{}]interface{}:
		// Some YAML parsers like these.
		var m map[string]interface{}
		if err := mapstructure.Decode(vv, &m); err == nil {
			return m
		}
	}
	c.problem(where, "an object", x, nil)
	return nil
}

// List returns x as a slice.  Anything else gives nil (with a
// complaint unless x is missing).
func (c *Checker) List(x interface{}, where string) []interface{} {
	if x == nil {
		return nil
	}
	if xs, is := x.([]interface{}); is {
		return xs
	}
	c.problem(where, "a list", x, nil)
	return nil
}
