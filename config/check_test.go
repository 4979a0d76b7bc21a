package config

import (
	"errors"
	"testing"

	"github.com/Comcast/wfsm/core"
)

func TestCheckerString(t *testing.T) {
	tests := []struct {
		description string
		x           interface{}
		expected    string
		problems    int
	}{
		{"string", "tacos", "tacos", 0},
		{"missing", nil, "def", 0},
		{"int", 7, "7", 0},
		{"float", 1.5, "1.5", 0},
		{"bool", true, "1", 0},
		{"map", map[string]interface{}{"a": 1}, "def", 1},
		{"list", []interface{}{"a"}, "def", 1},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			c := NewChecker(nil)
			if got := c.String(tc.x, "def", "here"); got != tc.expected {
				t.Fatalf("%q != %q", got, tc.expected)
			}
			if c.Problems != tc.problems {
				t.Fatal(c.Problems)
			}
		})
	}
}

func TestCheckerNumber(t *testing.T) {
	tests := []struct {
		description string
		x           interface{}
		expected    float64
		problems    int
	}{
		{"float", 3.25, 3.25, 0},
		{"int", 12, 12, 0},
		{"numeric string", "12", 12, 0},
		{"missing", nil, -1, 0},
		{"word", "wide", -1, 1},
		{"map", map[string]interface{}{}, -1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			c := NewChecker(nil)
			if got := c.Number(tc.x, -1, "here"); got != tc.expected {
				t.Fatalf("%v != %v", got, tc.expected)
			}
			if c.Problems != tc.problems {
				t.Fatal(c.Problems)
			}
		})
	}
}

func TestCheckerOneOf(t *testing.T) {
	var (
		rec     = &core.Recorder{}
		c       = NewChecker(rec)
		allowed = []string{"a", "b"}
	)
	if got := c.OneOf("b", allowed, "a", "x"); got != "b" {
		t.Fatal(got)
	}
	if got := c.OneOf(nil, allowed, "a", "x"); got != "a" {
		t.Fatal(got)
	}
	if got := c.OneOf("c", allowed, "a", "x"); got != "a" {
		t.Fatal(got)
	}
	if got := c.OneOf(3, allowed, "a", "x"); got != "a" {
		t.Fatal(got)
	}
	if len(rec.Errors) != 2 {
		t.Fatal(rec.Errors)
	}
	var ce *CoercionError
	if !errors.As(rec.Errors[0], &ce) || ce.Got != "c" || ce.Default != "a" || ce.Where != "x" {
		t.Fatalf("%#v", rec.Errors[0])
	}
}

func TestCheckerObjectAndList(t *testing.T) {
	c := NewChecker(nil)

	if m := c.Object(map[string]interface{}{"a": 1}, "x"); m["a"] != 1 {
		t.Fatal(m)
	}
	if m := c.Object(map[interface{}]interface{}{"a": 1}, "x"); m["a"] != 1 {
		t.Fatal(m)
	}
	if m := c.Object("nope", "x"); m != nil {
		t.Fatal(m)
	}
	if xs := c.List([]interface{}{1, 2}, "x"); len(xs) != 2 {
		t.Fatal(xs)
	}
	if xs := c.List("nope", "x"); xs != nil {
		t.Fatal(xs)
	}
	if xs := c.List(nil, "x"); xs != nil {
		t.Fatal(xs)
	}
	if c.Problems != 2 {
		t.Fatal(c.Problems)
	}
}
