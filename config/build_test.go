package config

import (
	"errors"
	"testing"

	"github.com/Comcast/wfsm/core"
)

func TestBuildCheckbox(t *testing.T) {
	tree, err := ReadFile("testdata/checkbox.json")
	if err != nil {
		t.Fatal(err)
	}
	rec := &core.Recorder{}
	m := Build(tree, core.WithDiag(rec))

	if m.Name != "checkbox" {
		t.Fatal(m.Name)
	}
	if errs := m.ConfigErrors(); len(errs) != 0 {
		t.Fatal(errs)
	}
	if got := m.CurrentState(); got != "unchecked" {
		t.Fatal(got)
	}

	label := m.Region("label")
	if label == nil || !label.Natural() {
		t.Fatalf("%#v", label)
	}

	box := m.Region("box")
	fx := m.ActOnEvent(core.EventPress, box)
	if !fx.Matched || fx.To != "checked" {
		t.Fatalf("%#v", fx)
	}
	if img, _ := m.Image("box"); img != "./images/checked.png" {
		t.Fatal(img)
	}
	if len(rec.Printed) != 1 || rec.Printed[0] != "checking, Event Type: press, Region: box" {
		t.Fatal(rec.Printed)
	}

	m.ActOnEvent(core.EventPress, box)
	if img, _ := m.Image("box"); img != "./images/unchecked.png" {
		t.Fatal(img)
	}
	if got := m.CurrentState(); got != "unchecked" {
		t.Fatal(got)
	}
}

func TestBuildSloppy(t *testing.T) {
	tree, err := ReadFile("testdata/sloppy.yaml")
	if err != nil {
		t.Fatal(err)
	}
	rec := &core.Recorder{}
	m := Build(tree, core.WithDiag(rec))

	var (
		coercions int
		unknown   []*core.UnknownRegion
	)
	for _, err := range m.ConfigErrors() {
		var ce *CoercionError
		var ur *core.UnknownRegion
		switch {
		case errors.As(err, &ce):
			coercions++
		case errors.As(err, &ur):
			unknown = append(unknown, ur)
		default:
			t.Fatalf("unexpected %v", err)
		}
	}

	// regions[0].width, regions[1], an event type, an act, and
	// states[1].transitions.
	if coercions != 5 {
		t.Fatal(m.ConfigErrors())
	}
	if len(unknown) != 1 || unknown[0].RegionName != "ghost" {
		t.Fatal(unknown)
	}
	if len(rec.Errors) != len(m.ConfigErrors()) {
		t.Fatal(rec.Errors)
	}

	r1 := m.Region("r1")
	if r1 == nil || r1.X != 10 || r1.Y != 20 || r1.Width != core.NaturalSize {
		t.Fatalf("%#v", r1)
	}
	if len(m.Regions()) != 2 {
		t.Fatal(m.Regions())
	}

	start := m.State("start")
	if start == nil || len(start.Transitions) != 2 {
		t.Fatalf("%#v", start)
	}
	if got := start.Transitions[0].On.Type; got != core.EventNeverMatch {
		t.Fatal(got)
	}
	if got := start.Transitions[0].Actions[0].Act; got != core.ActNone {
		t.Fatal(got)
	}

	// The unknown event type never matches.
	if fx := m.ActOnEvent(core.EventAny, r1); fx.Matched {
		t.Fatalf("%#v", fx)
	}

	// The ghost action still runs on the event's region.
	rec.Reset()
	r2 := m.Region("r2")
	fx := m.ActOnEvent(core.EventPress, r2)
	if !fx.Matched || fx.To != "elsewhere" {
		t.Fatalf("%#v", fx)
	}
	if img, _ := m.Image("r2"); img != "boo.png" {
		t.Fatal(img)
	}
	if len(rec.Printed) != 1 || rec.Printed[0] != "42" {
		t.Fatal(rec.Printed)
	}
	if !m.State("elsewhere").Terminal() {
		t.Fatal("elsewhere should be terminal")
	}
}

func TestBuildDefaults(t *testing.T) {
	tests := []struct {
		description string
		tree        interface{}
		states      int
		errors      int
	}{
		{"nil", nil, 0, 1},
		{"not an object", "hello", 0, 2},
		{"empty", map[string]interface{}{}, 0, 1},
		{"one state", map[string]interface{}{
			"states": []interface{}{
				map[string]interface{}{"name": "only"},
			},
		}, 1, 0},
		{"missing event region", map[string]interface{}{
			"states": []interface{}{
				map[string]interface{}{
					"name": "s",
					"transitions": []interface{}{
						map[string]interface{}{
							"event":     map[string]interface{}{"type": "press"},
							"nextState": "s",
						},
					},
				},
			},
		}, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			m := Build(tc.tree, core.WithDiag(core.Discard))
			if n := len(m.States()); n != tc.states {
				t.Fatal(n)
			}
			if n := len(m.ConfigErrors()); n != tc.errors {
				t.Fatal(m.ConfigErrors())
			}
		})
	}
}

func TestBuildMissingEventRegionIsWildcard(t *testing.T) {
	tree := map[string]interface{}{
		"regions": []interface{}{
			map[string]interface{}{"name": "a"},
		},
		"states": []interface{}{
			map[string]interface{}{
				"name": "s",
				"transitions": []interface{}{
					map[string]interface{}{
						"event":     map[string]interface{}{"type": "press"},
						"nextState": "t",
					},
				},
			},
			map[string]interface{}{"name": "t"},
		},
	}
	m := Build(tree, core.WithDiag(core.Discard))
	if got := m.State("s").Transitions[0].On.Region; got != core.Wildcard {
		t.Fatal(got)
	}
	if fx := m.ActOnEvent(core.EventPress, m.Region("a")); fx.To != "t" {
		t.Fatalf("%#v", fx)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	tree, err := ReadFile("testdata/checkbox.json")
	if err != nil {
		t.Fatal(err)
	}
	m := Build(tree, core.WithDiag(core.Discard))
	again := Build(Tree(m), core.WithDiag(core.Discard))

	if errs := again.ConfigErrors(); len(errs) != 0 {
		t.Fatal(errs)
	}
	if m.DebugString() != again.DebugString() {
		t.Fatalf("\n%s\n!=\n%s", m.DebugString(), again.DebugString())
	}
	if again.Doc != m.Doc {
		t.Fatal(again.Doc)
	}
}
