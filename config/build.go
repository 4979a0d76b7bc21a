/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config builds FSMs from loosely typed configuration trees
// (typically parsed from JSON or YAML).
//
// A configuration looks like
//
//	{
//	  "name": "checkbox",
//	  "regions": [
//	    {"name": "box", "imageLoc": "unchecked.png", "x": 0, "y": 0, "width": 50, "height": 50}
//	  ],
//	  "states": [
//	    {"name": "unchecked",
//	     "transitions": [
//	       {"event": {"type": "press", "region": "*"},
//	        "nextState": "checked",
//	        "actions": [{"act": "set_image", "region": "box", "param": "checked.png"}]}]},
//	    {"name": "checked", "transitions": [...]}
//	  ]
//	}
//
// The first state is the initial state.  Width and height default to
// -1, which means natural size.
//
// Building is forgiving.  A value with the wrong type is replaced by a
// default (an unknown action becomes "none", an unknown event type
// becomes "nevermatch"), and each such problem is reported as a
// *CoercionError.
package config

import (
	"strconv"

	"github.com/Comcast/wfsm/core"
)

// Build makes an FSM from a configuration tree.
//
// Problems with the tree are reported, along with the FSM's own
// configuration errors, to the Diag given by core.WithDiag (if any),
// and the FSM is built anyway.  core.New performs the binding pass.
func Build(tree interface{}, opts ...core.Option) *core.FSM {
	var (
		rec = &core.Recorder{}
		c   = NewChecker(rec)
		top = c.Object(tree, "top")

		regions = buildRegions(c, top["regions"])
		states  = buildStates(c, top["states"])
		acc     []core.Option
	)

	if name := c.String(top["name"], "", "name"); name != "" {
		acc = append(acc, core.WithName(name))
	}
	if doc := c.String(top["doc"], "", "doc"); doc != "" {
		acc = append(acc, core.WithDoc(doc))
	}
	acc = append(acc, opts...)
	acc = append(acc, core.WithErrors(rec.Errors...))

	return core.New(regions, states, acc...)
}

func at(where string, i int) string {
	return where + "[" + strconv.Itoa(i) + "]"
}

func buildRegions(c *Checker, x interface{}) []*core.Region {
	xs := c.List(x, "regions")
	acc := make([]*core.Region, 0, len(xs))
	for i, x := range xs {
		where := at("regions", i)
		m := c.Object(x, where)
		if m == nil {
			continue
		}
		acc = append(acc, &core.Region{
			Name:     c.String(m["name"], "", where+".name"),
			ImageLoc: c.String(m["imageLoc"], "", where+".imageLoc"),
			X:        c.Number(m["x"], 0, where+".x"),
			Y:        c.Number(m["y"], 0, where+".y"),
			Width:    c.Number(m["width"], core.NaturalSize, where+".width"),
			Height:   c.Number(m["height"], core.NaturalSize, where+".height"),
		})
	}
	return acc
}

func buildStates(c *Checker, x interface{}) []*core.State {
	xs := c.List(x, "states")
	acc := make([]*core.State, 0, len(xs))
	for i, x := range xs {
		where := at("states", i)
		m := c.Object(x, where)
		if m == nil {
			continue
		}
		s := &core.State{
			Name: c.String(m["name"], "", where+".name"),
			Doc:  c.String(m["doc"], "", where+".doc"),
		}
		ts := c.List(m["transitions"], where+".transitions")
		for j, t := range ts {
			if tr := buildTransition(c, t, at(where+".transitions", j)); tr != nil {
				s.Transitions = append(s.Transitions, tr)
			}
		}
		acc = append(acc, s)
	}
	return acc
}

var (
	eventTypeNames  = names(core.EventTypes)
	actionTypeNames = names(core.ActionTypes)
)

func names[T ~string](xs []T) []string {
	acc := make([]string, len(xs))
	for i, x := range xs {
		acc[i] = string(x)
	}
	return acc
}

func buildTransition(c *Checker, x interface{}, where string) *core.Transition {
	m := c.Object(x, where)
	if m == nil {
		return nil
	}

	ev := c.Object(m["event"], where+".event")
	t := &core.Transition{
		On: core.NewEventSpec(
			core.EventType(c.OneOf(ev["type"], eventTypeNames, string(core.EventNeverMatch), where+".event.type")),
			c.String(ev["region"], core.Wildcard, where+".event.region")),
		Target: c.String(m["nextState"], "", where+".nextState"),
	}

	as := c.List(m["actions"], where+".actions")
	for i, a := range as {
		if action := buildAction(c, a, at(where+".actions", i)); action != nil {
			t.Actions = append(t.Actions, action)
		}
	}
	return t
}

func buildAction(c *Checker, x interface{}, where string) *core.Action {
	m := c.Object(x, where)
	if m == nil {
		return nil
	}
	return core.NewAction(
		core.ActionType(c.OneOf(m["act"], actionTypeNames, string(core.ActNone), where+".act")),
		c.String(m["region"], "", where+".region"),
		c.String(m["param"], "", where+".param"))
}
