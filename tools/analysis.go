/* Copyright 2018 Comcast Cable Communications Management, LLC
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

package tools

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Comcast/wfsm/core"
)

// Analysis is a static report about an FSM's structure.
//
// Transitions are identified as "state[i]" (0-based).
type Analysis struct {
	Name string `json:"name,omitempty"`

	Regions     int `json:"regions"`
	States      int `json:"states"`
	Transitions int `json:"transitions"`
	Actions     int `json:"actions"`

	// Errors are the FSM's configuration errors.
	Errors []string `json:"errors,omitempty"`

	Initial string `json:"initial"`

	// TerminalStates have no transitions.
	TerminalStates []string `json:"terminalStates,omitempty"`

	// Orphans are states (other than the initial state) that no
	// transition targets.
	Orphans []string `json:"orphans,omitempty"`

	// Unreachable states can't be reached from the initial state.
	Unreachable []string `json:"unreachable,omitempty"`

	// MissingTargets are transition targets that aren't states.
	MissingTargets []string `json:"missingTargets,omitempty"`

	// UnboundActions need a region that doesn't exist.
	UnboundActions []string `json:"unboundActions,omitempty"`

	// NeverMatch transitions have the nevermatch event type.
	NeverMatch []string `json:"neverMatch,omitempty"`

	// Shadowed transitions can't fire because an earlier
	// transition in the same state matches everything they match.
	Shadowed []string `json:"shadowed,omitempty"`

	// EventTypes are the event types that some transition
	// mentions.
	EventTypes []string `json:"eventTypes,omitempty"`

	// Images are the image locations mentioned by regions and
	// set_image actions.
	Images []string `json:"images,omitempty"`
}

// Analyze examines the FSM without changing it.
func Analyze(m *core.FSM) (*Analysis, error) {
	if m == nil {
		return nil, errors.New("no FSM")
	}

	states := m.States()
	regions := m.Regions()

	a := &Analysis{
		Name:    m.Name,
		Regions: len(regions),
		States:  len(states),
		Initial: m.CurrentState(),
	}
	if 0 < len(states) {
		a.Initial = states[0].Name
	}

	for _, err := range m.ConfigErrors() {
		a.Errors = append(a.Errors, err.Error())
	}

	var (
		targeted  = make(map[string]bool)
		missing   = make(map[string]bool)
		eventTags = make(map[string]bool)
		images    = make(map[string]bool)
	)

	for _, r := range regions {
		if r.ImageLoc != "" {
			images[r.ImageLoc] = true
		}
	}

	for _, s := range states {
		if s.Terminal() {
			a.TerminalStates = append(a.TerminalStates, s.Name)
		}
		for i, t := range s.Transitions {
			if t == nil {
				continue
			}
			id := fmt.Sprintf("%s[%d]", s.Name, i)
			a.Transitions++
			targeted[t.Target] = true
			eventTags[string(t.On.Type)] = true

			if m.State(t.Target) == nil {
				missing[t.Target] = true
			}
			if t.On.Type == core.EventNeverMatch {
				a.NeverMatch = append(a.NeverMatch, id)
			} else if j := shadowedBy(s, i); 0 <= j {
				a.Shadowed = append(a.Shadowed, fmt.Sprintf("%s by %s[%d]", id, s.Name, j))
			}

			for _, act := range t.Actions {
				if act == nil {
					continue
				}
				a.Actions++
				if !act.Bound() {
					a.UnboundActions = append(a.UnboundActions,
						fmt.Sprintf("%s %s %s", id, act.Act, act.RegionName))
				}
				if act.Act == core.ActSetImage && act.Param != "" {
					images[act.Param] = true
				}
			}
		}
	}

	for _, s := range states {
		if s.Name != a.Initial && !targeted[s.Name] {
			a.Orphans = append(a.Orphans, s.Name)
		}
	}

	reachable := reach(m, a.Initial)
	for _, s := range states {
		if !reachable[s.Name] {
			a.Unreachable = append(a.Unreachable, s.Name)
		}
	}

	a.MissingTargets = keys(missing)
	a.EventTypes = keys(eventTags)
	a.Images = keys(images)

	return a, nil
}

// shadowedBy returns the index of the first transition before the ith
// one that matches every event the ith one matches, or -1.
func shadowedBy(s *core.State, i int) int {
	t := s.Transitions[i]
	for j := 0; j < i; j++ {
		u := s.Transitions[j]
		if u == nil {
			continue
		}
		typeCovers := u.On.Type == core.EventAny || u.On.Type == t.On.Type
		regionCovers := u.On.Region == core.Wildcard || u.On.Region == t.On.Region
		if typeCovers && regionCovers {
			return j
		}
	}
	return -1
}

// reach returns the names of the states reachable from the named
// one.
func reach(m *core.FSM, from string) map[string]bool {
	seen := make(map[string]bool)
	if m.State(from) == nil {
		return seen
	}
	pending := []string{from}
	seen[from] = true
	for 0 < len(pending) {
		s := m.State(pending[0])
		pending = pending[1:]
		for _, t := range s.Transitions {
			if t == nil || seen[t.Target] || m.State(t.Target) == nil {
				continue
			}
			seen[t.Target] = true
			pending = append(pending, t.Target)
		}
	}
	return seen
}

func keys(m map[string]bool) []string {
	acc := make([]string, 0, len(m))
	for k := range m {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}
