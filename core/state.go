package core

import (
	"strings"
)

// Transition is a possible move from one State to another.
type Transition struct {
	// On is the EventSpec that triggers this Transition.
	On EventSpec `json:"event"`

	// Target is the name of the next State.  The FSM resolves the
	// name when the Transition is taken.
	Target string `json:"nextState"`

	// Actions are executed in order when this Transition is taken.
	Actions []*Action `json:"actions"`
}

// NewTransition makes a Transition.
func NewTransition(target string, on EventSpec, actions ...*Action) *Transition {
	return &Transition{
		On:      on,
		Target:  target,
		Actions: actions,
	}
}

// Matches reports whether this Transition applies to the given
// event.
func (t *Transition) Matches(et EventType, r *Region) bool {
	return t.On.Matches(et, r)
}

// bind binds each Action, returning the errors (if any).
func (t *Transition) bind(index RegionIndex) []error {
	var errs []error
	for _, a := range t.Actions {
		if a == nil {
			continue
		}
		if err := a.Bind(index); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (t *Transition) debug(b *strings.Builder, indent int) {
	writeIndent(b, indent)
	b.WriteString(t.On.String())
	b.WriteString(" -> ")
	b.WriteString(t.Target)
	b.WriteString("\n")
	for _, a := range t.Actions {
		if a == nil {
			continue
		}
		a.debug(b, indent+1)
		b.WriteString("\n")
	}
}

// State is a named, ordered list of Transitions.
//
// The order of the Transitions is their priority: the first one that
// matches an event wins.
type State struct {
	Name        string        `json:"name"`
	Doc         string        `json:"doc,omitempty" yaml:",omitempty"`
	Transitions []*Transition `json:"transitions"`
}

// NewState makes a State.
func NewState(name string, transitions ...*Transition) *State {
	return &State{
		Name:        name,
		Transitions: transitions,
	}
}

// Find returns the first Transition that matches the event (or nil).
func (s *State) Find(t EventType, r *Region) *Transition {
	for _, tr := range s.Transitions {
		if tr != nil && tr.Matches(t, r) {
			return tr
		}
	}
	return nil
}

// Terminal reports whether this State has no Transitions.
func (s *State) Terminal() bool {
	return len(s.Transitions) == 0
}

func (s *State) debug(b *strings.Builder, indent int) {
	writeIndent(b, indent)
	b.WriteString("state ")
	b.WriteString(s.Name)
	b.WriteString("\n")
	for _, t := range s.Transitions {
		if t == nil {
			continue
		}
		t.debug(b, indent+1)
	}
}
