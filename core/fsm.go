/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

package core

import (
	"errors"
	"strings"
)

// FSM is a widget state machine: Regions, States, and the current
// State.
//
// The FSM owns its Regions.  Over the life of an FSM, only two things
// change: the current State (by ActOnEvent) and the Regions' images
// (by Actions executed by ActOnEvent, and by Restore).
//
// Not safe for concurrent use.
type FSM struct {
	// Name is an optional name for this machine.  Only used for
	// documentation and diagnostics.
	Name string

	// Doc is optional documentation.
	Doc string

	regions []*Region
	states  []*State

	// index is built by Bind.
	index  RegionIndex
	byName map[string]*State

	current *State

	diag         Diag
	configErrors []error

	// earlier holds errors given by WithErrors.
	earlier []error
}

// Option configures an FSM.
type Option func(*FSM)

// WithDiag sets the FSM's Diag.  The default Diag is a LogDiag that
// uses Logger.
func WithDiag(d Diag) Option {
	return func(m *FSM) {
		if d != nil {
			m.diag = d
		}
	}
}

// WithName sets the FSM's Name.
func WithName(name string) Option {
	return func(m *FSM) {
		m.Name = name
	}
}

// WithDoc sets the FSM's Doc.
func WithDoc(doc string) Option {
	return func(m *FSM) {
		m.Doc = doc
	}
}

// WithErrors gives New configuration errors that were found before
// the FSM was built (say, while parsing a configuration).  New reports
// them along with its own.
func WithErrors(errs ...error) Option {
	return func(m *FSM) {
		m.earlier = append(m.earlier, errs...)
	}
}

// New makes an FSM from the given Regions and States.
//
// The first State is the initial State.  After the FSM is assembled,
// every Action is bound to the Regions.
//
// New does not fail.  Configuration errors (duplicate names, no
// States, Actions that name unknown Regions) are reported to the
// FSM's Diag and are available from ConfigErrors.
func New(regions []*Region, states []*State, opts ...Option) *FSM {
	m := &FSM{
		regions: make([]*Region, 0, len(regions)),
		states:  make([]*State, 0, len(states)),
		byName:  make(map[string]*State, len(states)),
		diag:    &LogDiag{},
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, err := range m.earlier {
		m.report(err)
	}
	m.earlier = nil

	for _, r := range regions {
		if r != nil {
			m.regions = append(m.regions, r)
		}
	}

	for _, s := range states {
		if s == nil {
			continue
		}
		if _, have := m.byName[s.Name]; have {
			m.report(&DuplicateState{s.Name})
			continue
		}
		m.byName[s.Name] = s
		m.states = append(m.states, s)
	}

	if len(m.states) == 0 {
		m.report(ErrNoStates)
	} else {
		m.current = m.states[0]
	}

	m.Bind()

	return m
}

func (m *FSM) report(err error) {
	m.configErrors = append(m.configErrors, err)
	m.diag.Error(err)
}

// Bind (re)binds every Action of every Transition of every State to
// this FSM's Regions.
//
// New calls Bind.  Calling Bind again is harmless.  The returned
// error (if any) joins the binding errors, which have also been
// reported.
func (m *FSM) Bind() error {
	index, dups := NewRegionIndex(m.regions)
	m.index = index

	var errs []error
	for _, r := range dups {
		errs = append(errs, &DuplicateRegion{r.Name})
	}

	for _, s := range m.states {
		for _, t := range s.Transitions {
			if t == nil {
				continue
			}
			errs = append(errs, t.bind(index)...)
		}
	}

	for _, err := range errs {
		m.report(err)
	}

	return errors.Join(errs...)
}

// ConfigErrors returns every configuration error reported so far.
func (m *FSM) ConfigErrors() []error {
	acc := make([]error, len(m.configErrors))
	copy(acc, m.configErrors)
	return acc
}

// Diag returns this FSM's Diag.
func (m *FSM) Diag() Diag {
	return m.diag
}

// CurrentState returns the name of the current State.  Returns the
// empty string only when the FSM has no States.
func (m *FSM) CurrentState() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name
}

// Current returns the current State (nil only when the FSM has no
// States).
func (m *FSM) Current() *State {
	return m.current
}

// Region returns the Region with the given name (or nil).
func (m *FSM) Region(name string) *Region {
	return m.index[name]
}

// Image returns the current image location for the named Region.
func (m *FSM) Image(name string) (string, bool) {
	r, have := m.index[name]
	if !have {
		return "", false
	}
	return r.ImageLoc, true
}

// Regions returns the FSM's Regions in declaration order.
//
// The Regions themselves are shared, not copied.  Callers should not
// change them.
func (m *FSM) Regions() []*Region {
	acc := make([]*Region, len(m.regions))
	copy(acc, m.regions)
	return acc
}

// States returns the FSM's States in declaration order.
func (m *FSM) States() []*State {
	acc := make([]*State, len(m.states))
	copy(acc, m.states)
	return acc
}

// State returns the State with the given name (or nil).
func (m *FSM) State(name string) *State {
	return m.byName[name]
}

// DebugString renders the whole FSM for humans.  Actions whose
// Region didn't bind are marked "unbound".
func (m *FSM) DebugString() string {
	var b strings.Builder
	b.WriteString("FSM")
	if m.Name != "" {
		b.WriteString(" ")
		b.WriteString(m.Name)
	}
	b.WriteString(" (current ")
	b.WriteString(m.CurrentState())
	b.WriteString(")\n")
	writeIndent(&b, 1)
	b.WriteString("regions\n")
	for _, r := range m.regions {
		writeIndent(&b, 2)
		b.WriteString(r.Name)
		if r.ImageLoc != "" {
			b.WriteString(" ")
			b.WriteString(r.ImageLoc)
		}
		b.WriteString("\n")
	}
	for _, s := range m.states {
		s.debug(&b, 1)
	}
	return b.String()
}

func (m *FSM) String() string {
	if m.Name == "" {
		return "fsm@" + m.CurrentState()
	}
	return m.Name + "@" + m.CurrentState()
}
