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

package sio

import (
	"context"
	"fmt"
	"log"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/storage"
)

// Host is a collection of named widgets (Interactors and
// RadioGroups) with I/O coupled via Couplings.
//
// FSMs aren't safe for concurrent use, so all processing happens on
// the goroutine that runs Loop.  Use Do to do something else on that
// goroutine.
type Host struct {
	// Storage, if not nil, persists a snapshot of each widget's
	// FSM after each Input that changed it.
	Storage storage.Storage

	// Metrics can be nil.
	Metrics *Metrics

	// Verbose turns on logging.
	Verbose bool

	widgets map[string]*Interactor
	order   []string
	groups  map[string]*RadioGroup
	grouped map[string]string

	ops chan func()
}

// NewHost makes an empty Host.
func NewHost() *Host {
	return &Host{
		widgets: make(map[string]*Interactor),
		groups:  make(map[string]*RadioGroup),
		grouped: make(map[string]string),
		ops:     make(chan func()),
	}
}

// Logf logs if h.Verbose.
func (h *Host) Logf(format string, args ...interface{}) {
	if !h.Verbose {
		return
	}
	log.Printf(format, args...)
}

// Add adds a named Interactor.
func (h *Host) Add(name string, i *Interactor) error {
	if _, have := h.widgets[name]; have {
		return fmt.Errorf("duplicate widget %q", name)
	}
	if _, have := h.groups[name]; have {
		return fmt.Errorf("widget %q is already a group", name)
	}
	h.widgets[name] = i
	h.order = append(h.order, name)
	h.Metrics.ConfigErrors(name, i.FSM)
	return nil
}

// Widget returns the named Interactor (or nil).
func (h *Host) Widget(name string) *Interactor {
	return h.widgets[name]
}

// Names returns the widget names in the order they were added.
func (h *Host) Names() []string {
	acc := make([]string, len(h.order))
	copy(acc, h.order)
	return acc
}

// Group makes a RadioGroup from the named widgets, which must have
// been added already.
//
// Pointer input for every widget goes through the group.
func (h *Host) Group(name string, members ...string) (*RadioGroup, error) {
	if _, have := h.widgets[name]; have {
		return nil, fmt.Errorf("group %q is already a widget", name)
	}
	if _, have := h.groups[name]; have {
		return nil, fmt.Errorf("duplicate group %q", name)
	}
	g := NewRadioGroup()
	for _, member := range members {
		i, have := h.widgets[member]
		if !have {
			return nil, fmt.Errorf("group %q member %q isn't a widget", name, member)
		}
		if other, have := h.grouped[member]; have {
			return nil, fmt.Errorf("widget %q is already in group %q", member, other)
		}
		g.Options = append(g.Options, i)
	}
	for _, member := range members {
		h.grouped[member] = name
	}
	h.groups[name] = g
	return g, nil
}

// Replace replaces the named widget's FSM.  The new FSM gets the old
// FSM's snapshot (as far as that makes sense).
func (h *Host) Replace(name string, m *core.FSM) error {
	i, have := h.widgets[name]
	if !have {
		return fmt.Errorf("no widget %q", name)
	}
	m.Restore(i.FSM.Snapshot())
	// Region pointers from the old FSM are stale.
	i.under = nil
	i.FSM = m
	h.Metrics.ConfigErrors(name, m)
	return nil
}

// Restore restores every widget from Storage.
func (h *Host) Restore(ctx context.Context) error {
	if h.Storage == nil {
		return nil
	}
	for _, name := range h.order {
		snap, err := h.Storage.Get(ctx, name)
		if err != nil {
			return err
		}
		if snap == nil {
			continue
		}
		h.Logf("restoring %s to %s", name, snap.State)
		// Problems are reported to the FSM's Diag.
		h.widgets[name].FSM.Restore(snap)
	}
	return nil
}

// Do runs the given function on the Loop goroutine and waits for it
// to finish.
func (h *Host) Do(ctx context.Context, f func(*Host)) error {
	done := make(chan struct{})
	op := func() {
		f(h)
		close(done)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case h.ops <- op:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Loop processes Inputs from the Couplings until the context is done
// or the Couplings' input is exhausted.
func (h *Host) Loop(ctx context.Context, couplings Couplings) error {
	in, out, done, err := couplings.IO(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			h.Logf("input done")
			return nil
		case op := <-h.ops:
			op()
		case input := <-in:
			if input == nil {
				continue
			}
			output := h.Process(ctx, input)
			// Input can end while this Output is pending, so
			// only the context can abandon it.
			select {
			case <-ctx.Done():
				return nil
			case out <- output:
			}
		}
	}
}

// Process handles a single Input.
//
// Only call Process from the Loop goroutine (if Loop is running).
func (h *Host) Process(ctx context.Context, input *Input) *Output {
	h.Logf("Process %s", JShort(input, 100))

	output := &Output{
		Id:      input.Id,
		Effects: make(map[string][]*core.Effects),
	}

	targets, err := h.targets(input)
	if err != nil {
		output.errorf(err)
		return output
	}

	switch {
	case input.Pointer != "":
		for _, name := range targets {
			var (
				fxs []*core.Effects
				err error
			)
			if g, have := h.groups[name]; have {
				fxs, err = g.Pointer(input.Pointer, input.X, input.Y)
			} else {
				fxs, err = h.widgets[name].Pointer(input.Pointer, input.X, input.Y)
			}
			if err != nil {
				output.errorf(err)
				return output
			}
			h.record(output, name, fxs...)
		}

	case input.Event != "":
		if _, ok := core.ParseEventType(string(input.Event)); !ok {
			output.errorf(fmt.Errorf("unknown event type %q", string(input.Event)))
			return output
		}
		name := targets[0]
		i, have := h.widgets[name]
		if !have {
			output.errorf(fmt.Errorf("can't deliver an event to group %q", name))
			return output
		}
		h.record(output, name, i.Deliver(input.Event, input.Region))

	case input.Cmd != "":
		if err := h.command(output, input.Cmd, targets); err != nil {
			output.errorf(err)
			return output
		}

	default:
		output.errorf(fmt.Errorf("empty input"))
		return output
	}

	output.States = h.states()

	if err := h.persist(ctx, output); err != nil {
		output.errorf(err)
	}

	return output
}

// targets returns the names of the widgets (or groups) that should get
// the Input.
func (h *Host) targets(input *Input) ([]string, error) {
	if input.Widget != "" {
		_, isWidget := h.widgets[input.Widget]
		_, isGroup := h.groups[input.Widget]
		if !isWidget && !isGroup {
			return nil, fmt.Errorf("unknown widget %q", input.Widget)
		}
		if input.Pointer != "" {
			if g, have := h.grouped[input.Widget]; have {
				return []string{g}, nil
			}
		}
		return []string{input.Widget}, nil
	}

	if len(h.order) == 0 {
		return nil, fmt.Errorf("no widgets")
	}

	if input.Pointer == "" {
		return h.order[:1], nil
	}

	acc := make([]string, 0, len(h.order))
	seen := make(map[string]bool, len(h.groups))
	for _, name := range h.order {
		if g, have := h.grouped[name]; have {
			if !seen[g] {
				seen[g] = true
				acc = append(acc, g)
			}
			continue
		}
		acc = append(acc, name)
	}
	return acc, nil
}

// record adds Effects to the Output.  Effects from a group are
// attributed to the member whose FSM has the event's Region, so the
// members' Regions should have distinct names.
func (h *Host) record(output *Output, name string, fxs ...*core.Effects) {
	for _, fx := range fxs {
		owner := h.owner(name, fx)
		output.Effects[owner] = append(output.Effects[owner], fx)
		h.Metrics.Observe(owner, fx)
		for _, err := range fx.Errors {
			output.errorf(err)
		}
	}
}

func (h *Host) owner(name string, fx *core.Effects) string {
	if _, have := h.groups[name]; !have || fx.Region == "" {
		return name
	}
	for _, member := range h.order {
		if h.grouped[member] == name && h.widgets[member].FSM.Region(fx.Region) != nil {
			return member
		}
	}
	return name
}

func (h *Host) states() map[string]string {
	acc := make(map[string]string, len(h.widgets))
	for name, i := range h.widgets {
		acc[name] = i.FSM.CurrentState()
	}
	return acc
}

func (h *Host) members(targets []string) []string {
	var acc []string
	for _, name := range targets {
		if _, have := h.groups[name]; !have {
			acc = append(acc, name)
			continue
		}
		for _, member := range h.order {
			if h.grouped[member] == name {
				acc = append(acc, member)
			}
		}
	}
	return acc
}

func (h *Host) command(output *Output, cmd string, targets []string) error {
	names := h.members(targets)
	switch cmd {
	case "states":
	case "view":
		output.View = make(map[string][]RegionView, len(names))
		for _, name := range names {
			output.View[name] = h.widgets[name].View()
		}
	case "debug":
		output.Debug = make(map[string]string, len(names))
		for _, name := range names {
			output.Debug[name] = h.widgets[name].FSM.DebugString()
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// persist writes snapshots for the widgets that changed.
func (h *Host) persist(ctx context.Context, output *Output) error {
	if h.Storage == nil {
		return nil
	}
	for name, fxs := range output.Effects {
		i, have := h.widgets[name]
		if !have {
			continue
		}
		changed := false
		for _, fx := range fxs {
			if fx.Changed() {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}
		if err := h.Storage.Put(ctx, name, i.FSM.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}
