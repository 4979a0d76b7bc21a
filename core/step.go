package core

import (
	"time"
)

// Effects represents everything that happened when an FSM acted on an
// event.
type Effects struct {
	// Event is the type of the event.
	Event EventType `json:"event"`

	// Region is the name of the event's Region (if any).
	Region string `json:"region,omitempty"`

	// Matched reports whether a Transition was taken.
	Matched bool `json:"matched"`

	// From is the name of the State when the event arrived.
	From string `json:"from"`

	// To is the name of the State afterwards.  Same as From when
	// nothing matched or when the Transition's target was unknown.
	To string `json:"to"`

	// Images lists the image changes in the order they happened.
	Images []*ImageChange `json:"images,omitempty"`

	// Printed gathers what print Actions printed.
	Printed []string `json:"printed,omitempty"`

	// Errors gathers errors reported during processing.
	Errors []error `json:"-"`

	// Elapsed is how long processing took.
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

func newEffects(t EventType, r *Region, from string) *Effects {
	fx := &Effects{
		Event: t,
		From:  from,
		To:    from,
	}
	if r != nil {
		fx.Region = r.Name
	}
	return fx
}

// Print makes Effects a Diag.
func (fx *Effects) Print(msg string) {
	fx.Printed = append(fx.Printed, msg)
}

// Error makes Effects a Diag.
func (fx *Effects) Error(err error) {
	fx.Errors = append(fx.Errors, err)
}

// Changed reports whether the state or any image changed.
func (fx *Effects) Changed() bool {
	return fx.From != fx.To || 0 < len(fx.Images)
}

// ActOnEvent delivers an event to the FSM.
//
// The given Region, which can be nil, is the Region the event
// targets.
//
// The first Transition of the current State that matches the event is
// taken: its Actions are executed in order, and then the FSM moves to
// the Transition's target State.  If the target isn't a known State,
// an *UnknownState is reported and the current State doesn't change.
// If no Transition matches, nothing happens at all.
//
// ActOnEvent never fails.  The returned Effects report what happened.
func (m *FSM) ActOnEvent(t EventType, r *Region) *Effects {
	then := time.Now()

	fx := newEffects(t, r, m.CurrentState())
	defer func() {
		fx.Elapsed = time.Since(then)
	}()

	if m.current == nil {
		return fx
	}

	tr := m.current.Find(t, r)
	if tr == nil {
		return fx
	}
	fx.Matched = true

	d := Tee(m.diag, fx)
	for _, a := range tr.Actions {
		if a == nil {
			continue
		}
		if c := a.Exec(t, r, d); c != nil {
			fx.Images = append(fx.Images, c)
		}
	}

	next, have := m.byName[tr.Target]
	if !have {
		err := &UnknownState{
			From:      m.current.Name,
			StateName: tr.Target,
		}
		d.Error(err)
		return fx
	}

	m.current = next
	fx.To = next.Name

	return fx
}
