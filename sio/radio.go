package sio

import (
	"github.com/Comcast/wfsm/core"
)

// RadioGroup couples Interactors whose FSMs are radio options (see
// widgets.RadioOption) so that at most one option is selected.
//
// When an option becomes selected, every other selected option is
// deselected by delivering a "press" on its own Region.  Pressing an
// option that's already selected does nothing.
type RadioGroup struct {
	Options []*Interactor

	// SelectedState is the name of the options' selected State.
	SelectedState string
}

// NewRadioGroup makes a RadioGroup with the given options.
func NewRadioGroup(options ...*Interactor) *RadioGroup {
	return &RadioGroup{
		Options:       options,
		SelectedState: "selected",
	}
}

func (g *RadioGroup) selected(i *Interactor) bool {
	return i.FSM.CurrentState() == g.SelectedState
}

// Selected returns the index of the selected option or -1 when
// nothing is selected.
func (g *RadioGroup) Selected() int {
	for n, i := range g.Options {
		if g.selected(i) {
			return n
		}
	}
	return -1
}

// Pointer gives the raw pointer input to every option and then
// deselects the others if an option became selected.
func (g *RadioGroup) Pointer(kind PointerKind, px, py float64) ([]*core.Effects, error) {
	var (
		acc    []*core.Effects
		picked = -1
	)
	for n, i := range g.Options {
		var (
			fxs []*core.Effects
			err error
		)
		if kind == PointerPress && g.selected(i) && i.Hit(px, py) {
			// Already selected.
			fxs = i.Track(px, py)
		} else {
			was := g.selected(i)
			if fxs, err = i.Pointer(kind, px, py); err != nil {
				return acc, err
			}
			if !was && g.selected(i) {
				picked = n
			}
		}
		acc = append(acc, fxs...)
	}

	if 0 <= picked {
		acc = append(acc, g.deselectExcept(picked)...)
	}

	return acc, nil
}

// Select selects the nth option (if it isn't already selected) and
// deselects the others.
func (g *RadioGroup) Select(n int) []*core.Effects {
	if n < 0 || len(g.Options) <= n {
		return nil
	}
	var acc []*core.Effects
	if i := g.Options[n]; !g.selected(i) {
		acc = append(acc, g.press(i))
	}
	return append(acc, g.deselectExcept(n)...)
}

func (g *RadioGroup) deselectExcept(n int) []*core.Effects {
	var acc []*core.Effects
	for m, i := range g.Options {
		if m != n && g.selected(i) {
			acc = append(acc, g.press(i))
		}
	}
	return acc
}

// press delivers a press on the option's first Region.
func (g *RadioGroup) press(i *Interactor) *core.Effects {
	var r *core.Region
	if rs := i.FSM.Regions(); 0 < len(rs) {
		r = rs[0]
	}
	return i.FSM.ActOnEvent(core.EventPress, r)
}
