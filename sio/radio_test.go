package sio

import (
	"testing"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/widgets"
)

func radioGroup(n int) *RadioGroup {
	g := NewRadioGroup()
	for _, m := range widgets.RadioOptions(n, 0, 0, core.WithDiag(core.Discard)) {
		g.Options = append(g.Options, NewInteractor(m, 0, 0))
	}
	return g
}

func TestRadioGroupPointer(t *testing.T) {
	g := radioGroup(3)

	if g.Selected() != -1 {
		t.Fatal(g.Selected())
	}

	// Options are 100x100 and 120 apart.
	press := func(n int) {
		y := float64(n)*120 + 50
		if _, err := g.Pointer(PointerPress, 50, y); err != nil {
			t.Fatal(err)
		}
		if _, err := g.Pointer(PointerRelease, 50, y); err != nil {
			t.Fatal(err)
		}
	}

	press(1)
	if g.Selected() != 1 {
		t.Fatal(g.Selected())
	}

	press(2)
	if g.Selected() != 2 {
		t.Fatal(g.Selected())
	}
	if img, _ := g.Options[1].FSM.Image("option2"); img != widgets.UncheckedImage {
		t.Fatal(img)
	}
	if img, _ := g.Options[2].FSM.Image("option3"); img != widgets.CheckedImage {
		t.Fatal(img)
	}

	// Pressing the selected option again does nothing.
	press(2)
	if g.Selected() != 2 {
		t.Fatal(g.Selected())
	}

	// Pressing between options does nothing.
	if _, err := g.Pointer(PointerPress, 50, 110); err != nil {
		t.Fatal(err)
	}
	if g.Selected() != 2 {
		t.Fatal(g.Selected())
	}

	selected := 0
	for _, i := range g.Options {
		if i.FSM.CurrentState() == "selected" {
			selected++
		}
	}
	if selected != 1 {
		t.Fatal(selected)
	}
}

func TestRadioGroupSelect(t *testing.T) {
	g := radioGroup(4)

	fxs := g.Select(0)
	if len(fxs) != 1 || g.Selected() != 0 {
		t.Fatal(fxs, g.Selected())
	}

	fxs = g.Select(3)
	if len(fxs) != 2 || g.Selected() != 3 {
		t.Fatal(fxs, g.Selected())
	}
	if g.Options[0].FSM.CurrentState() != "deselected" {
		t.Fatal(g.Options[0].FSM.CurrentState())
	}

	if fxs = g.Select(3); len(fxs) != 0 {
		t.Fatal(fxs)
	}
	if fxs = g.Select(7); fxs != nil {
		t.Fatal(fxs)
	}
}
