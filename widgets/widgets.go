// Package widgets makes some common widgets as FSMs.
//
// These widgets are useful for demos, for tests, and as examples of
// how to put an FSM together in code.  See package config for doing
// the same thing with JSON or YAML.
package widgets

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Comcast/wfsm/core"
)

// Image locations used by the widgets.
var (
	CheckedImage   = "./images/checkbox.png"
	UncheckedImage = "./images/uncheckbox.png"

	NormalImage    = "./images/normal.png"
	HighlightImage = "./images/highlight.png"
	PressedImage   = "./images/pressed.png"

	SwitchOnImage  = "./images/switch_on.png"
	SwitchOffImage = "./images/switch_off.png"
)

func act(a core.ActionType, region, param string) *core.Action {
	return core.NewAction(a, region, param)
}

func on(t core.EventType, region string) core.EventSpec {
	return core.NewEventSpec(t, region)
}

// Checkbox makes a checkbox with a single Region with the given name.
//
// States are "unchecked" (initial) and "checked".  A press anywhere
// toggles.
func Checkbox(name string, x, y float64, opts ...core.Option) *core.FSM {
	box := &core.Region{
		Name:     name,
		ImageLoc: UncheckedImage,
		X:        x,
		Y:        y,
		Width:    100,
		Height:   100,
	}

	unchecked := core.NewState("unchecked",
		core.NewTransition("checked", on(core.EventPress, core.Wildcard),
			act(core.ActPrintEvent, "", "checkbox checked"),
			act(core.ActSetImage, name, CheckedImage)))

	checked := core.NewState("checked",
		core.NewTransition("unchecked", on(core.EventPress, core.Wildcard),
			act(core.ActPrintEvent, "", "checkbox unchecked"),
			act(core.ActSetImage, name, UncheckedImage)))

	opts = append([]core.Option{core.WithName("checkbox")}, opts...)

	return core.New([]*core.Region{box}, []*core.State{unchecked, checked}, opts...)
}

// ToggleSwitch makes a switch that's "off" (initially) or "on".
func ToggleSwitch(name string, x, y float64, opts ...core.Option) *core.FSM {
	sw := &core.Region{
		Name:     name,
		ImageLoc: SwitchOffImage,
		X:        x,
		Y:        y,
		Width:    300,
		Height:   120,
	}

	off := core.NewState("off",
		core.NewTransition("on", on(core.EventPress, core.Wildcard),
			act(core.ActPrintEvent, "", "switch on"),
			act(core.ActSetImage, name, SwitchOnImage)))

	onState := core.NewState("on",
		core.NewTransition("off", on(core.EventPress, core.Wildcard),
			act(core.ActPrintEvent, "", "switch off"),
			act(core.ActSetImage, name, SwitchOffImage)))

	opts = append([]core.Option{core.WithName("toggle")}, opts...)

	return core.New([]*core.Region{sw}, []*core.State{off, onState}, opts...)
}

// Button makes a push button with States "normal" (initial),
// "highlighted", "pressed", and "armed".
//
// Entering the button highlights it, and exiting returns it to
// normal.  A press on the button presses it.  A release over the
// button is a click (which prints "clicked"), and the button is
// highlighted again.  Leaving a pressed button arms it, and
// re-entering presses it again.  A release while armed cancels the
// press.
func Button(name string, x, y float64, opts ...core.Option) *core.FSM {
	b := &core.Region{
		Name:     name,
		ImageLoc: NormalImage,
		X:        x,
		Y:        y,
		Width:    200,
		Height:   200,
	}

	var (
		printEvent = act(core.ActPrintEvent, "", "button")
		normal     = act(core.ActSetImage, name, NormalImage)
		highlight  = act(core.ActSetImage, name, HighlightImage)
		pressed    = act(core.ActSetImage, name, PressedImage)
		clicked    = act(core.ActPrint, "", "clicked")
	)

	normalState := core.NewState("normal",
		core.NewTransition("highlighted", on(core.EventEnter, core.Wildcard), printEvent, highlight),
		core.NewTransition("pressed", on(core.EventPress, name), printEvent, pressed))

	highlightedState := core.NewState("highlighted",
		core.NewTransition("normal", on(core.EventExit, core.Wildcard), printEvent, normal),
		core.NewTransition("pressed", on(core.EventPress, name), printEvent, pressed))

	pressedState := core.NewState("pressed",
		core.NewTransition("highlighted", on(core.EventRelease, name), printEvent, clicked, highlight),
		core.NewTransition("armed", on(core.EventExit, core.Wildcard), printEvent, normal),
		core.NewTransition("normal", on(core.EventReleaseNone, core.Wildcard), printEvent))

	// Pressed, but the pointer is elsewhere.
	armedState := core.NewState("armed",
		core.NewTransition("pressed", on(core.EventEnter, core.Wildcard), printEvent, pressed),
		core.NewTransition("normal", on(core.EventReleaseNone, core.Wildcard), printEvent),
		core.NewTransition("normal", on(core.EventRelease, core.Wildcard), printEvent))

	opts = append([]core.Option{core.WithName("button")}, opts...)

	return core.New([]*core.Region{b}, []*core.State{normalState, highlightedState, pressedState, armedState}, opts...)
}

// RadioOptionName gives the Region name for the ith (1-based) radio
// option.
func RadioOptionName(i int) string {
	return "option" + strconv.Itoa(i)
}

// RadioOption makes one option of a radio group.  States are
// "deselected" (initial) and "selected", and a press toggles.
//
// An option doesn't know about the other options.  Something else
// (like sio.RadioGroup) needs to deselect the others when one is
// selected.
func RadioOption(i int, x, y float64, opts ...core.Option) *core.FSM {
	name := RadioOptionName(i)
	r := &core.Region{
		Name:     name,
		ImageLoc: UncheckedImage,
		X:        x,
		Y:        y,
		Width:    100,
		Height:   100,
	}

	deselected := core.NewState("deselected",
		core.NewTransition("selected", on(core.EventPress, core.Wildcard),
			act(core.ActSetImage, name, CheckedImage),
			act(core.ActPrint, "", fmt.Sprintf("option %d selected", i))))

	selected := core.NewState("selected",
		core.NewTransition("deselected", on(core.EventPress, core.Wildcard),
			act(core.ActSetImage, name, UncheckedImage),
			act(core.ActPrint, "", fmt.Sprintf("option %d deselected", i))))

	opts = append([]core.Option{core.WithName(name)}, opts...)

	return core.New([]*core.Region{r}, []*core.State{deselected, selected}, opts...)
}

// RadioOptions makes n radio options stacked vertically.
func RadioOptions(n int, x, y float64, opts ...core.Option) []*core.FSM {
	acc := make([]*core.FSM, n)
	for i := range acc {
		acc[i] = RadioOption(i+1, x, y+float64(i)*120, opts...)
	}
	return acc
}

// Echo makes an FSM with a single State and five Regions (one of them
// without an image and one of them of natural size).  Every event loops
// back and prints itself.
func Echo(opts ...core.Option) *core.FSM {
	regions := []*core.Region{
		{Name: "r1", ImageLoc: "./images/one.png", X: 0, Y: 0, Width: 50, Height: 77},
		{Name: "r2", ImageLoc: "./images/two.png", X: 20, Y: 50, Width: core.NaturalSize, Height: 50},
		{Name: "r3", ImageLoc: "./images/three.png", X: 40, Y: 100, Width: 77, Height: 30},
		core.NewRegion("r4", "./images/four.png", 60, 150),
		{Name: "r5", X: 80, Y: 200, Width: 77, Height: 77},
	}

	only := core.NewState("only_state",
		core.NewTransition("only_state", on(core.EventAny, core.Wildcard),
			act(core.ActPrintEvent, "", "evt--->")))

	opts = append([]core.Option{core.WithName("echo")}, opts...)

	return core.New(regions, []*core.State{only}, opts...)
}

// Makers maps widget names to functions that make them at the origin.
var Makers = map[string]func(opts ...core.Option) *core.FSM{
	"checkbox": func(opts ...core.Option) *core.FSM {
		return Checkbox("checkbox", 0, 0, opts...)
	},
	"toggle": func(opts ...core.Option) *core.FSM {
		return ToggleSwitch("toggleSwitch", 0, 0, opts...)
	},
	"button": func(opts ...core.Option) *core.FSM {
		return Button("button", 0, 0, opts...)
	},
	"radio": func(opts ...core.Option) *core.FSM {
		return RadioOption(1, 0, 0, opts...)
	},
	"echo": Echo,
}

// Names returns the sorted names of the Makers.
func Names() []string {
	acc := make([]string, 0, len(Makers))
	for name := range Makers {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

// Make makes the named widget.
func Make(name string, opts ...core.Option) (*core.FSM, error) {
	f, have := Makers[name]
	if !have {
		return nil, fmt.Errorf("unknown widget %q (want one of %q)", name, Names())
	}
	return f(opts...), nil
}
