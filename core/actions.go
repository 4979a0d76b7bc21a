package core

import (
	"strconv"
	"strings"
)

// ActionType is the kind of an Action.
type ActionType string

const (
	// ActSetImage sets the image of the event's region to the
	// Action's parameter.  An empty parameter is the same as
	// ActClearImage.
	ActSetImage ActionType = "set_image"

	// ActClearImage sets the image of the event's region to
	// nothing.
	ActClearImage ActionType = "clear_image"

	// ActNone does nothing.  Bad configurations turn into these.
	ActNone ActionType = "none"

	// ActPrint prints the parameter.
	ActPrint ActionType = "print"

	// ActPrintEvent prints the parameter followed by the event.
	ActPrintEvent ActionType = "print_event"
)

// ActionTypes lists every ActionType.
var ActionTypes = []ActionType{
	ActSetImage,
	ActClearImage,
	ActNone,
	ActPrint,
	ActPrintEvent,
}

// ParseActionType returns the ActionType named by s, if any.
func ParseActionType(s string) (ActionType, bool) {
	for _, a := range ActionTypes {
		if string(a) == s {
			return a, true
		}
	}
	return ActNone, false
}

// NeedsRegion reports whether Actions of this type must name a
// region that exists.
func (a ActionType) NeedsRegion() bool {
	switch a {
	case ActNone, ActPrint, ActPrintEvent:
		return false
	default:
		return true
	}
}

// Action is one side effect of taking a Transition.
type Action struct {
	Act ActionType `json:"act"`

	// RegionName is the name of the region this Action is about.
	// Can be empty for Actions that don't use a region.
	RegionName string `json:"region,omitempty" yaml:"region,omitempty"`

	// Param is the Action's parameter (for example an image
	// location).  Can be empty.
	Param string `json:"param,omitempty" yaml:"param,omitempty"`

	// onRegion is established by Bind.
	onRegion *Region
}

// NewAction makes an unbound Action.
func NewAction(act ActionType, regionName, param string) *Action {
	return &Action{
		Act:        act,
		RegionName: regionName,
		Param:      param,
	}
}

// OnRegion returns the Region that Bind found, if any.
func (a *Action) OnRegion() *Region {
	return a.onRegion
}

// Bound reports whether this Action is fine with respect to binding:
// either it found its region or it doesn't need one.
func (a *Action) Bound() bool {
	return a.onRegion != nil || !a.Act.NeedsRegion()
}

// Bind looks up this Action's region by name.
//
// An Action that needs a region but can't find it returns an
// *UnknownRegion.  The Action is still usable.
func (a *Action) Bind(index RegionIndex) error {
	if r, have := index[a.RegionName]; have {
		a.onRegion = r
		return nil
	}
	a.onRegion = nil
	if !a.Act.NeedsRegion() {
		return nil
	}
	return &UnknownRegion{
		RegionName: a.RegionName,
		Act:        a.Act,
	}
}

// Exec carries out this Action for an event of the given type that
// targets the given Region (which can be nil).
//
// Image actions change the event's Region, not the Region named by
// the Action.  When there's no event Region, they do nothing.
//
// Output and errors go to the Diag.  Exec returns the image change,
// if any.
func (a *Action) Exec(t EventType, r *Region, d Diag) *ImageChange {
	if d == nil {
		d = Discard
	}
	switch a.Act {
	case ActNone:
		return nil
	case ActSetImage:
		return setImage(r, a.Param)
	case ActClearImage:
		return setImage(r, "")
	case ActPrint:
		d.Print(a.Param)
	case ActPrintEvent:
		name := "None"
		if r != nil {
			name = r.Name
		}
		d.Print(a.Param + ", Event Type: " + string(t) + ", Region: " + name)
	default:
		d.Error(&UnknownAction{a.Act})
	}
	return nil
}

func setImage(r *Region, loc string) *ImageChange {
	if r == nil {
		return nil
	}
	c := &ImageChange{
		Region: r.Name,
		From:   r.ImageLoc,
		To:     loc,
	}
	r.ImageLoc = loc
	return c
}

// DebugTag returns a short string that identifies this Action.
func (a *Action) DebugTag() string {
	return "Action(" + string(a.Act) + " " + a.RegionName + " " + strconv.Quote(a.Param) + ")"
}

// DebugString renders this Action at the given indentation level.
func (a *Action) DebugString(indent int) string {
	var b strings.Builder
	a.debug(&b, indent)
	return b.String()
}

func (a *Action) debug(b *strings.Builder, indent int) {
	writeIndent(b, indent)
	b.WriteString(string(a.Act))
	b.WriteString(" ")
	b.WriteString(a.RegionName)
	b.WriteString(" ")
	b.WriteString(strconv.Quote(a.Param))
	if !a.Bound() {
		b.WriteString(" unbound")
	}
}

func writeIndent(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
}
