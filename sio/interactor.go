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
	"fmt"

	"github.com/Comcast/wfsm/core"
)

// PointerKind is the kind of a raw pointer input.
type PointerKind string

const (
	PointerPress   PointerKind = "press"
	PointerMove    PointerKind = "move"
	PointerRelease PointerKind = "release"
)

// UnknownPointerKind occurs when a pointer input has an unsupported
// kind.
type UnknownPointerKind struct {
	Kind PointerKind
}

func (e *UnknownPointerKind) Error() string {
	return fmt.Sprintf("unknown pointer kind %q", string(e.Kind))
}

// UnknownEventRegion occurs when an event is delivered by region name
// and the FSM has no such region.  The event is delivered without a
// region.
type UnknownEventRegion struct {
	RegionName string
}

func (e *UnknownEventRegion) Error() string {
	return fmt.Sprintf("event names unknown region %q", e.RegionName)
}

// Interactor connects an FSM to raw pointer input.
//
// An Interactor is positioned at X,Y in its parent's coordinates.
// Regions are positioned relative to the Interactor.  Regions later
// in the FSM's list are drawn on top of earlier ones.
//
// Not safe for concurrent use.  See Host.
type Interactor struct {
	FSM *core.FSM

	X, Y float64

	// Sizer, if not nil, resolves natural sizes for hit testing
	// and for View.  Without a Sizer, a natural dimension is
	// zero.
	Sizer Sizer

	// under holds the Regions that were under the pointer at its
	// last known position (topmost first).
	under []*core.Region
}

// NewInteractor makes an Interactor for the given FSM.
func NewInteractor(m *core.FSM, x, y float64) *Interactor {
	return &Interactor{
		FSM: m,
		X:   x,
		Y:   y,
	}
}

// Bounds returns the Region's position and size in the Interactor's
// coordinates with natural sizes resolved (if possible).
func (i *Interactor) Bounds(r *core.Region) (x, y, w, h float64) {
	x, y, w, h = r.X, r.Y, r.Width, r.Height
	if r.Natural() && i.Sizer != nil && r.ImageLoc != "" {
		if iw, ih, err := i.Sizer.Size(r.ImageLoc); err == nil {
			if w < 0 {
				w = iw
			}
			if h < 0 {
				h = ih
			}
		} else {
			i.FSM.Diag().Error(err)
		}
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return
}

// Under returns the Regions under the given point (in the parent's
// coordinates), topmost first.
func (i *Interactor) Under(px, py float64) []*core.Region {
	px -= i.X
	py -= i.Y

	var (
		rs  = i.FSM.Regions()
		acc = make([]*core.Region, 0, 2)
	)
	for j := len(rs) - 1; 0 <= j; j-- {
		r := rs[j]
		x, y, w, h := i.Bounds(r)
		if x <= px && px < x+w && y <= py && py < y+h {
			acc = append(acc, r)
		}
	}
	return acc
}

func contains(rs []*core.Region, r *core.Region) bool {
	for _, s := range rs {
		if s == r {
			return true
		}
	}
	return false
}

// Pointer translates a raw pointer input at the given point (in the
// parent's coordinates) into events for the FSM.
//
// Any movement is handled first (see Track).  Then a move gives
// "move_inside" for each Region that was and still is under the
// pointer, a press gives "press" for each Region under the pointer,
// and a release gives "release" for each Region under the pointer or
// a single "release_none" when there aren't any.
//
// Returns the Effects of every event in delivery order.
func (i *Interactor) Pointer(kind PointerKind, px, py float64) ([]*core.Effects, error) {
	switch kind {
	case PointerPress, PointerMove, PointerRelease:
	default:
		return nil, &UnknownPointerKind{kind}
	}

	prev := i.under
	acc := i.Track(px, py)
	now := i.under

	deliver := func(t core.EventType, r *core.Region) {
		acc = append(acc, i.FSM.ActOnEvent(t, r))
	}

	switch kind {
	case PointerMove:
		for _, r := range now {
			if contains(prev, r) {
				deliver(core.EventMoveInside, r)
			}
		}
	case PointerPress:
		for _, r := range now {
			deliver(core.EventPress, r)
		}
	case PointerRelease:
		if len(now) == 0 {
			deliver(core.EventReleaseNone, nil)
		}
		for _, r := range now {
			deliver(core.EventRelease, r)
		}
	}

	return acc, nil
}

// Track moves the pointer to the given point (in the parent's
// coordinates) and delivers "exit" for each Region the pointer left
// and then "enter" for each Region the pointer entered.
func (i *Interactor) Track(px, py float64) []*core.Effects {
	var (
		now  = i.Under(px, py)
		prev = i.under
		acc  = make([]*core.Effects, 0, len(now)+len(prev))
	)

	for _, r := range prev {
		if !contains(now, r) {
			acc = append(acc, i.FSM.ActOnEvent(core.EventExit, r))
		}
	}
	for _, r := range now {
		if !contains(prev, r) {
			acc = append(acc, i.FSM.ActOnEvent(core.EventEnter, r))
		}
	}
	i.under = now

	return acc
}

// Hit reports whether any Region is under the given point (in the
// parent's coordinates).
func (i *Interactor) Hit(px, py float64) bool {
	return 0 < len(i.Under(px, py))
}

// Deliver gives the FSM a single event for the named Region.  An
// empty name means no Region.  An unknown name is reported to the
// FSM's Diag and in the Effects' Errors, and the event is delivered
// without a Region.
func (i *Interactor) Deliver(t core.EventType, regionName string) *core.Effects {
	var (
		r   *core.Region
		err error
	)
	if regionName != "" {
		if r = i.FSM.Region(regionName); r == nil {
			err = &UnknownEventRegion{regionName}
			i.FSM.Diag().Error(err)
		}
	}
	fx := i.FSM.ActOnEvent(t, r)
	if err != nil {
		fx.Error(err)
	}
	return fx
}

// RegionView is what's needed to draw a Region.
type RegionView struct {
	Name     string  `json:"name"`
	ImageLoc string  `json:"imageLoc,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// View returns the FSM's Regions in drawing order (bottom first) with
// positions in the parent's coordinates.
func (i *Interactor) View() []RegionView {
	rs := i.FSM.Regions()
	acc := make([]RegionView, 0, len(rs))
	for _, r := range rs {
		x, y, w, h := i.Bounds(r)
		acc = append(acc, RegionView{
			Name:     r.Name,
			ImageLoc: r.ImageLoc,
			X:        i.X + x,
			Y:        i.Y + y,
			Width:    w,
			Height:   h,
		})
	}
	return acc
}
