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
	"fmt"
)

// Example demonstrates a checkbox.
func Example() {
	checkbox := NewRegion("checkbox", "unchecked.png", 0, 0)

	m := New([]*Region{checkbox}, []*State{
		NewState("unchecked",
			NewTransition("checked", NewEventSpec(EventPress, Wildcard),
				NewAction(ActPrintEvent, "", "checking"),
				NewAction(ActSetImage, "checkbox", "checked.png"))),
		NewState("checked",
			NewTransition("unchecked", NewEventSpec(EventPress, Wildcard),
				NewAction(ActPrintEvent, "", "unchecking"),
				NewAction(ActSetImage, "checkbox", "unchecked.png"))),
	}, WithDiag(Discard))

	for i := 0; i < 3; i++ {
		fx := m.ActOnEvent(EventPress, checkbox)
		fmt.Printf("%s -> %s %s %q\n", fx.From, fx.To, checkbox.ImageLoc, fx.Printed)
	}

	// An event for which there is no transition does nothing.
	fx := m.ActOnEvent(EventEnter, checkbox)
	fmt.Println(fx.Matched, m.CurrentState())

	// Output:
	// unchecked -> checked checked.png ["checking, Event Type: press, Region: checkbox"]
	// checked -> unchecked unchecked.png ["unchecking, Event Type: press, Region: checkbox"]
	// unchecked -> checked checked.png ["checking, Event Type: press, Region: checkbox"]
	// false checked
}

// ExampleFSM_DebugString shows the debugging rendering of an FSM with
// a problem.
func ExampleFSM_DebugString() {
	m := New([]*Region{NewRegion("r", "", 0, 0)}, []*State{
		NewState("only",
			NewTransition("only", NewEventSpec(EventAny, Wildcard),
				NewAction(ActPrintEvent, "", "evt--->"),
				NewAction(ActSetImage, "ghost", "boo.png"))),
	}, WithDiag(Discard), WithName("test"))

	fmt.Print(m.DebugString())

	// Output:
	// FSM test (current only)
	//   regions
	//     r
	//   state only
	//     any * -> only
	//       print_event  "evt--->"
	//       set_image ghost "boo.png" unbound
}
