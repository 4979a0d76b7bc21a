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

// Package core provides the interpretation engine for declarative
// widget state machines.
//
// A widget (a button, a checkbox, a toggle switch) is described by a
// set of named Regions, each of which carries an image location, and
// a list of States.  Each State has an ordered list of Transitions.
// A Transition is triggered by an EventSpec and carries a list of
// Actions (change a region's image, print something) and the name of
// the next State.
//
// The primary type is FSM, and the primary method is ActOnEvent().
// Given an event type and (optionally) the Region the event targets,
// ActOnEvent finds the first Transition of the current State whose
// EventSpec matches, executes that Transition's Actions in order,
// and then moves to the Transition's target State.  The returned
// Effects report what happened.
//
// Actions refer to Regions by name.  When an FSM is constructed, a
// binding pass resolves those names to the FSM's Regions.  Binding
// problems, like other configuration problems, are reported through a
// Diag rather than returned as failures: an FSM built from a partially
// bad configuration still runs, with the bad parts inert.
//
// An FSM is not safe for concurrent use.  The host that owns an FSM
// must serialize event delivery.
package core
