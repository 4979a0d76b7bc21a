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

	"github.com/Comcast/wfsm/core"
)

// Couplings provide channels for Input and Output.
//
// For example, an implementation could couple a Host to an MQTT
// broker or to a WebSocket.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the input and output channels and a channel
	// that's closed when input is exhausted.
	IO(context.Context) (chan *Input, chan *Output, chan bool, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}

// Input is a request to a Host.
//
// An Input is a pointer input (Pointer with X and Y), a single event
// (Event with an optional Region), or a command (Cmd).
type Input struct {
	// Widget names the Interactor or RadioGroup that should get
	// this input.  When empty, pointer input goes to every
	// widget, and an event or command goes to the first widget.
	Widget string `json:"widget,omitempty"`

	Pointer PointerKind `json:"pointer,omitempty"`
	X       float64     `json:"x,omitempty"`
	Y       float64     `json:"y,omitempty"`

	Event  core.EventType `json:"event,omitempty"`
	Region string         `json:"region,omitempty"`

	// Cmd is one of "view", "states", or "debug".
	Cmd string `json:"cmd,omitempty"`

	// Id is an optional request id that's copied to the Output.
	Id string `json:"id,omitempty"`
}

// Output reports what a Host did with an Input.
type Output struct {
	Id string `json:"id,omitempty"`

	// Effects maps widget names to the Effects of the events
	// delivered to them.
	Effects map[string][]*core.Effects `json:"effects,omitempty"`

	// States maps widget names to current States.
	States map[string]string `json:"states,omitempty"`

	View  map[string][]RegionView `json:"view,omitempty"`
	Debug map[string]string       `json:"debug,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

func (o *Output) errorf(err error) {
	o.Errors = append(o.Errors, err.Error())
}

// Changed reports whether any widget changed.
func (o *Output) Changed() bool {
	for _, fxs := range o.Effects {
		for _, fx := range fxs {
			if fx.Changed() {
				return true
			}
		}
	}
	return false
}
