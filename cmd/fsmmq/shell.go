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

package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/sio"
)

// Shell turns command lines into MQTT operations.
type Shell struct {
	// Prefix is the topic prefix for inputs.  Inputs for widget W
	// go to PREFIX/W.
	Prefix string

	// Widget is the current widget, which can be empty.
	Widget string

	QoS    byte
	Retain bool

	count int
}

// Step is what a command line asks for.  At most one field is set.
type Step struct {
	Topic   string
	Payload []byte

	Sub, Unsub string
	Sleep      time.Duration
	Quit       bool
}

var space = regexp.MustCompile(" +")

// Line parses a command line.  A nil Step means there is nothing to
// do (perhaps because the command changed the Shell's settings).
func (s *Shell) Line(line string) (*Step, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	parts := space.Split(line, 3)
	args := parts[1:]

	want := func(n int, usage string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}

	switch parts[0] {
	case "widget":
		if len(args) == 0 {
			s.Widget = ""
			return nil, nil
		}
		if err := want(1, "widget [NAME]"); err != nil {
			return nil, err
		}
		s.Widget = args[0]
		return nil, nil

	case "qos":
		if err := want(1, "qos (0|1|2)"); err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil || 2 < n {
			return nil, fmt.Errorf("usage: qos (0|1|2)")
		}
		s.QoS = byte(n)
		return nil, nil

	case "retain":
		if err := want(1, "retain (true|false)"); err != nil {
			return nil, err
		}
		b, err := strconv.ParseBool(args[0])
		if err != nil {
			return nil, fmt.Errorf("usage: retain (true|false)")
		}
		s.Retain = b
		return nil, nil

	case "press", "move", "release":
		if len(args) == 1 {
			args = space.Split(args[0], 2)
		}
		if err := want(2, parts[0]+" X Y"); err != nil {
			return nil, err
		}
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, err
		}
		return s.input(&sio.Input{
			Pointer: sio.PointerKind(parts[0]),
			X:       x,
			Y:       y,
		})

	case "event":
		if len(args) == 0 {
			return nil, fmt.Errorf("usage: event TYPE [REGION]")
		}
		t, ok := core.ParseEventType(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown event type %q", args[0])
		}
		in := &sio.Input{Event: t}
		if len(args) == 2 {
			if strings.Contains(args[1], " ") {
				return nil, fmt.Errorf("usage: event TYPE [REGION]")
			}
			in.Region = args[1]
		}
		return s.input(in)

	case "view", "states", "debug":
		return s.input(&sio.Input{Cmd: parts[0]})

	case "sub", "unsub":
		if err := want(1, parts[0]+" TOPIC"); err != nil {
			return nil, err
		}
		if parts[0] == "sub" {
			return &Step{Sub: args[0]}, nil
		}
		return &Step{Unsub: args[0]}, nil

	case "pub":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: pub TOPIC MSG")
		}
		return &Step{Topic: args[0], Payload: []byte(args[1])}, nil

	case "sleep":
		if err := want(1, "sleep DURATION"); err != nil {
			return nil, err
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return nil, err
		}
		return &Step{Sleep: d}, nil

	case "quit":
		return &Step{Quit: true}, nil
	}

	return nil, fmt.Errorf("unknown command %q", parts[0])
}

// input makes a Step that publishes the Input, with a fresh request
// id, for the current widget.
func (s *Shell) input(in *sio.Input) (*Step, error) {
	s.count++
	in.Id = strconv.Itoa(s.count)
	in.Widget = s.Widget
	js, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	// With no widget, the topic ends with an empty level.
	return &Step{
		Topic:   s.Prefix + "/" + s.Widget,
		Payload: js,
	}, nil
}
