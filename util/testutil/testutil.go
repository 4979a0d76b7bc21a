/* Copyright 2018 Comcast Cable Communications Management, LLC
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

// Package testutil has a few things that make widget FSM tests
// shorter.
package testutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/Comcast/wfsm/core"
)

// JS renders its argument as JSON or as a string indicating an error.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		log.Printf("warning: testutil.JS error %s for %#v", err, x)
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs, when given a string or bytes that parse as JSON, returns
// the parsed value.  When given anything else, just returns what's
// given.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			return x
		}
		return v
	default:
		return x
	}
}

// SameJSON reports whether the two values have equivalent JSON
// representations.  Strings and bytes are parsed first (see Dwimjs).
func SameJSON(x, y interface{}) bool {
	return reflect.DeepEqual(Dwimjs(JS(Dwimjs(x))), Dwimjs(JS(Dwimjs(y))))
}

// Play delivers the events in the script, one "TYPE [REGION]" per
// line, to the FSM.  Blank lines and lines starting with "#" are
// ignored.
func Play(m *core.FSM, script string) ([]*core.Effects, error) {
	var (
		acc   []*core.Effects
		lines = bufio.NewScanner(strings.NewReader(script))
	)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, r, err := m.ParseEvent(line)
		if err != nil {
			return acc, err
		}
		acc = append(acc, m.ActOnEvent(t, r))
	}
	return acc, lines.Err()
}

// Trace summarizes the state changes as "FROM>TO" separated by
// spaces.
func Trace(fxs []*core.Effects) string {
	acc := make([]string, len(fxs))
	for i, fx := range fxs {
		acc[i] = fx.From + ">" + fx.To
	}
	return strings.Join(acc, " ")
}
