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

package tools

import (
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/wfsm/core"
)

type MermaidOpts struct {
	// ShowEvents will result in a transition label that's the
	// transition's event spec.
	ShowEvents bool `json:"showEvents"`

	// ShowActions adds the transition's actions to the label.
	ShowActions bool `json:"showActions,omitempty"`

	// TerminalFill is the fill color for states without
	// transitions.  Does not apply if TerminalClass is set.
	TerminalFill string `json:"terminalFill,omitempty"`

	// TerminalClass will be the CSS class for terminal states.
	TerminalClass string `json:"terminalClass,omitempty"`
}

// DefaultMermaidOpts are used when Mermaid gets nil opts.
var DefaultMermaidOpts = MermaidOpts{
	ShowEvents:   true,
	ShowActions:  true,
	TerminalFill: "#bcf2db",
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given machine.
func Mermaid(m *core.FSM, w io.Writer, opts *MermaidOpts) error {

	if opts == nil {
		opts = &DefaultMermaidOpts
	}

	fmt.Fprintf(w, "graph TB\n")

	nids := make(map[string]string)
	num := 0

	node := func(name string, s *core.State) string {
		if nid, already := nids[name]; already {
			return nid
		}
		num++
		nid := fmt.Sprintf("n%d", num)
		nids[name] = nid

		label := strings.Replace(name, `"`, `'`, -1)
		switch {
		case s == nil:
			fmt.Fprintf(w, "  %s{{\"%s\"}}\n", nid, label)
		case s.Terminal():
			fmt.Fprintf(w, "  %s[\"%s\"]\n", nid, label)
			if opts.TerminalClass != "" {
				fmt.Fprintf(w, "  class %s %s\n", nid, opts.TerminalClass)
			} else if opts.TerminalFill != "" {
				fmt.Fprintf(w, "  style %s fill:%s\n", nid, opts.TerminalFill)
			}
		default:
			fmt.Fprintf(w, "  %s(\"%s\")\n", nid, label)
		}
		return nid
	}

	for _, s := range m.States() {
		from := node(s.Name, s)
		for _, t := range s.Transitions {
			if t == nil {
				continue
			}
			to := node(t.Target, m.State(t.Target))

			var parts []string
			if opts.ShowEvents {
				parts = append(parts, t.On.String())
			}
			if opts.ShowActions {
				for _, a := range t.Actions {
					if a != nil {
						parts = append(parts, a.DebugTag())
					}
				}
			}

			label := ""
			if 0 < len(parts) {
				js := strings.Replace(strings.Join(parts, "<br/>"), `"`, `'`, -1)
				label = fmt.Sprintf(`-- "%s"`, js)
			}

			fmt.Fprintf(w, "  %s %s --> %s\n", from, label, to)
		}
	}

	_, err := fmt.Fprintf(w, "\n")
	return err
}
