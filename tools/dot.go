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

package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Comcast/wfsm/core"

	"gopkg.in/yaml.v2"
)

// Dot makes a Graphviz dot file for the given machine.
//
// The optional fromState and toState can be names of states during a
// transition.  If non-zero, then the toState will be red, and so will
// the first edge from fromState to toState.
func Dot(m *core.FSM, w io.Writer, fromState, toState string) error {

	states := m.States()

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	var initial string
	if 0 < len(states) {
		initial = states[0].Name
	}

	seen := make(map[string]bool)
	node := func(name string, s *core.State) {
		if seen[name] {
			return
		}
		seen[name] = true

		label := htmlEscape(name)
		fillcolor := "#99ddc8"
		color := "black"
		style := "filled"

		if s == nil {
			// A target that doesn't exist.
			fillcolor = "#dddddd"
			style += ",dotted"
		} else {
			if s.Doc != "" {
				doc := s.Doc
				if 40 < len(doc) {
					if period := strings.Index(doc, ". "); 0 < period {
						doc = doc[0 : period+1]
					}
				}
				label += "<BR/><FONT POINT-SIZE='8'>" + htmlEscape(doc) + "</FONT>"
			}
			if s.Terminal() {
				style += ",dashed"
			}
		}
		if name == initial {
			style += ",bold"
		}
		if name == m.CurrentState() {
			fillcolor = "#2d93ad"
		}
		if toState == name {
			color = "red"
			fillcolor = "#f98b8b"
		}

		fmt.Fprintf(w, "  %s [style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			dotID(name), style, color, fillcolor, label)
	}

	hot := false
	process := func(s *core.State) error {
		node(s.Name, s)
		for i, t := range s.Transitions {
			if t == nil {
				continue
			}
			node(t.Target, m.State(t.Target))

			label := `<FONT COLOR="#2d93ad">` + htmlEscape(t.On.String()) + `</FONT>`
			if 0 < len(t.Actions) {
				src, err := yaml.Marshal(t.Actions)
				if err != nil {
					return err
				}
				label += `<FONT POINT-SIZE="8"><BR ALIGN="LEFT"/>` +
					strings.Replace(htmlEscape(string(src)), "\n", `<BR ALIGN="LEFT"/>`, -1) +
					`</FONT>`
			}
			for _, a := range t.Actions {
				if a != nil && !a.Bound() {
					label += `<BR ALIGN="LEFT"/><FONT COLOR="red">unbound ` + htmlEscape(a.RegionName) + `</FONT>`
				}
			}

			color := "black"
			if !hot && fromState == s.Name && toState == t.Target {
				color = "red"
				hot = true
			}

			label = fmt.Sprintf("%d/%d %s", i+1, len(s.Transitions), label)
			fmt.Fprintf(w, "  %s -> %s [ color=\"%s\" label = <%s> ]\n",
				dotID(s.Name), dotID(t.Target), color, label)
		}
		return nil
	}

	for _, s := range states {
		if err := process(s); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "}\n")
	return err
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.  Requires Graphviz's "dot"
// in the path.
func PNG(m *core.FSM, basename string, fromState, toState string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(m, dotfile, fromState, toState); err != nil {
		dotfile.Close()
		return pngname, err
	}
	if err := dotfile.Close(); err != nil {
		return pngname, err
	}
	if err := exec.Command("dot", "-Tpng", "-Gstart=1", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func dotID(s string) string {
	return `"` + strings.Replace(s, `"`, `\"`, -1) + `"`
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
