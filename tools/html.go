package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"

	"github.com/Comcast/wfsm/config"
	"github.com/Comcast/wfsm/core"

	md "github.com/russross/blackfriday/v2"
)

// RenderHTML writes an HTML fragment that documents the machine.
// Docs are Markdown.
func RenderHTML(m *core.FSM, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if m.Doc != "" {
		f(`<div class="fsmDoc doc">%s</div>`, md.Run([]byte(m.Doc)))
	}

	{ // Regions
		f(`<div class="regions"><table>`)
		f(`<tr><th>region</th><th>x</th><th>y</th><th>width</th><th>height</th><th>image</th></tr>`)
		for _, r := range m.Regions() {
			f(`<tr class="region"><td><span class="regionName">%s</span></td><td>%g</td><td>%g</td><td>%s</td><td>%s</td><td><code>%s</code></td></tr>`,
				html.EscapeString(r.Name), r.X, r.Y, dimension(r.Width), dimension(r.Height), html.EscapeString(r.ImageLoc))
		}
		f(`</table></div>`)
	}

	{ // States
		f(`<div class="states"><table>`)
		for _, s := range m.States() {
			id := html.EscapeString(s.Name)
			f(`<tr class="state"><td><span id="%s" class="stateName">%s</span></td><td>`, id, id)

			if s.Doc != "" {
				f(`<div class="stateDoc doc">%s</div>`, md.Run([]byte(s.Doc)))
			}
			if s.Terminal() {
				f(`<div class="terminal">terminal</div>`)
			}
			f(`<div class="transitions">`)
			f(`<table>`)
			for i, t := range s.Transitions {
				if t == nil {
					continue
				}
				f(`<tr><td><div class="transitionNum">%d</div></td><td>`, i)
				f(`<table>`)
				f(`<tr><td></td><td>event</td>`)
				f(`<td><code>%s</code></td></tr>`, html.EscapeString(t.On.String()))
				for _, a := range t.Actions {
					if a == nil {
						continue
					}
					class := "action"
					if !a.Bound() {
						class += " unbound"
					}
					f(`<tr><td></td><td>action</td>`)
					f(`<td><code class="%s">%s</code></td></tr>`, class, html.EscapeString(a.DebugString(0)))
				}
				f(`<tr><td></td><td>target</td>`)
				f(`<td><a href="#%s"><code>%s</code></a></td></tr>`, html.EscapeString(t.Target), html.EscapeString(t.Target))
				f(`</table>`)
				f(`</td></tr>`)
			}
			f(`</table>`)
			f(`</div>`)
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	if errs := m.ConfigErrors(); 0 < len(errs) {
		f(`<div class="errors"><ul>`)
		for _, err := range errs {
			f(`<li>%s</li>`, html.EscapeString(err.Error()))
		}
		f(`</ul></div>`)
	}

	return nil
}

func dimension(x float64) string {
	if x < 0 {
		return "natural"
	}
	return fmt.Sprintf("%g", x)
}

// RenderPage writes a complete HTML page for the machine.
//
// With includeGraph, the page carries the machine's configuration as
// JSON for a script to draw.
func RenderPage(m *core.FSM, out io.Writer, cssFiles []string, includeGraph bool) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/fsm-html.css"}
	}

	js, err := json.Marshal(config.Tree(m))
	if err != nil {
		return err
	}

	title := html.EscapeString(m.Name)

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, title)

	if includeGraph {
		fmt.Fprintf(out, `
  <script src="https://cdnjs.cloudflare.com/ajax/libs/cytoscape/3.2.8/cytoscape.min.js"></script>
  <script src="/static/fsm-html.js"></script>
  <script>
  var thisFSM = %s;
  </script>
`, js)
	}

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", html.EscapeString(cssFile))
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, title)

	if includeGraph {
		fmt.Fprintf(out, `<div id="graph"></div>`)
	}

	if err = RenderHTML(m, out); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, `
  </body>
</html>
`)

	return err
}

// ReadAndRenderPage loads a configuration (a file name or an HTTP(S)
// URL) and renders it with RenderPage.
func ReadAndRenderPage(ctx context.Context, loc string, cssFiles []string, out io.Writer, includeGraph bool) error {
	m, err := config.Load(ctx, loc, core.WithDiag(core.Discard))
	if err != nil {
		return err
	}
	return RenderPage(m, out, cssFiles, includeGraph)
}
