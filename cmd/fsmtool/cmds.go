package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"strings"

	"github.com/Comcast/wfsm/config"
	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/tools"

	"gopkg.in/yaml.v2"
)

type Dumper struct{}

func (c *Dumper) Doc() string {
	return "Writes the FSM's debug rendering."
}

func (c *Dumper) Flags() *flag.FlagSet {
	return flag.NewFlagSet("dump", flag.ContinueOnError)
}

func (c *Dumper) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	_, err := io.WriteString(out, m.DebugString())
	return err
}

type Analyzer struct {
	fs     *flag.FlagSet
	pretty bool
}

func (c *Analyzer) Doc() string {
	return "Writes a static analysis (JSON) of the FSM."
}

func (c *Analyzer) Flags() *flag.FlagSet {
	if c.fs == nil {
		c.fs = flag.NewFlagSet("analyze", flag.ContinueOnError)
		c.fs.BoolVar(&c.pretty, "p", true, "pretty-print")
	}
	return c.fs
}

func (c *Analyzer) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	a, err := tools.Analyze(m)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	if c.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(a)
}

type Doter struct {
	fs       *flag.FlagSet
	from, to string
}

func (c *Doter) Doc() string {
	return "Writes a Graphviz dot rendering of the FSM."
}

func (c *Doter) Flags() *flag.FlagSet {
	if c.fs == nil {
		c.fs = flag.NewFlagSet("dot", flag.ContinueOnError)
		c.fs.StringVar(&c.from, "from", "", "highlight a transition from this state")
		c.fs.StringVar(&c.to, "to", "", "highlight this state")
	}
	return c.fs
}

func (c *Doter) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	return tools.Dot(m, out, c.from, c.to)
}

type Mermaider struct {
	fs   *flag.FlagSet
	opts tools.MermaidOpts
}

func (c *Mermaider) Doc() string {
	return "Writes a Mermaid rendering of the FSM."
}

func (c *Mermaider) Flags() *flag.FlagSet {
	if c.fs == nil {
		c.opts = tools.DefaultMermaidOpts
		c.fs = flag.NewFlagSet("mermaid", flag.ContinueOnError)
		c.fs.BoolVar(&c.opts.ShowEvents, "events", c.opts.ShowEvents, "label transitions with events")
		c.fs.BoolVar(&c.opts.ShowActions, "actions", c.opts.ShowActions, "label transitions with actions")
		c.fs.StringVar(&c.opts.TerminalFill, "terminal-fill", c.opts.TerminalFill, "fill color for terminal states")
	}
	return c.fs
}

func (c *Mermaider) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	return tools.Mermaid(m, out, &c.opts)
}

type HTMLer struct {
	fs    *flag.FlagSet
	graph bool
	css   string
	frag  bool
}

func (c *HTMLer) Doc() string {
	return "Writes HTML documentation for the FSM."
}

func (c *HTMLer) Flags() *flag.FlagSet {
	if c.fs == nil {
		c.fs = flag.NewFlagSet("html", flag.ContinueOnError)
		c.fs.BoolVar(&c.graph, "graph", false, "include a graph")
		c.fs.StringVar(&c.css, "css", "", "comma-separated CSS file URLs")
		c.fs.BoolVar(&c.frag, "fragment", false, "write just an HTML fragment")
	}
	return c.fs
}

func (c *HTMLer) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	if c.frag {
		return tools.RenderHTML(m, out)
	}
	var css []string
	if c.css != "" {
		css = strings.Split(c.css, ",")
	}
	return tools.RenderPage(m, out, css, c.graph)
}

// Normalizer writes the FSM's configuration as Build would accept it,
// with the defaults filled in.
type Normalizer struct {
	JSON bool
}

func (c *Normalizer) Doc() string {
	if c.JSON {
		return "Writes the normalized configuration as JSON."
	}
	return "Writes the normalized configuration as YAML."
}

func (c *Normalizer) Flags() *flag.FlagSet {
	if c.JSON {
		return flag.NewFlagSet("json", flag.ContinueOnError)
	}
	return flag.NewFlagSet("yaml", flag.ContinueOnError)
}

func (c *Normalizer) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	tree := config.Tree(m)
	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}
	bs, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = out.Write(bs)
	return err
}

// Player reads events, one per line as "TYPE [REGION]", delivers them
// to the FSM, and writes the Effects as JSON lines.
//
// With a configuration from stdin, there are no events to read.
type Player struct {
	fs    *flag.FlagSet
	final bool
}

func (c *Player) Doc() string {
	return `Reads events ("TYPE [REGION]" lines) from stdin and writes their effects.`
}

func (c *Player) Flags() *flag.FlagSet {
	if c.fs == nil {
		c.fs = flag.NewFlagSet("play", flag.ContinueOnError)
		c.fs.BoolVar(&c.final, "dump", false, "dump the FSM at the end")
	}
	return c.fs
}

func (c *Player) Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error {
	var (
		enc   = json.NewEncoder(out)
		lines = bufio.NewScanner(in)
	)

	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, r, err := m.ParseEvent(line)
		if err != nil {
			return err
		}
		if err := enc.Encode(m.ActOnEvent(t, r)); err != nil {
			return err
		}
	}
	if err := lines.Err(); err != nil {
		return err
	}

	if c.final {
		_, err := io.WriteString(out, m.DebugString())
		return err
	}
	return nil
}
