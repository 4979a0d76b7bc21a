// Package main is a tool for looking at widget FSM configurations:
// dumping, analyzing, rendering, normalizing, and playing events
// against them.
//
// Usage:
//
//	fsmtool SUBCOMMAND [FLAGS] [LOC]
//
// LOC is a filename, an HTTP(S) URL, "widget:KIND" for a built-in
// widget, or "-" (the default) for stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Comcast/wfsm/config"
	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/widgets"
)

// Cmd is a subcommand.
type Cmd interface {
	// Run does the work for the loaded FSM.
	Run(ctx context.Context, m *core.FSM, in io.Reader, out io.Writer) error
	Doc() string
	Flags() *flag.FlagSet
}

var Cmds = map[string]func() Cmd{
	"dump":    func() Cmd { return &Dumper{} },
	"analyze": func() Cmd { return &Analyzer{} },
	"dot":     func() Cmd { return &Doter{} },
	"mermaid": func() Cmd { return &Mermaider{} },
	"html":    func() Cmd { return &HTMLer{} },
	"yaml":    func() Cmd { return &Normalizer{} },
	"json":    func() Cmd { return &Normalizer{JSON: true} },
	"play":    func() Cmd { return &Player{} },
}

func main() {
	if len(os.Args) < 2 {
		Usage(os.Stderr)
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run runs the subcommand given by args[0].
//
// Configuration problems are written to errs as warnings.
func run(ctx context.Context, args []string, in io.Reader, out, errs io.Writer) error {
	name := args[0]
	if name == "widgets" {
		fmt.Fprintln(out, strings.Join(widgets.Names(), "\n"))
		return nil
	}
	if name == "help" || name == "-h" {
		Usage(out)
		return nil
	}

	mk, have := Cmds[name]
	if !have {
		Usage(errs)
		return fmt.Errorf("unknown subcommand %q", name)
	}
	cmd := mk()
	fs := cmd.Flags()
	fs.SetOutput(errs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	loc := "-"
	switch fs.NArg() {
	case 0:
	case 1:
		loc = fs.Arg(0)
	default:
		return fmt.Errorf("too many arguments: %q", fs.Args())
	}

	rec := &core.Recorder{}
	m, err := load(ctx, loc, in, core.WithDiag(rec))
	if err != nil {
		return err
	}
	for _, err := range rec.Errors {
		fmt.Fprintf(errs, "warning: %v\n", err)
	}
	rec.Reset()

	return cmd.Run(ctx, m, in, out)
}

// load makes an FSM from a location.  Input from stdin is consumed.
func load(ctx context.Context, loc string, in io.Reader, opts ...core.Option) (*core.FSM, error) {
	switch {
	case strings.HasPrefix(loc, "widget:"):
		return widgets.Make(strings.TrimPrefix(loc, "widget:"), opts...)
	case loc == "-":
		src, err := config.ReadLimited(in)
		if err != nil {
			return nil, err
		}
		tree, err := config.Parse(src)
		if err != nil {
			return nil, err
		}
		return config.Build(tree, opts...), nil
	default:
		return config.Load(ctx, loc, opts...)
	}
}

func Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: fsmtool SUBCOMMAND [FLAGS] [LOC]\n\n")
	fmt.Fprintf(w, "LOC is a filename, a URL, widget:KIND, or - (stdin).\n\n")
	fmt.Fprintf(w, "Subcommands:\n\n")

	names := make([]string, 0, len(Cmds))
	for name := range Cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := Cmds[name]()
		fmt.Fprintf(w, "%s\n  %s\n", name, strings.TrimSpace(cmd.Doc()))
		fs := cmd.Flags()
		fs.SetOutput(w)
		fs.PrintDefaults()
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "widgets\n  Lists the built-in widget kinds.\n")
}
