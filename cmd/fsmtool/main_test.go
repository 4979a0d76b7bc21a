package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Comcast/wfsm/config"
	"github.com/Comcast/wfsm/core"
)

func TestRun(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		description string
		args        []string
		stdin       string
		contains    string
		warnings    bool
		err         bool
	}{
		{"dump widget", []string{"dump", "widget:checkbox"}, "", "FSM checkbox (current unchecked)", false, false},
		{"dump file", []string{"dump", "../../config/testdata/checkbox.json"}, "", "state checked", false, false},
		{"dump sloppy", []string{"dump", "../../config/testdata/sloppy.yaml"}, "", "unbound", true, false},
		{"dump stdin", []string{"dump"}, "states: [{name: only}]", "state only", false, false},
		{"analyze", []string{"analyze", "widget:button"}, "", `"initial": "normal"`, false, false},
		{"analyze compact", []string{"analyze", "-p=false", "widget:button"}, "", `"initial":"normal"`, false, false},
		{"dot", []string{"dot", "-to", "checked", "widget:checkbox"}, "", `"checked" [style="filled", color="red"`, false, false},
		{"mermaid", []string{"mermaid", "-actions=false", "widget:toggle"}, "", `n1 -- "press *" --> n2`, false, false},
		{"html", []string{"html", "-css", "a.css,b.css", "widget:echo"}, "", `<link href="b.css"`, false, false},
		{"html fragment", []string{"html", "-fragment", "widget:echo"}, "", `<div class="regions">`, false, false},
		{"yaml", []string{"yaml", "widget:radio"}, "", "name: option1", false, false},
		{"json", []string{"json", "widget:radio"}, "", `"nextState": "selected"`, false, false},
		{"widgets", []string{"widgets"}, "", "checkbox\necho", false, false},
		{"help", []string{"help"}, "", "Subcommands:", false, false},
		{"unknown subcommand", []string{"frob"}, "", "", false, true},
		{"unknown widget", []string{"dump", "widget:dial"}, "", "", false, true},
		{"missing file", []string{"dump", "nope.yaml"}, "", "", false, true},
		{"too many", []string{"dump", "a", "b"}, "", "", false, true},
		{"bad flag", []string{"dump", "-frob"}, "", "", false, true},
		{"bad stdin", []string{"dump"}, "[", "", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			var out, errs bytes.Buffer
			err := run(ctx, tc.args, strings.NewReader(tc.stdin), &out, &errs)
			if tc.err {
				if err == nil {
					t.Fatal("should have complained")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), tc.contains) {
				t.Fatalf("missing %q in\n%s", tc.contains, out.String())
			}
			if warned := strings.Contains(errs.String(), "warning:"); warned != tc.warnings {
				t.Fatal(errs.String())
			}
		})
	}
}

func TestPlay(t *testing.T) {
	var (
		ctx   = context.Background()
		out   bytes.Buffer
		errs  bytes.Buffer
		input = strings.Join([]string{
			"# a comment",
			"enter button",
			"press button",
			"",
			"release button",
			"exit",
		}, "\n")
	)

	if err := run(ctx, []string{"play", "-dump", "widget:button"}, strings.NewReader(input), &out, &errs); err != nil {
		t.Fatal(err)
	}

	dec := json.NewDecoder(&out)
	var tos []string
	for i := 0; i < 4; i++ {
		var fx core.Effects
		if err := dec.Decode(&fx); err != nil {
			t.Fatal(err)
		}
		tos = append(tos, fx.To)
	}
	if got := strings.Join(tos, ","); got != "highlighted,pressed,highlighted,normal" {
		t.Fatal(got)
	}

	for _, bad := range []string{"explode", "press nowhere", "press a b"} {
		if err := run(ctx, []string{"play", "widget:button"}, strings.NewReader(bad), &out, &errs); err == nil {
			t.Fatal(bad)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	ctx := context.Background()
	var out, errs bytes.Buffer
	if err := run(ctx, []string{"yaml", "widget:button"}, nil, &out, &errs); err != nil {
		t.Fatal(err)
	}
	tree, err := config.Parse(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	rec := &core.Recorder{}
	m := config.Build(tree, core.WithDiag(rec))
	if len(rec.Errors) != 0 {
		t.Fatal(rec.Errors)
	}
	if len(m.States()) != 4 || m.CurrentState() != "normal" {
		t.Fatal(m.DebugString())
	}
}
