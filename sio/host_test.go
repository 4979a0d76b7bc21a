package sio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/storage"
	"github.com/Comcast/wfsm/widgets"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func demoHost(t *testing.T) *Host {
	h := NewHost()
	quiet := core.WithDiag(core.Discard)

	if err := h.Add("cb", NewInteractor(widgets.Checkbox("cb", 0, 0, quiet), 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := h.Add("button", NewInteractor(widgets.Button("button", 0, 0, quiet), 200, 0)); err != nil {
		t.Fatal(err)
	}
	var members []string
	for i, m := range widgets.RadioOptions(2, 0, 0, quiet) {
		name := widgets.RadioOptionName(i + 1)
		if err := h.Add(name, NewInteractor(m, 500, 0)); err != nil {
			t.Fatal(err)
		}
		members = append(members, name)
	}
	if _, err := h.Group("radio", members...); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHostSetup(t *testing.T) {
	h := demoHost(t)

	if err := h.Add("cb", NewInteractor(widgets.Echo(), 0, 0)); err == nil {
		t.Fatal("should have complained")
	}
	if _, err := h.Group("cb"); err == nil {
		t.Fatal("should have complained")
	}
	if _, err := h.Group("again", "option1"); err == nil {
		t.Fatal("should have complained")
	}
	if _, err := h.Group("ghosts", "casper"); err == nil {
		t.Fatal("should have complained")
	}
	if err := h.Add("radio", NewInteractor(widgets.Echo(), 0, 0)); err == nil {
		t.Fatal("should have complained")
	}

	names := h.Names()
	if len(names) != 4 || names[0] != "cb" || names[3] != "option2" {
		t.Fatal(names)
	}
	if h.Widget("button") == nil || h.Widget("radio") != nil {
		t.Fatal("widget lookup")
	}
}

func TestHostProcess(t *testing.T) {
	var (
		ctx   = context.Background()
		h     = demoHost(t)
		store = storage.NewMem()
	)
	h.Storage = store

	tests := []struct {
		description string
		input       *Input
		errors      int
		states      map[string]string
		effects     map[string]int
	}{
		{
			description: "press checkbox",
			input:       &Input{Pointer: PointerPress, X: 10, Y: 10},
			states:      map[string]string{"cb": "checked", "button": "normal"},
			effects:     map[string]int{"cb": 2},
		},
		{
			description: "event to first widget",
			input:       &Input{Event: core.EventPress, Region: "cb"},
			states:      map[string]string{"cb": "unchecked"},
			effects:     map[string]int{"cb": 1},
		},
		{
			description: "named widget",
			input:       &Input{Widget: "button", Event: core.EventEnter, Region: "button"},
			states:      map[string]string{"button": "highlighted"},
			effects:     map[string]int{"button": 1},
		},
		{
			description: "radio option",
			input:       &Input{Pointer: PointerPress, X: 550, Y: 170},
			states:      map[string]string{"option2": "selected", "option1": "deselected"},
			effects:     map[string]int{"option2": 2},
		},
		{
			description: "radio option by member name",
			input:       &Input{Widget: "option1", Pointer: PointerPress, X: 550, Y: 50},
			states:      map[string]string{"option1": "selected", "option2": "deselected"},
		},
		{
			description: "unknown widget",
			input:       &Input{Widget: "dial", Event: core.EventPress},
			errors:      1,
		},
		{
			description: "unknown event type",
			input:       &Input{Event: "click"},
			errors:      1,
		},
		{
			description: "event to group",
			input:       &Input{Widget: "radio", Event: core.EventPress},
			errors:      1,
		},
		{
			description: "unknown pointer kind",
			input:       &Input{Pointer: "wiggle"},
			errors:      1,
		},
		{
			description: "empty",
			input:       &Input{},
			errors:      1,
		},
		{
			description: "unknown command",
			input:       &Input{Cmd: "dance"},
			errors:      1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			output := h.Process(ctx, tc.input)
			if len(output.Errors) != tc.errors {
				t.Fatal(output.Errors)
			}
			for name, state := range tc.states {
				if got := output.States[name]; got != state {
					t.Fatalf("%s: %s != %s", name, got, state)
				}
			}
			for name, n := range tc.effects {
				if got := len(output.Effects[name]); got != n {
					t.Fatalf("%s: %d effects", name, got)
				}
			}
		})
	}

	snap, err := store.Get(ctx, "cb")
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil || snap.State != "unchecked" {
		t.Fatalf("%#v", snap)
	}
	if snap, _ = store.Get(ctx, "option1"); snap == nil || snap.State != "selected" {
		t.Fatalf("%#v", snap)
	}
}

func TestHostEventUnknownRegion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		description string
		input       *Input
		errors      int
		state       string
	}{
		{"known region", &Input{Widget: "cb", Event: core.EventPress, Region: "cb"}, 0, "checked"},
		{"unknown region", &Input{Widget: "cb", Event: core.EventPress, Region: "nope"}, 1, "unchecked"},
		{"no region", &Input{Widget: "cb", Event: core.EventPress}, 0, "checked"},
	}

	h := demoHost(t)
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			output := h.Process(ctx, tc.input)
			if len(output.Errors) != tc.errors {
				t.Fatal(output.Errors)
			}
			if tc.errors > 0 && !strings.Contains(output.Errors[0], `"nope"`) {
				t.Fatal(output.Errors)
			}
			// The event still goes to the FSM without a Region.
			if got := output.States["cb"]; got != tc.state {
				t.Fatal(got)
			}
		})
	}
}

func TestHostCommands(t *testing.T) {
	ctx := context.Background()
	h := demoHost(t)

	output := h.Process(ctx, &Input{Cmd: "view", Widget: "radio"})
	if len(output.View) != 2 || len(output.View["option2"]) != 1 {
		t.Fatal(output.View)
	}
	if v := output.View["option2"][0]; v.X != 500 || v.Y != 120 {
		t.Fatalf("%#v", v)
	}

	output = h.Process(ctx, &Input{Cmd: "debug", Widget: "cb"})
	if !strings.HasPrefix(output.Debug["cb"], "FSM checkbox (current unchecked)") {
		t.Fatal(output.Debug)
	}

	output = h.Process(ctx, &Input{Cmd: "states", Id: "42"})
	if output.Id != "42" || len(output.States) != 4 {
		t.Fatalf("%#v", output)
	}
}

func TestHostRestoreAndReplace(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMem()
	store.Put(ctx, "cb", &core.Snapshot{
		State:  "checked",
		Images: map[string]string{"cb": widgets.CheckedImage},
	})

	h := demoHost(t)
	h.Storage = store
	if err := h.Restore(ctx); err != nil {
		t.Fatal(err)
	}
	if got := h.Widget("cb").FSM.CurrentState(); got != "checked" {
		t.Fatal(got)
	}

	if err := h.Replace("cb", widgets.Checkbox("cb", 0, 0, core.WithDiag(core.Discard))); err != nil {
		t.Fatal(err)
	}
	if got := h.Widget("cb").FSM.CurrentState(); got != "checked" {
		t.Fatal(got)
	}
	if err := h.Replace("dial", widgets.Echo()); err == nil {
		t.Fatal("should have complained")
	}
}

func TestHostMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}

	h := demoHost(t)
	h.Metrics = metrics

	ctx := context.Background()
	h.Process(ctx, &Input{Pointer: PointerPress, X: 10, Y: 10})
	h.Process(ctx, &Input{Pointer: PointerRelease, X: 10, Y: 10})

	if n := testutil.ToFloat64(metrics.Events.WithLabelValues("cb", "press")); n != 1 {
		t.Fatal(n)
	}
	if n := testutil.ToFloat64(metrics.Transitions.WithLabelValues("cb", "unchecked", "checked")); n != 1 {
		t.Fatal(n)
	}
	if n := testutil.ToFloat64(metrics.Images.WithLabelValues("cb")); n != 1 {
		t.Fatal(n)
	}
	if n := testutil.CollectAndCount(metrics.Latency); n == 0 {
		t.Fatal(n)
	}

	// Registering again is fine.
	if _, err = NewMetrics(reg); err != nil {
		t.Fatal(err)
	}
}

func TestHostLoopStdio(t *testing.T) {
	input := strings.Join([]string{
		`# a comment`,
		`{"pointer":"press","x":10,"y":10,"id":"1"}`,
		``,
		`not json`,
		`{"cmd":"states","id":"2"}`,
		`quit`,
		`{"cmd":"states","id":"3"}`,
	}, "\n")

	var out bytes.Buffer
	s := NewStdio(false)
	s.In = strings.NewReader(input)
	s.Out = &out

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	h := demoHost(t)
	if err := h.Loop(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	// Complaints about bad input can come before or after other
	// output.
	var (
		bad     int
		outputs = make(map[string]*Output)
	)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatal(line)
		}
		if _, have := m["error"]; have {
			bad++
			continue
		}
		var o Output
		if err := json.Unmarshal([]byte(line), &o); err != nil {
			t.Fatal(err)
		}
		outputs[o.Id] = &o
	}

	if bad != 1 || len(outputs) != 2 {
		t.Fatal(out.String())
	}
	if o := outputs["1"]; o == nil || o.States["cb"] != "checked" {
		t.Fatal(out.String())
	}
	if outputs["2"] == nil {
		t.Fatal(out.String())
	}
}

// The Output for the last Input is written even though input ends
// right after it.
func TestHostLoopStdioLastOutput(t *testing.T) {
	h := demoHost(t)
	for i := 0; i < 200; i++ {
		var out bytes.Buffer
		s := NewStdio(false)
		s.In = strings.NewReader(`{"cmd":"states","id":"last"}`)
		s.Out = &out

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.Start(ctx); err != nil {
			t.Fatal(err)
		}
		if err := h.Loop(ctx, s); err != nil {
			t.Fatal(err)
		}
		if err := s.Stop(ctx); err != nil {
			t.Fatal(err)
		}
		cancel()

		var o Output
		if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &o); err != nil {
			t.Fatalf("run %d: %q: %v", i, out.String(), err)
		}
		if o.Id != "last" {
			t.Fatalf("run %d: %s", i, out.String())
		}
	}
}

func TestHostDo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := demoHost(t)

	// Input that never ends.
	pr, pw := io.Pipe()
	defer pw.Close()
	s := NewStdio(false)
	s.In = pr
	s.Out = &bytes.Buffer{}

	loopDone := make(chan error)
	loopCtx, stopLoop := context.WithCancel(ctx)
	go func() {
		loopDone <- h.Loop(loopCtx, s)
	}()

	var state string
	err := h.Do(ctx, func(h *Host) {
		h.Widget("cb").Deliver(core.EventPress, "cb")
		state = h.Widget("cb").FSM.CurrentState()
	})
	if err != nil {
		t.Fatal(err)
	}
	if state != "checked" {
		t.Fatal(state)
	}

	stopLoop()
	if err := <-loopDone; err != nil {
		t.Fatal(err)
	}
}
