package testutil

import (
	"reflect"
	"testing"

	"github.com/Comcast/wfsm/core"
)

func TestJS(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		want string
	}{
		{
			name: "event spec",
			arg:  core.NewEventSpec(core.EventPress, ""),
			want: `{"type":"press","region":"*"}`,
		},
		{
			name: "unmarshalable",
			arg:  func() {},
			want: "(func())",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JS(tt.arg)
			if tt.name == "unmarshalable" {
				if got == "" || got[0] == '{' {
					t.Errorf("JS() = %v", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("JS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDwimjs(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		want interface{}
	}{
		{
			name: "JSON string",
			arg:  `{"type":"press","region":"b"}`,
			want: map[string]interface{}{"type": "press", "region": "b"},
		},
		{
			name: "JSON bytes",
			arg:  []byte(`[1,2]`),
			want: []interface{}{float64(1), float64(2)},
		},
		{
			name: "non-JSON string",
			arg:  "press b",
			want: "press b",
		},
		{
			name: "other",
			arg:  12345,
			want: 12345,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dwimjs(tt.arg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dwimjs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameJSON(t *testing.T) {
	spec := core.NewEventSpec(core.EventExit, "b")
	if !SameJSON(spec, `{"region":"b","type":"exit"}`) {
		t.Fatal(JS(spec))
	}
	if SameJSON(spec, `{"region":"*","type":"exit"}`) {
		t.Fatal("shouldn't be the same")
	}
}

func TestPlay(t *testing.T) {
	b := core.NewRegion("b", "off.png", 0, 0)
	m := core.New([]*core.Region{b}, []*core.State{
		core.NewState("dark",
			core.NewTransition("lit", core.NewEventSpec(core.EventPress, "b"),
				core.NewAction(core.ActSetImage, "b", "on.png"))),
		core.NewState("lit",
			core.NewTransition("dark", core.NewEventSpec(core.EventPress, "b"),
				core.NewAction(core.ActSetImage, "b", "off.png"))),
	}, core.WithDiag(core.Discard))

	fxs, err := Play(m, `
# two presses and a stray
press b
press
press b
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := Trace(fxs); got != "dark>lit lit>lit lit>dark" {
		t.Fatal(got)
	}
	if b.ImageLoc != "off.png" {
		t.Fatal(b.ImageLoc)
	}

	if fxs, err = Play(m, "press b\nclick b\npress b"); err == nil {
		t.Fatal("should have complained")
	}
	if len(fxs) != 1 {
		t.Fatal(len(fxs))
	}
}
