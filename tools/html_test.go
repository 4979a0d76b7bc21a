package tools

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/widgets"
)

func TestRenderHTML(t *testing.T) {
	m := widgets.Echo(core.WithDiag(core.Discard), core.WithDoc("Prints *everything*."))

	var out bytes.Buffer
	if err := RenderHTML(m, &out); err != nil {
		t.Fatal(err)
	}
	h := out.String()
	for _, want := range []string{
		`<div class="fsmDoc doc"><p>Prints <em>everything</em>.</p>`,
		`<span class="regionName">r4</span></td><td>60</td><td>150</td><td>natural</td><td>natural</td>`,
		`<span id="only_state" class="stateName">only_state</span>`,
		`<code>any *</code>`,
		`<a href="#only_state">`,
	} {
		if !strings.Contains(h, want) {
			t.Fatalf("missing %q in\n%s", want, h)
		}
	}
	if strings.Contains(h, `class="errors"`) {
		t.Fatal(h)
	}
}

func TestRenderPage(t *testing.T) {
	ctx := context.Background()

	t.Run("withoutGraph", func(t *testing.T) {
		out := bytes.NewBuffer(make([]byte, 0, 1024*128))

		err := ReadAndRenderPage(ctx, "../config/testdata/sloppy.yaml", []string{"fsm.css"}, out, false)
		if err != nil {
			t.Fatal(err)
		}
		h := out.String()
		if !strings.Contains(h, "<title>sloppy</title>") || strings.Contains(h, "thisFSM") {
			t.Fatal(h)
		}
		if !strings.Contains(h, `class="action unbound"`) || !strings.Contains(h, `class="errors"`) {
			t.Fatal(h)
		}
	})

	t.Run("withGraph", func(t *testing.T) {
		out := bytes.NewBuffer(make([]byte, 0, 1024*128))

		err := ReadAndRenderPage(ctx, "../config/testdata/checkbox.json", nil, out, true)
		if err != nil {
			t.Fatal(err)
		}
		h := out.String()
		if !strings.Contains(h, "var thisFSM = {") || !strings.Contains(h, "/static/fsm-html.css") {
			t.Fatal(h)
		}
	})

	t.Run("missing", func(t *testing.T) {
		var out bytes.Buffer
		if err := ReadAndRenderPage(ctx, "../config/testdata/nope.yaml", nil, &out, false); err == nil {
			t.Fatal("should have complained")
		}
	})
}
