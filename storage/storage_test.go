package storage

import (
	"context"
	"testing"

	"github.com/Comcast/wfsm/core"
)

func TestImpl(t *testing.T) {
	var _ Storage = &Noop{}
	var _ Storage = NewMem()
}

func TestMem(t *testing.T) {
	ctx := context.Background()
	s := NewMem()

	if got, err := s.Get(ctx, "a"); err != nil || got != nil {
		t.Fatal(got, err)
	}

	snap := &core.Snapshot{
		State:  "checked",
		Images: map[string]string{"box": "checked.png"},
	}
	if err := s.Put(ctx, "a", snap); err != nil {
		t.Fatal(err)
	}

	// Later changes to the given snapshot don't matter.
	snap.Images["box"] = "queso.png"

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != "checked" || got.Images["box"] != "checked.png" {
		t.Fatalf("%#v", got)
	}

	if err = s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if got, _ = s.Get(ctx, "a"); got != nil {
		t.Fatal(got)
	}
	if err = s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	s := &Noop{}
	if err := s.Put(ctx, "a", &core.Snapshot{State: "x"}); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, "a"); err != nil || got != nil {
		t.Fatal(got, err)
	}
}
