package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/storage"
	"github.com/Comcast/wfsm/widgets"
)

func TestImpl(t *testing.T) {
	// Just confirm that this code compiles.
	var _ storage.Storage = &Storage{}
}

func TestBasics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "storage.db")

	s, err := NewStorage(filename)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err = s.Get(ctx, "cb"); err != ErrNotOpen {
		t.Fatal(err)
	}

	if err := s.Open(ctx); err != nil {
		t.Fatal(err)
	}

	m := widgets.Checkbox("cb", 0, 0, core.WithDiag(core.Discard))
	m.ActOnEvent(core.EventPress, m.Region("cb"))

	if err := s.Put(ctx, "cb", m.Snapshot()); err != nil {
		t.Fatal(err)
	}

	// Reopen to make sure the snapshot was written.
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := s.Close(ctx); err != nil {
			t.Fatal(err)
		}
	}()

	snap, err := s.Get(ctx, "cb")
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil || snap.State != "checked" || snap.Images["cb"] != widgets.CheckedImage {
		t.Fatalf("%#v", snap)
	}

	fresh := widgets.Checkbox("cb", 0, 0, core.WithDiag(core.Discard))
	if err = fresh.Restore(snap); err != nil {
		t.Fatal(err)
	}
	if fresh.CurrentState() != "checked" {
		t.Fatal(fresh.CurrentState())
	}

	ids, err := s.IDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "cb" {
		t.Fatal(ids)
	}

	if err = s.Delete(ctx, "cb"); err != nil {
		t.Fatal(err)
	}
	if snap, err = s.Get(ctx, "cb"); err != nil || snap != nil {
		t.Fatal(snap, err)
	}
	if err = s.Delete(ctx, "nope"); err != nil {
		t.Fatal(err)
	}
}
