package storage

import (
	"context"
	"sync"

	"github.com/Comcast/wfsm/core"
)

// Mem is a Storage that keeps snapshots in memory.  Useful for
// testing.
type Mem struct {
	sync.Mutex
	snapshots map[string]*core.Snapshot
}

// NewMem makes an empty Mem.
func NewMem() *Mem {
	return &Mem{
		snapshots: make(map[string]*core.Snapshot),
	}
}

func (s *Mem) Open(ctx context.Context) error {
	return nil
}

func (s *Mem) Close(ctx context.Context) error {
	return nil
}

func (s *Mem) Get(ctx context.Context, id string) (*core.Snapshot, error) {
	s.Lock()
	defer s.Unlock()
	return copySnapshot(s.snapshots[id]), nil
}

func (s *Mem) Put(ctx context.Context, id string, snap *core.Snapshot) error {
	s.Lock()
	s.snapshots[id] = copySnapshot(snap)
	s.Unlock()
	return nil
}

func (s *Mem) Delete(ctx context.Context, id string) error {
	s.Lock()
	delete(s.snapshots, id)
	s.Unlock()
	return nil
}

func copySnapshot(s *core.Snapshot) *core.Snapshot {
	if s == nil {
		return nil
	}
	acc := &core.Snapshot{
		State:  s.State,
		Images: make(map[string]string, len(s.Images)),
	}
	for name, loc := range s.Images {
		acc.Images[name] = loc
	}
	return acc
}
