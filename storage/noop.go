package storage

import (
	"context"

	"github.com/Comcast/wfsm/core"
)

// Noop is a Storage that stores nothing.
type Noop struct {
}

func (s *Noop) Open(ctx context.Context) error {
	return nil
}

func (s *Noop) Close(ctx context.Context) error {
	return nil
}

func (s *Noop) Get(ctx context.Context, id string) (*core.Snapshot, error) {
	return nil, nil
}

func (s *Noop) Put(ctx context.Context, id string, snap *core.Snapshot) error {
	return nil
}

func (s *Noop) Delete(ctx context.Context, id string) error {
	return nil
}
