// Package storage persists FSM snapshots.
package storage

import (
	"context"

	"github.com/Comcast/wfsm/core"
)

// Storage is a persistence interface for FSM snapshots, each stored
// under an id.
type Storage interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	// Get returns the snapshot with the given id.  Returns nil
	// (and no error) if there is no such snapshot.
	Get(ctx context.Context, id string) (*core.Snapshot, error)

	// Put writes (or overwrites) a snapshot.
	Put(ctx context.Context, id string, s *core.Snapshot) error

	// Delete removes a snapshot.  Deleting a snapshot that doesn't
	// exist is not an error.
	Delete(ctx context.Context, id string) error
}
