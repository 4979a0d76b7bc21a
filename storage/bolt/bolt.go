// Package bolt is a storage.Storage based on bbolt.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Comcast/wfsm/core"

	bolt "go.etcd.io/bbolt"
)

// DefaultBucket is the default bucket for snapshots.
var DefaultBucket = "snapshots"

// ErrNotOpen is returned when the Storage hasn't been opened.
var ErrNotOpen = errors.New("bolt storage not open")

// Storage keeps JSON snapshots in one bbolt bucket.
type Storage struct {
	Debug  bool
	Bucket string

	filename string
	db       *bolt.DB
}

// NewStorage makes a Storage for the given database file.  Call Open
// before using it.
func NewStorage(filename string) (*Storage, error) {
	if filename == "" {
		return nil, errors.New("bolt storage needs a filename")
	}
	return &Storage{
		Bucket:   DefaultBucket,
		filename: filename,
	}, nil
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("bolt storage "+format, args...)
	}
}

// Open opens the database and creates the bucket if necessary.
func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(s.Bucket))
		return err
	})
	if err != nil {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) Get(ctx context.Context, id string) (*core.Snapshot, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	s.logf("Get %s", id)

	var snap *core.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket([]byte(s.Bucket)).Get([]byte(id))
		if bs == nil {
			return nil
		}
		snap = &core.Snapshot{}
		return json.Unmarshal(bs, snap)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Storage) Put(ctx context.Context, id string, snap *core.Snapshot) error {
	if s.db == nil {
		return ErrNotOpen
	}
	js, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.logf("Put %s %s", id, js)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(s.Bucket)).Put([]byte(id), js)
	})
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	s.logf("Delete %s", id)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(s.Bucket)).Delete([]byte(id))
	})
}

// IDs returns the ids of all stored snapshots.
func (s *Storage) IDs(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	var acc []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(s.Bucket)).ForEach(func(k, _ []byte) error {
			acc = append(acc, string(k))
			return nil
		})
	})
	return acc, err
}
