package core

import "sort"

// Snapshot is the mutable part of an FSM: the current State and the
// Regions' images.
type Snapshot struct {
	State  string            `json:"state"`
	Images map[string]string `json:"images"`
}

// Snapshot captures the FSM's current State and images.
func (m *FSM) Snapshot() *Snapshot {
	s := &Snapshot{
		State:  m.CurrentState(),
		Images: make(map[string]string, len(m.index)),
	}
	for name, r := range m.index {
		s.Images[name] = r.ImageLoc
	}
	return s
}

// Restore sets the FSM's current State and images from the given
// Snapshot.
//
// Unknown State or Region names are reported as *SnapshotMismatch
// and skipped.  The returned error is the first problem (if any): the
// State, then Regions in name order.
func (m *FSM) Restore(s *Snapshot) error {
	if s == nil {
		return nil
	}
	var first error
	problem := func(err error) {
		m.diag.Error(err)
		if first == nil {
			first = err
		}
	}

	if s.State != "" {
		if st, have := m.byName[s.State]; have {
			m.current = st
		} else {
			problem(&SnapshotMismatch{StateName: s.State})
		}
	}

	names := make([]string, 0, len(s.Images))
	for name := range s.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r, have := m.index[name]
		if !have {
			problem(&SnapshotMismatch{RegionName: name})
			continue
		}
		r.ImageLoc = s.Images[name]
	}

	return first
}
