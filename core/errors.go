package core

// These errors are configuration errors, not internal errors.  They
// are reported to a Diag and the FSM keeps going.

import (
	"errors"
	"strconv"
)

// ErrNoStates occurs when an FSM is given no States.  Such an FSM
// has no current state and ignores every event.
var ErrNoStates = errors.New("fsm has no states")

// UnknownRegion occurs when an Action that changes an image names a
// region that isn't in the FSM.
type UnknownRegion struct {
	RegionName string
	Act        ActionType
}

func (e *UnknownRegion) Error() string {
	return `region "` + e.RegionName + `" in ` + string(e.Act) +
		` action does not match any region`
}

// UnknownState occurs when a Transition's target isn't one of the
// FSM's States.
type UnknownState struct {
	From      string
	StateName string
}

func (e *UnknownState) Error() string {
	return `transition from "` + e.From + `" targets unknown state "` + e.StateName + `"`
}

// DuplicateRegion occurs when two Regions have the same name.  The
// first one wins.
type DuplicateRegion struct {
	RegionName string
}

func (e *DuplicateRegion) Error() string {
	return `duplicate region "` + e.RegionName + `"`
}

// DuplicateState occurs when two States have the same name.  The
// first one wins.
type DuplicateState struct {
	StateName string
}

func (e *DuplicateState) Error() string {
	return `duplicate state "` + e.StateName + `"`
}

// UnknownAction occurs when an Action with a kind outside of the
// known ActionTypes is executed.
type UnknownAction struct {
	Act ActionType
}

func (e *UnknownAction) Error() string {
	return "unknown action type " + strconv.Quote(string(e.Act))
}

// SnapshotMismatch occurs when a Snapshot names a State or a Region
// that the FSM doesn't have.  Exactly one of StateName and RegionName
// is set.
type SnapshotMismatch struct {
	StateName  string
	RegionName string
}

func (e *SnapshotMismatch) Error() string {
	if e.RegionName != "" {
		return "snapshot region " + strconv.Quote(e.RegionName) + " does not match any region"
	}
	return "snapshot state " + strconv.Quote(e.StateName) + " does not match any state"
}
