package core

import (
	"fmt"
	"strings"
)

// EventType is the kind of an input event.
type EventType string

const (
	// EventNeverMatch is an inert type.  An EventSpec with this
	// type matches nothing.  Configurations that name an unknown
	// event type get this type.
	EventNeverMatch EventType = "nevermatch"

	// EventAny in an EventSpec matches every event type.
	EventAny EventType = "any"

	EventPress       EventType = "press"
	EventRelease     EventType = "release"
	EventReleaseNone EventType = "release_none"
	EventEnter       EventType = "enter"
	EventExit        EventType = "exit"
	EventMoveInside  EventType = "move_inside"
)

// EventTypes lists every EventType.
var EventTypes = []EventType{
	EventNeverMatch,
	EventAny,
	EventPress,
	EventRelease,
	EventReleaseNone,
	EventEnter,
	EventExit,
	EventMoveInside,
}

// ParseEventType returns the EventType named by s, if any.
func ParseEventType(s string) (EventType, bool) {
	for _, t := range EventTypes {
		if string(t) == s {
			return t, true
		}
	}
	return EventNeverMatch, false
}

// Wildcard is the EventSpec region selector that matches any region,
// including no region at all.
const Wildcard = "*"

// EventSpec is a predicate on events: an event type and a region
// selector.
type EventSpec struct {
	Type EventType `json:"type"`

	// Region is either a region name or Wildcard.
	Region string `json:"region"`
}

// NewEventSpec makes an EventSpec.  An empty region selector means
// Wildcard.
func NewEventSpec(t EventType, region string) EventSpec {
	if region == "" {
		region = Wildcard
	}
	return EventSpec{
		Type:   t,
		Region: region,
	}
}

// Matches determines if an event of the given type that targets the
// given Region (which can be nil) satisfies this EventSpec.
func (s EventSpec) Matches(t EventType, r *Region) bool {
	return s.matchesType(t) && s.matchesRegion(r)
}

func (s EventSpec) matchesType(t EventType) bool {
	switch s.Type {
	case EventNeverMatch:
		return false
	case EventAny:
		return true
	default:
		return s.Type == t
	}
}

func (s EventSpec) matchesRegion(r *Region) bool {
	if s.Region == Wildcard {
		return true
	}
	if r == nil {
		return false
	}
	return s.Region == r.Name
}

func (s EventSpec) String() string {
	return string(s.Type) + " " + s.Region
}

// ParseEvent parses an event written as "TYPE [REGION]".  The Region,
// if given, must be one of the FSM's.
func (m *FSM) ParseEvent(line string) (EventType, *Region, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 || 2 < len(parts) {
		return EventNeverMatch, nil, fmt.Errorf("bad event %q", line)
	}
	t, ok := ParseEventType(parts[0])
	if !ok {
		return EventNeverMatch, nil, fmt.Errorf("unknown event type %q", parts[0])
	}
	if len(parts) == 1 {
		return t, nil, nil
	}
	r := m.Region(parts[1])
	if r == nil {
		return EventNeverMatch, nil, fmt.Errorf("unknown region %q", parts[1])
	}
	return t, r, nil
}
