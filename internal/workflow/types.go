package workflow

import "strings"

// TriggerEvent is one normalized entry of a workflow's `on:` declaration.
// Types, Branches and Schedule are only set when the declaration was a
// mapping entry carrying a sub-object.
type TriggerEvent struct {
	Event    string   `json:"event"`
	Types    []string `json:"types,omitempty"`
	Branches []string `json:"branches,omitempty"`
	Schedule []string `json:"schedule,omitempty"`
}

// Is reports whether the event name matches name, ignoring case.
func (e TriggerEvent) Is(name string) bool {
	return strings.EqualFold(e.Event, name)
}

// HasEvent reports whether any event matches name, ignoring case.
func HasEvent(events []TriggerEvent, name string) bool {
	for _, e := range events {
		if e.Is(name) {
			return true
		}
	}
	return false
}

// TriggerStatus distinguishes an empty trigger list from unusable input.
type TriggerStatus int

const (
	// NoTriggers means the document decoded but declares no triggers.
	NoTriggers TriggerStatus = iota
	// TriggersFound means at least one trigger event was extracted.
	TriggersFound
	// InvalidInput means the text could not be read or decoded.
	InvalidInput
)

// String returns the display name for a status.
func (s TriggerStatus) String() string {
	switch s {
	case NoTriggers:
		return "no-triggers"
	case TriggersFound:
		return "found"
	case InvalidInput:
		return "invalid"
	}
	return "unknown"
}

// MarshalText renders the status by name in JSON output.
func (s TriggerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TriggerResult is the outcome of parsing workflow text for triggers.
// Events is empty unless Status is TriggersFound; Err is set only for
// InvalidInput.
type TriggerResult struct {
	Status TriggerStatus
	Events []TriggerEvent
	Err    error
}

// Document is the subset of a workflow file this package understands.
type Document struct {
	Name     string         `json:"name,omitempty"`
	Triggers []TriggerEvent `json:"triggers"`
}

// Well-known event names used for capability gating.
const (
	EventRepositoryDispatch = "repository_dispatch"
	EventWorkflowDispatch   = "workflow_dispatch"
)
