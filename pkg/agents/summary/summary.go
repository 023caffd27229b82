package summary

import (
	"autosecret/pkg/core"
)

// ActionType enumerates the decision taken for a single entry during reconciliation.
type ActionType string

// Action types emitted by the reconciler for observability.
const (
	ActionCreated ActionType = "created"
	ActionUpdated ActionType = "updated"
	ActionSkipped ActionType = "skipped"
	ActionRemoved ActionType = "removed"
	// ActionConflict marks a declared entry whose data key is held by another writer.
	ActionConflict ActionType = "conflict"
)

// EntryAction captures the decision taken for one entry.
type EntryAction struct {
	Entry  string
	Action ActionType
	Kind   core.SecretKind
}

// Summary aggregates reconciliation outcomes for logs, metrics, and events.
type Summary struct {
	Actions []EntryAction
	// Applied is true when the Secret was written during this reconcile.
	Applied bool
}

// Add appends a decision.
func (s *Summary) Add(entry string, action ActionType, kind core.SecretKind) {
	s.Actions = append(s.Actions, EntryAction{Entry: entry, Action: action, Kind: kind})
}

// Count returns the number of actions for the provided type.
func (s *Summary) Count(t ActionType) int {
	if s == nil {
		return 0
	}
	count := 0
	for _, a := range s.Actions {
		if a.Action == t {
			count++
		}
	}
	return count
}

// Entries returns the entry names that received the provided action, in decision order.
func (s *Summary) Entries(t ActionType) []string {
	if s == nil {
		return nil
	}
	var names []string
	for _, a := range s.Actions {
		if a.Action == t {
			names = append(names, a.Entry)
		}
	}
	return names
}

// Changed reports whether any entry was created, updated or removed.
func (s *Summary) Changed() bool {
	return s.Count(ActionCreated)+s.Count(ActionUpdated)+s.Count(ActionRemoved) > 0
}
