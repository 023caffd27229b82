package events

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"autosecret/pkg/agents/summary"
)

// Recorder wraps a controller-runtime EventRecorder with helper methods
// specific to AutoSecret reconciliation.
//
// The helper methods guard against nil receivers so tests can pass a nil
// recorder when event emission is not under test.
type Recorder struct {
	recorder record.EventRecorder
}

// NewRecorder constructs a Recorder from the provided controller-runtime EventRecorder.
func NewRecorder(rec record.EventRecorder) *Recorder {
	return &Recorder{recorder: rec}
}

// EntryCreated records an event indicating a missing entry was generated.
func (r *Recorder) EntryCreated(obj client.Object, entry string) {
	if r == nil || r.recorder == nil {
		return
	}
	r.recorder.Eventf(obj, corev1.EventTypeNormal, "SecretCreated", "secret %s generated", entry)
}

// EntryUpdated records an event indicating an entry was regenerated after its kind changed.
func (r *Recorder) EntryUpdated(obj client.Object, entry string) {
	if r == nil || r.recorder == nil {
		return
	}
	r.recorder.Eventf(obj, corev1.EventTypeNormal, "SecretUpdated", "secret %s regenerated due to kind change", entry)
}

// EntryRemoved records an event indicating an entry no longer declared was removed.
func (r *Recorder) EntryRemoved(obj client.Object, entry string) {
	if r == nil || r.recorder == nil {
		return
	}
	r.recorder.Eventf(obj, corev1.EventTypeNormal, "SecretRemoved", "secret %s removed", entry)
}

// EntryConflict records a warning that an entry was not generated because its data key belongs
// to another writer.
func (r *Recorder) EntryConflict(obj client.Object, entry string) {
	if r == nil || r.recorder == nil {
		return
	}
	r.recorder.Eventf(obj, corev1.EventTypeWarning, "SecretConflict", "secret %s not generated: data key is managed by another writer", entry)
}

// Summary records one event per created, updated or removed entry. Skipped entries are silent.
func (r *Recorder) Summary(obj client.Object, sum *summary.Summary) {
	if r == nil || r.recorder == nil || sum == nil {
		return
	}
	for _, action := range sum.Actions {
		switch action.Action {
		case summary.ActionCreated:
			r.EntryCreated(obj, action.Entry)
		case summary.ActionUpdated:
			r.EntryUpdated(obj, action.Entry)
		case summary.ActionRemoved:
			r.EntryRemoved(obj, action.Entry)
		case summary.ActionConflict:
			r.EntryConflict(obj, action.Entry)
		}
	}
}

// Error records an event indicating reconciliation failed.
func (r *Recorder) Error(obj client.Object, err error) {
	if r == nil || r.recorder == nil || err == nil {
		return
	}
	r.recorder.Eventf(obj, corev1.EventTypeWarning, "ReconcileError", "reconciliation error: %v", err)
}
