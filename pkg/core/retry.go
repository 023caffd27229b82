package core

import (
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/clock"
)

// DefaultRetryDelay is the fixed delay applied to every failed reconcile.
const DefaultRetryDelay = 15 * time.Second

// ErrorPolicy maps reconcile failures to a retry delay. The delay is the same regardless of the
// error or how often the key failed before.
type ErrorPolicy struct {
	delay time.Duration
	clock clock.PassiveClock

	mu       sync.Mutex
	failures map[types.NamespacedName]retryState
}

type retryState struct {
	attempts  int
	nextRetry time.Time
}

// NewErrorPolicy returns a policy using delay, or DefaultRetryDelay when delay is not positive.
// A nil clock uses the real clock.
func NewErrorPolicy(delay time.Duration, clk clock.PassiveClock) *ErrorPolicy {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ErrorPolicy{delay: delay, clock: clk, failures: map[types.NamespacedName]retryState{}}
}

// OnError records a failure for key and returns how long to wait before retrying it.
func (policy *ErrorPolicy) OnError(key types.NamespacedName, _ error) time.Duration {
	policy.mu.Lock()
	defer policy.mu.Unlock()

	state := policy.failures[key]
	state.attempts++
	state.nextRetry = policy.clock.Now().Add(policy.delay)
	policy.failures[key] = state
	return policy.delay
}

// Forget clears the failure record of key after a successful reconcile or deletion.
func (policy *ErrorPolicy) Forget(key types.NamespacedName) {
	policy.mu.Lock()
	defer policy.mu.Unlock()

	delete(policy.failures, key)
}

// NextRetry returns when key becomes eligible for its next retry.
func (policy *ErrorPolicy) NextRetry(key types.NamespacedName) (time.Time, bool) {
	policy.mu.Lock()
	defer policy.mu.Unlock()

	state, exists := policy.failures[key]
	return state.nextRetry, exists
}

// Attempts returns the number of consecutive failures recorded for key.
func (policy *ErrorPolicy) Attempts(key types.NamespacedName) int {
	policy.mu.Lock()
	defer policy.mu.Unlock()

	return policy.failures[key].attempts
}
