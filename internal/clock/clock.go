package clock

import (
	"sync"
	"time"
)

// Func returns the current time. Services hold one so tests can pin time
// without touching package state.
type Func func() time.Time

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// OrDefault returns fn, or Now when fn is nil.
func OrDefault(fn Func) Func {
	if fn == nil {
		return Now
	}
	return fn
}

// Fixed returns a Func that always reports t.
func Fixed(t time.Time) Func {
	return func() time.Time { return t }
}

// Stepper returns a Func that starts at start and advances by step on every
// call. Useful when ordering by timestamp matters in tests.
func Stepper(start time.Time, step time.Duration) Func {
	var mux sync.Mutex
	current := start.Add(-step)
	return func() time.Time {
		mux.Lock()
		defer mux.Unlock()
		current = current.Add(step)
		return current
	}
}
