package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Func produces a new identifier.
type Func func() string

// NewFunc is the process default generator.
var NewFunc Func = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }

// OrDefault returns fn, or New when fn is nil.
func OrDefault(fn Func) Func {
	if fn == nil {
		return New
	}
	return fn
}

// Sequence returns a deterministic generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) Func {
	var counter int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&counter, 1))
	}
}
