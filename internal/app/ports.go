package app

import (
	"sync"
	"time"
)

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() int64

// Clock returns the current time.
type Clock func() time.Time

// Logger is the subset of the runtime logger used by the service.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

// NewMonotonicIDs returns millisecond timestamp ids that never repeat, even
// when two tasks are created within the same millisecond.
func NewMonotonicIDs(clock Clock) IDGenerator {
	if clock == nil {
		clock = time.Now
	}
	var (
		mu   sync.Mutex
		last int64
	)
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := clock().UnixMilli()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}
