package watcher

import (
	"sync"
	"time"
)

// DefaultQuiescence is how long a recording must go without writes before it
// is treated as finished.
const DefaultQuiescence = 30 * time.Second

// QuiescenceTracker keeps a debounce timer per file. The callback fires when
// a file stops being written to for the configured duration.
type QuiescenceTracker struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	duration time.Duration
	callback func(path string)
}

func NewQuiescenceTracker(duration time.Duration, callback func(path string)) *QuiescenceTracker {
	if duration <= 0 {
		duration = DefaultQuiescence
	}
	return &QuiescenceTracker{
		timers:   make(map[string]*time.Timer),
		duration: duration,
		callback: callback,
	}
}

// Touch resets the quiescence timer for path.
func (q *QuiescenceTracker) Touch(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[path]; ok {
		timer.Stop()
	}

	q.timers[path] = time.AfterFunc(q.duration, func() {
		q.mu.Lock()
		delete(q.timers, path)
		q.mu.Unlock()

		q.callback(path)
	})
}

// Stop cancels all pending timers.
func (q *QuiescenceTracker) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, timer := range q.timers {
		timer.Stop()
	}
	q.timers = make(map[string]*time.Timer)
}
