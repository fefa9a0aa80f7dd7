package watcher

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuiescenceFiresAfterIdle(t *testing.T) {
	fired := make(chan string, 1)
	tracker := NewQuiescenceTracker(30*time.Millisecond, func(path string) {
		fired <- path
	})
	defer tracker.Stop()

	tracker.Touch("/rec/a.wav")

	select {
	case path := <-fired:
		assert.Equal(t, "/rec/a.wav", path)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestTouchResetsTimer(t *testing.T) {
	var count atomic.Int64
	tracker := NewQuiescenceTracker(60*time.Millisecond, func(string) {
		count.Add(1)
	})
	defer tracker.Stop()

	// Keep touching inside the quiescence window; nothing may fire.
	for i := 0; i < 5; i++ {
		tracker.Touch("/rec/a.wav")
		time.Sleep(20 * time.Millisecond)
	}
	assert.Zero(t, count.Load())

	// Once writes stop, exactly one callback fires.
	require.Eventually(t, func() bool {
		return count.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopCancelsPendingTimers(t *testing.T) {
	var count atomic.Int64
	tracker := NewQuiescenceTracker(30*time.Millisecond, func(string) {
		count.Add(1)
	})

	tracker.Touch("/rec/a.wav")
	tracker.Touch("/rec/b.wav")
	tracker.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, count.Load())
}

func TestIsRecording(t *testing.T) {
	assert.True(t, isRecording("/calls/today/a.wav"))
	assert.True(t, isRecording("/calls/A.WAV"))
	assert.False(t, isRecording("/calls/a.mp3"))
	assert.False(t, isRecording("/calls/notes.txt"))
	assert.False(t, isRecording("/calls/wav"))
}
