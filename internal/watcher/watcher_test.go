package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsQuiescentRecording(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan string, 1)
	tracker := NewQuiescenceTracker(50*time.Millisecond, func(path string) {
		fired <- path
	})

	w, err := New([]string{dir}, tracker)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(dir, "call.wav")
	require.NoError(t, os.WriteFile(target, []byte("RIFF"), 0644))

	select {
	case path := <-fired:
		assert.Equal(t, target, path)
	case <-time.After(5 * time.Second):
		t.Fatal("recording never reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan string, 1)
	tracker := NewQuiescenceTracker(50*time.Millisecond, func(path string) {
		fired <- path
	})

	w, err := New([]string{dir}, tracker)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case path := <-fired:
		t.Fatalf("unexpected callback for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherRejectsMissingRoot(t *testing.T) {
	_, err := New([]string{"/does/not/exist"}, NewQuiescenceTracker(time.Second, func(string) {}))
	assert.Error(t, err)
}
