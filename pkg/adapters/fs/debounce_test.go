package fs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		d.add("notes", func() { runs.Add(1) })
	}

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	d.stopAndWait(time.Second)
}

func TestDebouncer_FiredTimerKeepsNewerEntry(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	var first, second atomic.Int32
	d.add("notes", func() { first.Add(1) })

	// Hold the lock so the first timer fires and blocks, then queue a newer
	// run for the same key behind it.
	d.mu.Lock()
	time.Sleep(50 * time.Millisecond)
	d.delay = time.Hour
	d.addLocked("notes", func() { second.Add(1) })
	newer := d.timers["notes"]
	d.mu.Unlock()

	require.Eventually(t, func() bool { return first.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.mu.Lock()
	assert.Same(t, newer, d.timers["notes"], "the fired timer must not drop the newer one")
	d.mu.Unlock()

	d.stopAndWait(time.Second)
	assert.Zero(t, second.Load(), "the newer run is cancelled by stop")
}

func TestDebouncer_IgnoresAddAfterStop(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.stopAndWait(time.Second)

	var runs atomic.Int32
	d.add("notes", func() { runs.Add(1) })
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, runs.Load())
}
