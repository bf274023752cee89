package fs

import (
	"sync"
	"time"
)

// debouncer coalesces events per key, firing fn once the key has been quiet
// for the configured delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addLocked(key, fn)
}

func (d *debouncer) addLocked(key string, fn func()) {
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok && t.Stop() {
		// The pending run was cancelled before it started.
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		// A newer timer may already own the key if this one fired while add
		// held the lock.
		if d.timers[key] == timer {
			delete(d.timers, key)
		}
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
	d.timers[key] = timer
}

// stopAndWait rejects new events, cancels pending ones and waits for
// in-flight callbacks, giving up after timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
