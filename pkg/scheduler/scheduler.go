// Package scheduler runs deferred jobs keyed by id. Jobs can be cancelled
// individually or all at once; a cancelled job never runs.
package scheduler

import (
	"sync"
	"time"

	"k24chat/pkg/state/logger"
)

// Registry holds the pending timers.
type Registry struct {
	mu      sync.Mutex
	timers  map[string]*entry
	gen     uint64
	stopped bool
	wg      sync.WaitGroup
}

type entry struct {
	timer *time.Timer
	gen   uint64
}

func New() *Registry {
	return &Registry{timers: make(map[string]*entry)}
}

// Schedule runs fn after delay under id, replacing any job already there.
// A non-positive delay runs fn on the next tick.
func (r *Registry) Schedule(id string, delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if old, ok := r.timers[id]; ok {
		if old.timer.Stop() {
			r.wg.Done()
		}
	}
	if delay < 0 {
		delay = 0
	}
	r.gen++
	e := &entry{gen: r.gen}
	r.wg.Add(1)
	e.timer = time.AfterFunc(delay, func() {
		defer r.wg.Done()
		r.mu.Lock()
		cur, ok := r.timers[id]
		if !ok || cur.gen != e.gen {
			r.mu.Unlock()
			return
		}
		delete(r.timers, id)
		r.mu.Unlock()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("scheduled_job_panic", "id", id, "panic", rec)
			}
		}()
		fn()
	})
	r.timers[id] = e
}

// Cancel drops the job under id. It reports whether one was pending.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.timers[id]
	if !ok {
		return false
	}
	delete(r.timers, id)
	if e.timer.Stop() {
		r.wg.Done()
	}
	return true
}

// CancelAll drops every pending job.
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.timers)
	for id, e := range r.timers {
		if e.timer.Stop() {
			r.wg.Done()
		}
		delete(r.timers, id)
	}
	return n
}

// Pending is the number of jobs waiting to fire.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop cancels everything, refuses new jobs and waits for running jobs.
func (r *Registry) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.CancelAll()
	r.wg.Wait()
}
