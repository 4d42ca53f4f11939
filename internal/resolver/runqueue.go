package resolver

import "context"

// RunOptions controls entry-point execution. The zero value defers the
// entry point until the registry is marked ready.
type RunOptions struct {
	// NoWait executes the entry point immediately even when the registry
	// has not been marked ready.
	NoWait bool
}

// Run executes a bundle entry point. When the registry is not ready and
// waiting was not disabled, the entry is queued and executed in FIFO
// order by the next Ready transition.
func (r *Registry) Run(path string, opts RunOptions) error {
	r.mu.Lock()
	if !opts.NoWait && !r.ready {
		r.runQueue = append(r.runQueue, queuedRun{path: path, opts: opts})
		r.mu.Unlock()

		r.logger.Debug(context.Background(), "entry point queued", "path", path)

		return nil
	}
	r.mu.Unlock()

	_, err := r.Require(path, "")

	return err
}

// Ready marks the registry ready and drains the run queue in FIFO order.
// If readiness flips back to false mid-drain (a newly-run module
// registered a pending job) draining stops immediately and the remaining
// entries are preserved for the next Ready transition.
func (r *Registry) Ready() error {
	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()

	for {
		r.mu.Lock()
		if !r.ready || len(r.runQueue) == 0 {
			r.mu.Unlock()
			return nil
		}
		entry := r.runQueue[0]
		r.runQueue = r.runQueue[1:]
		r.mu.Unlock()

		if _, err := r.Require(entry.path, ""); err != nil {
			return err
		}
	}
}

// IsReady reports whether the registry has been marked ready.
func (r *Registry) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ready
}

// QueuedRuns reports how many entry points are awaiting readiness.
func (r *Registry) QueuedRuns() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.runQueue)
}

// PendingJob represents one outstanding asynchronous loader job. Creating
// a job forces the registry not-ready; completing the final outstanding
// job triggers Ready.
type PendingJob struct {
	registry *Registry
	done     bool
}

// BeginPendingJob registers an outstanding asynchronous job. The registry
// is immediately forced not-ready.
func (r *Registry) BeginPendingJob() *PendingJob {
	r.mu.Lock()
	r.pending++
	r.ready = false
	r.mu.Unlock()

	return &PendingJob{registry: r}
}

// Done completes the job. Completing the last outstanding job triggers
// Ready. Calling Done more than once is a no-op.
func (j *PendingJob) Done() error {
	if j.done {
		return nil
	}
	j.done = true

	r := j.registry
	r.mu.Lock()
	r.pending--
	last := r.pending == 0
	r.mu.Unlock()

	if last {
		return r.Ready()
	}

	return nil
}

// PendingJobs reports the number of outstanding asynchronous jobs.
func (r *Registry) PendingJobs() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.pending
}
