package component

// Scheduler coalesces component updates. Dirty components either join the
// top entry of a stack of explicit batches, or, when no batch is open, a
// single shared queue whose flush is deferred to the next tick. The flush
// is scheduled at most once no matter how many components dirty before it
// runs.
//
// Execution is single-goroutine cooperative: deferral points are explicit
// queued tasks drained by Tick, never background goroutines.
type Scheduler struct {
	batches []*Batch
	queue   []*Component

	flushScheduled bool
	tasks          []func()
}

// Batch is one explicit scheduling scope. Components dirtied while a
// batch is open update when the batch ends, in enqueue order.
type Batch struct {
	pending []*Component
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// BeginBatch opens a batch scope. Batches nest; dirty components always
// join the innermost open batch.
func (s *Scheduler) BeginBatch() *Batch {
	b := &Batch{}
	s.batches = append(s.batches, b)
	return b
}

// EndBatch closes the innermost batch and updates its components in
// enqueue order, including components appended while the batch flushes.
func (s *Scheduler) EndBatch() {
	n := len(s.batches)
	if n == 0 {
		return
	}
	b := s.batches[n-1]

	// Updates triggered by this flush must join this same batch, so it
	// stays on the stack while its list drains.
	for i := 0; i < len(b.pending); i++ {
		b.pending[i].update()
	}
	b.pending = nil
	s.batches = s.batches[:n-1]
}

// Enqueue records a component for the next flush.
func (s *Scheduler) Enqueue(c *Component) {
	if n := len(s.batches); n > 0 {
		s.batches[n-1].pending = append(s.batches[n-1].pending, c)
		return
	}

	s.queue = append(s.queue, c)
	if !s.flushScheduled {
		s.flushScheduled = true
		s.tasks = append(s.tasks, s.flushQueue)
	}
}

// Defer queues an arbitrary task for the next tick.
func (s *Scheduler) Defer(task func()) {
	s.tasks = append(s.tasks, task)
}

// Tick drains the deferred task queue, including tasks queued while
// draining.
func (s *Scheduler) Tick() {
	for len(s.tasks) > 0 {
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		task()
	}
}

// flushQueue processes the shared unbatched queue. Entries appended during
// processing are handled in the same flush.
func (s *Scheduler) flushQueue() {
	for i := 0; i < len(s.queue); i++ {
		s.queue[i].update()
	}
	s.queue = nil
	s.flushScheduled = false
}

// Pending reports how many components await the next unbatched flush.
func (s *Scheduler) Pending() int { return len(s.queue) }
