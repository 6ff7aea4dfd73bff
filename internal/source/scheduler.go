package source

import (
	"context"
	"sort"
	"sync"
)

// Task is work queued on a Scheduler. It should return promptly once ctx is
// cancelled.
type Task func(ctx context.Context)

// Handle is a scheduled task.
type Handle struct {
	id     string
	task   Task
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// ID returns the key the task was scheduled under.
func (h *Handle) ID() string { return h.id }

// Done is closed once the task has finished or been cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) markDone() {
	h.once.Do(func() { close(h.done) })
}

// Scheduler runs background tasks keyed by id. At most one task per id is
// queued or running at a time.
//
// A Scheduler created with NewManualScheduler never runs tasks on its own;
// RunPending executes them on the caller's goroutine, which lets tests
// observe scheduling without racing real time.
type Scheduler struct {
	mu      sync.Mutex
	ctx     context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
	manual  bool
	closed  bool
	pending map[string]*Handle
	order   []string
}

// NewScheduler creates a Scheduler that runs each task on its own goroutine.
func NewScheduler() *Scheduler {
	return newScheduler(false)
}

// NewManualScheduler creates a Scheduler whose tasks run only on RunPending.
func NewManualScheduler() *Scheduler {
	return newScheduler(true)
}

func newScheduler(manual bool) *Scheduler {
	ctx, stop := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:     ctx,
		stop:    stop,
		manual:  manual,
		pending: make(map[string]*Handle),
	}
}

// Schedule queues task under id. It returns false without queuing when a task
// for id is already pending or the scheduler is closed.
func (s *Scheduler) Schedule(id string, task Task) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	if h, ok := s.pending[id]; ok {
		return h, false
	}

	ctx, cancel := context.WithCancel(s.ctx)
	h := &Handle{id: id, task: task, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	s.pending[id] = h
	s.order = append(s.order, id)

	if !s.manual {
		s.wg.Add(1)
		go s.run(h)
	}
	return h, true
}

func (s *Scheduler) run(h *Handle) {
	defer s.wg.Done()
	if h.ctx.Err() == nil {
		h.task(h.ctx)
	}
	s.finish(h)
}

func (s *Scheduler) finish(h *Handle) {
	s.mu.Lock()
	if s.pending[h.id] == h {
		s.removeLocked(h.id)
	}
	s.mu.Unlock()
	h.cancel()
	h.markDone()
}

func (s *Scheduler) removeLocked(id string) {
	delete(s.pending, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Pending returns the ids of queued or running tasks, sorted.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Cancel cancels the task for id. It reports whether a task was pending.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	h, ok := s.pending[id]
	if ok {
		s.removeLocked(id)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	h.cancel()
	if s.manual {
		h.markDone()
	}
	return true
}

// RunPending runs every queued task in scheduling order on the calling
// goroutine and returns how many ran. It is a no-op for automatic
// schedulers.
func (s *Scheduler) RunPending() int {
	if !s.manual {
		return 0
	}

	s.mu.Lock()
	batch := make([]*Handle, 0, len(s.order))
	for _, id := range s.order {
		batch = append(batch, s.pending[id])
	}
	s.mu.Unlock()

	ran := 0
	for _, h := range batch {
		if h.ctx.Err() != nil {
			continue
		}
		h.task(h.ctx)
		s.finish(h)
		ran++
	}
	return ran
}

// Wait blocks until every running task has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close cancels all pending tasks, rejects new ones and waits for running
// tasks to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	var dropped []*Handle
	if s.manual {
		for _, id := range s.order {
			dropped = append(dropped, s.pending[id])
		}
		s.pending = make(map[string]*Handle)
		s.order = nil
	}
	s.mu.Unlock()

	s.stop()
	for _, h := range dropped {
		h.cancel()
		h.markDone()
	}
	s.wg.Wait()
}
