package sink

import "sync"

// QueuingSink buffers messages until a delegate is attached, then forwards
// them in order. Detaching the delegate resumes buffering.
type QueuingSink struct {
	mu       sync.Mutex
	delegate Sink
	queue    []func(Sink)
	done     bool
}

// NewQueuingSink creates an empty queuing sink.
func NewQueuingSink() *QueuingSink {
	return &QueuingSink{}
}

// SetDelegate attaches (or, with nil, detaches) the downstream sink and
// flushes anything queued so far.
func (q *QueuingSink) SetDelegate(delegate Sink) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delegate = delegate
	q.flushLocked()
}

// Pending returns the number of buffered messages.
func (q *QueuingSink) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

func (q *QueuingSink) Success(payload map[string]any) {
	q.enqueue(func(s Sink) { s.Success(payload) })
}

func (q *QueuingSink) Error(code, message string, details any) {
	q.enqueue(func(s Sink) { s.Error(code, message, details) })
}

// EndOfStream queues the end marker. Messages sent afterwards are dropped.
func (q *QueuingSink) EndOfStream() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return
	}
	q.queue = append(q.queue, func(s Sink) { s.EndOfStream() })
	q.done = true
	q.flushLocked()
}

func (q *QueuingSink) enqueue(fn func(Sink)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return
	}
	q.queue = append(q.queue, fn)
	q.flushLocked()
}

func (q *QueuingSink) flushLocked() {
	if q.delegate == nil {
		return
	}
	for _, fn := range q.queue {
		fn(q.delegate)
	}
	q.queue = nil
}
