package pitoncache

// An outstandingEntry bundles what an acknowledgment needs to finish a
// transaction once memory responds.
type outstandingEntry struct {
	trans *transaction
	way   int
}

// An outstandingQueue is a bounded FIFO with reservation slots. Stage 1
// reserves a slot when it admits a request, stage 3 fills the reservation
// when it dispatches the memory operation, and stage 3 dequeues the head
// when the matching acknowledgment arrives. Acknowledgments are matched
// strictly FIFO per queue; the memory side must preserve per-queue issue
// order.
type outstandingQueue struct {
	entries  []outstandingEntry
	head     int
	count    int
	reserved int
}

func newOutstandingQueue(depth int) *outstandingQueue {
	return &outstandingQueue{
		entries: make([]outstandingEntry, depth),
	}
}

// CanReserve reports whether a slot can be reserved.
func (q *outstandingQueue) CanReserve() bool {
	return q.count+q.reserved < len(q.entries)
}

// Reserve claims a slot for a future enqueue.
func (q *outstandingQueue) Reserve() {
	if !q.CanReserve() {
		panic("outstanding queue overflow, use CanReserve before Reserve")
	}

	q.reserved++
}

// Release gives a reservation back without enqueuing, for requests that
// turn out not to need a memory round trip.
func (q *outstandingQueue) Release() {
	if q.reserved == 0 {
		panic("releasing an outstanding queue reservation that does not exist")
	}

	q.reserved--
}

// EnqueueReserved turns a reservation into a queued entry.
func (q *outstandingQueue) EnqueueReserved(entry outstandingEntry) {
	if q.reserved == 0 {
		panic("enqueue without a reservation")
	}

	q.reserved--
	tail := (q.head + q.count) % len(q.entries)
	q.entries[tail] = entry
	q.count++
}

// Empty reports whether no entry is queued.
func (q *outstandingQueue) Empty() bool {
	return q.count == 0
}

// Dequeue removes and returns the head entry.
func (q *outstandingQueue) Dequeue() outstandingEntry {
	if q.count == 0 {
		panic("dequeue from an empty outstanding queue")
	}

	entry := q.entries[q.head]
	q.entries[q.head] = outstandingEntry{}
	q.head = (q.head + 1) % len(q.entries)
	q.count--

	return entry
}

// Clear empties the queue and drops all reservations.
func (q *outstandingQueue) Clear() {
	for i := range q.entries {
		q.entries[i] = outstandingEntry{}
	}
	q.head = 0
	q.count = 0
	q.reserved = 0
}
