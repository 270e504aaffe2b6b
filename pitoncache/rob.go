package pitoncache

// A robEntry is one in-flight client-visible transaction.
type robEntry struct {
	taken  bool
	filled bool
	trans  *transaction
	data   []byte
}

// The reorderBuffer guarantees that responses reach the client in the order
// the requests were admitted, regardless of memory completion order. It is a
// circular buffer of power-of-two depth with a single oldest pointer. A slot
// retires only when it is filled and is the oldest taken slot.
type reorderBuffer struct {
	entries []robEntry
	mask    int
	head    int
	tail    int
	count   int
}

func newReorderBuffer(depth int) *reorderBuffer {
	if depth <= 0 || depth&(depth-1) != 0 {
		panic("reorder buffer depth must be a power of two")
	}

	return &reorderBuffer{
		entries: make([]robEntry, depth),
		mask:    depth - 1,
	}
}

// CanAllocate reports whether there is a free slot.
func (r *reorderBuffer) CanAllocate() bool {
	return r.count < len(r.entries)
}

// Allocate takes the next free slot for a transaction. The caller must check
// CanAllocate first.
func (r *reorderBuffer) Allocate(trans *transaction) int {
	if !r.CanAllocate() {
		panic("reorder buffer overflow, use CanAllocate before Allocate")
	}

	slot := r.tail
	r.entries[slot] = robEntry{taken: true, trans: trans}
	r.tail = (r.tail + 1) & r.mask
	r.count++

	return slot
}

// Fill writes the completion payload into a slot.
func (r *reorderBuffer) Fill(slot int, data []byte) {
	entry := &r.entries[slot]
	if !entry.taken {
		panic("filling a reorder buffer slot that is not allocated")
	}
	if entry.filled {
		panic("filling a reorder buffer slot twice")
	}

	entry.filled = true
	entry.data = data
}

// OldestReady returns the oldest taken slot if it is filled.
func (r *reorderBuffer) OldestReady() (*robEntry, bool) {
	if r.count == 0 {
		return nil, false
	}

	entry := &r.entries[r.head]
	if !entry.filled {
		return nil, false
	}

	return entry, true
}

// Retire frees the oldest slot. The caller must have seen it through
// OldestReady first.
func (r *reorderBuffer) Retire() {
	entry := &r.entries[r.head]
	if !entry.taken || !entry.filled {
		panic("retiring a reorder buffer slot that is not ready")
	}

	r.entries[r.head] = robEntry{}
	r.head = (r.head + 1) & r.mask
	r.count--
}

// Clear empties the buffer.
func (r *reorderBuffer) Clear() {
	for i := range r.entries {
		r.entries[i] = robEntry{}
	}
	r.head = 0
	r.tail = 0
	r.count = 0
}
