package pitoncache

// rpbState tracks the lifecycle of the replay slot.
type rpbState int

const (
	rpbEmpty rpbState = iota
	rpbS3Buffered
	rpbS2Buffered
)

// The replayBuffer holds a request that raced with an in-flight operation
// on the same line. The buffered entry waits until a resolving memory
// acknowledgment for its set passes the execute stage, then re-enters
// stage 1. While the buffer is occupied stage 1 admits no new client
// requests, so at most one later in-flight request can also collide; that
// one is parked in the handoff slot and becomes the buffered entry once
// the current one dequeues.
type replayBuffer struct {
	state   rpbState
	trans   *transaction
	valid   bool
	handoff *transaction
}

func newReplayBuffer() *replayBuffer {
	return &replayBuffer{}
}

// Empty reports whether no entry is buffered.
func (b *replayBuffer) Empty() bool {
	return b.state == rpbEmpty
}

// AwaitingDequeue reports whether the buffered entry has been validated and
// waits for stage 1 to take it.
func (b *replayBuffer) AwaitingDequeue() bool {
	return b.state != rpbEmpty && b.valid
}

// EnqueueS3 buffers a request diverted by stage 3.
func (b *replayBuffer) EnqueueS3(trans *transaction) {
	if b.state != rpbEmpty {
		panic("replay buffer is occupied")
	}

	b.state = rpbS3Buffered
	b.trans = trans
	b.valid = false
}

// Validate marks the buffered entry ready for dequeue when a resolving
// operation for its set completes.
func (b *replayBuffer) Validate(set int) {
	if b.state == rpbEmpty || b.valid {
		return
	}

	if b.trans.set == set {
		b.valid = true
	}
}

// HandOver parks a second colliding request behind the buffered entry. The
// admission gate guarantees the slot is free.
func (b *replayBuffer) HandOver(trans *transaction) {
	if b.state == rpbEmpty {
		panic("replay buffer has no entry to hand over behind")
	}
	if b.handoff != nil {
		panic("replay buffer already holds a handover")
	}

	b.handoff = trans
}

// Dequeue returns the validated entry. A waiting handover becomes the new
// buffered entry. It is immediately valid, because its hazard either
// resolved with the same acknowledgment or will be detected again at the
// execute stage.
func (b *replayBuffer) Dequeue() *transaction {
	if !b.AwaitingDequeue() {
		panic("replay buffer has no validated entry")
	}

	trans := b.trans

	if b.handoff != nil {
		b.state = rpbS2Buffered
		b.trans = b.handoff
		b.handoff = nil
		b.valid = true
		return trans
	}

	b.state = rpbEmpty
	b.trans = nil
	b.valid = false

	return trans
}

// Clear empties the buffer.
func (b *replayBuffer) Clear() {
	b.state = rpbEmpty
	b.trans = nil
	b.valid = false
	b.handoff = nil
}
