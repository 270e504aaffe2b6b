package pitoncache

import (
	"log"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/tracing"
)

// fillInfo rides on an outbound fill request as the replacement-way hint
// side channel.
type fillInfo struct {
	Way int
}

// execute is stage 3. It consults the way-logic on the operation's set and
// performs the hit, miss, acknowledgment, or invalidation actions. An
// operation that cannot complete this cycle, because the memory-side port
// is full, holds in the execute register.
func (m *middleware) execute() bool {
	if m.paused {
		return false
	}

	item := m.executeReg.Peek()
	if item == nil {
		return false
	}

	op := item.(*stageOp)

	var done bool
	switch op.kind {
	case opNewRequest, opReplay:
		done = m.executeClientOp(op)
		if done && op.kind == opReplay {
			m.replaysInFlight--
		}
	case opLoadAck:
		done = m.executeLoadAck(op)
	case opStoreAck:
		done = m.executeStoreAck(op)
	case opAtomicAck:
		done = m.executeAtomicAck(op)
	case opInvalidateWay:
		done = m.executeInvalidateWay(op)
	case opInvalidateAll:
		return m.executeInvalidateAll(op)
	}

	if done {
		m.executeReg.Pop()
	}

	return done
}

func (m *middleware) executeClientOp(op *stageOp) bool {
	trans := op.trans

	if trans.noncacheable {
		return m.dispatchNoncacheable(trans)
	}

	states := m.states.Read(trans.set)
	tags := m.tags.Read(trans.set)
	ranks := m.lru.Read(trans.set)

	dec := decideWay(states, tags, trans.tag)

	if dec.hit && dec.pendingFill {
		// A fill for this line is already in flight. Servicing the
		// request now would use stale data.
		m.divertToReplay(trans)
		return true
	}

	if dec.hit {
		return m.executeHit(trans, dec.way, ranks)
	}

	return m.executeMiss(trans, states, ranks)
}

func (m *middleware) divertToReplay(trans *transaction) {
	if m.rpb.Empty() {
		m.rpb.EnqueueS3(trans)
	} else {
		m.rpb.HandOver(trans)
	}

	tracing.AddTaskStep(tracing.MsgIDAtReceiver(trans.req, m.Comp), m.Comp, "replay")
}

func (m *middleware) executeHit(
	trans *transaction,
	way int,
	ranks []int,
) bool {
	switch trans.class {
	case classLoad:
		line := m.data.Read(trans.set, way)
		payload := make([]byte, trans.size)
		copy(payload, line[trans.offset:])

		m.rob.Fill(trans.robSlot, payload)
		m.ilq.Release()
		m.lru.Write(trans.set, nextLRURanks(ranks, way))

		tracing.AddTaskStep(tracing.MsgIDAtReceiver(trans.req, m.Comp), m.Comp, "hit")

		return true

	case classStore:
		// Write-through: the store both updates the line and goes to
		// memory. The response waits for the memory acknowledgment.
		if !m.sendStoreToMemory(trans) {
			return false
		}

		lineData, lineMask := m.expandToLine(trans)
		m.data.Write(trans.set, way, lineData, lineMask)
		m.lru.Write(trans.set, nextLRURanks(ranks, way))
		m.isq.EnqueueReserved(outstandingEntry{trans: trans, way: way})

		tracing.AddTaskStep(tracing.MsgIDAtReceiver(trans.req, m.Comp), m.Comp, "hit")

		return true

	default:
		// Atomics are performed at the memory. A hit invalidates the
		// matching way so the next access refetches the updated line.
		if !m.sendAtomicToMemory(trans) {
			return false
		}

		m.states.Write(trans.set, way, LineInvalid)
		m.imq.EnqueueReserved(outstandingEntry{trans: trans, way: way})

		tracing.AddTaskStep(tracing.MsgIDAtReceiver(trans.req, m.Comp), m.Comp, "hit")

		return true
	}
}

func (m *middleware) executeMiss(
	trans *transaction,
	states []LineState,
	ranks []int,
) bool {
	tracing.AddTaskStep(tracing.MsgIDAtReceiver(trans.req, m.Comp), m.Comp, "miss")

	switch trans.class {
	case classLoad:
		victim := victimWay(states, ranks)
		if states[victim] == LineValidPendingFill {
			// The victim's fill is still outstanding. Double-issuing a
			// fill for the same way would corrupt the line.
			m.divertToReplay(trans)
			return true
		}

		if !m.sendFillToMemory(trans, victim) {
			return false
		}

		m.states.Write(trans.set, victim, LineValidPendingFill)
		m.tags.Write(trans.set, victim, trans.tag)
		m.ilq.EnqueueReserved(outstandingEntry{trans: trans, way: victim})

		return true

	case classStore:
		// No-write-allocate: the store goes to memory without touching
		// the arrays.
		if !m.sendStoreToMemory(trans) {
			return false
		}

		m.isq.EnqueueReserved(outstandingEntry{trans: trans, way: -1})

		return true

	default:
		if !m.sendAtomicToMemory(trans) {
			return false
		}

		m.imq.EnqueueReserved(outstandingEntry{trans: trans, way: -1})

		return true
	}
}

func (m *middleware) dispatchNoncacheable(trans *transaction) bool {
	switch trans.class {
	case classLoad:
		req := mem.ReadReqBuilder{}.
			WithSrc(m.bottomPort.AsRemote()).
			WithDst(m.memPort).
			WithAddress(trans.address).
			WithByteSize(trans.size).
			AsNoncacheable().
			Build()
		if err := m.bottomPort.Send(req); err != nil {
			return false
		}

		m.ilq.EnqueueReserved(outstandingEntry{trans: trans, way: -1})

		return true

	case classStore:
		if !m.sendStoreToMemory(trans) {
			return false
		}

		m.isq.EnqueueReserved(outstandingEntry{trans: trans, way: -1})

		return true

	default:
		if !m.sendAtomicToMemory(trans) {
			return false
		}

		m.imq.EnqueueReserved(outstandingEntry{trans: trans, way: -1})

		return true
	}
}

func (m *middleware) sendFillToMemory(trans *transaction, way int) bool {
	req := mem.ReadReqBuilder{}.
		WithSrc(m.bottomPort.AsRemote()).
		WithDst(m.memPort).
		WithAddress(m.lineAddr(trans.address)).
		WithByteSize(uint64(m.lineSize)).
		WithInfo(fillInfo{Way: way}).
		Build()

	return m.bottomPort.Send(req) == nil
}

func (m *middleware) sendStoreToMemory(trans *transaction) bool {
	builder := mem.WriteReqBuilder{}.
		WithSrc(m.bottomPort.AsRemote()).
		WithDst(m.memPort).
		WithAddress(trans.address).
		WithData(trans.data).
		WithDirtyMask(trans.dirtyMask)
	if trans.noncacheable {
		builder = builder.AsNoncacheable()
	}

	return m.bottomPort.Send(builder.Build()) == nil
}

func (m *middleware) sendAtomicToMemory(trans *transaction) bool {
	req := mem.AtomicReqBuilder{}.
		WithSrc(m.bottomPort.AsRemote()).
		WithDst(m.memPort).
		WithAddress(trans.address).
		WithOp(trans.atomicOp).
		WithData(trans.data).
		Build()

	return m.bottomPort.Send(req) == nil
}

func (m *middleware) expandToLine(trans *transaction) ([]byte, []bool) {
	lineData := make([]byte, m.lineSize)
	lineMask := make([]bool, m.lineSize)

	copy(lineData[trans.offset:], trans.data)
	for i := range trans.data {
		if trans.dirtyMask == nil || trans.dirtyMask[i] {
			lineMask[trans.offset+i] = true
		}
	}

	return lineData, lineMask
}

func (m *middleware) executeLoadAck(op *stageOp) bool {
	rsp := op.ack.(*mem.DataReadyRsp)

	if m.ilq.Empty() {
		log.Panic("load acknowledgment without an outstanding load")
	}

	entry := m.ilq.Dequeue()
	trans := entry.trans

	if trans.noncacheable {
		m.rob.Fill(trans.robSlot, rsp.Data)
		return true
	}

	states := m.states.Read(trans.set)
	tags := m.tags.Read(trans.set)

	// The line is installed only if the way still awaits this fill. An
	// invalidation that hit the way while the fill was in flight leaves
	// the way Invalid; the data is then delivered to the client without
	// being installed.
	if states[entry.way] == LineValidPendingFill &&
		tags[entry.way] == trans.tag {
		ranks := m.lru.Read(trans.set)

		m.states.Write(trans.set, entry.way, LineValid)
		m.data.Write(trans.set, entry.way, rsp.Data, nil)
		m.lru.Write(trans.set, nextLRURanks(ranks, entry.way))
	}

	payload := make([]byte, trans.size)
	copy(payload, rsp.Data[trans.offset:])
	m.rob.Fill(trans.robSlot, payload)

	m.rpb.Validate(trans.set)

	return true
}

func (m *middleware) executeStoreAck(op *stageOp) bool {
	if m.isq.Empty() {
		log.Panic("store acknowledgment without an outstanding store")
	}

	entry := m.isq.Dequeue()
	trans := entry.trans

	m.rob.Fill(trans.robSlot, nil)

	if !trans.noncacheable {
		m.rpb.Validate(trans.set)
	}

	return true
}

func (m *middleware) executeAtomicAck(op *stageOp) bool {
	rsp := op.ack.(*mem.AtomicDoneRsp)

	if m.imq.Empty() {
		log.Panic("atomic acknowledgment without an outstanding atomic")
	}

	entry := m.imq.Dequeue()
	trans := entry.trans

	m.rob.Fill(trans.robSlot, rsp.Data)
	m.rpb.Validate(trans.set)

	return true
}

func (m *middleware) executeInvalidateWay(op *stageOp) bool {
	if !m.sendInvalidateDone(op.inv) {
		return false
	}

	m.states.Write(op.set, op.inv.Way, LineInvalid)

	return true
}

// executeInvalidateAll clears one set per cycle, using op.set as the
// cursor. The acknowledgment is sent once every set has been cleared.
func (m *middleware) executeInvalidateAll(op *stageOp) bool {
	if op.set < m.numSets {
		m.states.WriteAll(op.set, LineInvalid)
		op.set++

		return true
	}

	if !m.sendInvalidateDone(op.inv) {
		return false
	}

	m.executeReg.Pop()

	return true
}

func (m *middleware) sendInvalidateDone(inv *mem.InvalidateReq) bool {
	rsp := mem.InvalidateDoneRspBuilder{}.
		WithSrc(m.bottomPort.AsRemote()).
		WithDst(inv.Meta().Src).
		WithRspTo(inv.Meta().ID).
		Build()

	return m.bottomPort.Send(rsp) == nil
}
