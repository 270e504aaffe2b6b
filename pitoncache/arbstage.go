package pitoncache

import (
	"log"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/tracing"
)

// arbitrate is stage 1. Each cycle it selects at most one input source in
// strict priority order: memory-side message, replay buffer, new client
// request. Memory responses are never blocked by client backpressure.
func (m *middleware) arbitrate() bool {
	if m.paused || m.busy {
		return false
	}

	if !m.decodeReg.CanPush() {
		return false
	}

	if msg := m.bottomPort.PeekIncoming(); msg != nil {
		op := m.opForBottomMsg(msg)
		m.decodeReg.Push(op)
		m.bottomPort.RetrieveIncoming()

		return true
	}

	if m.rpb.AwaitingDequeue() {
		trans := m.rpb.Dequeue()
		m.replaysInFlight++
		m.decodeReg.Push(&stageOp{kind: opReplay, trans: trans})

		return true
	}

	return m.admitClientReq()
}

func (m *middleware) opForBottomMsg(msg interface{}) *stageOp {
	switch msg := msg.(type) {
	case *mem.DataReadyRsp:
		return &stageOp{kind: opLoadAck, ack: msg}
	case *mem.WriteDoneRsp:
		return &stageOp{kind: opStoreAck, ack: msg}
	case *mem.AtomicDoneRsp:
		return &stageOp{kind: opAtomicAck, ack: msg}
	case *mem.InvalidateReq:
		if msg.AllWays {
			return &stageOp{kind: opInvalidateAll, inv: msg}
		}
		return &stageOp{kind: opInvalidateWay, inv: msg}
	default:
		log.Panicf("unexpected message type %T from memory", msg)
		return nil
	}
}

// admitClientReq takes the next client request if the downstream resources
// it needs are available. Admission allocates the reorder buffer slot and
// reserves the outstanding queue slot that the request class needs.
// No new request is admitted while the replay buffer is occupied or a
// replayed request is still in the pipeline. This bounds the colliding
// population to the buffered entry plus the one handover slot.
func (m *middleware) admitClientReq() bool {
	msg := m.topPort.PeekIncoming()
	if msg == nil {
		return false
	}

	if !m.rpb.Empty() || m.replaysInFlight > 0 {
		return false
	}

	if !m.rob.CanAllocate() {
		return false
	}

	trans := m.transFor(msg)

	queue := m.queueFor(trans.class)
	if !queue.CanReserve() {
		return false
	}

	trans.robSlot = m.rob.Allocate(trans)
	queue.Reserve()

	m.decodeReg.Push(&stageOp{kind: opNewRequest, trans: trans})
	m.topPort.RetrieveIncoming()

	tracing.TraceReqReceive(trans.req, m.Comp)

	return true
}

func (m *middleware) transFor(msg interface{}) *transaction {
	switch req := msg.(type) {
	case *mem.ReadReq:
		return &transaction{
			req:          req,
			class:        classLoad,
			noncacheable: req.Noncacheable,
			address:      req.Address,
			size:         req.AccessByteSize,
		}
	case *mem.WriteReq:
		return &transaction{
			req:          req,
			class:        classStore,
			noncacheable: req.Noncacheable,
			address:      req.Address,
			size:         uint64(len(req.Data)),
			data:         req.Data,
			dirtyMask:    req.DirtyMask,
		}
	case *mem.AtomicReq:
		return &transaction{
			req:      req,
			class:    classAtomic,
			address:  req.Address,
			size:     uint64(len(req.Data)),
			data:     req.Data,
			atomicOp: req.Op,
		}
	default:
		log.Panicf("unexpected request type %T from client", msg)
		return nil
	}
}
