package idealmemcontroller

import (
	"encoding/binary"
	"log"
	"reflect"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/tracing"
)

type memMiddleware struct {
	*Comp
}

func (m *memMiddleware) Tick() bool {
	madeProgress := false

	madeProgress = m.takeNewReqs() || madeProgress
	madeProgress = m.scheduleInflightReqs() || madeProgress

	return madeProgress
}

func (m *memMiddleware) takeNewReqs() (madeProgress bool) {
	if m.state != "enable" {
		return false
	}

	for i := 0; i < m.width; i++ {
		msg := m.topPort.RetrieveIncoming()
		if msg == nil {
			break
		}

		m.inflightBuffer = append(m.inflightBuffer, msg)
		madeProgress = true
	}

	return madeProgress
}

func (m *memMiddleware) scheduleInflightReqs() bool {
	madeProgress := false

	for i := 0; i < m.width; i++ {
		if len(m.inflightBuffer) == 0 {
			break
		}

		req := m.inflightBuffer[0]
		m.inflightBuffer = m.inflightBuffer[1:]

		tracing.TraceReqReceive(req, m.Comp)

		respondTime := m.Freq.NCyclesLater(m.Latency, m.Engine.CurrentTime())
		m.Engine.Schedule(newRespondEvent(respondTime, m.Comp, req))

		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) handleRespondEvent(e *respondEvent) error {
	switch req := e.req.(type) {
	case *mem.ReadReq:
		return c.respondReadReq(e, req)
	case *mem.WriteReq:
		return c.respondWriteReq(e, req)
	case *mem.AtomicReq:
		return c.respondAtomicReq(e, req)
	default:
		log.Panicf("cannot respond to request of type %s", reflect.TypeOf(req))
	}

	return nil
}

func (c *Comp) respondReadReq(e *respondEvent, req *mem.ReadReq) error {
	data, err := c.Storage.Read(req.Address, req.AccessByteSize)
	if err != nil {
		log.Panic(err)
	}

	rsp := mem.DataReadyRspBuilder{}.
		WithSrc(c.topPort.AsRemote()).
		WithDst(req.Meta().Src).
		WithRspTo(req.Meta().ID).
		WithData(data).
		Build()

	if sendErr := c.topPort.Send(rsp); sendErr != nil {
		c.retryRespond(e)
		return nil
	}

	tracing.TraceReqComplete(req, c)
	c.TickLater()

	return nil
}

func (c *Comp) respondWriteReq(e *respondEvent, req *mem.WriteReq) error {
	rsp := mem.WriteDoneRspBuilder{}.
		WithSrc(c.topPort.AsRemote()).
		WithDst(req.Meta().Src).
		WithRspTo(req.Meta().ID).
		Build()

	if sendErr := c.topPort.Send(rsp); sendErr != nil {
		c.retryRespond(e)
		return nil
	}

	c.commitWrite(req)

	tracing.TraceReqComplete(req, c)
	c.TickLater()

	return nil
}

func (c *Comp) commitWrite(req *mem.WriteReq) {
	if req.DirtyMask == nil {
		if err := c.Storage.Write(req.Address, req.Data); err != nil {
			log.Panic(err)
		}
		return
	}

	data, err := c.Storage.Read(req.Address, uint64(len(req.Data)))
	if err != nil {
		log.Panic(err)
	}

	for i := 0; i < len(req.Data); i++ {
		if req.DirtyMask[i] {
			data[i] = req.Data[i]
		}
	}

	if err := c.Storage.Write(req.Address, data); err != nil {
		log.Panic(err)
	}
}

// respondAtomicReq performs a read-modify-write and returns the value that
// was in memory before the operation.
func (c *Comp) respondAtomicReq(e *respondEvent, req *mem.AtomicReq) error {
	size := uint64(len(req.Data))

	old, err := c.Storage.Read(req.Address, size)
	if err != nil {
		log.Panic(err)
	}

	rsp := mem.AtomicDoneRspBuilder{}.
		WithSrc(c.topPort.AsRemote()).
		WithDst(req.Meta().Src).
		WithRspTo(req.Meta().ID).
		WithData(old).
		Build()

	if sendErr := c.topPort.Send(rsp); sendErr != nil {
		c.retryRespond(e)
		return nil
	}

	updated := applyAtomicOp(req.Op, old, req.Data)
	if err := c.Storage.Write(req.Address, updated); err != nil {
		log.Panic(err)
	}

	tracing.TraceReqComplete(req, c)
	c.TickLater()

	return nil
}

func (c *Comp) retryRespond(e *respondEvent) {
	retry := newRespondEvent(c.Freq.NextTick(e.Time()), c, e.req)
	c.Engine.Schedule(retry)
}

func applyAtomicOp(op mem.AtomicOp, old, operand []byte) []byte {
	if op == mem.AtomicSwap {
		return operand
	}

	a := leUint64(old)
	b := leUint64(operand)

	var result uint64
	switch op {
	case mem.AtomicAdd:
		result = a + b
	case mem.AtomicAnd:
		result = a & b
	case mem.AtomicOr:
		result = a | b
	case mem.AtomicXor:
		result = a ^ b
	case mem.AtomicMax:
		result = a
		if b > a {
			result = b
		}
	case mem.AtomicMin:
		result = a
		if b < a {
			result = b
		}
	default:
		log.Panicf("unknown atomic op %d", op)
	}

	return leBytes(result, len(old))
}

func leUint64(data []byte) uint64 {
	var buf [8]byte
	copy(buf[:], data)
	return binary.LittleEndian.Uint64(buf[:])
}

func leBytes(value uint64, size int) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)

	out := make([]byte, size)
	copy(out, buf[:])

	return out
}
