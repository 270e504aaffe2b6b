package pitoncache

import (
	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
	"github.com/sarchlab/pitoncache/tracing"
)

// respond retires the oldest completed reorder-buffer entry by sending the
// response to the client. At most one response leaves per cycle.
func (m *middleware) respond() bool {
	entry, ok := m.rob.OldestReady()
	if !ok {
		return false
	}

	trans := entry.trans
	rsp := m.responseFor(trans, entry.data)

	if err := m.topPort.Send(rsp); err != nil {
		return false
	}

	m.rob.Retire()

	tracing.TraceReqComplete(trans.req, m.Comp)

	return true
}

func (m *middleware) responseFor(trans *transaction, data []byte) sim.Msg {
	meta := trans.req.Meta()

	switch trans.class {
	case classLoad:
		return mem.DataReadyRspBuilder{}.
			WithSrc(m.topPort.AsRemote()).
			WithDst(meta.Src).
			WithRspTo(meta.ID).
			WithData(data).
			Build()
	case classStore:
		return mem.WriteDoneRspBuilder{}.
			WithSrc(m.topPort.AsRemote()).
			WithDst(meta.Src).
			WithRspTo(meta.ID).
			Build()
	default:
		return mem.AtomicDoneRspBuilder{}.
			WithSrc(m.topPort.AsRemote()).
			WithDst(meta.Src).
			WithRspTo(meta.ID).
			WithData(data).
			Build()
	}
}
