package idealmemcontroller

import (
	"log"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
)

type ctrlMiddleware struct {
	*Comp
}

func (m *ctrlMiddleware) Tick() bool {
	msg := m.ctrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	ctrl, ok := msg.(*mem.ControlMsg)
	if !ok {
		log.Panicf("unexpected message type %T on the control port", msg)
	}

	rsp := sim.GeneralRspBuilder{}.
		WithSrc(m.ctrlPort.AsRemote()).
		WithDst(ctrl.Meta().Src).
		WithOriginalReq(ctrl).
		Build()
	if err := m.ctrlPort.Send(rsp); err != nil {
		return false
	}

	switch {
	case ctrl.Reset:
		m.inflightBuffer = nil
		m.state = "enable"
	case ctrl.Pause:
		m.state = "pause"
	case ctrl.Enable:
		m.state = "enable"
	}

	m.ctrlPort.RetrieveIncoming()

	return true
}
