package pitoncache

import (
	"log"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
)

// processControl handles pause, enable, and reset commands. Control
// commands take effect even while the pipeline is paused.
func (m *middleware) processControl() bool {
	msg := m.controlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	ctrl, ok := msg.(*mem.ControlMsg)
	if !ok {
		log.Panicf("unexpected message type %T on the control port", msg)
	}

	rsp := sim.GeneralRspBuilder{}.
		WithSrc(m.controlPort.AsRemote()).
		WithDst(ctrl.Meta().Src).
		WithOriginalReq(ctrl).
		Build()
	if err := m.controlPort.Send(rsp); err != nil {
		return false
	}

	switch {
	case ctrl.Reset:
		m.resetState()
		m.paused = false
	case ctrl.Pause:
		m.paused = true
	case ctrl.Enable:
		m.paused = false
	}

	m.controlPort.RetrieveIncoming()

	return true
}
