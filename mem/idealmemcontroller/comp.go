// Package idealmemcontroller provides a memory controller that responds to
// every request after a fixed number of cycles, with no bandwidth limit.
package idealmemcontroller

import (
	"log"
	"reflect"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
)

type respondEvent struct {
	*sim.EventBase
	req sim.Msg
}

func newRespondEvent(
	time sim.VTimeInSec,
	handler sim.Handler,
	req sim.Msg,
) *respondEvent {
	return &respondEvent{sim.NewEventBase(time, handler), req}
}

// A Comp is an ideal memory controller. It serves reads, writes, and
// atomic operations against a backing storage after a fixed latency.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	topPort  sim.Port
	ctrlPort sim.Port

	Storage *mem.Storage
	Latency int

	width          int
	inflightBuffer []sim.Msg
	state          string
}

// Handle defines how the Comp handles events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *respondEvent:
		return c.handleRespondEvent(e)
	case sim.TickEvent:
		return c.TickingComponent.Handle(e)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}

// Tick updates the controller state.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// TopPort returns the port that accepts memory requests.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}

// CtrlPort returns the port that accepts control commands.
func (c *Comp) CtrlPort() sim.Port {
	return c.ctrlPort
}
