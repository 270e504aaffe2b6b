// Package pitoncache provides a cycle-level model of a pipelined
// set-associative cache controller. The controller accepts memory responses
// out of order, replays requests that raced with in-flight fills, and
// guarantees in-order completion to its client.
package pitoncache

import (
	"math/bits"

	"github.com/sarchlab/pitoncache/sim"
)

// A Comp is a 3-stage pipelined cache controller.
//
// The topPort faces the client. The bottomPort faces the memory. The
// controlPort pauses, resumes, and resets the controller.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	topPort     sim.Port
	bottomPort  sim.Port
	controlPort sim.Port

	memPort sim.RemotePort

	numSets      int
	numWays      int
	lineSize     int
	blockOffBits int
	setBits      int

	states *stateArray
	tags   *tagArray
	lru    *lruArray
	data   *dataArray

	decodeReg  sim.Buffer
	executeReg sim.Buffer

	rob *reorderBuffer
	rpb *replayBuffer
	ilq *outstandingQueue
	isq *outstandingQueue
	imq *outstandingQueue

	sweepIdx        int
	busy            bool
	replaysInFlight int
	paused          bool
}

// Tick updates the state of the cache controller.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// TopPort returns the client-facing port.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}

// BottomPort returns the memory-facing port.
func (c *Comp) BottomPort() sim.Port {
	return c.bottomPort
}

// ControlPort returns the control port.
func (c *Comp) ControlPort() sim.Port {
	return c.controlPort
}

// SetMemoryPort sets the remote port that memory-side requests are sent to.
func (c *Comp) SetMemoryPort(port sim.RemotePort) {
	c.memPort = port
}

// initializing reports whether the power-on sweep is still walking the sets.
func (c *Comp) initializing() bool {
	return c.sweepIdx < c.numSets
}

func (c *Comp) geometry(addr uint64) (set int, tag uint64, offset int) {
	offset = int(addr & uint64(c.lineSize-1))
	set = int((addr >> c.blockOffBits) & uint64(c.numSets-1))
	tag = addr >> (c.blockOffBits + c.setBits)

	return set, tag, offset
}

func (c *Comp) lineAddr(addr uint64) uint64 {
	return addr &^ uint64(c.lineSize-1)
}

func (c *Comp) queueFor(class reqClass) *outstandingQueue {
	switch class {
	case classLoad:
		return c.ilq
	case classStore:
		return c.isq
	default:
		return c.imq
	}
}

func (c *Comp) resetState() {
	c.decodeReg.Clear()
	c.executeReg.Clear()
	c.rob.Clear()
	c.rpb.Clear()
	c.ilq.Clear()
	c.isq.Clear()
	c.imq.Clear()
	c.sweepIdx = 0
	c.busy = true
	c.replaysInFlight = 0
}

func mustLog2(n int, what string) int {
	if n <= 0 || n&(n-1) != 0 {
		panic(what + " must be a power of two")
	}

	return bits.TrailingZeros(uint(n))
}
