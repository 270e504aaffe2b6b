package memaccessagent

import (
	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
)

// A Builder can build MemAccessAgents.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	maxAddress uint64
	writeLeft  int
	readLeft   int
	atomicLeft int
	lowModule  sim.RemotePort
}

// MakeBuilder returns a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.GHz,
		maxAddress: 1024 * 1024,
		writeLeft:  1000,
		readLeft:   1000,
	}
}

// WithEngine sets the engine the agent runs on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the agent.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMaxAddress sets the address range to access.
func (b Builder) WithMaxAddress(addr uint64) Builder {
	b.maxAddress = addr
	return b
}

// WithWriteLeft sets the number of writes to generate.
func (b Builder) WithWriteLeft(write int) Builder {
	b.writeLeft = write
	return b
}

// WithReadLeft sets the number of reads to generate.
func (b Builder) WithReadLeft(read int) Builder {
	b.readLeft = read
	return b
}

// WithAtomicLeft sets the number of atomic operations to generate.
func (b Builder) WithAtomicLeft(atomic int) Builder {
	b.atomicLeft = atomic
	return b
}

// WithLowModule sets the port that the agent sends requests to.
func (b Builder) WithLowModule(port sim.RemotePort) Builder {
	b.lowModule = port
	return b
}

// Build creates a MemAccessAgent.
func (b Builder) Build(name string) *MemAccessAgent {
	agent := new(MemAccessAgent)
	agent.TickingComponent =
		sim.NewTickingComponent(name, b.engine, b.freq, agent)

	agent.MaxAddress = b.maxAddress
	agent.WriteLeft = b.writeLeft
	agent.ReadLeft = b.readLeft
	agent.AtomicLeft = b.atomicLeft
	agent.LowModule = b.lowModule

	agent.KnownMemValue = make(map[uint64]uint32)
	agent.PendingReadReq = make(map[string]*mem.ReadReq)
	agent.PendingWriteReq = make(map[string]*mem.WriteReq)
	agent.PendingAtomicReq = make(map[string]atomicExpectation)

	agent.memPort = sim.NewPort(agent, 1, 1, name+".Mem")
	agent.AddPort("Mem", agent.memPort)

	return agent
}
