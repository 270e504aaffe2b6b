package pitoncache

import (
	"github.com/sarchlab/pitoncache/sim"
)

// A Builder can build cache controllers.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	numSets    int
	numWays    int
	lineSize   int
	robDepth   int
	loadQSize  int
	storeQSize int
	miscQSize  int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.GHz,
		numSets:    64,
		numWays:    4,
		lineSize:   64,
		robDepth:   16,
		loadQSize:  8,
		storeQSize: 8,
		miscQSize:  4,
	}
}

// WithEngine sets the event-driven simulation engine to use.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the controller.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithNumSets sets the number of sets. It must be a power of two.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithNumWays sets the associativity.
func (b Builder) WithNumWays(numWays int) Builder {
	b.numWays = numWays
	return b
}

// WithLineSize sets the cache line size in bytes. It must be a power of two.
func (b Builder) WithLineSize(lineSize int) Builder {
	b.lineSize = lineSize
	return b
}

// WithReorderBufferDepth sets the number of in-flight client requests. It
// must be a power of two.
func (b Builder) WithReorderBufferDepth(depth int) Builder {
	b.robDepth = depth
	return b
}

// WithLoadQueueSize sets the capacity of the outstanding-load queue.
func (b Builder) WithLoadQueueSize(size int) Builder {
	b.loadQSize = size
	return b
}

// WithStoreQueueSize sets the capacity of the outstanding-store queue.
func (b Builder) WithStoreQueueSize(size int) Builder {
	b.storeQSize = size
	return b
}

// WithMiscQueueSize sets the capacity of the outstanding-atomic queue.
func (b Builder) WithMiscQueueSize(size int) Builder {
	b.miscQSize = size
	return b
}

// Build creates a cache controller.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		numSets:  b.numSets,
		numWays:  b.numWays,
		lineSize: b.lineSize,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.blockOffBits = mustLog2(b.lineSize, "line size")
	c.setBits = mustLog2(b.numSets, "number of sets")

	c.topPort = sim.NewPort(c, 4, 4, name+".TopPort")
	c.bottomPort = sim.NewPort(c, 4, 4, name+".BottomPort")
	c.controlPort = sim.NewPort(c, 1, 1, name+".ControlPort")
	c.AddPort("Top", c.topPort)
	c.AddPort("Bottom", c.bottomPort)
	c.AddPort("Control", c.controlPort)

	c.states = newStateArray(b.numSets, b.numWays)
	c.tags = newTagArray(b.numSets, b.numWays)
	c.lru = newLRUArray(b.numSets, b.numWays)
	c.data = newDataArray(b.numSets, b.numWays, b.lineSize)

	c.decodeReg = sim.NewBuffer(name+".DecodeReg", 1)
	c.executeReg = sim.NewBuffer(name+".ExecuteReg", 1)

	c.busy = true

	c.rob = newReorderBuffer(b.robDepth)
	c.rpb = newReplayBuffer()
	c.ilq = newOutstandingQueue(b.loadQSize)
	c.isq = newOutstandingQueue(b.storeQSize)
	c.imq = newOutstandingQueue(b.miscQSize)

	c.AddMiddleware(&middleware{Comp: c})

	return c
}
