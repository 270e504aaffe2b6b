package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/pitoncache/mem/idealmemcontroller"
	"github.com/sarchlab/pitoncache/pitoncache"
	"github.com/sarchlab/pitoncache/sim"
	"github.com/sarchlab/pitoncache/sim/directconnection"
)

var seedFlag = flag.Int64("seed", 0, "Random Seed")
var numAccessFlag = flag.Int("num-access", 100000,
	"Number of accesses to generate")
var numAtomicFlag = flag.Int("num-atomic", 10000,
	"Number of atomic operations to generate")
var maxAddressFlag = flag.Uint64("max-address", 1048576, "Address range to use")

var engine sim.Engine
var agent *memaccessagent.MemAccessAgent

func main() {
	flag.Parse()

	initSeed()
	buildEnvironment()
	runSimulation()
	allMsgsMustBeSent()
}

func initSeed() {
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Seed %d\n", seed)
	rand.Seed(seed)
}

func buildEnvironment() {
	engine = sim.NewSerialEngine()

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Conn")

	cache := pitoncache.MakeBuilder().
		WithEngine(engine).
		WithNumSets(64).
		WithNumWays(4).
		WithLineSize(64).
		WithReorderBufferDepth(16).
		Build("Cache")

	dram := idealmemcontroller.MakeBuilder().
		WithEngine(engine).
		WithLatency(100).
		WithNewStorage(4 * mem.GB).
		Build("DRAM")

	agent = memaccessagent.MakeBuilder().
		WithEngine(engine).
		WithMaxAddress(*maxAddressFlag).
		WithWriteLeft(*numAccessFlag).
		WithReadLeft(*numAccessFlag).
		WithAtomicLeft(*numAtomicFlag).
		WithLowModule(cache.TopPort().AsRemote()).
		Build("MemAccessAgent")

	cache.SetMemoryPort(dram.TopPort().AsRemote())

	conn.PlugIn(agent.GetPortByName("Mem"))
	conn.PlugIn(cache.TopPort())
	conn.PlugIn(cache.BottomPort())
	conn.PlugIn(dram.TopPort())

	agent.TickLater()
}

func runSimulation() {
	err := engine.Run()
	if err != nil {
		panic(err)
	}
}

func allMsgsMustBeSent() {
	if !agent.Done() {
		panic("not all requests returned")
	}
}
