package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/pitoncache/mem/idealmemcontroller"
	"github.com/sarchlab/pitoncache/pitoncache"
	"github.com/sarchlab/pitoncache/sim"
	"github.com/sarchlab/pitoncache/sim/directconnection"
	"github.com/sarchlab/pitoncache/simulation"
	"github.com/sarchlab/pitoncache/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run randomized traffic through the cache controller",
	Long: `Run builds a cache controller backed by an ideal memory ` +
		`controller, drives it with randomized read, write, and atomic ` +
		`traffic, and reports hit, miss, and replay statistics.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runSimulation(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("num-sets", 64, "Number of sets in the cache")
	runCmd.Flags().Int("num-ways", 4, "Number of ways per set")
	runCmd.Flags().Int("line-size", 64, "Cache line size in bytes")
	runCmd.Flags().Int("rob-depth", 16, "Reorder buffer depth")
	runCmd.Flags().Int("num-access", 10000,
		"Number of reads and writes to generate")
	runCmd.Flags().Int("num-atomic", 1000,
		"Number of atomic operations to generate")
	runCmd.Flags().Uint64("max-address", 1048576, "Address range to use")
	runCmd.Flags().Int("mem-latency", 100, "Memory latency in cycles")
	runCmd.Flags().Int64("seed", 0, "Random seed, 0 picks one from the clock")
	runCmd.Flags().Int("monitor-port", 0,
		"Port for the monitoring server, 0 picks a random port")
	runCmd.Flags().Bool("no-monitor", false,
		"Disable the monitoring server")
	runCmd.Flags().Bool("open-dashboard", false,
		"Open the monitoring dashboard in a browser")
	runCmd.Flags().String("output", "",
		"Name of the output database file")
}

func runSimulation(cmd *cobra.Command) {
	initRunSeed(cmd)

	s := buildSimulation(cmd)
	cache, agent, stepCounter := buildPlatform(cmd, s)

	if mustBool(cmd, "open-dashboard") {
		openDashboard(s)
	}

	agent.TickLater()

	err := s.GetEngine().Run()
	if err != nil {
		panic(err)
	}

	if !agent.Done() {
		fmt.Fprintf(os.Stderr, "not all requests returned\n")
		s.Terminate()
		atexit.Exit(1)
	}

	reportStats(cache, stepCounter)

	s.Terminate()
	atexit.Exit(0)
}

func initRunSeed(cmd *cobra.Command) {
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		panic(err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Seed %d\n", seed)
	rand.Seed(seed)
}

func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	b := simulation.MakeBuilder()

	if mustBool(cmd, "no-monitor") {
		b = b.WithoutMonitoring()
	} else if port := mustInt(cmd, "monitor-port"); port != 0 {
		b = b.WithMonitorPort(port)
	}

	if output := mustString(cmd, "output"); output != "" {
		b = b.WithOutputFileName(output)
	}

	return b.Build()
}

func buildPlatform(
	cmd *cobra.Command,
	s *simulation.Simulation,
) (*pitoncache.Comp, *memaccessagent.MemAccessAgent, *tracing.StepCountTracer) {
	engine := s.GetEngine()

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Conn")

	cache := pitoncache.MakeBuilder().
		WithEngine(engine).
		WithNumSets(mustInt(cmd, "num-sets")).
		WithNumWays(mustInt(cmd, "num-ways")).
		WithLineSize(mustInt(cmd, "line-size")).
		WithReorderBufferDepth(mustInt(cmd, "rob-depth")).
		Build("Cache")

	dram := idealmemcontroller.MakeBuilder().
		WithEngine(engine).
		WithLatency(mustInt(cmd, "mem-latency")).
		WithNewStorage(4 * mem.GB).
		Build("DRAM")

	maxAddress, err := cmd.Flags().GetUint64("max-address")
	if err != nil {
		panic(err)
	}

	numAccess := mustInt(cmd, "num-access")
	agent := memaccessagent.MakeBuilder().
		WithEngine(engine).
		WithMaxAddress(maxAddress).
		WithWriteLeft(numAccess).
		WithReadLeft(numAccess).
		WithAtomicLeft(mustInt(cmd, "num-atomic")).
		WithLowModule(cache.TopPort().AsRemote()).
		Build("MemAccessAgent")

	cache.SetMemoryPort(dram.TopPort().AsRemote())

	conn.PlugIn(agent.GetPortByName("Mem"))
	conn.PlugIn(cache.TopPort())
	conn.PlugIn(cache.BottomPort())
	conn.PlugIn(dram.TopPort())

	s.RegisterComponent(conn)
	s.RegisterComponent(cache)
	s.RegisterComponent(dram)
	s.RegisterComponent(agent)

	s.CollectVisTrace(cache)

	stepCounter := tracing.NewStepCountTracer(
		func(t tracing.Task) bool { return t.Kind == "req_in" })
	tracing.CollectTrace(cache, stepCounter)

	return cache, agent, stepCounter
}

func openDashboard(s *simulation.Simulation) {
	monitor := s.GetMonitor()
	if monitor == nil {
		fmt.Fprintf(os.Stderr,
			"cannot open dashboard, monitoring is disabled\n")
		return
	}

	err := browser.OpenURL(monitor.DashboardURL())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open dashboard: %v\n", err)
	}
}

func reportStats(cache *pitoncache.Comp, t *tracing.StepCountTracer) {
	fmt.Fprintf(os.Stderr, "Statistics for %s:\n", cache.Name())

	for _, step := range t.GetStepNames() {
		fmt.Fprintf(os.Stderr, "\t%s: %d\n", step, t.GetStepCount(step))
	}
}

func mustInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(err)
	}

	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(err)
	}

	return v
}

func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}

	return v
}
