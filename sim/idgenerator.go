package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator assigns IDs to messages and other simulation entities.
type IDGenerator interface {
	Generate() string
}

var (
	idGeneratorMu    sync.Mutex
	idGeneratorInUse bool
	idGenerator      IDGenerator
)

// UseSequentialIDGenerator selects sequential, deterministic IDs. The
// generator type cannot change once an ID has been generated.
func UseSequentialIDGenerator() {
	selectIDGenerator(&sequentialIDGenerator{})
}

// UseParallelIDGenerator selects IDs that can be generated from multiple
// goroutines. The IDs are no longer deterministic.
func UseParallelIDGenerator() {
	selectIDGenerator(parallelIDGenerator{})
}

func selectIDGenerator(g IDGenerator) {
	idGeneratorMu.Lock()
	defer idGeneratorMu.Unlock()

	if idGeneratorInUse {
		log.Panic("cannot change id generator type after using it")
	}

	idGenerator = g
	idGeneratorInUse = true
}

// GetIDGenerator returns the ID generator of the current simulation,
// defaulting to the sequential one.
func GetIDGenerator() IDGenerator {
	if idGeneratorInUse {
		return idGenerator
	}

	idGeneratorMu.Lock()
	defer idGeneratorMu.Unlock()

	if !idGeneratorInUse {
		idGenerator = &sequentialIDGenerator{}
		idGeneratorInUse = true
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	next uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

type parallelIDGenerator struct{}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}
