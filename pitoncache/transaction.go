package pitoncache

import (
	"github.com/sarchlab/pitoncache/mem"
)

// reqClass selects the outstanding queue that a request belongs to.
type reqClass int

const (
	classLoad reqClass = iota
	classStore
	classAtomic
)

// A transaction tracks one client request from admission to response.
type transaction struct {
	req          mem.AccessReq
	class        reqClass
	noncacheable bool

	address   uint64
	size      uint64
	data      []byte
	dirtyMask []bool
	atomicOp  mem.AtomicOp

	robSlot int

	set    int
	tag    uint64
	offset int
}

// stageOpKind tags what the arbiter handed down the pipeline.
type stageOpKind int

const (
	opNewRequest stageOpKind = iota
	opReplay
	opLoadAck
	opStoreAck
	opAtomicAck
	opInvalidateWay
	opInvalidateAll
)

// A stageOp is the uniform operation record that moves through the
// stage-1 to stage-2 and stage-2 to stage-3 registers.
type stageOp struct {
	kind stageOpKind

	trans *transaction
	ack   mem.AccessRsp
	inv   *mem.InvalidateReq

	set int
	tag uint64
}
