// Package memaccessagent provides an agent that stresses caches and memory
// controllers with randomized read, write, and atomic traffic, checking
// every response against the expected memory state.
package memaccessagent

import (
	"encoding/binary"
	"log"
	"math/rand"
	"reflect"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
)

var dumpLog = false

// A MemAccessAgent is a Component that can help testing caches and memory
// controllers by generating a large number of requests.
type MemAccessAgent struct {
	*sim.TickingComponent

	LowModule  sim.RemotePort
	MaxAddress uint64

	WriteLeft  int
	ReadLeft   int
	AtomicLeft int

	KnownMemValue    map[uint64]uint32
	PendingReadReq   map[string]*mem.ReadReq
	PendingWriteReq  map[string]*mem.WriteReq
	PendingAtomicReq map[string]atomicExpectation

	issueOrder []string

	memPort sim.Port
}

type atomicExpectation struct {
	req      *mem.AtomicReq
	expected uint32
}

// Tick updates the states of the agent and issues new requests.
func (a *MemAccessAgent) Tick() bool {
	madeProgress := false

	madeProgress = a.processMsgRsp() || madeProgress

	switch a.pickAction() {
	case "read":
		madeProgress = a.doRead() || madeProgress
	case "write":
		madeProgress = a.doWrite() || madeProgress
	case "atomic":
		madeProgress = a.doAtomic() || madeProgress
	}

	return madeProgress
}

func (a *MemAccessAgent) pickAction() string {
	candidates := make([]string, 0, 3)

	if a.WriteLeft > 0 {
		candidates = append(candidates, "write")
	}
	if a.ReadLeft > 0 && len(a.KnownMemValue) > 0 {
		candidates = append(candidates, "read")
	}
	if a.AtomicLeft > 0 && len(a.KnownMemValue) > 0 {
		candidates = append(candidates, "atomic")
	}

	if len(candidates) == 0 {
		return ""
	}

	return candidates[rand.Intn(len(candidates))]
}

func (a *MemAccessAgent) processMsgRsp() bool {
	msg := a.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	a.checkResponseOrder(msg)

	switch msg := msg.(type) {
	case *mem.WriteDoneRsp:
		write := a.PendingWriteReq[msg.RespondTo]
		a.KnownMemValue[write.Address] = bytesToUint32(write.Data)
		delete(a.PendingWriteReq, msg.RespondTo)

		if dumpLog {
			log.Printf("agent, write complete, 0x%X\n", write.Address)
		}

		return true
	case *mem.DataReadyRsp:
		req := a.PendingReadReq[msg.RespondTo]
		delete(a.PendingReadReq, msg.RespondTo)
		a.checkReadResult(req, msg)

		if dumpLog {
			log.Printf("agent, read complete, 0x%X, %v\n",
				req.Address, msg.Data)
		}

		return true
	case *mem.AtomicDoneRsp:
		a.checkAtomicResult(msg)

		return true
	default:
		log.Panicf("cannot process message of type %s", reflect.TypeOf(msg))
	}

	return false
}

// checkResponseOrder panics if responses come back in a different order
// than the requests were issued.
func (a *MemAccessAgent) checkResponseOrder(msg sim.Msg) {
	rsp, ok := msg.(sim.Rsp)
	if !ok {
		log.Panicf("message of type %s is not a response",
			reflect.TypeOf(msg))
	}

	if len(a.issueOrder) == 0 {
		log.Panic("response arrived with no request outstanding")
	}

	if a.issueOrder[0] != rsp.GetRspTo() {
		log.Panicf("out-of-order response: expected %s, got %s",
			a.issueOrder[0], rsp.GetRspTo())
	}

	a.issueOrder = a.issueOrder[1:]
}

func (a *MemAccessAgent) checkReadResult(
	req *mem.ReadReq,
	rsp *mem.DataReadyRsp,
) {
	found := bytesToUint32(rsp.Data)
	expected := a.KnownMemValue[req.Address]

	if found != expected {
		log.Panicf("read 0x%X: expected 0x%08X, got 0x%08X",
			req.Address, expected, found)
	}
}

func (a *MemAccessAgent) checkAtomicResult(rsp *mem.AtomicDoneRsp) {
	expectation, ok := a.PendingAtomicReq[rsp.RespondTo]
	if !ok {
		log.Panic("atomic response does not match any pending request")
	}
	delete(a.PendingAtomicReq, rsp.RespondTo)

	req := expectation.req
	found := bytesToUint32(rsp.Data)

	if found != expectation.expected {
		log.Panicf("atomic 0x%X: expected old value 0x%08X, got 0x%08X",
			req.Address, expectation.expected, found)
	}

	a.KnownMemValue[req.Address] =
		expectation.expected + bytesToUint32(req.Data)
}

func (a *MemAccessAgent) doRead() bool {
	address := a.randomKnownAddress()
	if a.isAddressInPendingReq(address) {
		return false
	}

	readReq := mem.ReadReqBuilder{}.
		WithSrc(a.memPort.AsRemote()).
		WithDst(a.LowModule).
		WithAddress(address).
		WithByteSize(4).
		Build()

	if err := a.memPort.Send(readReq); err != nil {
		return false
	}

	a.PendingReadReq[readReq.ID] = readReq
	a.issueOrder = append(a.issueOrder, readReq.ID)
	a.ReadLeft--

	if dumpLog {
		log.Printf("agent, read, 0x%X\n", address)
	}

	return true
}

func (a *MemAccessAgent) doWrite() bool {
	address := rand.Uint64() % (a.MaxAddress / 4) * 4
	data := rand.Uint32()

	if a.isAddressInPendingReq(address) {
		return false
	}

	writeReq := mem.WriteReqBuilder{}.
		WithSrc(a.memPort.AsRemote()).
		WithDst(a.LowModule).
		WithAddress(address).
		WithData(uint32ToBytes(data)).
		Build()

	if err := a.memPort.Send(writeReq); err != nil {
		return false
	}

	a.PendingWriteReq[writeReq.ID] = writeReq
	a.issueOrder = append(a.issueOrder, writeReq.ID)
	a.WriteLeft--

	if dumpLog {
		log.Printf("agent, write, 0x%X, %v\n", address, writeReq.Data)
	}

	return true
}

func (a *MemAccessAgent) doAtomic() bool {
	address := a.randomKnownAddress()
	if a.isAddressInPendingReq(address) {
		return false
	}

	operand := rand.Uint32()
	atomicReq := mem.AtomicReqBuilder{}.
		WithSrc(a.memPort.AsRemote()).
		WithDst(a.LowModule).
		WithAddress(address).
		WithOp(mem.AtomicAdd).
		WithData(uint32ToBytes(operand)).
		Build()

	if err := a.memPort.Send(atomicReq); err != nil {
		return false
	}

	a.PendingAtomicReq[atomicReq.ID] = atomicExpectation{
		req:      atomicReq,
		expected: a.KnownMemValue[address],
	}
	a.issueOrder = append(a.issueOrder, atomicReq.ID)
	a.AtomicLeft--

	if dumpLog {
		log.Printf("agent, atomic, 0x%X, %v\n", address, atomicReq.Data)
	}

	return true
}

func (a *MemAccessAgent) randomKnownAddress() uint64 {
	for {
		addr := rand.Uint64() % (a.MaxAddress / 4) * 4
		if _, written := a.KnownMemValue[addr]; written {
			return addr
		}
	}
}

func (a *MemAccessAgent) isAddressInPendingReq(addr uint64) bool {
	for _, read := range a.PendingReadReq {
		if read.Address == addr {
			return true
		}
	}

	for _, write := range a.PendingWriteReq {
		if write.Address == addr {
			return true
		}
	}

	for _, atomic := range a.PendingAtomicReq {
		if atomic.req.Address == addr {
			return true
		}
	}

	return false
}

// Done reports whether all traffic is generated and all responses arrived.
func (a *MemAccessAgent) Done() bool {
	return a.ReadLeft == 0 && a.WriteLeft == 0 && a.AtomicLeft == 0 &&
		len(a.issueOrder) == 0
}

func uint32ToBytes(data uint32) []byte {
	bytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(bytes, data)

	return bytes
}

func bytesToUint32(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data)
}
