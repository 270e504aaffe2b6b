// Package mem defines the messages that the memory system components
// exchange.
package mem

import (
	"github.com/sarchlab/pitoncache/sim"
)

var accessReqByteOverhead = 12
var accessRspByteOverhead = 4
var controlMsgByteOverhead = 4

// AccessReq abstracts the requests that are sent to the cache modules or
// memory controllers.
type AccessReq interface {
	sim.Msg
	GetAddress() uint64
	GetByteSize() uint64
}

// An AccessRsp is a response in the memory system.
type AccessRsp interface {
	sim.Msg
	sim.Rsp
}

// An AtomicOp is the operation that an AtomicReq performs at the memory.
type AtomicOp int

// Atomic operations.
const (
	AtomicSwap AtomicOp = iota
	AtomicAdd
	AtomicAnd
	AtomicOr
	AtomicXor
	AtomicMax
	AtomicMin
)

// A ReadReq is a request that fetches data.
type ReadReq struct {
	sim.MsgMeta

	Address        uint64
	AccessByteSize uint64
	Noncacheable   bool
	Info           interface{}
}

// Meta returns the message meta.
func (r *ReadReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *ReadReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetByteSize returns the number of bytes that the request is accessing.
func (r *ReadReq) GetByteSize() uint64 {
	return r.AccessByteSize
}

// GetAddress returns the address that the request is accessing.
func (r *ReadReq) GetAddress() uint64 {
	return r.Address
}

// ReadReqBuilder can build read requests.
type ReadReqBuilder struct {
	src, dst          sim.RemotePort
	address, byteSize uint64
	noncacheable      bool
	info              interface{}
}

// WithSrc sets the source of the request to build.
func (b ReadReqBuilder) WithSrc(src sim.RemotePort) ReadReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b ReadReqBuilder) WithDst(dst sim.RemotePort) ReadReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the request to build.
func (b ReadReqBuilder) WithAddress(address uint64) ReadReqBuilder {
	b.address = address
	return b
}

// WithByteSize sets the byte size of the request to build.
func (b ReadReqBuilder) WithByteSize(byteSize uint64) ReadReqBuilder {
	b.byteSize = byteSize
	return b
}

// AsNoncacheable marks the request to bypass the caches on its path.
func (b ReadReqBuilder) AsNoncacheable() ReadReqBuilder {
	b.noncacheable = true
	return b
}

// WithInfo sets the Info of the request to build.
func (b ReadReqBuilder) WithInfo(info interface{}) ReadReqBuilder {
	b.info = info
	return b
}

// Build creates a new ReadReq
func (b ReadReqBuilder) Build() *ReadReq {
	r := &ReadReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = accessReqByteOverhead
	r.Address = b.address
	r.AccessByteSize = b.byteSize
	r.Noncacheable = b.noncacheable
	r.Info = b.info

	return r
}

// A WriteReq is a request that updates data.
type WriteReq struct {
	sim.MsgMeta

	Address      uint64
	Data         []byte
	DirtyMask    []bool
	Noncacheable bool
	Info         interface{}
}

// Meta returns the meta data attached to a request.
func (r *WriteReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *WriteReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetByteSize returns the number of bytes that the request is writing.
func (r *WriteReq) GetByteSize() uint64 {
	return uint64(len(r.Data))
}

// GetAddress returns the address that the request is writing to.
func (r *WriteReq) GetAddress() uint64 {
	return r.Address
}

// WriteReqBuilder can build write requests.
type WriteReqBuilder struct {
	src, dst     sim.RemotePort
	address      uint64
	data         []byte
	dirtyMask    []bool
	noncacheable bool
	info         interface{}
}

// WithSrc sets the source of the request to build.
func (b WriteReqBuilder) WithSrc(src sim.RemotePort) WriteReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b WriteReqBuilder) WithDst(dst sim.RemotePort) WriteReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the request to build.
func (b WriteReqBuilder) WithAddress(address uint64) WriteReqBuilder {
	b.address = address
	return b
}

// WithData sets the data of the request to build.
func (b WriteReqBuilder) WithData(data []byte) WriteReqBuilder {
	b.data = data
	return b
}

// WithDirtyMask sets the mask that marks the bytes to write.
func (b WriteReqBuilder) WithDirtyMask(mask []bool) WriteReqBuilder {
	b.dirtyMask = mask
	return b
}

// AsNoncacheable marks the request to bypass the caches on its path.
func (b WriteReqBuilder) AsNoncacheable() WriteReqBuilder {
	b.noncacheable = true
	return b
}

// WithInfo sets the Info of the request to build.
func (b WriteReqBuilder) WithInfo(info interface{}) WriteReqBuilder {
	b.info = info
	return b
}

// Build creates a new WriteReq
func (b WriteReqBuilder) Build() *WriteReq {
	r := &WriteReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = len(b.data) + accessReqByteOverhead
	r.Address = b.address
	r.Data = b.data
	r.DirtyMask = b.dirtyMask
	r.Noncacheable = b.noncacheable
	r.Info = b.info

	return r
}

// An AtomicReq is a request that performs a read-modify-write operation at
// the memory.
type AtomicReq struct {
	sim.MsgMeta

	Address uint64
	Op      AtomicOp
	Data    []byte
	Info    interface{}
}

// Meta returns the meta data attached to the request.
func (r *AtomicReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *AtomicReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetByteSize returns the number of bytes that the request operates on.
func (r *AtomicReq) GetByteSize() uint64 {
	return uint64(len(r.Data))
}

// GetAddress returns the address that the request operates on.
func (r *AtomicReq) GetAddress() uint64 {
	return r.Address
}

// AtomicReqBuilder can build atomic requests.
type AtomicReqBuilder struct {
	src, dst sim.RemotePort
	address  uint64
	op       AtomicOp
	data     []byte
	info     interface{}
}

// WithSrc sets the source of the request to build.
func (b AtomicReqBuilder) WithSrc(src sim.RemotePort) AtomicReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b AtomicReqBuilder) WithDst(dst sim.RemotePort) AtomicReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the request to build.
func (b AtomicReqBuilder) WithAddress(address uint64) AtomicReqBuilder {
	b.address = address
	return b
}

// WithOp sets the operation of the request to build.
func (b AtomicReqBuilder) WithOp(op AtomicOp) AtomicReqBuilder {
	b.op = op
	return b
}

// WithData sets the operand of the request to build.
func (b AtomicReqBuilder) WithData(data []byte) AtomicReqBuilder {
	b.data = data
	return b
}

// WithInfo sets the Info of the request to build.
func (b AtomicReqBuilder) WithInfo(info interface{}) AtomicReqBuilder {
	b.info = info
	return b
}

// Build creates a new AtomicReq
func (b AtomicReqBuilder) Build() *AtomicReq {
	r := &AtomicReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = len(b.data) + accessReqByteOverhead
	r.Address = b.address
	r.Op = b.op
	r.Data = b.data
	r.Info = b.info

	return r
}

// A DataReadyRsp is the response that carries the data loaded.
type DataReadyRsp struct {
	sim.MsgMeta

	RespondTo string // The ID of the request it replies
	Data      []byte
}

// Meta returns the message meta.
func (r *DataReadyRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *DataReadyRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that the respond is responding to.
func (r *DataReadyRsp) GetRspTo() string {
	return r.RespondTo
}

// DataReadyRspBuilder can build data ready responds.
type DataReadyRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	data     []byte
}

// WithSrc sets the source of the respond to build.
func (b DataReadyRspBuilder) WithSrc(src sim.RemotePort) DataReadyRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the respond to build.
func (b DataReadyRspBuilder) WithDst(dst sim.RemotePort) DataReadyRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets ID of the request that the respond to build is replying to.
func (b DataReadyRspBuilder) WithRspTo(id string) DataReadyRspBuilder {
	b.rspTo = id
	return b
}

// WithData sets the data of the respond to build.
func (b DataReadyRspBuilder) WithData(data []byte) DataReadyRspBuilder {
	b.data = data
	return b
}

// Build creates a new DataReadyRsp
func (b DataReadyRspBuilder) Build() *DataReadyRsp {
	r := &DataReadyRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = len(b.data) + accessRspByteOverhead
	r.RespondTo = b.rspTo
	r.Data = b.data

	return r
}

// A WriteDoneRsp is the response for a WriteReq.
type WriteDoneRsp struct {
	sim.MsgMeta

	RespondTo string
}

// Meta returns the message meta.
func (r *WriteDoneRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *WriteDoneRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that the respond is responding to.
func (r *WriteDoneRsp) GetRspTo() string {
	return r.RespondTo
}

// WriteDoneRspBuilder can build write done responds.
type WriteDoneRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
}

// WithSrc sets the source of the respond to build.
func (b WriteDoneRspBuilder) WithSrc(src sim.RemotePort) WriteDoneRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the respond to build.
func (b WriteDoneRspBuilder) WithDst(dst sim.RemotePort) WriteDoneRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets ID of the request that the respond to build is replying to.
func (b WriteDoneRspBuilder) WithRspTo(id string) WriteDoneRspBuilder {
	b.rspTo = id
	return b
}

// Build creates a new WriteDoneRsp
func (b WriteDoneRspBuilder) Build() *WriteDoneRsp {
	r := &WriteDoneRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = accessRspByteOverhead
	r.RespondTo = b.rspTo

	return r
}

// An AtomicDoneRsp is the response for an AtomicReq. It carries the value
// at the address before the operation.
type AtomicDoneRsp struct {
	sim.MsgMeta

	RespondTo string
	Data      []byte
}

// Meta returns the message meta.
func (r *AtomicDoneRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *AtomicDoneRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that the respond is responding to.
func (r *AtomicDoneRsp) GetRspTo() string {
	return r.RespondTo
}

// AtomicDoneRspBuilder can build atomic done responds.
type AtomicDoneRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	data     []byte
}

// WithSrc sets the source of the respond to build.
func (b AtomicDoneRspBuilder) WithSrc(src sim.RemotePort) AtomicDoneRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the respond to build.
func (b AtomicDoneRspBuilder) WithDst(dst sim.RemotePort) AtomicDoneRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets ID of the request that the respond to build is replying to.
func (b AtomicDoneRspBuilder) WithRspTo(id string) AtomicDoneRspBuilder {
	b.rspTo = id
	return b
}

// WithData sets the data of the respond to build.
func (b AtomicDoneRspBuilder) WithData(data []byte) AtomicDoneRspBuilder {
	b.data = data
	return b
}

// Build creates a new AtomicDoneRsp
func (b AtomicDoneRspBuilder) Build() *AtomicDoneRsp {
	r := &AtomicDoneRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = len(b.data) + accessRspByteOverhead
	r.RespondTo = b.rspTo
	r.Data = b.data

	return r
}
