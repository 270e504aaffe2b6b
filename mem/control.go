package mem

import (
	"github.com/sarchlab/pitoncache/sim"
)

// An InvalidateReq asks a cache to discard cached copies. It can name a
// single line by address and way, or target every line in the cache.
type InvalidateReq struct {
	sim.MsgMeta

	Address uint64
	Way     int
	AllWays bool
}

// Meta returns the message meta.
func (r *InvalidateReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *InvalidateReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// InvalidateReqBuilder can build invalidate requests.
type InvalidateReqBuilder struct {
	src, dst sim.RemotePort
	address  uint64
	way      int
	allWays  bool
}

// WithSrc sets the source of the request to build.
func (b InvalidateReqBuilder) WithSrc(src sim.RemotePort) InvalidateReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b InvalidateReqBuilder) WithDst(dst sim.RemotePort) InvalidateReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the line to invalidate.
func (b InvalidateReqBuilder) WithAddress(address uint64) InvalidateReqBuilder {
	b.address = address
	return b
}

// WithWay sets the way of the line to invalidate.
func (b InvalidateReqBuilder) WithWay(way int) InvalidateReqBuilder {
	b.way = way
	return b
}

// TargetingAllWays makes the request invalidate the whole cache.
func (b InvalidateReqBuilder) TargetingAllWays() InvalidateReqBuilder {
	b.allWays = true
	return b
}

// Build creates a new InvalidateReq.
func (b InvalidateReqBuilder) Build() *InvalidateReq {
	r := &InvalidateReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = controlMsgByteOverhead
	r.Address = b.address
	r.Way = b.way
	r.AllWays = b.allWays

	return r
}

// An InvalidateDoneRsp is the response for an InvalidateReq.
type InvalidateDoneRsp struct {
	sim.MsgMeta

	RespondTo string
}

// Meta returns the message meta.
func (r *InvalidateDoneRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (r *InvalidateDoneRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that the respond is responding to.
func (r *InvalidateDoneRsp) GetRspTo() string {
	return r.RespondTo
}

// InvalidateDoneRspBuilder can build invalidate done responds.
type InvalidateDoneRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
}

// WithSrc sets the source of the respond to build.
func (b InvalidateDoneRspBuilder) WithSrc(
	src sim.RemotePort,
) InvalidateDoneRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the respond to build.
func (b InvalidateDoneRspBuilder) WithDst(
	dst sim.RemotePort,
) InvalidateDoneRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets ID of the request that the respond to build is replying to.
func (b InvalidateDoneRspBuilder) WithRspTo(
	id string,
) InvalidateDoneRspBuilder {
	b.rspTo = id
	return b
}

// Build creates a new InvalidateDoneRsp.
func (b InvalidateDoneRspBuilder) Build() *InvalidateDoneRsp {
	r := &InvalidateDoneRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = controlMsgByteOverhead
	r.RespondTo = b.rspTo

	return r
}

// A ControlMsg pauses, resumes, or resets a component.
type ControlMsg struct {
	sim.MsgMeta

	Enable bool
	Pause  bool
	Reset  bool
}

// Meta returns the message meta.
func (m *ControlMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (m *ControlMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// ControlMsgBuilder can build control messages.
type ControlMsgBuilder struct {
	src, dst sim.RemotePort
	enable   bool
	pause    bool
	reset    bool
}

// WithSrc sets the source of the message to build.
func (b ControlMsgBuilder) WithSrc(src sim.RemotePort) ControlMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message to build.
func (b ControlMsgBuilder) WithDst(dst sim.RemotePort) ControlMsgBuilder {
	b.dst = dst
	return b
}

// ToEnable makes the message resume the component.
func (b ControlMsgBuilder) ToEnable() ControlMsgBuilder {
	b.enable = true
	b.pause = false
	return b
}

// ToPause makes the message pause the component.
func (b ControlMsgBuilder) ToPause() ControlMsgBuilder {
	b.pause = true
	b.enable = false
	return b
}

// ToReset makes the message reset the component.
func (b ControlMsgBuilder) ToReset() ControlMsgBuilder {
	b.reset = true
	return b
}

// Build creates a new ControlMsg.
func (b ControlMsgBuilder) Build() *ControlMsg {
	m := &ControlMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.TrafficBytes = controlMsgByteOverhead
	m.Enable = b.enable
	m.Pause = b.pause
	m.Reset = b.reset

	return m
}
