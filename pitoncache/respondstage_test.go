package pitoncache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pitoncache/mem"
	"github.com/sarchlab/pitoncache/sim"
)

var _ = Describe("Respond Stage", func() {
	var (
		mockCtrl *gomock.Controller
		m        *middleware
		topPort  *MockPort
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		m, topPort, _, _ = newTestMiddleware(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should do nothing with no completed transaction", func() {
		Expect(m.respond()).To(BeFalse())
	})

	It("should respond to a completed load", func() {
		read := testReadReq(0x6c, 4)
		trans := &transaction{req: read, class: classLoad}
		trans.robSlot = m.rob.Allocate(trans)
		m.rob.Fill(trans.robSlot, []byte{1, 2, 3, 4})

		topPort.EXPECT().
			Send(gomock.Any()).
			Do(func(rsp *mem.DataReadyRsp) {
				Expect(rsp.Data).To(Equal([]byte{1, 2, 3, 4}))
				Expect(rsp.GetRspTo()).To(Equal(read.ID))
				Expect(rsp.Dst).To(Equal(sim.RemotePort("Client.Port")))
			}).
			Return(nil)

		Expect(m.respond()).To(BeTrue())

		_, ok := m.rob.OldestReady()
		Expect(ok).To(BeFalse())
		Expect(m.rob.CanAllocate()).To(BeTrue())
	})

	It("should respond to a completed store", func() {
		write := testWriteReq(0x100, []byte{1})
		trans := &transaction{req: write, class: classStore}
		trans.robSlot = m.rob.Allocate(trans)
		m.rob.Fill(trans.robSlot, nil)

		topPort.EXPECT().
			Send(gomock.Any()).
			Do(func(rsp *mem.WriteDoneRsp) {
				Expect(rsp.GetRspTo()).To(Equal(write.ID))
			}).
			Return(nil)

		Expect(m.respond()).To(BeTrue())
	})

	It("should respond to a completed atomic with the old value", func() {
		req := mem.AtomicReqBuilder{}.
			WithSrc("Client.Port").
			WithDst("Cache.TopPort").
			WithAddress(0x100).
			WithOp(mem.AtomicAdd).
			WithData([]byte{1, 0, 0, 0}).
			Build()
		trans := &transaction{req: req, class: classAtomic}
		trans.robSlot = m.rob.Allocate(trans)
		m.rob.Fill(trans.robSlot, []byte{5, 0, 0, 0})

		topPort.EXPECT().
			Send(gomock.Any()).
			Do(func(rsp *mem.AtomicDoneRsp) {
				Expect(rsp.Data).To(Equal([]byte{5, 0, 0, 0}))
				Expect(rsp.GetRspTo()).To(Equal(req.ID))
			}).
			Return(nil)

		Expect(m.respond()).To(BeTrue())
	})

	It("should hold the response on client backpressure", func() {
		read := testReadReq(0x6c, 4)
		trans := &transaction{req: read, class: classLoad}
		trans.robSlot = m.rob.Allocate(trans)
		m.rob.Fill(trans.robSlot, []byte{1, 2, 3, 4})

		topPort.EXPECT().
			Send(gomock.Any()).
			Return(&sim.SendError{})

		Expect(m.respond()).To(BeFalse())

		_, ok := m.rob.OldestReady()
		Expect(ok).To(BeTrue())
	})
})
