package pitoncache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Replay Buffer", func() {
	var b *replayBuffer

	BeforeEach(func() {
		b = newReplayBuffer()
	})

	It("should start empty", func() {
		Expect(b.Empty()).To(BeTrue())
		Expect(b.AwaitingDequeue()).To(BeFalse())
	})

	It("should hold a diverted request until its set is validated", func() {
		t := &transaction{set: 5}
		b.EnqueueS3(t)

		Expect(b.Empty()).To(BeFalse())
		Expect(b.AwaitingDequeue()).To(BeFalse())

		b.Validate(3)
		Expect(b.AwaitingDequeue()).To(BeFalse())

		b.Validate(5)
		Expect(b.AwaitingDequeue()).To(BeTrue())

		Expect(b.Dequeue()).To(BeIdenticalTo(t))
		Expect(b.Empty()).To(BeTrue())
	})

	It("should tolerate repeated validation", func() {
		b.EnqueueS3(&transaction{set: 1})
		b.Validate(1)
		b.Validate(1)

		Expect(b.AwaitingDequeue()).To(BeTrue())
	})

	It("should promote a handover on dequeue", func() {
		first := &transaction{set: 2}
		second := &transaction{set: 2}

		b.EnqueueS3(first)
		b.HandOver(second)
		b.Validate(2)

		Expect(b.Dequeue()).To(BeIdenticalTo(first))

		Expect(b.Empty()).To(BeFalse())
		Expect(b.AwaitingDequeue()).To(BeTrue())
		Expect(b.Dequeue()).To(BeIdenticalTo(second))
		Expect(b.Empty()).To(BeTrue())
	})

	It("should panic on a second buffered entry", func() {
		b.EnqueueS3(&transaction{})

		Expect(func() { b.EnqueueS3(&transaction{}) }).To(Panic())
	})

	It("should panic on a handover into an empty buffer", func() {
		Expect(func() { b.HandOver(&transaction{}) }).To(Panic())
	})

	It("should panic on a second handover", func() {
		b.EnqueueS3(&transaction{})
		b.HandOver(&transaction{})

		Expect(func() { b.HandOver(&transaction{}) }).To(Panic())
	})

	It("should panic on dequeuing a non-validated entry", func() {
		b.EnqueueS3(&transaction{set: 1})

		Expect(func() { b.Dequeue() }).To(Panic())
	})

	It("should drop everything on clear", func() {
		b.EnqueueS3(&transaction{set: 1})
		b.HandOver(&transaction{set: 1})
		b.Validate(1)

		b.Clear()

		Expect(b.Empty()).To(BeTrue())
		Expect(b.AwaitingDequeue()).To(BeFalse())
	})
})
