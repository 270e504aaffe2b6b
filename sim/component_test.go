package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComponentBase", func() {

	var (
		component *ComponentBase
	)

	BeforeEach(func() {
		component = NewComponentBase("TestComp")
	})

	It("should set and get name", func() {
		Expect(component.Name()).To(Equal("TestComp"))
	})

	It("should add and get port", func() {
		port := NewPort(nil, 10, 10, "PortA")

		component.AddPort("LocalPort", port)

		Expect(component.GetPortByName("LocalPort")).To(BeIdenticalTo(port))
		Expect(component.Ports()).To(HaveLen(1))
	})

	It("should panic if the same name is added twice", func() {
		port1 := NewPort(nil, 10, 10, "Port1")
		port2 := NewPort(nil, 10, 10, "Port2")

		component.AddPort("LocalPort", port1)
		Expect(func() { component.AddPort("LocalPort", port2) }).To(Panic())
	})

	It("should panic when getting an unknown port", func() {
		Expect(func() { component.GetPortByName("NoSuchPort") }).To(Panic())
	})
})
