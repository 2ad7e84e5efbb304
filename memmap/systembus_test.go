package memmap

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SystemBus", func() {
	var bus *SystemBus

	BeforeEach(func() {
		bus = NewSystemBus()
	})

	It("should classify a peripheral and a main RAM region", func() {
		bus.AddRegion("csr", 0xf000_0000, 0x10000, Readable|Writable,
			false, false)
		bus.AddRegion("main_ram", 0x4000_0000, 0x1000_0000, RWX,
			true, false)

		regions, err := bus.Regions(true)

		Expect(err).ToNot(HaveOccurred())
		Expect(regions).To(HaveLen(2))

		Expect(regions[0].Name).To(Equal("csr"))
		Expect(regions[0].Bus).To(Equal(Peripheral))
		Expect(regions[0].Mode & Cacheable).To(BeZero())

		Expect(regions[1].Name).To(Equal("main_ram"))
		Expect(regions[1].Bus).To(Equal(Memory))
		Expect(regions[1].Mode & Cacheable).ToNot(BeZero())
	})

	It("should keep main RAM on the peripheral bus without a memory bus",
		func() {
			bus.AddRegion("main_ram", 0x4000_0000, 0x1000_0000, RWX,
				true, false)

			regions, err := bus.Regions(false)

			Expect(err).ToNot(HaveOccurred())
			Expect(regions[0].Bus).To(Equal(Peripheral))
		})

	It("should emit IO windows first, peripheral-only and never cacheable",
		func() {
			bus.AddRegion("main_ram", 0x4000_0000, 0x1000_0000, RWX,
				true, false)
			bus.AddIOWindow(0x8000_0000, 0x8000_0000)

			regions, err := bus.Regions(true)

			Expect(err).ToNot(HaveOccurred())
			Expect(regions[0].Mode).To(Equal(IO))
			Expect(regions[0].Bus).To(Equal(Peripheral))
			Expect(regions[0].Mode & Cacheable).To(BeZero())
			Expect(regions[0].Mode.String()).To(Equal("io"))
		})

	It("should exclude linker-only regions", func() {
		bus.AddRegion("main_ram", 0x4000_0000, 0x1000_0000, RWX,
			true, false)
		bus.AddRegion("opensbi", 0x40f0_0000, 0x8_0000, RWX, true, true)

		regions, err := bus.Regions(true)

		Expect(err).ToNot(HaveOccurred())
		Expect(regions).To(HaveLen(1))
		Expect(regions[0].Name).To(Equal("main_ram"))
	})

	It("should preserve declaration order and be idempotent", func() {
		bus.AddRegion("rom", 0x0, 0x8000, Readable|Executable, true, false)
		bus.AddRegion("sram", 0x1000_0000, 0x2000, RWX, true, false)
		bus.AddRegion("main_ram", 0x4000_0000, 0x1000_0000, RWX,
			true, false)
		bus.AddIOWindow(0xf000_0000, 0x1000_0000)

		first, err := bus.Regions(true)
		Expect(err).ToNot(HaveOccurred())

		second, err := bus.Regions(true)
		Expect(err).ToNot(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(first[0].Name).To(Equal("io"))
		Expect(first[1].Name).To(Equal("rom"))
		Expect(first[2].Name).To(Equal("sram"))
		Expect(first[3].Name).To(Equal("main_ram"))
	})

	It("should reject a zero-size region", func() {
		bus.AddRegion("empty", 0x1000, 0, Readable, false, false)

		_, err := bus.Regions(false)

		var conflict *ConflictError
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(conflict))
	})

	It("should reject a region that wraps the address space", func() {
		bus.AddRegion("wrap", 0xffff_ffff_ffff_f000, 0x2000, Readable,
			false, false)

		_, err := bus.Regions(false)

		Expect(err).To(HaveOccurred())
	})

	It("should reject duplicate origins", func() {
		bus.AddRegion("a", 0x1000, 0x100, Readable, false, false)
		bus.AddRegion("b", 0x1000, 0x200, Readable, false, false)

		_, err := bus.Regions(false)

		Expect(err).To(HaveOccurred())
	})

	It("should reject overlapping regions with conflicting bus affinity",
		func() {
			bus.AddRegion("main_ram", 0x4000_0000, 0x1000_0000, RWX,
				true, false)
			bus.AddRegion("shadow", 0x4800_0000, 0x1000_0000, RWX,
				false, false)

			_, err := bus.Regions(true)

			Expect(err).To(HaveOccurred())
		})

	It("should reject conflicting overlap at the top of the address space",
		func() {
			// main_ram ends exactly at the last representable
			// address; the overlap check must not wrap past it.
			bus.AddRegion("main_ram", 0xffff_ffff_0000_0000,
				0x1_0000_0000, RWX, true, false)
			bus.AddRegion("shadow", 0xffff_ffff_8000_0000, 0x1000,
				RWX, false, false)

			_, err := bus.Regions(true)

			Expect(err).To(HaveOccurred())
		})

	It("should allow overlapping regions on the same bus", func() {
		bus.AddRegion("csr", 0xf000_0000, 0x1_0000, Readable|Writable,
			false, false)
		bus.AddRegion("csr_alias", 0xf000_8000, 0x1_0000,
			Readable|Writable, false, false)

		_, err := bus.Regions(false)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should panic when a name is declared twice", func() {
		bus.AddRegion("rom", 0x0, 0x8000, Readable, true, false)

		Expect(func() {
			bus.AddRegion("rom", 0x1_0000, 0x8000, Readable, true, false)
		}).To(Panic())
	})

	It("should panic when modified after freeze", func() {
		bus.Freeze()

		Expect(func() {
			bus.AddRegion("late", 0x0, 0x1000, Readable, false, false)
		}).To(Panic())
		Expect(func() { bus.AddIOWindow(0x0, 0x1000) }).To(Panic())
	})
})

var _ = Describe("AccessMode", func() {
	It("should render capability flags in a fixed order", func() {
		Expect((RWX | Cacheable).String()).To(Equal("rwxc"))
		Expect((Readable | Writable).String()).To(Equal("rw"))
	})

	It("should render IO regardless of other flags", func() {
		Expect((IO | Readable).String()).To(Equal("io"))
	})

	It("should parse mode strings", func() {
		m, err := ParseAccessMode("rwx")
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(RWX))

		m, err = ParseAccessMode("io")
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(IO))

		_, err = ParseAccessMode("rz")
		Expect(err).To(HaveOccurred())
	})
})
