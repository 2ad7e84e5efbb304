package netlist

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vexii/memmap"
)

var _ = Describe("GenerateCommand", func() {
	var cmd GenerateCommand

	BeforeEach(func() {
		cmd = GenerateCommand{
			NetlistName:      "VexiiRiscvLitex_cafe",
			OutputDir:        "/tmp/netlists",
			ResetVector:      0,
			XLen:             32,
			CoreCount:        1,
			L2Bytes:          131072,
			L2Ways:           8,
			LiteDRAMWidth:    128,
			InternalBusWidth: 32,
			Regions: []memmap.Region{
				{
					Origin: 0xf000_0000,
					Size:   0x1000_0000,
					Mode:   memmap.IO,
					Bus:    memmap.Peripheral,
				},
				{
					Origin: 0x4000_0000,
					Size:   0x1000_0000,
					Mode:   memmap.RWX | memmap.Cacheable,
					Bus:    memmap.Memory,
				},
			},
		}
	})

	It("should render the base arguments with exact spellings", func() {
		args := cmd.Args()

		Expect(args[0]).To(Equal("--netlist-name=VexiiRiscvLitex_cafe"))
		Expect(args[1]).To(Equal("--netlist-directory=/tmp/netlists"))
		Expect(args[2]).To(Equal("--reset-vector=0"))
		Expect(args[3]).To(Equal("--xlen=32"))
		Expect(args[4]).To(Equal("--cpu-count=1"))
		Expect(args[5]).To(Equal("--l2-bytes=131072"))
		Expect(args[6]).To(Equal("--l2-ways=8"))
		Expect(args[7]).To(Equal("--litedram-width=128"))
		Expect(args[8]).To(Equal("--internal_bus_width=32"))
	})

	It("should render one memory-region argument per region, in order",
		func() {
			args := cmd.Args()

			Expect(args[9]).To(Equal(
				"--memory-region=4026531840,268435456,io,p"))
			Expect(args[10]).To(Equal(
				"--memory-region=1073741824,268435456,rwxc,m"))
		})

	It("should omit all feature flags by default", func() {
		args := cmd.Args()

		Expect(args).ToNot(ContainElement("--with-jtag-tap"))
		Expect(args).ToNot(ContainElement("--with-jtag-instruction"))
		Expect(args).ToNot(ContainElement("--with-debug"))
		Expect(args).ToNot(ContainElement("--with-dma"))
	})

	It("should add the debug flag with either JTAG option", func() {
		cmd.JTAGTap = true
		Expect(cmd.Args()).To(ContainElements(
			"--with-jtag-tap", "--with-debug"))

		cmd.JTAGTap = false
		cmd.JTAGInstruction = true
		Expect(cmd.Args()).To(ContainElements(
			"--with-jtag-instruction", "--with-debug"))
	})

	It("should add the DMA flag", func() {
		cmd.WithDMA = true

		Expect(cmd.Args()).To(ContainElement("--with-dma"))
	})

	It("should render extension parameters for FPU and RVC", func() {
		cmd.WithFPU = true
		cmd.WithRVC = true

		args := cmd.Args()

		Expect(args).To(ContainElement("--scala-args=rvf=true,rvd=true"))
		Expect(args).To(ContainElement("--scala-args=rvc=true"))
	})

	It("should pass through extra generator parameters", func() {
		cmd.ScalaArgs = []string{"lsu-wishbone=true"}
		cmd.ScalaFiles = []string{"/opt/vexii/Plugins.scala"}

		args := cmd.Args()

		Expect(args).To(ContainElement("--scala-args=lsu-wishbone=true"))
		Expect(args).To(ContainElement(
			"--scala-file=/opt/vexii/Plugins.scala"))
	})
})

var _ = Describe("DirStore", func() {
	It("should derive the artifact path from the netlist name", func() {
		store := NewDirStore("/data/netlists")

		Expect(store.Path("VexiiRiscvLitex_cafe")).To(
			Equal("/data/netlists/VexiiRiscvLitex_cafe.v"))
	})

	It("should not report artifacts that do not exist", func() {
		store := NewDirStore(GinkgoT().TempDir())

		Expect(store.Has("VexiiRiscvLitex_cafe")).To(BeFalse())
	})
})
