package netlist

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("CacheGate", func() {
	var (
		mockCtrl *gomock.Controller
		store    *MockArtifactStore
		gen      *MockGenerator
		cmd      GenerateCommand
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		store = NewMockArtifactStore(mockCtrl)
		gen = NewMockGenerator(mockCtrl)
		cmd = GenerateCommand{NetlistName: "VexiiRiscvLitex_cafe"}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start in the needs-generation state", func() {
		gate := MakeCacheGate(store, gen, false)

		Expect(gate.State()).To(Equal(NeedsGeneration))
	})

	It("should not generate when the artifact already exists", func() {
		store.EXPECT().Has(cmd.NetlistName).Return(true)

		gate := MakeCacheGate(store, gen, false)
		err := gate.Ensure(context.Background(), cmd)

		Expect(err).ToNot(HaveOccurred())
		Expect(gate.State()).To(Equal(Cached))
		Expect(gate.Hit()).To(BeTrue())
	})

	It("should generate when no artifact exists", func() {
		firstCheck := store.EXPECT().Has(cmd.NetlistName).Return(false)
		gen.EXPECT().Generate(gomock.Any(), cmd).Return(nil)
		store.EXPECT().Has(cmd.NetlistName).Return(true).After(firstCheck)

		gate := MakeCacheGate(store, gen, false)
		err := gate.Ensure(context.Background(), cmd)

		Expect(err).ToNot(HaveOccurred())
		Expect(gate.State()).To(Equal(Cached))
		Expect(gate.Hit()).To(BeFalse())
	})

	It("should always generate when bypassing the cache", func() {
		gen.EXPECT().Generate(gomock.Any(), cmd).Return(nil)
		store.EXPECT().Has(cmd.NetlistName).Return(true)

		gate := MakeCacheGate(store, gen, true)
		err := gate.Ensure(context.Background(), cmd)

		Expect(err).ToNot(HaveOccurred())
		Expect(gate.State()).To(Equal(Cached))
		Expect(gate.Hit()).To(BeFalse())
	})

	It("should fail when the generator fails", func() {
		store.EXPECT().Has(cmd.NetlistName).Return(false)
		gen.EXPECT().Generate(gomock.Any(), cmd).
			Return(errors.New("sbt exited with status 1"))

		gate := MakeCacheGate(store, gen, false)
		err := gate.Ensure(context.Background(), cmd)

		var genErr *GenerationError
		Expect(err).To(HaveOccurred())
		Expect(errors.As(err, &genErr)).To(BeTrue())
		Expect(gate.State()).To(Equal(NeedsGeneration))
	})

	It("should fail when the artifact is missing after generation", func() {
		store.EXPECT().Has(cmd.NetlistName).Return(false).Times(2)
		gen.EXPECT().Generate(gomock.Any(), cmd).Return(nil)

		gate := MakeCacheGate(store, gen, false)
		err := gate.Ensure(context.Background(), cmd)

		Expect(err).To(HaveOccurred())
		Expect(gate.State()).To(Equal(NeedsGeneration))
	})

	It("should re-check the store on every call, not its own state", func() {
		// First build: artifact present. Second build: artifact was
		// removed behind our back, so generation runs again.
		store.EXPECT().Has(cmd.NetlistName).Return(true)

		gate := MakeCacheGate(store, gen, false)
		Expect(gate.Ensure(context.Background(), cmd)).To(Succeed())

		removed := store.EXPECT().Has(cmd.NetlistName).Return(false)
		gen.EXPECT().Generate(gomock.Any(), cmd).Return(nil)
		store.EXPECT().Has(cmd.NetlistName).Return(true).After(removed)

		Expect(gate.Ensure(context.Background(), cmd)).To(Succeed())
		Expect(gate.Hit()).To(BeFalse())
	})

	It("should panic without a store or generator", func() {
		Expect(func() { MakeCacheGate(nil, gen, false) }).To(Panic())
		Expect(func() { MakeCacheGate(store, nil, false) }).To(Panic())
	})
})
