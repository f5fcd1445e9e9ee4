package sweep_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/simsweep/sweep"
)

var _ = Describe("Grammars", func() {
	var grammars sweep.Grammars

	BeforeEach(func() {
		grammars = sweep.DefaultGrammars()
	})

	DescribeTable("recognized names",
		func(name string, expected sweep.Key, grammar string) {
			key, matched, ok := grammars.Match(name)
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal(expected))
			Expect(matched).To(Equal(grammar))
		},
		Entry("width first", "w4_t8", sweep.Key{Width: 4, Threads: 8}, "w<width>_t<threads>"),
		Entry("threads first", "t8_w4", sweep.Key{Width: 4, Threads: 8}, "t<threads>_w<width>"),
		Entry("threads first with suffix", "t2_w3_m16", sweep.Key{Width: 3, Threads: 2}, "t<threads>_w<width>"),
		Entry("historical cpus folder", "t4_cpus2_m16", sweep.Key{Threads: 2}, "t<threads>_cpus<n>"),
		Entry("cpus at end of name", "t4_cpus8", sweep.Key{Threads: 8}, "t<threads>_cpus<n>"),
		Entry("threads only", "t16", sweep.Key{Threads: 16}, "t<threads>"),
		Entry("threads only with suffix", "t16_m128", sweep.Key{Threads: 16}, "t<threads>"),
	)

	DescribeTable("rejected names",
		func(name string) {
			_, _, ok := grammars.Match(name)
			Expect(ok).To(BeFalse())
		},
		Entry("unrelated", "logs"),
		Entry("trailing text after width_threads", "w4_t8x"),
		Entry("threads glued to text", "t8abc"),
		Entry("zero threads", "t0_w4"),
		Entry("zero width", "w0_t4"),
		Entry("uppercase prefix", "T4"),
		Entry("zero cpus", "t4_cpus0_m16"),
		Entry("zero width after threads", "t4_w0"),
		Entry("zero threads before width", "t0_w4_m16"),
	)

	It("should prefer the width grammar over threads-only", func() {
		key, grammar, ok := grammars.Match("t4_w2_run")
		Expect(ok).To(BeTrue())
		Expect(grammar).To(Equal("t<threads>_w<width>"))
		Expect(key.HasWidth()).To(BeTrue())
	})

	It("should restrict matching to width grammars when asked", func() {
		_, _, ok := sweep.WidthGrammars().Match("t4_m16")
		Expect(ok).To(BeFalse())
	})

	Describe("Key", func() {
		It("should format keys with and without width", func() {
			Expect(sweep.Key{Width: 2, Threads: 4}.String()).To(Equal("w2_t4"))
			Expect(sweep.Key{Threads: 4}.String()).To(Equal("t4"))
		})
	})
})
