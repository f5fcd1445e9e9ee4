package metrics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/simsweep/metrics"
)

var _ = Describe("Summarize", func() {
	It("should report the best speedup and degradations", func() {
		series, err := metrics.Compute("", 2, []metrics.Sample{
			sample(1, 1000),
			sample(2, 520),
			sample(4, 400),
			sample(8, 410),
		})
		Expect(err).NotTo(HaveOccurred())

		summary, err := metrics.Summarize(series, metrics.DefaultDegradationThreshold)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Best.Threads()).To(Equal(4))
		Expect(summary.Best.Speedup).To(BeNumerically("~", 2.5, 1e-12))

		var degraded []int
		for _, p := range summary.Degradations {
			degraded = append(degraded, p.Threads())
		}
		Expect(degraded).To(Equal([]int{4, 8}))
	})

	It("should compute mean efficiency and geometric mean speedup", func() {
		series, err := metrics.Compute("", 2, []metrics.Sample{sample(1, 800), sample(2, 400), sample(4, 200)})
		Expect(err).NotTo(HaveOccurred())

		summary, err := metrics.Summarize(series, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.MeanEfficiency).To(BeNumerically("~", 1.0, 1e-12))
		Expect(summary.GeoMeanSpeedup).To(BeNumerically("~", 2.0, 1e-12))
		Expect(summary.Degradations).To(BeEmpty())
	})

	It("should keep the first point on speedup ties", func() {
		series, err := metrics.Compute("", 2, []metrics.Sample{sample(1, 100), sample(2, 100)})
		Expect(err).NotTo(HaveOccurred())
		summary, err := metrics.Summarize(series, 0.8)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Best.Threads()).To(Equal(1))
	})

	It("should fail on an empty series", func() {
		_, err := metrics.Summarize(metrics.Series{}, 0.8)
		Expect(err).To(HaveOccurred())
	})
})
