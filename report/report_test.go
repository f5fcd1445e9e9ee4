package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/sarchlab/simsweep/metrics"
	"github.com/sarchlab/simsweep/report"
)

var _ = Describe("Report", func() {
	var (
		series []metrics.Series
		dir    string
	)

	BeforeEach(func() {
		series = []metrics.Series{
			widthSeries("m16", 2, [2]uint64{1, 1000}, [2]uint64{2, 600}, [2]uint64{4, 400}),
			widthSeries("m16", 4, [2]uint64{1, 800}, [2]uint64{2, 400}),
		}

		var err error
		dir, err = os.MkdirTemp("", "report-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	Describe("WriteCSV", func() {
		It("should write the scaling table with six decimals", func() {
			var buf bytes.Buffer
			Expect(report.WriteCSV(&buf, series[:1], report.SpeedupColumns())).To(Succeed())

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(lines).To(Equal([]string{
				"width,threads,cycles_max,speedup_vs_base,efficiency,local_speedup,local_efficiency,marginal_efficiency,folder",
				"2,1,1000,1.000000,1.000000,,,,w2_t1",
				"2,2,600,1.666667,0.833333,1.666667,0.833333,0.666667,w2_t2",
				"2,4,400,2.500000,0.625000,1.500000,0.750000,0.416667,w2_t4",
			}))
		})

		It("should write the IPC comparison", func() {
			var buf bytes.Buffer
			Expect(report.WriteCSV(&buf, series, report.IPCColumns())).To(Succeed())

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(lines).To(HaveLen(6))
			Expect(lines[0]).To(Equal("simulation,width,threads,ipc_max,ipc_global,sim_insts,cycles_max,folder"))
			Expect(lines[1]).To(Equal("m16,2,1,2.250000,4.000000,4000,1000,w2_t1"))
			Expect(lines[5]).To(Equal("m16,4,2,2.250000,10.000000,4000,400,w4_t2"))
		})

		It("should write only the header without series", func() {
			var buf bytes.Buffer
			Expect(report.WriteCSV(&buf, nil, report.CyclesColumns())).To(Succeed())
			Expect(buf.String()).To(Equal("simulation,width,threads,cycles_max,cycle_source,folder\n"))
		})
	})

	Describe("WriteText", func() {
		It("should report each point, the best speedup and degradations", func() {
			var buf bytes.Buffer
			Expect(report.WriteText(&buf, report.TextReport{
				Title:     "Speedup and efficiency report (Cortex-A7)",
				Source:    "/data/m16",
				Series:    series[:1],
				Threshold: 0.8,
			})).To(Succeed())

			out := buf.String()
			Expect(out).To(HavePrefix("Speedup and efficiency report (Cortex-A7)\nSource: /data/m16\n"))
			Expect(out).To(ContainSubstring("=== m16 width=2 ==="))
			Expect(out).To(ContainSubstring("t= 1 | cycles=    1000 | S=1.000 | Eglob=100.00% | LocalGain=    - | Elocal=     -% | Emarg=     -%"))
			Expect(out).To(ContainSubstring("t= 2 | cycles=     600 | S=1.667 | Eglob= 83.33% | LocalGain=1.667 | Elocal=  83.3% | Emarg=  66.7%"))
			Expect(out).To(ContainSubstring("Best observed speedup: S=2.500 with 4 threads."))
			Expect(out).To(ContainSubstring("- Step to 4 threads: 75.0% local efficiency."))
		})

		It("should say when no step degrades", func() {
			var buf bytes.Buffer
			Expect(report.WriteText(&buf, report.TextReport{Series: series[1:], Threshold: 0.8})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("No strong local efficiency drop (<80%)"))
		})
	})

	Describe("WriteJSON", func() {
		It("should carry metadata, series and summaries", func() {
			r, err := report.NewReport(report.Metadata{
				Architecture: "Cortex-A15",
				MatrixLabel:  "m=16",
				Mode:         "speedup",
				Sources:      []string{"/data/m16"},
				Version:      "test",
			}, series, 0.8, []string{"w2_t8: stats.txt missing"})
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(report.WriteJSON(&buf, r)).To(Succeed())

			var decoded struct {
				Metadata  map[string]any   `json:"metadata"`
				Series    []map[string]any `json:"series"`
				Summaries []struct {
					Best struct {
						Key struct {
							Threads int `json:"threads"`
						} `json:"key"`
					} `json:"best"`
				} `json:"summaries"`
				Warnings []string `json:"warnings"`
			}
			Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded.Metadata["matrix_label"]).To(Equal("m=16"))
			Expect(decoded.Series).To(HaveLen(2))
			Expect(decoded.Summaries).To(HaveLen(2))
			Expect(decoded.Summaries[0].Best.Key.Threads).To(Equal(4))
			Expect(decoded.Warnings).To(ConsistOf("w2_t8: stats.txt missing"))
			Expect(buf.String()).NotTo(ContainSubstring("timestamp"))
		})
	})

	Describe("WriteXLSX", func() {
		It("should write a summary sheet and one sheet per series", func() {
			path := filepath.Join(dir, "sweep.xlsx")
			Expect(report.WriteXLSX(path, series, report.SpeedupColumns())).To(Succeed())

			f, err := excelize.OpenFile(path)
			Expect(err).NotTo(HaveOccurred())
			defer func() { _ = f.Close() }()

			Expect(f.GetSheetList()).To(Equal([]string{"summary", "m16_w2", "m16_w4"}))

			rows, err := f.GetRows("m16_w2")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(4))
			Expect(rows[0][0]).To(Equal("width"))
			Expect(rows[2][2]).To(Equal("600"))
			Expect(rows[2][8]).To(Equal("w2_t2"))

			summary, err := f.GetRows("summary")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary).To(HaveLen(3))
			Expect(summary[1][:5]).To(Equal([]string{"m16", "2", "3", "1", "4"}))
		})

		It("should shorten long multibyte names on a character boundary", func() {
			long := strings.Repeat("é", 40)
			named := []metrics.Series{
				widthSeries(long, 2, [2]uint64{1, 1000}, [2]uint64{2, 600}),
				widthSeries(long, 2, [2]uint64{1, 900}),
			}
			path := filepath.Join(dir, "long.xlsx")
			Expect(report.WriteXLSX(path, named, report.CyclesColumns())).To(Succeed())

			f, err := excelize.OpenFile(path)
			Expect(err).NotTo(HaveOccurred())
			defer func() { _ = f.Close() }()

			sheets := f.GetSheetList()
			Expect(sheets).To(HaveLen(3))
			Expect(sheets[1]).To(Equal(strings.Repeat("é", 31)))
			Expect(sheets[2]).To(Equal(strings.Repeat("é", 29) + "~2"))
			for _, name := range sheets {
				Expect(utf8.ValidString(name)).To(BeTrue())
			}
		})
	})

	Describe("SaveChart", func() {
		It("should render a PNG chart", func() {
			path := filepath.Join(dir, "efficiency.png")
			title := report.ChartTitle("Cortex-A15", "m=16", "global efficiency")
			Expect(report.SaveChart(path, report.EfficiencyChart(title, series))).To(Succeed())

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		})

		It("should refuse a chart without data", func() {
			empty := []metrics.Series{{Simulation: "m16", Width: 2}}
			err := report.SaveChart(filepath.Join(dir, "empty.png"), report.IPCMaxChart("ipc", empty))
			Expect(err).To(MatchError(ContainSubstring("no data")))
		})

		DescribeTable("value labels",
			func(chart func(string, []metrics.Series) report.Chart, y float64, expected string) {
				Expect(chart("t", series).Format(y)).To(Equal(expected))
			},
			Entry("small cycle count", report.CyclesChart, 600.0, "600"),
			Entry("grouped cycle count", report.CyclesChart, 1250000.0, "1 250 000"),
			Entry("speedup", report.SpeedupChart, 1.6666667, "1.67"),
			Entry("efficiency", report.EfficiencyChart, 83.333333, "83.3%"),
			Entry("global IPC", report.IPCGlobalChart, 2.25, "2.250"),
		)

		It("should share the thread axis between widths", func() {
			Expect(report.ThreadAxis(series)).To(Equal([]int{1, 2, 4}))
			Expect(report.ThreadAxis(nil)).To(BeEmpty())
		})
	})

	Describe("SaveBarChart", func() {
		It("should render grouped cycle bars with gaps for missing thread counts", func() {
			path := filepath.Join(dir, "cycles_bars.png")
			chart := report.CyclesBarChart(report.ChartTitle("Cortex-A15", "m=16", "execution results"), series)
			Expect(chart.Title).To(HaveSuffix("execution results (cycle count)"))
			Expect(chart.Save(path)).To(Succeed())

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		})

		It("should refuse a chart without points", func() {
			empty := []metrics.Series{{Simulation: "m16", Width: 2}}
			err := report.SaveBarChart(filepath.Join(dir, "empty.png"), report.CyclesBarChart("cycles", empty))
			Expect(err).To(MatchError(ContainSubstring("no data")))
		})
	})

	Describe("InferMatrixLabel", func() {
		DescribeTable("labels",
			func(root, explicit, expected string) {
				Expect(report.InferMatrixLabel(root, explicit)).To(Equal(expected))
			},
			Entry("explicit wins", "/data/m16", "small", "small"),
			Entry("matrix root", "/data/m16", "", "m=16"),
			Entry("upper case", "/data/M128/", "", "m=128"),
			Entry("other root", "/data/sweep_a7", "", "sweep_a7"),
		)

		It("should derive file prefixes", func() {
			Expect(report.FilePrefix("m=16")).To(Equal("m16"))
			Expect(report.FilePrefix("big run/2")).To(Equal("big_run_2"))
		})
	})
})
