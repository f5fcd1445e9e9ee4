package sweep_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sarchlab/simsweep/diag"
	"github.com/sarchlab/simsweep/sweep"
)

var _ = Describe("Scanner", func() {
	var (
		root     string
		warnings *diag.Warnings
	)

	mkRun := func(name string, status string) {
		dir := filepath.Join(root, name)
		Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		if status != "" {
			Expect(os.WriteFile(filepath.Join(dir, sweep.DefaultStatusFile), []byte(status), 0644)).To(Succeed())
		}
	}

	names := func(entries []sweep.Entry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	}

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "sweep-scan-*")
		Expect(err).NotTo(HaveOccurred())
		warnings = &diag.Warnings{}
	})

	AfterEach(func() {
		_ = os.RemoveAll(root)
	})

	It("should fail with ErrDirectoryNotFound for a missing root", func() {
		s := sweep.NewScanner(filepath.Join(root, "missing"), sweep.DefaultOptions())
		_, err := s.Scan(warnings)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, sweep.ErrDirectoryNotFound)).To(BeTrue())
	})

	It("should fail with ErrDirectoryNotFound when the root is a file", func() {
		path := filepath.Join(root, "file")
		Expect(os.WriteFile(path, []byte("x"), 0644)).To(Succeed())
		_, err := sweep.NewScanner(path, sweep.DefaultOptions()).Scan(warnings)
		Expect(errors.Is(err, sweep.ErrDirectoryNotFound)).To(BeTrue())
	})

	It("should return entries in lexicographic order", func() {
		mkRun("w2_t4", "")
		mkRun("w1_t2", "")
		mkRun("w10_t1", "")
		mkRun("w1_t16", "")

		entries, err := sweep.NewScanner(root, sweep.DefaultOptions()).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(entries)).To(Equal([]string{"w10_t1", "w1_t16", "w1_t2", "w2_t4"}))
		Expect(entries[0].Key).To(Equal(sweep.Key{Width: 10, Threads: 1}))
		Expect(entries[0].Path).To(Equal(filepath.Join(root, "w10_t1")))
	})

	It("should silently skip names that match no grammar", func() {
		mkRun("w1_t1", "")
		mkRun("plots", "")
		mkRun("notes_t4", "")

		entries, err := sweep.NewScanner(root, sweep.DefaultOptions()).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(entries)).To(Equal([]string{"w1_t1"}))
		Expect(warnings.Len()).To(Equal(0))
	})

	It("should skip regular files even when their name matches", func() {
		Expect(os.WriteFile(filepath.Join(root, "t4"), []byte("x"), 0644)).To(Succeed())
		entries, err := sweep.NewScanner(root, sweep.DefaultOptions()).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("should exclude runs whose status marker does not start with OK", func() {
		mkRun("w1_t1", "OK\n")
		mkRun("w1_t2", "FAILED: oom\n")
		mkRun("w1_t4", "OK (retried)")

		entries, err := sweep.NewScanner(root, sweep.DefaultOptions()).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(entries)).To(Equal([]string{"w1_t1", "w1_t4"}))
		Expect(warnings.All()).To(HaveLen(1))
		Expect(warnings.All()[0]).To(ContainSubstring("FAILED: oom"))
		Expect(warnings.All()[0]).To(ContainSubstring("w1_t2"))
	})

	It("should not check markers when the status file is disabled", func() {
		mkRun("w1_t2", "FAILED: oom")

		opts := sweep.DefaultOptions()
		opts.StatusFile = ""
		entries, err := sweep.NewScanner(root, opts).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(entries)).To(Equal([]string{"w1_t2"}))
		Expect(warnings.Len()).To(Equal(0))
	})

	It("should drop runs above the thread bound without a warning", func() {
		mkRun("w1_t1", "")
		mkRun("w1_t8", "FAILED: timeout")
		mkRun("w1_t16", "")

		opts := sweep.DefaultOptions()
		opts.MaxThreads = 4
		entries, err := sweep.NewScanner(root, opts).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(entries)).To(Equal([]string{"w1_t1"}))
		Expect(warnings.Len()).To(Equal(0))
	})

	It("should honor the configured grammar list", func() {
		mkRun("w1_t1", "")
		mkRun("t2_m16", "")

		opts := sweep.DefaultOptions()
		opts.Grammars = sweep.WidthGrammars()
		entries, err := sweep.NewScanner(root, opts).Collect(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(entries)).To(Equal([]string{"w1_t1"}))
	})

	It("should read status markers lazily", func() {
		mkRun("t1", "OK")
		mkRun("t2", "FAILED")

		seq, err := sweep.NewScanner(root, sweep.DefaultOptions()).Scan(warnings)
		Expect(err).NotTo(HaveOccurred())
		Expect(warnings.Len()).To(Equal(0))

		for e := range seq {
			Expect(e.Name).To(Equal("t1"))
			break
		}
		Expect(warnings.Len()).To(Equal(0))
	})
})
