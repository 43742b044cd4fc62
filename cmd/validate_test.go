package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dnsval/resolver/helpertest"
)

var _ = Describe("validate command", func() {
	var tmpDir *helpertest.TmpFolder

	BeforeEach(func() {
		tmpDir = helpertest.NewTmpFolder("config")
	})

	AfterEach(func() {
		Expect(tmpDir.Clean()).Should(Succeed())
	})

	When("called with a non-existing configuration file", func() {
		It("terminates with an error", func() {
			c := NewRootCommand()
			c.SetArgs([]string{"validate", "--config", "/notexisting/path.yaml"})

			Expect(c.Execute()).Should(HaveOccurred())
		})
	})

	When("called with a valid configuration file", func() {
		It("terminates without error", func() {
			cfgFile := tmpDir.CreateStringFile("config.yaml",
				"upstream: 1.1.1.1",
			)

			c := NewRootCommand()
			c.SetArgs([]string{"validate", "--config", cfgFile.Path})

			Expect(c.Execute()).Should(Succeed())
		})
	})

	When("called with a malformed configuration file", func() {
		It("terminates with an error", func() {
			cfgFile := tmpDir.CreateStringFile("config.yaml",
				"upstream: [this is not a valid upstream",
			)

			c := NewRootCommand()
			c.SetArgs([]string{"validate", "--config", cfgFile.Path})

			Expect(c.Execute()).Should(HaveOccurred())
		})
	})
})
