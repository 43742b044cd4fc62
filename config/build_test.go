package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config.BuildFacade", func() {
	suiteBeforeEach()

	It("fails when no upstream is configured", func() {
		cfg := &Config{TimeoutSeconds: 5}

		_, err := cfg.BuildFacade()
		Expect(err).Should(HaveOccurred())
		Expect(err.Error()).Should(ContainSubstring("no upstream configured"))
	})

	It("assembles a facade when an upstream is configured", func() {
		cfg := &Config{
			Upstream:       Upstream{Net: NetTCPUDP, Host: "1.1.1.1", Port: 53},
			TimeoutSeconds: 5,
		}

		f, err := cfg.BuildFacade()
		Expect(err).Should(Succeed())
		Expect(f).ShouldNot(BeNil())
		Expect(f.Timeout.Seconds()).Should(Equal(float64(5)))
	})
})
