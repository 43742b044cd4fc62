package log

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	When("hostname can be determined", func() {
		It("matches os.Hostname or /etc/hostname", func() {
			hostname, err := getHostname()
			Expect(err).Should(Succeed())
			Expect(hostname).ShouldNot(BeEmpty())
		})
	})
})
