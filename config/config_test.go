package config

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseUpstream", func() {
	suiteBeforeEach()

	It("parses a bare host, defaulting net and port", func() {
		result, err := ParseUpstream("1.1.1.1")

		Expect(err).Should(Succeed())
		Expect(result.Net).Should(Equal(NetTCPUDP))
		Expect(result.Host).Should(Equal("1.1.1.1"))
		Expect(result.Port).Should(Equal(uint16(53)))
	})

	It("parses an explicit port", func() {
		result, err := ParseUpstream("1.1.1.1:5353")

		Expect(err).Should(Succeed())
		Expect(result.Host).Should(Equal("1.1.1.1"))
		Expect(result.Port).Should(Equal(uint16(5353)))
	})

	It("normalizes a deprecated tcp: prefix to tcp+udp", func() {
		result, err := ParseUpstream("tcp:1.1.1.1")

		Expect(err).Should(Succeed())
		Expect(result.Net).Should(Equal(NetTCPUDP))
	})

	It("accepts tcp-tls with its default port", func() {
		result, err := ParseUpstream("tcp-tls:9.9.9.9")

		Expect(err).Should(Succeed())
		Expect(result.Net).Should(Equal(NetTCPTLS))
		Expect(result.Port).Should(Equal(uint16(853)))
	})

	It("fails on a missing host", func() {
		_, err := ParseUpstream("tcp-tls://")

		Expect(err).Should(HaveOccurred())
	})

	It("fails on an out-of-range port", func() {
		_, err := ParseUpstream("1.1.1.1:99999")

		Expect(err).Should(HaveOccurred())
	})

	It("returns the zero value for an empty string", func() {
		result, err := ParseUpstream("  ")

		Expect(err).Should(Succeed())
		Expect(result).Should(Equal(Upstream{}))
	})
})

var _ = Describe("Upstream.Addr", func() {
	It("joins host and port", func() {
		u := Upstream{Host: "1.1.1.1", Port: 53}
		Expect(u.Addr()).Should(Equal("1.1.1.1:53"))
	})
})

var _ = Describe("LoadConfig", func() {
	It("fails when the file doesn't exist", func() {
		_, err := LoadConfig("/notexisting/path.yaml")
		Expect(err).Should(HaveOccurred())
	})

	It("applies defaults and parses a minimal file", func() {
		dir := GinkgoT().TempDir()
		path := dir + "/config.yml"

		Expect(os.WriteFile(path, []byte("upstream: 1.1.1.1\n"), 0o600)).Should(Succeed())

		cfg, err := LoadConfig(path)
		Expect(err).Should(Succeed())
		Expect(cfg.Upstream.Host).Should(Equal("1.1.1.1"))
		Expect(cfg.TimeoutSeconds).Should(Equal(uint(5)))
		Expect(cfg.Validation.MaxValidateRRSIGs).Should(Equal(uint(300)))
		Expect(cfg.Validation.KeyCacheMaxEntries).Should(Equal(10000))
	})

	It("rejects unknown keys", func() {
		dir := GinkgoT().TempDir()
		path := dir + "/config.yml"

		Expect(os.WriteFile(path, []byte("upstream: 1.1.1.1\nbogusKey: true\n"), 0o600)).Should(Succeed())

		_, err := LoadConfig(path)
		Expect(err).Should(HaveOccurred())
	})
})
