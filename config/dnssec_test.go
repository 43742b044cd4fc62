package config

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Validation", func() {
	suiteBeforeEach()

	Describe("TrustAnchors", func() {
		It("falls back to the IANA defaults when no file is configured", func() {
			v := &Validation{}

			store, err := v.TrustAnchors()
			Expect(err).Should(Succeed())
			Expect(store).ShouldNot(BeNil())
		})

		It("loads records from a file, skipping blank and comment lines", func() {
			dir := GinkgoT().TempDir()
			path := dir + "/anchors.txt"

			content := "# a comment\n\n" +
				"example.com. 172800 IN DNSKEY 257 3 8 AwEAAag==\n"

			Expect(os.WriteFile(path, []byte(content), 0o600)).Should(Succeed())

			v := &Validation{TrustAnchorFile: path}

			store, err := v.TrustAnchors()
			Expect(err).Should(Succeed())
			Expect(store).ShouldNot(BeNil())
		})

		It("fails when the file doesn't exist", func() {
			v := &Validation{TrustAnchorFile: "/notexisting/anchors.txt"}

			_, err := v.TrustAnchors()
			Expect(err).Should(HaveOccurred())
		})
	})

	Describe("NSEC3Ceilings", func() {
		It("carries the configured buckets and default through", func() {
			v := &Validation{
				NSEC3: NSEC3Options{
					Iterations: map[int]uint16{1024: 100, 2048: 150},
					Default:    150,
				},
			}

			ceilings := v.NSEC3Ceilings()
			Expect(ceilings.Buckets).Should(Equal(map[int]uint16{1024: 100, 2048: 150}))
			Expect(ceilings.Default).Should(Equal(uint16(150)))
		})
	})

	Describe("KeyMatrix", func() {
		It("carries digest preference and downgrade hardening through", func() {
			v := &Validation{
				DigestPreference:    []uint8{2, 1},
				HardenAlgoDowngrade: true,
			}

			matrix := v.KeyMatrix()
			Expect(matrix.DigestPreference).Should(Equal([]uint8{2, 1}))
			Expect(matrix.HardenAlgoDowngrade).Should(BeTrue())
		})
	})

	Describe("VerifyOptions", func() {
		It("converts clock skew seconds to a duration", func() {
			v := &Validation{ClockSkewSeconds: 120}

			opts := v.VerifyOptions()
			Expect(opts.ClockSkew.Seconds()).Should(Equal(float64(120)))
		})
	})

	Describe("ValEventConfig", func() {
		It("carries the chain-depth and query budgets through", func() {
			v := &Validation{
				MaxChainDepth:      7,
				MaxUpstreamQueries: 42,
				MaxValidateRRSIGs:  99,
			}

			cfg := v.ValEventConfig()
			Expect(cfg.MaxChainDepth).Should(Equal(uint(7)))
			Expect(cfg.MaxUpstreamQueries).Should(Equal(uint(42)))
			Expect(cfg.MaxRRSIGsPerResponse).Should(Equal(uint(99)))
		})
	})
})
