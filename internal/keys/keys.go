// Package keys implements the DS/DNSKEY binding logic of spec component B:
// computing a DS digest over a DNSKEY, matching a DS RRset against a
// DNSKEY RRset, and the configurable algorithm support matrix that
// replaces the teacher's hardcoded isSupportedAlgorithm/getAlgorithmStrength
// switches (resolver/dnssec/rrset.go) with spec.md §6's
// digest.preference/harden.algo.downgrade options.
package keys

import (
	"github.com/miekg/dns"
)

// Algorithm strength scores, strongest first. Mirrors the teacher's
// algorithmStrength* constants (resolver/dnssec/rrset.go) with ED448/
// ED25519/ECDSA ranked above RSA, and RSASHA1 ranked weakest, to prevent
// algorithm-downgrade attacks per RFC 6840 §5.11.
const (
	StrengthED448           = 100
	StrengthED25519         = 90
	StrengthECDSAP384SHA384 = 80
	StrengthECDSAP256SHA256 = 70
	StrengthRSASHA512       = 50
	StrengthRSASHA256       = 40
	StrengthRSASHA1         = 10
	StrengthUnsupported     = 0

	dnskeyProtocol = 3 // RFC 4034 §2.1.2: Protocol field MUST be 3
)

// Matrix is the configurable algorithm support matrix spec.md §6 calls
// for: which signing algorithms are supported, their relative strength for
// downgrade-attack resistance, and which DS digest algorithms are
// acceptable and in what preference order.
type Matrix struct {
	// DigestPreference lists acceptable DS digest algorithm numbers, most
	// preferred first. An empty preference accepts any digest algorithm
	// miekg/dns can compute.
	DigestPreference []uint8
	// HardenAlgoDowngrade, when true, ignores DS records using weaker
	// algorithms when a stronger one is present in the same DS RRset.
	HardenAlgoDowngrade bool
}

// DefaultMatrix matches the teacher's hardcoded behavior: every digest
// algorithm miekg/dns supports is accepted, no preference order, no
// downgrade hardening.
func DefaultMatrix() Matrix {
	return Matrix{}
}

// AlgorithmStrength returns a strength score for a DNSSEC signing
// algorithm; higher is stronger. Unsupported algorithms score 0.
func AlgorithmStrength(alg uint8) int {
	switch alg {
	case dns.ED448:
		return StrengthED448
	case dns.ED25519:
		return StrengthED25519
	case dns.ECDSAP384SHA384:
		return StrengthECDSAP384SHA384
	case dns.ECDSAP256SHA256:
		return StrengthECDSAP256SHA256
	case dns.RSASHA512:
		return StrengthRSASHA512
	case dns.RSASHA256:
		return StrengthRSASHA256
	case dns.RSASHA1, dns.RSASHA1NSEC3SHA1:
		return StrengthRSASHA1
	default:
		return StrengthUnsupported
	}
}

// IsSupportedAlgorithm reports whether alg is one the verifier can check
// signatures for, per RFC 8624's implementation-status table as
// implemented by miekg/dns.
func IsSupportedAlgorithm(alg uint8) bool {
	switch alg {
	case dns.RSASHA1, dns.RSASHA1NSEC3SHA1, dns.RSASHA256, dns.RSASHA512,
		dns.ECDSAP256SHA256, dns.ECDSAP384SHA384, dns.ED25519, dns.ED448:
		return true
	default:
		return false
	}
}

// digestSupported reports whether m accepts ds's digest algorithm. An
// empty DigestPreference accepts any digest miekg/dns can verify.
func (m Matrix) digestSupported(digestType uint8) bool {
	if len(m.DigestPreference) == 0 {
		return true
	}

	for _, d := range m.DigestPreference {
		if d == digestType {
			return true
		}
	}

	return false
}

// MatchingDNSKEY returns the DNSKEY in keys whose key tag and algorithm
// match ds and whose computed digest equals ds's digest. Per spec.md §4.B:
// "A DS matches a DNSKEY iff the digest matches AND the DS key-tag matches
// the DNSKEY's key-tag ... AND the algorithm matches." An unsupported
// digest algorithm is ignored, not an error (the caller treats a DS RRset
// with no matchable entries as Insecure, never Bogus).
func MatchingDNSKEY(keys []*dns.DNSKEY, ds *dns.DS, m Matrix) *dns.DNSKEY {
	if !m.digestSupported(ds.DigestType) {
		return nil
	}

	for _, key := range keys {
		if key.Protocol != dnskeyProtocol {
			continue
		}

		if key.Algorithm != ds.Algorithm {
			continue
		}

		if key.KeyTag() != ds.KeyTag {
			continue
		}

		computed := key.ToDS(ds.DigestType)
		if computed == nil {
			continue
		}

		if computed.Digest == ds.Digest {
			return key
		}
	}

	return nil
}

// FilterSupportedDS returns the DS records in set whose digest algorithm m
// accepts, optionally keeping only the strongest algorithm present when
// m.HardenAlgoDowngrade is set (RFC 6840 §5.11 downgrade-attack
// resistance, generalizing the teacher's algorithm-strength ranking from
// RRSIGs to DS digest selection).
func FilterSupportedDS(set []*dns.DS, m Matrix) []*dns.DS {
	var supported []*dns.DS

	for _, ds := range set {
		if m.digestSupported(ds.DigestType) {
			supported = append(supported, ds)
		}
	}

	if !m.HardenAlgoDowngrade || len(supported) < 2 {
		return supported
	}

	best := AlgorithmStrength(supported[0].Algorithm)
	for _, ds := range supported[1:] {
		if s := AlgorithmStrength(ds.Algorithm); s > best {
			best = s
		}
	}

	var hardened []*dns.DS

	for _, ds := range supported {
		if AlgorithmStrength(ds.Algorithm) == best {
			hardened = append(hardened, ds)
		}
	}

	return hardened
}

// KeyTagMatch finds DNSKEYs whose key tag and algorithm match those given,
// the same lookup the teacher performs once it already knows which
// RRSIG it is trying to satisfy (findMatchingDNSKEY,
// resolver/dnssec/rrset.go).
func KeyTagMatch(keys []*dns.DNSKEY, keyTag uint16, algorithm uint8) *dns.DNSKEY {
	for _, key := range keys {
		if key.Protocol != dnskeyProtocol {
			continue
		}

		if key.KeyTag() == keyTag && key.Algorithm == algorithm {
			return key
		}
	}

	return nil
}
