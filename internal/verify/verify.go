// Package verify implements spec component C: checking one RRSIG over one
// RRset under one DNSKEY, in the five-step order spec.md §4.C mandates.
// It generalizes the teacher's verifyRRSIG (resolver/dnssec/rrset.go),
// which inlines the same five checks but in a fixed, non-configurable
// clock-skew/algorithm-matrix shape.
package verify

import (
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/dnsname"
	"github.com/dnsval/resolver/internal/keys"
	"github.com/dnsval/resolver/internal/rrset"
)

// Options configures the verifier's clock-skew tolerance, matching
// spec.md §6's clock.skew.seconds.
type Options struct {
	ClockSkew time.Duration
	Matrix    keys.Matrix
}

// DefaultOptions mirrors the teacher's default of one hour of clock skew
// tolerance (config/dnssec.go ClockSkewToleranceSec), "matches Unbound/
// BIND defaults for real-world deployments."
func DefaultOptions() Options {
	return Options{ClockSkew: time.Hour, Matrix: keys.DefaultMatrix()}
}

// Verify checks sig over set under key, per spec.md §4.C's ordered steps,
// failing with a typed reason on the first one that doesn't hold. now is
// passed in explicitly so callers capture one timestamp per validation
// instead of re-reading the clock per signature (the teacher does the same
// in verifyRRSIG to avoid a TOCTOU window across an expensive crypto call).
func Verify(set *rrset.SRRset, sig *dns.RRSIG, key *dns.DNSKEY, now time.Time, opts Options) error {
	signerName := dnsname.Canonical(sig.SignerName)
	ownerName := dnsname.Canonical(set.Name)

	// 1. Signer name must be a suffix of (or equal to) the RRset owner,
	// and must equal the DNSKEY's own owner name.
	if !dnsname.IsSubdomainOf(signerName, ownerName) {
		return fmt.Errorf("%w: signer %s is not an ancestor of owner %s", ErrBadSigner, signerName, ownerName)
	}

	if !strings.EqualFold(signerName, dnsname.Canonical(key.Header().Name)) {
		return fmt.Errorf("%w: signer %s does not match DNSKEY owner %s",
			ErrBadSigner, signerName, key.Header().Name)
	}

	// 2. Validity window, inclusive, serial-arithmetic aware (RFC 1982),
	// widened by the configured clock-skew tolerance.
	if err := checkValidityWindow(sig, now, opts.ClockSkew); err != nil {
		return err
	}

	// 3. RRSIG Labels must not exceed the owner's actual label count; if
	// fewer, this is a wildcard expansion and the synthesis name must be
	// *.<closest-encloser>. We only flag it here; the proof that the
	// wildcard is legitimate is the VALIDATE state's job (spec.md §4.I).
	ownerLabels := dnsname.LabelCount(ownerName)
	if int(sig.Labels) > ownerLabels {
		return fmt.Errorf("%w: RRSIG labels %d exceeds owner label count %d", ErrBadLabels, sig.Labels, ownerLabels)
	}

	if int(sig.Labels) < ownerLabels {
		set.Wildcard = true
	}

	// 4. Algorithm supported and key tag/algorithm match.
	if !keys.IsSupportedAlgorithm(sig.Algorithm) {
		return fmt.Errorf("%w: algorithm %d", ErrUnsupportedAlgorithm, sig.Algorithm)
	}

	if sig.Algorithm != key.Algorithm || sig.KeyTag != key.KeyTag() {
		return fmt.Errorf("%w: RRSIG keytag=%d/alg=%d vs DNSKEY keytag=%d/alg=%d",
			ErrKeyMismatch, sig.KeyTag, sig.Algorithm, key.KeyTag(), key.Algorithm)
	}

	// 5. Cryptographic verification of the canonical form. miekg/dns's
	// RRSIG.Verify performs RFC 4034 §6 canonicalization (lowercase owner,
	// sorted RDATA, OrigTTL substitution) and the actual signature check —
	// the crypto/canonicalization primitive this module treats as an
	// assumed-available library per spec.md §1.
	if err := sig.Verify(key, set.RRs); err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}

	return nil
}

func checkValidityWindow(sig *dns.RRSIG, now time.Time, skew time.Duration) error {
	nowSec := int64(now.Unix())
	skewSec := int64(skew.Seconds())

	// RFC 1982 serial arithmetic: compare as signed 32-bit deltas rather
	// than raw uint32 subtraction, so inception/expiration near the
	// 2^32 wraparound still compare correctly.
	inception := int64(sig.Inception) - skewSec
	expiration := int64(sig.Expiration) + skewSec

	if serialLess(uint32(nowSec), uint32(inception)) {
		return fmt.Errorf("%w: not yet valid (inception %d, now %d)", ErrNotYetValid, sig.Inception, nowSec)
	}

	if serialLess(uint32(expiration), uint32(nowSec)) {
		return fmt.Errorf("%w: expired (expiration %d, now %d)", ErrExpired, sig.Expiration, nowSec)
	}

	return nil
}

// serialLess reports a < b per RFC 1982 serial number arithmetic.
func serialLess(a, b uint32) bool {
	return int32(a-b) < 0
}

// VerifyAny tries sigs against key in strongest-algorithm-first order
// (RFC 6840 §5.11) and returns the first one that verifies. set.Security
// is left untouched; the caller stamps the final verdict. Mirrors the
// teacher's sortRRSIGsByStrength + per-signature retry loop in
// validateSingleRRset.
func VerifyAny(set *rrset.SRRset, sigs []*dns.RRSIG, key *dns.DNSKEY, now time.Time, opts Options) (*dns.RRSIG, error) {
	ordered := rrset.SortByAlgorithmStrength(sigs, keys.AlgorithmStrength)

	var lastErr error

	for _, sig := range ordered {
		if err := Verify(set, sig, key, now, opts); err != nil {
			lastErr = err

			continue
		}

		return sig, nil
	}

	if lastErr == nil {
		lastErr = ErrNoSignatures
	}

	return nil, lastErr
}
