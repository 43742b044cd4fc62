// Package nsec3 implements spec component G: NSEC3 closest-encloser
// proofs, NODATA, wildcard, and opt-out referral proofs, and the
// per-key-size iteration ceiling DoS guard (RFC 5155). It generalizes the
// teacher's validateNSEC3DenialOfExistence family
// (resolver/dnssec/nsec3.go) — which hardcodes one maxNSEC3Iterations
// value — into the configurable per-key-size bucket table spec.md §6
// (nsec3.iterations.<keysize>) requires, and treats iteration-ceiling
// violations as Insecure rather than Bogus per spec.md invariant 4.
package nsec3

import (
	"bytes"
	"encoding/base32"
	"slices"
	"strings"

	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/dnsname"
	"github.com/dnsval/resolver/internal/reason"
)

// Result is the outcome of an NSEC3 proof attempt.
type Result int

const (
	ResultBogus Result = iota
	ResultSecure
	ResultInsecure
)

// optOutFlag is bit 0 of the NSEC3 Flags field (RFC 5155 §3.1.2.1).
const optOutFlag = 0x01

// IterationCeilings maps a key-size bucket (1024/2048/4096) to the
// maximum NSEC3 iteration count accepted for signatures made with a key
// that size, per spec.md §6's nsec3.iterations.<keysize>. Buckets not
// present fall back to Default.
type IterationCeilings struct {
	Buckets map[int]uint16
	Default uint16
}

// DefaultIterationCeilings matches the teacher's single hardcoded ceiling
// (config/dnssec.go MaxNSEC3Iterations, default 150, "RFC 5155 §10.3")
// applied uniformly regardless of key size.
func DefaultIterationCeilings() IterationCeilings {
	return IterationCeilings{Default: 150}
}

// CeilingFor returns the iteration ceiling for keySize, RFC 5155 §10.3's
// recommended table if no bucket/default is configured.
func (c IterationCeilings) CeilingFor(keySize int) uint16 {
	if v, ok := c.Buckets[keySize]; ok {
		return v
	}

	return c.Default
}

// Params is the shared (hash algorithm, flags, iterations, salt) tuple
// that every NSEC3 record in one proof must agree on (RFC 5155 §7.1); a
// response mixing parameter sets is Bogus.
type Params struct {
	HashAlg    uint8
	Flags      uint8
	Iterations uint16
	Salt       string
}

// ParamsOf extracts shared parameters from a set of NSEC3 records,
// returning an error token if the set is empty or inconsistent.
func ParamsOf(records []*dns.NSEC3) (Params, bool) {
	if len(records) == 0 {
		return Params{}, false
	}

	p := Params{
		HashAlg:    records[0].Hash,
		Salt:       records[0].Salt,
		Iterations: records[0].Iterations,
	}

	for _, r := range records {
		if r.Hash != p.HashAlg || r.Salt != p.Salt || r.Iterations != p.Iterations {
			return Params{}, false
		}

		p.Flags |= r.Flags
	}

	return p, true
}

// Hash computes the NSEC3 owner hash of name under p, base32hex-encoded
// the way NSEC3 owner labels are encoded on the wire. Only SHA-1 (RFC
// 5155 algorithm 1) is standardized; other algorithms return "".
func Hash(name string, p Params) string {
	if p.HashAlg != dns.SHA1 {
		return ""
	}

	return dns.HashName(dnsname.Canonical(name), p.HashAlg, p.Iterations, p.Salt)
}

// compareHashes compares two base32hex-encoded NSEC3 hashes as binary
// values, big-endian, per RFC 5155's "hash order" definition.
func compareHashes(a, b string) int {
	dec := base32.HexEncoding.WithPadding(base32.NoPadding)

	ba, errA := dec.DecodeString(strings.ToUpper(a))
	bb, errB := dec.DecodeString(strings.ToUpper(b))

	if errA != nil || errB != nil {
		return 0
	}

	return bytes.Compare(ba, bb)
}

func ownerHash(r *dns.NSEC3) string {
	labels := dnsname.SplitLabels(r.Header().Name)
	if len(labels) == 0 {
		return ""
	}

	return labels[0]
}

// inRange reports whether hash falls in the half-open range (ownerHash,
// nextHash] on the hash ring, with wraparound at the end of the zone.
func inRange(hash, ownerHash, nextHash string) bool {
	cmpOwner := compareHashes(hash, ownerHash)
	cmpNext := compareHashes(hash, nextHash)
	cmpOwnerNext := compareHashes(ownerHash, nextHash)

	if cmpOwnerNext < 0 {
		return cmpOwner > 0 && cmpNext <= 0
	}

	return cmpOwner > 0 || cmpNext <= 0
}

// Covers reports whether hash is covered by any record in records.
func Covers(records []*dns.NSEC3, hash string) bool {
	for _, r := range records {
		if inRange(hash, ownerHash(r), r.NextDomain) {
			return true
		}
	}

	return false
}

// CoversWithOptOut reports whether hash is covered by a record with the
// opt-out flag set, per RFC 5155 §6: an unsigned delegation may exist
// anywhere in that record's span.
func CoversWithOptOut(records []*dns.NSEC3, hash string) bool {
	for _, r := range records {
		if r.Flags&optOutFlag == 0 {
			continue
		}

		if inRange(hash, ownerHash(r), r.NextDomain) {
			return true
		}
	}

	return false
}

// matchOwner finds the record whose owner hash equals hash.
func matchOwner(records []*dns.NSEC3, hash string) *dns.NSEC3 {
	for _, r := range records {
		if strings.EqualFold(ownerHash(r), hash) {
			return r
		}
	}

	return nil
}

// ClosestEncloser implements spec.md §4.G's closest-encloser walk: from
// qname, try progressively shorter ancestors (never above zone) and
// return the deepest whose hash matches some NSEC3 owner. Returns "" if
// none match.
func ClosestEncloser(qname, zone string, records []*dns.NSEC3, p Params) string {
	name := dnsname.Canonical(qname)
	zone = dnsname.Canonical(zone)

	for {
		if h := Hash(name, p); h != "" && matchOwner(records, h) != nil {
			return name
		}

		if zone != "" && name == zone {
			return ""
		}

		parent := dnsname.Parent(name)
		if parent == "" || (zone != "" && !dnsname.IsSubdomainOf(zone, parent)) {
			return ""
		}

		name = parent
	}
}

// ProveNameError implements spec.md §4.G's NAMEERROR proof: closest
// encloser found, next-closer covered (not opt-out), and the wildcard at
// the closest encloser covered too (no wildcard could have answered).
func ProveNameError(qname, zone string, records []*dns.NSEC3, p Params, ceilings IterationCeilings, keySize int) (Result, reason.Token) {
	if p.Iterations > ceilings.CeilingFor(keySize) {
		return ResultInsecure, reason.NXDomainNSEC3Insecure
	}

	ce := ClosestEncloser(qname, zone, records, p)
	if ce == "" {
		return ResultBogus, reason.NXDomainNSEC3Bogus
	}

	nextCloser := dnsname.NextCloser(qname, ce)
	if nextCloser == "" {
		return ResultBogus, reason.NXDomainNSEC3Bogus
	}

	nextCloserHash := Hash(nextCloser, p)
	if nextCloserHash == "" || !Covers(records, nextCloserHash) {
		return ResultBogus, reason.NXDomainNSEC3Bogus
	}

	if CoversWithOptOut(records, nextCloserHash) {
		return ResultInsecure, reason.NXDomainNSEC3Insecure
	}

	wildcardHash := Hash(dnsname.Wildcard(ce), p)
	if wildcardHash == "" || !Covers(records, wildcardHash) {
		return ResultBogus, reason.NXDomainNSEC3Bogus
	}

	return ResultSecure, ""
}

// ProveNoData implements spec.md §4.G's NODATA proof: an owner-matching
// NSEC3 for qname lacking qtype/CNAME — including the empty-non-terminal
// case, where qname's own NSEC3 record has an empty type bitmap (spec.md
// §9's Open Question decision: ENT-NODATA falls out of this same
// direct-match branch rather than a separate proof path, since a
// closest-encloser walk that starts at qname and climbs toward the zone
// apex will match qname's own record before considering any ancestor) —
// or an owner match at the closest encloser's wildcard lacking qtype.
func ProveNoData(qname, zone string, qtype uint16, records []*dns.NSEC3, p Params, ceilings IterationCeilings, keySize int) (Result, reason.Token) {
	if p.Iterations > ceilings.CeilingFor(keySize) {
		return ResultInsecure, reason.NXDomainNSEC3Insecure
	}

	qnameHash := Hash(qname, p)
	if qnameHash == "" {
		return ResultBogus, reason.NoDataPositiveNoData
	}

	if direct := matchOwner(records, qnameHash); direct != nil {
		if slices.Contains(direct.TypeBitMap, qtype) {
			return ResultBogus, reason.NoDataPositiveNoData
		}

		return ResultSecure, ""
	}

	ce := ClosestEncloser(qname, zone, records, p)
	if ce == "" {
		if qtype == dns.TypeDS && CoversWithOptOut(records, qnameHash) {
			return ResultInsecure, reason.NXDomainNSEC3Insecure
		}

		return ResultBogus, reason.NoDataPositiveNoData
	}

	wildcardHash := Hash(dnsname.Wildcard(ce), p)
	if wildcardHash != "" {
		if wc := matchOwner(records, wildcardHash); wc != nil {
			if slices.Contains(wc.TypeBitMap, qtype) {
				return ResultBogus, reason.NoDataPositiveNoData
			}

			return ResultSecure, ""
		}
	}

	if qtype == dns.TypeDS && CoversWithOptOut(records, qnameHash) {
		return ResultInsecure, reason.NXDomainNSEC3Insecure
	}

	return ResultBogus, reason.NoDataPositiveNoData
}

// ProveWildcard implements spec.md §4.G's wildcard-expanded proof: closest
// encloser found and next-closer covered, establishing the wildcard was
// legitimately used to answer qname.
func ProveWildcard(qname, zone string, records []*dns.NSEC3, p Params) bool {
	ce := ClosestEncloser(qname, zone, records, p)
	if ce == "" {
		return false
	}

	nextCloser := dnsname.NextCloser(qname, ce)
	if nextCloser == "" {
		return false
	}

	h := Hash(nextCloser, p)

	return h != "" && Covers(records, h)
}

// ProveOptOutReferral implements spec.md §4.G's opt-out referral proof:
// closest encloser found and the NSEC3 covering the next-closer has the
// opt-out flag set, meaning the delegation may be unsigned.
func ProveOptOutReferral(qname, zone string, records []*dns.NSEC3, p Params) bool {
	ce := ClosestEncloser(qname, zone, records, p)
	if ce == "" {
		return false
	}

	nextCloser := dnsname.NextCloser(qname, ce)
	if nextCloser == "" {
		return false
	}

	h := Hash(nextCloser, p)

	return h != "" && CoversWithOptOut(records, h)
}

// ZoneFromOwner derives the signing zone name from an NSEC3 owner name
// (format <hash>.<zone>), the way the teacher does inline in
// validateNSEC3DenialOfExistence.
func ZoneFromOwner(owner string) string {
	labels := dnsname.SplitLabels(owner)
	if len(labels) <= 1 {
		return ""
	}

	return dnsname.StripLeft(owner, 1)
}
