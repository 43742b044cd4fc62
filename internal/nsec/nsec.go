// Package nsec implements spec component F: NXDOMAIN, NODATA, wildcard,
// and referral proofs from NSEC records (RFC 4035 §5.4). It generalizes
// the teacher's validateNSECDenialOfExistence/validateNSECNXDOMAIN/
// validateNSECNODATA (resolver/dnssec/nsec.go), which only covers the
// NXDOMAIN/NODATA pair, into the richer proof set spec.md §4.F names:
// closest-encloser derivation, wildcard-expansion proofs, empty
// non-terminal NODATA, and insecure-delegation referrals.
package nsec

import (
	"slices"

	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/dnsname"
	"github.com/dnsval/resolver/internal/reason"
)

// Result is the outcome of an NSEC proof attempt.
type Result int

const (
	ResultBogus Result = iota
	ResultSecure
	ResultInsecure
)

// Covers reports whether nsec's (owner, next) range contains name, per
// RFC 4034 §6.1 canonical ordering, with the wraparound handling the zone
// ring requires at the end of the NSEC chain. Directly grounded on the
// teacher's nsecCoversName (resolver/dnssec/nsec.go).
func Covers(nsec *dns.NSEC, name string) bool {
	owner := dnsname.Canonical(nsec.Header().Name)
	next := dnsname.Canonical(nsec.NextDomain)
	n := dnsname.Canonical(name)

	if next > owner {
		return n > owner && n < next
	}

	// Wraparound: this NSEC is the last one in the zone.
	return n > owner || n < next
}

// HasType reports whether nsec's bitmap claims qtype exists at its owner.
func HasType(nsec *dns.NSEC, qtype uint16) bool {
	return slices.Contains(nsec.TypeBitMap, qtype)
}

// ClosestEncloser derives the closest encloser of qname from a set of
// NSEC records, per spec.md §3's definition: the deepest ancestor of qname
// whose existence an NSEC demonstrably attests to, either as an owner name
// or as the target of some NSEC's next-domain field. Unlike NSEC3 (where
// closest encloser is found by re-hashing candidate ancestors), an NSEC
// chain already states names in the clear, so we look for the longest
// NSEC owner/next name that is a proper ancestor of qname.
func ClosestEncloser(qname string, nsecs []*dns.NSEC) string {
	qname = dnsname.Canonical(qname)

	best := ""
	bestLabels := -1

	consider := func(candidate string) {
		if candidate == qname {
			return
		}

		if !dnsname.IsSubdomainOf(candidate, qname) {
			return
		}

		if l := dnsname.LabelCount(candidate); l > bestLabels {
			bestLabels = l
			best = candidate
		}
	}

	for _, n := range nsecs {
		consider(dnsname.Canonical(n.Header().Name))
		consider(dnsname.Canonical(n.NextDomain))
	}

	return best
}

// ProveNameError implements spec.md §4.F's NAMEERROR proof: an NSEC must
// cover qname itself, and another (or the same) NSEC must cover the
// wildcard source of synthesis at the closest encloser, proving no
// wildcard could have answered either.
func ProveNameError(qname string, nsecs []*dns.NSEC) (Result, reason.Token) {
	qname = dnsname.Canonical(qname)

	coversQName := false

	for _, n := range nsecs {
		if Covers(n, qname) {
			coversQName = true

			break
		}
	}

	if !coversQName {
		return ResultBogus, reason.NXDomainNSECBogus
	}

	ce := ClosestEncloser(qname, nsecs)
	if ce == "" {
		return ResultBogus, reason.NXDomainNSECBogus
	}

	wildcard := dnsname.Wildcard(ce)

	for _, n := range nsecs {
		if Covers(n, wildcard) {
			return ResultSecure, ""
		}
	}

	return ResultBogus, reason.NXDomainNSECBogus
}

// ProveNoData implements spec.md §4.F's NODATA proof: either an NSEC at
// qname lacking qtype and CNAME, or a wildcard-NODATA variant (NSEC at
// *.ce lacking qtype), or the empty-non-terminal case where an NSEC's
// next-name is a strict descendant of qname (qname exists as an ENT, with
// no data for any type).
func ProveNoData(qname string, qtype uint16, nsecs []*dns.NSEC) (Result, reason.Token) {
	qname = dnsname.Canonical(qname)

	for _, n := range nsecs {
		owner := dnsname.Canonical(n.Header().Name)
		if owner != qname {
			continue
		}

		if HasType(n, qtype) || HasType(n, dns.TypeCNAME) {
			return ResultBogus, reason.NoDataPositiveNoData
		}

		return ResultSecure, ""
	}

	// Empty non-terminal: some NSEC's next-name is a proper descendant of
	// qname, meaning qname exists only as a parent of data, with nothing
	// of its own.
	for _, n := range nsecs {
		next := dnsname.Canonical(n.NextDomain)
		if next != qname && dnsname.IsSubdomainOf(qname, next) {
			return ResultSecure, ""
		}
	}

	// Wildcard NODATA: the closest encloser's wildcard exists but lacks
	// qtype.
	ce := ClosestEncloser(qname, nsecs)
	if ce != "" {
		wildcard := dnsname.Wildcard(ce)

		for _, n := range nsecs {
			if dnsname.Canonical(n.Header().Name) == wildcard {
				if HasType(n, qtype) {
					return ResultBogus, reason.NoDataPositiveNoData
				}

				return ResultSecure, ""
			}
		}
	}

	return ResultBogus, reason.NoDataPositiveNoData
}

// ProveWildcard confirms an NSEC covers qname, the proof VALIDATE must see
// alongside any wildcard-synthesized positive answer (spec.md §4.C point 3
// / §8 invariant 3).
func ProveWildcard(qname string, nsecs []*dns.NSEC) bool {
	qname = dnsname.Canonical(qname)

	for _, n := range nsecs {
		if Covers(n, qname) {
			return true
		}
	}

	return false
}

// ProveInsecureReferral implements spec.md §4.F's referral proof: an NSEC
// at the delegation point whose bitmap has NS but not DS proves the
// delegation is insecure (no DS exists, so the child is unsigned).
func ProveInsecureReferral(delegationOwner string, nsecs []*dns.NSEC) bool {
	delegationOwner = dnsname.Canonical(delegationOwner)

	for _, n := range nsecs {
		if dnsname.Canonical(n.Header().Name) != delegationOwner {
			continue
		}

		if HasType(n, dns.TypeNS) && !HasType(n, dns.TypeDS) {
			return true
		}
	}

	return false
}
