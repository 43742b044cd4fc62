// Package rrset holds the RRset/SRRset data model (spec component A) and
// the canonical-form helpers the signature verifier needs. Canonicalization
// itself (owner lowercasing, RDATA sort order, RRSIG wire form) is handled
// by github.com/miekg/dns's RRSIG.Verify — this package only groups records
// into RRsets and tracks the per-RRset security verdict, the way the
// teacher's resolver/dnssec package threads *dns.RRSIG/[]dns.RR pairs
// through validateSingleRRset without a dedicated type.
package rrset

//go:generate go run github.com/abice/go-enum -f=$GOFILE --marshal --names

import (
	"sort"

	"github.com/miekg/dns"
)

// Security is the verdict attached to an RRset after validation. ENUM(
// Unchecked // not yet evaluated
// Bogus // failed signature/proof validation
// Insecure // provably outside any chain of trust
// Secure // validated under a trust anchor
// Indeterminate // no trust anchor covers this data
// )
type Security int

const (
	SecurityUnchecked Security = iota
	SecurityBogus
	SecurityInsecure
	SecuritySecure
	SecurityIndeterminate
)

//nolint:gochecknoglobals
var securityNames = [...]string{"UNCHECKED", "BOGUS", "INSECURE", "SECURE", "INDETERMINATE"}

func (s Security) String() string {
	if s < 0 || int(s) >= len(securityNames) {
		return "UNKNOWN"
	}

	return securityNames[s]
}

func (s Security) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SRRset augments a plain RRset with the security verdict the validator
// assigns to it, plus the reason when that verdict is Bogus. Per spec.md
// §3: "all RRs in an RRset share owner, type, class; TTL is the minimum
// seen."
type SRRset struct {
	Name     string
	Type     uint16
	Class    uint16
	TTL      uint32
	RRs      []dns.RR
	Sigs     []*dns.RRSIG
	Security Security
	Reason   string
	// Wildcard is set when an RRSIG over this set indicated wildcard
	// synthesis (RRSIG Labels field < owner label count); the VALIDATE
	// state requires a matching wildcard NSEC/NSEC3 proof when set.
	Wildcard bool
}

// NewSRRset groups rrs (all of which must share owner/type/class) into an
// SRRset with Security left Unchecked, the same invariant the teacher
// enforces implicitly by always slicing dns.Msg sections by RR type before
// passing them to verifyRRSIG.
func NewSRRset(rrs []dns.RR, sigs []*dns.RRSIG) *SRRset {
	if len(rrs) == 0 {
		return &SRRset{Sigs: sigs, Security: SecurityUnchecked}
	}

	hdr := rrs[0].Header()
	ttl := hdr.Ttl

	for _, rr := range rrs[1:] {
		if rr.Header().Ttl < ttl {
			ttl = rr.Header().Ttl
		}
	}

	return &SRRset{
		Name:     dns.CanonicalName(hdr.Name),
		Type:     hdr.Rrtype,
		Class:    hdr.Class,
		TTL:      ttl,
		RRs:      rrs,
		Sigs:     sigs,
		Security: SecurityUnchecked,
	}
}

// MarkBogus stamps the set Bogus with a reason token, mirroring the
// teacher's pattern of attaching a free-text reason at the point of
// failure (validateSingleRRset's logger.Warnf calls), except the reason is
// a stable dotted token here instead of a log line.
func (s *SRRset) MarkBogus(reason string) {
	s.Security = SecurityBogus
	s.Reason = reason
}

// MarkSecure stamps the set Secure, clearing any prior reason.
func (s *SRRset) MarkSecure() {
	s.Security = SecuritySecure
	s.Reason = ""
}

// MarkInsecure stamps the set Insecure.
func (s *SRRset) MarkInsecure(reason string) {
	s.Security = SecurityInsecure
	s.Reason = reason
}

// GroupByOwnerType buckets a flat RR slice into RRsets keyed by
// (owner, type), pulling RRSIGs out into a side map keyed by the type they
// cover. This generalizes the teacher's findMatchingRRSIGs-plus-manual-
// grouping pattern (resolver/dnssec/rrset.go) into a single reusable pass
// used by the classifier and FINDKEY alike.
func GroupByOwnerType(rrs []dns.RR) []*SRRset {
	type key struct {
		name  string
		rtype uint16
	}

	groups := make(map[key][]dns.RR)
	sigs := make(map[key][]*dns.RRSIG)

	var order []key

	for _, rr := range rrs {
		if sig, ok := rr.(*dns.RRSIG); ok {
			k := key{dns.CanonicalName(sig.Header().Name), sig.TypeCovered}
			if _, seen := sigs[k]; !seen {
				if _, inOrder := groups[k]; !inOrder {
					order = append(order, k)
				}
			}

			sigs[k] = append(sigs[k], sig)

			continue
		}

		k := key{dns.CanonicalName(rr.Header().Name), rr.Header().Rrtype}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}

		groups[k] = append(groups[k], rr)
	}

	sets := make([]*SRRset, 0, len(order))
	seen := make(map[key]bool, len(order))

	for _, k := range order {
		if seen[k] {
			continue
		}

		seen[k] = true

		if len(groups[k]) == 0 {
			continue
		}

		sets = append(sets, NewSRRset(groups[k], sigs[k]))
	}

	return sets
}

// SigsFor returns the RRSIGs covering rrsetName/rrtype found in sigs,
// matching by canonical owner name per RFC 4035.
func SigsFor(sigs []*dns.RRSIG, rrsetName string, rrtype uint16) []*dns.RRSIG {
	name := dns.CanonicalName(rrsetName)

	var out []*dns.RRSIG

	for _, s := range sigs {
		if s.TypeCovered == rrtype && dns.CanonicalName(s.Header().Name) == name {
			out = append(out, s)
		}
	}

	return out
}

// SortByAlgorithmStrength orders rrsigs strongest-algorithm-first, per
// RFC 6840 §5.11's guidance against downgrade attacks — generalized from
// the teacher's getAlgorithmStrength/sortRRSIGsByStrength pair
// (resolver/dnssec/rrset.go) into a table the caller supplies, so
// digest/algorithm preference stays configurable (spec.md §6
// harden.algo.downgrade).
func SortByAlgorithmStrength(sigs []*dns.RRSIG, strength func(uint8) int) []*dns.RRSIG {
	sorted := make([]*dns.RRSIG, len(sigs))
	copy(sorted, sigs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return strength(sorted[i].Algorithm) > strength(sorted[j].Algorithm)
	})

	return sorted
}
