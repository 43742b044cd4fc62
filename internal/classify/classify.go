// Package classify implements spec component H: deciding a
// ResponseClassification from a raw DNS message's header, question, and
// sections alone, before any DNSSEC proof runs. It generalizes the
// implicit classification the teacher inlines at the top of
// validateRRsets/validateDenialOfExistence (switching on rcode and
// section contents ad hoc) into one explicit, reusable decision.
package classify

import "github.com/miekg/dns"

// Classification is spec.md §3's closed ResponseClassification enum.
type Classification int

const (
	Unknown Classification = iota
	Positive
	CNAME
	NODATA
	NAMEERROR
	ANY
	CNAMENoData
	CNAMENameError
	Referral
)

func (c Classification) String() string {
	switch c {
	case Positive:
		return "POSITIVE"
	case CNAME:
		return "CNAME"
	case NODATA:
		return "NODATA"
	case NAMEERROR:
		return "NAMEERROR"
	case ANY:
		return "ANY"
	case CNAMENoData:
		return "CNAME_NODATA"
	case CNAMENameError:
		return "CNAME_NAMEERROR"
	case Referral:
		return "REFERRAL"
	default:
		return "UNKNOWN"
	}
}

// cnameChain follows CNAME records in answer starting at qname, returning
// the final owner name reached and whether the chain terminates in a
// qtype RR.
func cnameChain(answer []dns.RR, qname string, qtype uint16) (owner string, terminatesInType bool) {
	owner = qname

	seen := map[string]bool{}

	for {
		if seen[owner] {
			break
		}

		seen[owner] = true

		var next string

		for _, rr := range answer {
			if !equalFold(rr.Header().Name, owner) {
				continue
			}

			if rr.Header().Rrtype == qtype {
				return owner, true
			}

			if c, ok := rr.(*dns.CNAME); ok {
				next = c.Target
			}
		}

		if next == "" {
			break
		}

		owner = next
	}

	return owner, false
}

func equalFold(a, b string) bool {
	return dns.CanonicalName(a) == dns.CanonicalName(b)
}

func hasType(rrs []dns.RR, rrtype uint16) bool {
	for _, rr := range rrs {
		if rr.Header().Rrtype == rrtype {
			return true
		}
	}

	return false
}

func answerHasOwnerType(answer []dns.RR, owner string, qtype uint16) bool {
	for _, rr := range answer {
		if rr.Header().Rrtype == qtype && equalFold(rr.Header().Name, owner) {
			return true
		}
	}

	return false
}

// Classify implements spec.md §4.H's decision table, evaluated in the
// order the spec lists it: NXDOMAIN, CNAME-chain shapes, NODATA,
// REFERRAL, ANY, POSITIVE, else UNKNOWN (a BOGUS-by-default catch-all).
func Classify(msg *dns.Msg, qname string, qtype uint16) Classification {
	if msg.Rcode == dns.RcodeNameError {
		return NAMEERROR
	}

	_, terminatesInType := cnameChain(msg.Answer, qname, qtype)
	hasCNAME := hasType(msg.Answer, dns.TypeCNAME)

	if hasCNAME && qtype != dns.TypeCNAME {
		if terminatesInType {
			return CNAME
		}

		if msg.Rcode == dns.RcodeSuccess {
			authorityProvesAbsence := hasType(msg.Ns, dns.TypeSOA) ||
				hasType(msg.Ns, dns.TypeNSEC) || hasType(msg.Ns, dns.TypeNSEC3)

			if authorityProvesAbsence {
				return CNAMENoData
			}
		}

		return CNAMENameError
	}

	if qtype == dns.TypeANY {
		if len(msg.Answer) > 0 {
			return ANY
		}
	}

	if answerHasOwnerType(msg.Answer, qname, qtype) {
		return Positive
	}

	if msg.Rcode == dns.RcodeSuccess && len(msg.Answer) == 0 {
		authorityProvesAbsence := hasType(msg.Ns, dns.TypeSOA) ||
			hasType(msg.Ns, dns.TypeNSEC) || hasType(msg.Ns, dns.TypeNSEC3)

		if authorityProvesAbsence {
			return NODATA
		}

		if hasType(msg.Ns, dns.TypeNS) && !hasType(msg.Ns, dns.TypeSOA) {
			return Referral
		}
	}

	return Unknown
}
