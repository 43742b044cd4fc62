package classify

import (
	"testing"

	"github.com/miekg/dns"
)

func a(owner string, rrtype uint16) dns.RR {
	switch rrtype {
	case dns.TypeA:
		return &dns.A{Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeA, Class: dns.ClassINET}}
	case dns.TypeNS:
		return &dns.NS{Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeNS, Class: dns.ClassINET}}
	case dns.TypeSOA:
		return &dns.SOA{Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeSOA, Class: dns.ClassINET}}
	case dns.TypeNSEC:
		return &dns.NSEC{Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeNSEC, Class: dns.ClassINET}}
	default:
		panic("unsupported rrtype in test helper")
	}
}

func cname(owner, target string) dns.RR {
	return &dns.CNAME{Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeCNAME, Class: dns.ClassINET}, Target: target}
}

func TestClassifyNameError(t *testing.T) {
	msg := &dns.Msg{MsgHdr: dns.MsgHdr{Rcode: dns.RcodeNameError}}

	if got := Classify(msg, "missing.example.com.", dns.TypeA); got != NAMEERROR {
		t.Errorf("Classify = %s, want NAMEERROR", got)
	}
}

func TestClassifyPositive(t *testing.T) {
	msg := &dns.Msg{Answer: []dns.RR{a("www.example.com.", dns.TypeA)}}

	if got := Classify(msg, "www.example.com.", dns.TypeA); got != Positive {
		t.Errorf("Classify = %s, want POSITIVE", got)
	}
}

func TestClassifyNoData(t *testing.T) {
	msg := &dns.Msg{Ns: []dns.RR{a("example.com.", dns.TypeSOA)}}

	if got := Classify(msg, "www.example.com.", dns.TypeAAAA); got != NODATA {
		t.Errorf("Classify = %s, want NODATA", got)
	}
}

func TestClassifyReferral(t *testing.T) {
	msg := &dns.Msg{Ns: []dns.RR{a("child.example.com.", dns.TypeNS)}}

	if got := Classify(msg, "www.child.example.com.", dns.TypeA); got != Referral {
		t.Errorf("Classify = %s, want REFERRAL", got)
	}
}

func TestClassifyCNAMETerminatesInType(t *testing.T) {
	msg := &dns.Msg{Answer: []dns.RR{
		cname("www.example.com.", "alias.example.com."),
		a("alias.example.com.", dns.TypeA),
	}}

	if got := Classify(msg, "www.example.com.", dns.TypeA); got != CNAME {
		t.Errorf("Classify = %s, want CNAME", got)
	}
}

func TestClassifyCNAMENoData(t *testing.T) {
	msg := &dns.Msg{
		Answer: []dns.RR{cname("www.example.com.", "alias.example.com.")},
		Ns:     []dns.RR{a("alias.example.com.", dns.TypeSOA)},
	}

	if got := Classify(msg, "www.example.com.", dns.TypeAAAA); got != CNAMENoData {
		t.Errorf("Classify = %s, want CNAME_NODATA", got)
	}
}

func TestClassifyCNAMENameError(t *testing.T) {
	msg := &dns.Msg{
		MsgHdr: dns.MsgHdr{Rcode: dns.RcodeSuccess},
		Answer: []dns.RR{cname("www.example.com.", "missing.example.com.")},
	}

	if got := Classify(msg, "www.example.com.", dns.TypeAAAA); got != CNAMENameError {
		t.Errorf("Classify = %s, want CNAME_NAMEERROR", got)
	}
}

func TestClassifyAny(t *testing.T) {
	msg := &dns.Msg{Answer: []dns.RR{a("www.example.com.", dns.TypeA)}}

	if got := Classify(msg, "www.example.com.", dns.TypeANY); got != ANY {
		t.Errorf("Classify = %s, want ANY", got)
	}
}

func TestClassifyUnknown(t *testing.T) {
	msg := &dns.Msg{}

	if got := Classify(msg, "www.example.com.", dns.TypeA); got != Unknown {
		t.Errorf("Classify = %s, want UNKNOWN", got)
	}
}
