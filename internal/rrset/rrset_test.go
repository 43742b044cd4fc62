package rrset

import (
	"testing"

	"github.com/miekg/dns"
)

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()

	rr, err := dns.NewRR(s)
	if err != nil {
		t.Fatalf("dns.NewRR(%q): %v", s, err)
	}

	return rr
}

func TestNewSRRsetMinTTL(t *testing.T) {
	a1 := mustRR(t, "www.example.com. 300 IN A 192.0.2.1")
	a2 := mustRR(t, "www.example.com. 100 IN A 192.0.2.2")

	set := NewSRRset([]dns.RR{a1, a2}, nil)

	if set.TTL != 100 {
		t.Errorf("TTL = %d, want 100 (minimum)", set.TTL)
	}

	if set.Security != SecurityUnchecked {
		t.Errorf("Security = %v, want Unchecked", set.Security)
	}
}

func TestGroupByOwnerType(t *testing.T) {
	a := mustRR(t, "www.example.com. 300 IN A 192.0.2.1")
	aaaa := mustRR(t, "www.example.com. 300 IN AAAA ::1")
	other := mustRR(t, "mail.example.com. 300 IN A 192.0.2.9")

	sets := GroupByOwnerType([]dns.RR{a, aaaa, other})
	if len(sets) != 3 {
		t.Fatalf("len(sets) = %d, want 3", len(sets))
	}
}

func TestMarkBogusSecure(t *testing.T) {
	set := NewSRRset([]dns.RR{mustRR(t, "example.com. 300 IN A 192.0.2.1")}, nil)

	set.MarkBogus("failed.answer.signature")
	if set.Security != SecurityBogus || set.Reason == "" {
		t.Error("expected Bogus with reason set")
	}

	set.MarkSecure()
	if set.Security != SecuritySecure || set.Reason != "" {
		t.Error("expected Secure with reason cleared")
	}
}

func TestSortByAlgorithmStrength(t *testing.T) {
	weak := &dns.RRSIG{Algorithm: dns.RSASHA1}
	strong := &dns.RRSIG{Algorithm: dns.ED25519}

	sorted := SortByAlgorithmStrength([]*dns.RRSIG{weak, strong}, func(alg uint8) int {
		if alg == dns.ED25519 {
			return 90
		}

		return 10
	})

	if sorted[0] != strong {
		t.Error("expected strongest algorithm first")
	}
}
