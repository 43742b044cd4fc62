package nsec3

import (
	"testing"

	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/reason"
)

const zone = "example.com."

var plainParams = Params{HashAlg: dns.SHA1, Iterations: 0, Salt: ""}

func rr(owner string, next string, flags uint8, types ...uint16) *dns.NSEC3 {
	return &dns.NSEC3{
		Hdr:        dns.RR_Header{Name: owner + "." + zone, Rrtype: dns.TypeNSEC3, Class: dns.ClassINET},
		Hash:       dns.SHA1,
		Flags:      flags,
		Iterations: 0,
		Salt:       "",
		NextDomain: next,
		TypeBitMap: types,
	}
}

// Hash values below are SHA-1 NSEC3 hashes (iterations 0, no salt) of the
// named owners, computed offline against the wire-format name the same way
// dns.HashName does.
const (
	hashExampleCom    = "ONIB9MGUB9H0RML3CDF5BGRJ59DKJHVK" // example.com.
	hashMissing       = "3KT1O053I7050A5639EPJ0A8CO2NP3E6" // missing.example.com.
	hashWildcardCE    = "4F3CNT8CU22TNGEC382JJ4GDE4RB47UB" // *.example.com.
	hashWWW           = "MIFDNDT3NFF3OD53O7TLA1HRFF95JKUK" // www.example.com.
	hashEntCE         = "CBQPSGL4V3L6BK84I6UNU5BNI3JOJBRF" // ent.example.com.
	hashNewEnt        = "190IVR5GNBQT4F292GRT66SH5JEJ2P7F" // new.ent.example.com.
	hashWildcardEntCE = "BVJLBCKVNCUURG89PSJERNP38KNV3CJ5" // *.ent.example.com.
	hashChild         = "G0EULMKEP4M2DKL2BG4POC72ACO2JP6M" // child.example.com.
)

func TestProveNameErrorSecure(t *testing.T) {
	records := []*dns.NSEC3{
		rr("1111111111111111111111111111111P", hashMissing, 0),
		rr("2222222222222222222222222222222P", hashWildcardCE, 0),
		rr(hashExampleCom, "1111111111111111111111111111111P", 0),
	}

	result, tok := ProveNameError("missing.example.com.", zone, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultSecure {
		t.Fatalf("ProveNameError = %v (%s), want Secure", result, tok)
	}
}

func TestProveNameErrorBogusWithoutWildcardCoverage(t *testing.T) {
	records := []*dns.NSEC3{
		rr("1111111111111111111111111111111P", hashMissing, 0),
		rr(hashExampleCom, "1111111111111111111111111111111P", 0),
	}

	result, tok := ProveNameError("missing.example.com.", zone, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultBogus || tok != reason.NXDomainNSEC3Bogus {
		t.Fatalf("ProveNameError = %v (%s), want Bogus/%s", result, tok, reason.NXDomainNSEC3Bogus)
	}
}

func TestProveNameErrorOptOutIsInsecure(t *testing.T) {
	records := []*dns.NSEC3{
		rr("1111111111111111111111111111111P", hashMissing, optOutFlag),
		rr("2222222222222222222222222222222P", hashWildcardCE, 0),
		rr(hashExampleCom, "1111111111111111111111111111111P", 0),
	}

	result, tok := ProveNameError("missing.example.com.", zone, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultInsecure || tok != reason.NXDomainNSEC3Insecure {
		t.Fatalf("ProveNameError = %v (%s), want Insecure/%s", result, tok, reason.NXDomainNSEC3Insecure)
	}
}

func TestProveNameErrorIterationCeilingExceeded(t *testing.T) {
	p := Params{HashAlg: dns.SHA1, Iterations: 200}

	result, tok := ProveNameError("missing.example.com.", zone, nil, p, DefaultIterationCeilings(), 2048)
	if result != ResultInsecure || tok != reason.NXDomainNSEC3Insecure {
		t.Fatalf("ProveNameError over iteration ceiling = %v (%s), want Insecure/%s", result, tok, reason.NXDomainNSEC3Insecure)
	}
}

func TestProveNoDataDirectMatchNoType(t *testing.T) {
	records := []*dns.NSEC3{
		rr(hashWWW, "VVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVV", 0, dns.TypeA),
	}

	result, _ := ProveNoData("www.example.com.", zone, dns.TypeAAAA, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultSecure {
		t.Fatalf("ProveNoData = %v, want Secure", result)
	}
}

func TestProveNoDataDirectMatchTypePresentIsBogus(t *testing.T) {
	records := []*dns.NSEC3{
		rr(hashWWW, "VVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVV", 0, dns.TypeAAAA),
	}

	result, _ := ProveNoData("www.example.com.", zone, dns.TypeAAAA, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultBogus {
		t.Fatalf("ProveNoData = %v, want Bogus when qtype is in the bitmap", result)
	}
}

func TestProveNoDataEmptyNonTerminal(t *testing.T) {
	// "ent.example.com." exists only as a structural empty non-terminal: it
	// has its own NSEC3 record (proving existence) but an empty type
	// bitmap, so the direct-match branch proves NODATA for any qtype.
	records := []*dns.NSEC3{
		rr(hashEntCE, "VVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVV", 0),
	}

	result, _ := ProveNoData("ent.example.com.", zone, dns.TypeA, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultSecure {
		t.Fatalf("ProveNoData (ENT) = %v, want Secure", result)
	}
}

func TestProveNoDataWildcardAtClosestEncloser(t *testing.T) {
	records := []*dns.NSEC3{
		rr(hashEntCE, "VVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVV", 0, dns.TypeNS),
		rr(hashWildcardEntCE, "VVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVV", 0),
	}

	result, _ := ProveNoData("new.ent.example.com.", zone, dns.TypeAAAA, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultSecure {
		t.Fatalf("ProveNoData (wildcard) = %v, want Secure", result)
	}
}

func TestProveNoDataOptOutDSIsInsecure(t *testing.T) {
	records := []*dns.NSEC3{
		rr("5555555555555555555555555555555P", "H555555555555555555555555555555P", optOutFlag),
	}

	result, tok := ProveNoData("child.example.com.", zone, dns.TypeDS, records, plainParams, DefaultIterationCeilings(), 2048)
	if result != ResultInsecure || tok != reason.NXDomainNSEC3Insecure {
		t.Fatalf("ProveNoData (opt-out DS) = %v (%s), want Insecure/%s", result, tok, reason.NXDomainNSEC3Insecure)
	}
}

func TestCoversAndOptOut(t *testing.T) {
	records := []*dns.NSEC3{
		rr("1000000000000000000000000000000P", "2000000000000000000000000000000P", optOutFlag),
	}

	if !Covers(records, "1500000000000000000000000000000P") {
		t.Error("expected coverage within (owner, next]")
	}

	if !CoversWithOptOut(records, "1500000000000000000000000000000P") {
		t.Error("expected opt-out coverage for the same range")
	}

	if Covers(records, "9000000000000000000000000000000P") {
		t.Error("did not expect coverage outside the range")
	}
}

func TestParamsOfRejectsInconsistentSets(t *testing.T) {
	a := rr("1000000000000000000000000000000P", "2000000000000000000000000000000P", 0)
	b := rr("3000000000000000000000000000000P", "4000000000000000000000000000000P", 0)
	b.Iterations = 5

	if _, ok := ParamsOf([]*dns.NSEC3{a, b}); ok {
		t.Error("expected ParamsOf to reject records with differing iteration counts")
	}

	if _, ok := ParamsOf([]*dns.NSEC3{a}); !ok {
		t.Error("expected ParamsOf to accept a single consistent record")
	}
}

func TestCeilingForBucketsAndDefault(t *testing.T) {
	c := IterationCeilings{Buckets: map[int]uint16{2048: 200}, Default: 100}

	if got := c.CeilingFor(2048); got != 200 {
		t.Errorf("CeilingFor(2048) = %d, want 200", got)
	}

	if got := c.CeilingFor(512); got != 100 {
		t.Errorf("CeilingFor(512) = %d, want 100 (default)", got)
	}
}

func TestZoneFromOwner(t *testing.T) {
	if got := ZoneFromOwner(hashExampleCom + ".example.com."); got != "example.com." {
		t.Errorf("ZoneFromOwner = %q, want example.com.", got)
	}
}
