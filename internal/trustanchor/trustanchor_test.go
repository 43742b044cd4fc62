package trustanchor

import (
	"testing"

	"github.com/miekg/dns"
)

const exampleKSK = "example.com. 172800 IN DNSKEY 257 3 8 " +
	"AwEAAaz/tAm8yTn4Mfeh5eyI96WSVexTBAvkMgJzkKTOiW1vkIbzxeF3+/4RgWOq7HrxRixHlFlExOLAJr5emLvN7SWXgnLh4+B5xQlNVz8Og8k" +
	"vArMtNROxVQuCaSnIDdD5LKyWbRd2n9WGe2R8PzgCmr3EgVLrjyBxWezF0jLHwVN8efS3rCj/EWgvIWgb9tarpVUDK/b58Da+sqqls3eNbuv7pr" +
	"+eoZG+SrDK6nWeL3c6H5Apxz7LjVc1uTIdsIXxuOLYA4/ilBmSVIzuDWfdRUfhHdY6+cn8HFRm+2hM8AnXGXws9555KrUB5qihylGa8subX2Nn6" +
	"UwNR1AkUTV74bU="

func TestDefaultRootAnchors(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	if keys := s.Find(".", dns.ClassINET); len(keys) != 2 {
		t.Fatalf("Find(\".\") = %d keys, want 2 root KSKs", len(keys))
	}
}

func TestFindLongestSuffixMatch(t *testing.T) {
	s, err := New([]string{exampleKSK})
	if err != nil {
		t.Fatal(err)
	}

	if keys := s.Find("www.example.com.", dns.ClassINET); len(keys) != 1 {
		t.Fatalf("Find(www.example.com.) = %d keys, want 1 (anchor inherited from example.com.)", len(keys))
	}

	if keys := s.Find("example.net.", dns.ClassINET); keys != nil {
		t.Error("expected no anchor for an unrelated zone")
	}
}

func TestAddRejectsNonSEPKey(t *testing.T) {
	s := &Store{anchors: make(map[string][]anchor)}

	nonSEP := "example.com. 172800 IN DNSKEY 256 3 8 " +
		"AwEAAaz/tAm8yTn4Mfeh5eyI96WSVexTBAvkMgJzkKTOiW1vkIbzxeF3"

	if err := s.Add(nonSEP); err == nil {
		t.Error("expected an error for a DNSKEY without the SEP flag")
	}
}

func TestHasAnchor(t *testing.T) {
	s, err := New([]string{exampleKSK})
	if err != nil {
		t.Fatal(err)
	}

	if !s.HasAnchor("example.com.", dns.ClassINET) {
		t.Error("expected exact-match anchor for example.com.")
	}

	if s.HasAnchor("www.example.com.", dns.ClassINET) {
		t.Error("did not expect an exact-match anchor for a subdomain")
	}
}
