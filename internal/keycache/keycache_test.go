package keycache

import (
	"testing"
	"time"

	"github.com/miekg/dns"
)

func TestStoreLookupGood(t *testing.T) {
	c := New(10)

	dnskey := &dns.DNSKEY{Hdr: dns.RR_Header{Name: "example.com."}}
	entry := Good("example.com.", dns.ClassINET, []*dns.DNSKEY{dnskey}, 300)

	c.Store(entry, time.Duration(entry.TTL)*time.Second)

	got, ok := c.Lookup("example.com.", dns.ClassINET)
	if !ok || !got.IsGood() || len(got.Keys) != 1 {
		t.Fatalf("Lookup = %+v, ok=%v; want Good entry with 1 key", got, ok)
	}
}

func TestStoreBadUsesShortTTLRegardlessOfArg(t *testing.T) {
	c := New(10)

	entry := Bad("bogus.example.", dns.ClassINET, "failed.findkey.dnskey_selfsign")
	c.Store(entry, time.Hour)

	got, ok := c.Lookup("bogus.example.", dns.ClassINET)
	if !ok || !got.IsBad() || got.Reason == "" {
		t.Fatalf("Lookup = %+v, ok=%v; want Bad entry with reason", got, ok)
	}
}

func TestLookupMissing(t *testing.T) {
	c := New(10)

	if _, ok := c.Lookup("nowhere.example.", dns.ClassINET); ok {
		t.Error("expected miss for uncached name")
	}
}

func TestNullEntry(t *testing.T) {
	c := New(10)

	entry := Null("insecure.example.", dns.ClassINET, 600)
	c.Store(entry, 600*time.Second)

	got, ok := c.Lookup("insecure.example.", dns.ClassINET)
	if !ok || !got.IsNull() {
		t.Fatalf("Lookup = %+v, ok=%v; want Null entry", got, ok)
	}
}

func TestClear(t *testing.T) {
	c := New(10)
	c.Store(Good("a.example.", dns.ClassINET, nil, 1), time.Second)
	c.Clear()

	if c.TotalCount() != 0 {
		t.Errorf("TotalCount() after Clear = %d, want 0", c.TotalCount())
	}
}
