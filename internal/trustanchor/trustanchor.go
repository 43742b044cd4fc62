// Package trustanchor implements spec component E: a (name, class) →
// trust anchor store with longest-suffix-match lookup. The teacher's
// TrustAnchorStore (resolver/dnssec/trust_anchor.go) only does exact-name
// lookup; this package adds the label-stripping walk spec.md §4.E and
// the original jitsi-dnssec-validator's TrustAnchorStore.java both
// require, while keeping the teacher's default IANA root KSKs and
// zone-file-format parsing.
package trustanchor

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/dnsname"
)

const (
	ksk2017Tag = 20326
	ksk2024Tag = 38696
)

// defaultRootAnchors are the IANA root KSKs, straight from the teacher's
// getDefaultRootTrustAnchors (resolver/dnssec/trust_anchor.go); kept as
// DNSKEY zone-file-format strings, same source and key tags.
// Source: https://data.iana.org/root-anchors/root-anchors.xml
func defaultRootAnchors() []string {
	return []string{
		". 172800 IN DNSKEY 257 3 8 " +
			"AwEAAaz/tAm8yTn4Mfeh5eyI96WSVexTBAvkMgJzkKTOiW1vkIbzxeF3+/4RgWOq7HrxRixHlFlExOLAJr5emLvN7SWXgnLh4+B5xQlNVz8Og8k" +
			"vArMtNROxVQuCaSnIDdD5LKyWbRd2n9WGe2R8PzgCmr3EgVLrjyBxWezF0jLHwVN8efS3rCj/EWgvIWgb9tarpVUDK/b58Da+sqqls3eNbuv7pr" +
			"+eoZG+SrDK6nWeL3c6H5Apxz7LjVc1uTIdsIXxuOLYA4/ilBmSVIzuDWfdRUfhHdY6+cn8HFRm+2hM8AnXGXws9555KrUB5qihylGa8subX2Nn6" +
			"UwNR1AkUTV74bU=", // KSK-2017, key tag 20326
		". 172800 IN DNSKEY 257 3 8 " +
			"AwEAAa96jeuknZlaeSrvyAJj6ZHv28hhOKkx3rLGXVaC6rXTsDc449/cidltpkyGwCJNnOAlFNKF2jBosZBU5eeHspaQWOmOElZsjICMQMC3aeH" +
			"bGiShvZsx4wMYSjH8e7Vrhbu6irwCzVBApESjbUdpWWmEnhathWu1jo+siFUiRAAxm9qyJNg/wOZqqzL/dL/q8PkcRU5oUKEpUge71M3ej2/7CP" +
			"qpdVwuMoTvoB+ZOT4YeGyxMvHmbrxlFzGOHOijtzN+u1TQNatX2XBuzZNQ1K+s2CXkPIZo7s6JgZyvaBevYtxPvYLw4z9mR7K2vaF18UYH9Z9GN" +
			"UUeayffKC73PYc=", // KSK-2024, key tag 38696
	}
}

// anchor holds an SRRset pre-marked SECURE, per spec.md §4.E, keyed on
// (class, owner). We keep the raw DNSKEY here; FINDKEY treats it as
// already-trusted and seeds the chain walk with it directly.
type anchor struct {
	key *dns.DNSKEY
}

// Store is the spec.md §4.E TrustAnchorStore: mutated only at
// configuration load, read-only thereafter (spec.md §5), explicit
// collaborator rather than a process singleton (spec.md §9).
type Store struct {
	anchors map[string][]anchor // key: fmt.Sprintf("%d/%s", class, owner)
}

// New builds a Store from zone-file-format DNSKEY records. An empty list
// falls back to the IANA root KSKs, same default the teacher ships.
func New(records []string) (*Store, error) {
	s := &Store{anchors: make(map[string][]anchor)}

	if len(records) == 0 {
		records = defaultRootAnchors()
	}

	for _, r := range records {
		if err := s.Add(r); err != nil {
			return nil, fmt.Errorf("failed to load trust anchor: %w", err)
		}
	}

	return s, nil
}

// Add parses and inserts a single DNSKEY zone-file-format trust anchor.
// The record must carry the SEP (KSK) flag, per RFC 4034 §2.1.1.
func (s *Store) Add(record string) error {
	rr, err := dns.NewRR(record)
	if err != nil {
		return fmt.Errorf("parsing trust anchor: %w", err)
	}

	dnskey, ok := rr.(*dns.DNSKEY)
	if !ok {
		return errors.New("trust anchor record is not a DNSKEY")
	}

	if dnskey.Flags&dns.SEP == 0 {
		return errors.New("trust anchor DNSKEY is not a Secure Entry Point (SEP flag not set)")
	}

	k := storeKey(dnskey.Header().Class, dnskey.Header().Name)
	s.anchors[k] = append(s.anchors[k], anchor{key: dnskey})

	return nil
}

func storeKey(class uint16, owner string) string {
	return fmt.Sprintf("%d/%s", class, dnsname.Canonical(owner))
}

// Find performs the spec.md §4.E longest-suffix-match lookup: strip labels
// left-to-right from name until a configured anchor matches, or the root
// is passed with no match (returns nil). The empty-name (root) anchor
// matches everything, since it's the last name tried.
func (s *Store) Find(name string, class uint16) []*dns.DNSKEY {
	n := dnsname.Canonical(name)

	for {
		if entries, ok := s.anchors[storeKey(class, n)]; ok {
			keys := make([]*dns.DNSKEY, len(entries))
			for i, e := range entries {
				keys[i] = e.key
			}

			return keys
		}

		if n == "." {
			return nil
		}

		n = dnsname.StripLeft(n, 1)
	}
}

// HasAnchor reports whether name has an anchor configured exactly (not a
// suffix match) — used by FINDKEY to decide where the chain walk should
// stop re-deriving DS/DNSKEY and instead trust the anchor directly.
func (s *Store) HasAnchor(name string, class uint16) bool {
	_, ok := s.anchors[storeKey(class, name)]

	return ok
}
