// Package keycache implements spec component D: short-term memoization of
// validated DNSKEY sets keyed by (name, class), backed by internal/ttlcache
// the way the teacher backs its validationCache. Unlike the teacher's
// ValidationResult-only cache, a KeyEntry here is the closed three-way sum
// type spec.md §3/§9 demands — Good/Null/Bad — not a bare verdict, so
// "proved insecure" stays distinguishable from "validation failed" from
// "valid keys" at the type level.
package keycache

import (
	"fmt"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/dnsname"
	"github.com/dnsval/resolver/internal/ttlcache"
)

// EntryKind tags which variant of KeyEntry is populated.
type EntryKind int

const (
	// KindGood carries a validated DNSKEY set usable to verify child
	// signatures.
	KindGood EntryKind = iota
	// KindNull proves the zone at Owner is provably unsigned (an insecure
	// delegation).
	KindNull
	// KindBad records that validating the key set failed.
	KindBad
)

func (k EntryKind) String() string {
	switch k {
	case KindGood:
		return "GOOD"
	case KindNull:
		return "NULL"
	case KindBad:
		return "BAD"
	default:
		return "UNKNOWN"
	}
}

// KeyEntry is the tagged variant described by spec.md §3: exactly one of
// Good(DNSKEY set), Null(owner, class, TTL), or Bad(owner, class, reason)
// is meaningful, selected by Kind.
type KeyEntry struct {
	Kind  EntryKind
	Owner string
	Class uint16

	Keys []*dns.DNSKEY // only meaningful when Kind == KindGood
	TTL  uint32         // only meaningful when Kind == KindNull

	Reason string // only meaningful when Kind == KindBad
}

// Good constructs a validated-key KeyEntry.
func Good(owner string, class uint16, keys []*dns.DNSKEY, ttl uint32) KeyEntry {
	return KeyEntry{Kind: KindGood, Owner: dnsname.Canonical(owner), Class: class, Keys: keys, TTL: ttl}
}

// Null constructs a proved-insecure KeyEntry.
func Null(owner string, class uint16, ttl uint32) KeyEntry {
	return KeyEntry{Kind: KindNull, Owner: dnsname.Canonical(owner), Class: class, TTL: ttl}
}

// Bad constructs a validation-failed KeyEntry.
func Bad(owner string, class uint16, reason string) KeyEntry {
	return KeyEntry{Kind: KindBad, Owner: dnsname.Canonical(owner), Class: class, Reason: reason}
}

func (e KeyEntry) IsGood() bool { return e.Kind == KindGood }
func (e KeyEntry) IsNull() bool { return e.Kind == KindNull }
func (e KeyEntry) IsBad() bool  { return e.Kind == KindBad }

// badEntryTTL bounds how long a Bad entry is cached, short enough to avoid
// repeatedly failing against a transiently-broken zone but short enough to
// not "cache thrash" per spec.md §4.I's FINDKEY recovery note.
const badEntryTTL = 30 * time.Second

// Cache is the spec.md §4.D KeyCache: mapping (owner, class) to KeyEntry,
// LRU-bounded, expiring entries by their minimum originating TTL.
// Concurrency: ttlcache.Cache already gives lock-free reads via the LRU's
// internal mutex; Cache adds a single coarse mutex around writes so two
// goroutines racing to populate the same key don't both win (spec.md §5:
// "single-writer-per-key via a short critical section").
type Cache struct {
	mu    sync.Mutex
	store *ttlcache.Cache[KeyEntry]
}

// New creates a KeyCache with the given LRU capacity (spec.md §6
// keycache.max.entries; default matches the teacher's default of 1000).
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	return &Cache{store: ttlcache.New[KeyEntry](ttlcache.WithMaxEntries[KeyEntry](maxEntries))}
}

func key(owner string, class uint16) string {
	return fmt.Sprintf("%d/%s", class, dnsname.Canonical(owner))
}

// Lookup returns the cached KeyEntry for (owner, class), or false if
// absent or expired.
func (c *Cache) Lookup(owner string, class uint16) (KeyEntry, bool) {
	v, _ := c.store.Get(key(owner, class))
	if v == nil {
		return KeyEntry{}, false
	}

	return *v, true
}

// Store inserts entry with a TTL derived from its kind: Good/Null entries
// use ttl (the minimum TTL of their originating records), Bad entries
// always use the short badEntryTTL regardless of what's passed, per
// spec.md §4.I's "cached briefly with a shorter TTL to avoid thrash."
func (c *Cache) Store(entry KeyEntry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Kind == KindBad {
		ttl = badEntryTTL
	}

	e := entry
	c.store.Put(key(entry.Owner, entry.Class), &e, ttl)
}

// TotalCount reports the number of entries currently tracked.
func (c *Cache) TotalCount() int {
	return c.store.TotalCount()
}

// Clear purges the cache, used by tests that inject fresh instances per
// spec.md §9: "tests inject fresh instances," never a process singleton.
func (c *Cache) Clear() {
	c.store.Clear()
}
