// Package valevent implements spec component I, the heart of the
// validator: the explicit ValEventState machine (INIT, FINDKEY, VALIDATE,
// CNAME, FINISHED). It reifies the teacher's recursive
// walkChainOfTrust/validateDomainLevel/validateRRsets dispatch
// (resolver/dnssec/chain.go, query.go, rrset.go, denial.go) as an
// explicit per-request event loop over typed states, the way spec.md §3
// names them, rather than a chain of mutually recursive methods.
package valevent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/classify"
	"github.com/dnsval/resolver/internal/dnsname"
	"github.com/dnsval/resolver/internal/keycache"
	"github.com/dnsval/resolver/internal/keys"
	"github.com/dnsval/resolver/internal/nsec"
	"github.com/dnsval/resolver/internal/nsec3"
	"github.com/dnsval/resolver/internal/reason"
	"github.com/dnsval/resolver/internal/rrset"
	"github.com/dnsval/resolver/internal/trustanchor"
	"github.com/dnsval/resolver/internal/verify"
)

// State is spec.md §3's ValEventState tagged enum.
type State int

const (
	StateInit State = iota
	StateFindkey
	StateValidate
	StateCNAME
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateFindkey:
		return "FINDKEY"
	case StateValidate:
		return "VALIDATE"
	case StateCNAME:
		return "CNAME"
	case StateFinished:
		return "FINISHED"
	default:
		return "INIT"
	}
}

// maxCNAMEChain caps CNAME-following loops (spec.md §4.I: "cap chain
// length at 11").
const maxCNAMEChain = 11

// defaultKeySize is assumed for NSEC3 iteration-ceiling lookups when the
// signing key's modulus size isn't otherwise known to the validator.
const defaultKeySize = 2048

// Resolver is the priming resolver collaborator spec.md §4.J/§5 names:
// the only blocking call in the validator, used to fetch DS/DNSKEY and
// to resolve CNAME follow-ups.
type Resolver interface {
	Send(ctx context.Context, query *dns.Msg) (*dns.Msg, error)
}

var errQueryBudgetExhausted = errors.New("upstream query budget exhausted")

// Config bundles the tunables spec.md §6 exposes to the validator.
type Config struct {
	MaxChainDepth      uint
	MaxUpstreamQueries uint
	Ceilings           nsec3.IterationCeilings
	VerifyOpts         verify.Options

	// MaxRRSIGsPerResponse caps the number of signatures VALIDATE will
	// verify for one response's answer section, spec.md §6's
	// max.validate.rrsigs DoS guard: a malicious answer stuffed with
	// many owner/type groups can't force unbounded crypto work.
	MaxRRSIGsPerResponse uint
}

// DefaultConfig mirrors the teacher's config/dnssec.go defaults.
func DefaultConfig() Config {
	return Config{
		MaxChainDepth:        10,
		MaxUpstreamQueries:   30,
		Ceilings:             nsec3.DefaultIterationCeilings(),
		VerifyOpts:           verify.DefaultOptions(),
		MaxRRSIGsPerResponse: 300,
	}
}

// Engine holds the collaborators shared across requests: the bounded key
// cache and the process-lifetime trust anchor store (spec.md §5).
type Engine struct {
	Config       Config
	KeyCache     *keycache.Cache
	TrustAnchors *trustanchor.Store
	Resolver     Resolver
}

// ValEvent owns the per-request state spec.md §3 names: the original
// query, the current response, the qname still being proven, the
// signer-name cursor, and the CNAME sub-query position.
type ValEvent struct {
	engine *Engine

	state State

	class uint16
	qtype uint16
	qname string

	response *dns.Msg

	signerName string
	keyEntry   keycache.KeyEntry

	cnameDepth int

	queriesUsed uint

	Verdict rrset.Security
	Reason  reason.Token
}

// New creates a ValEvent for one (qname, qtype, class) query against the
// already-fetched response msg.
func New(engine *Engine, msg *dns.Msg, qname string, qtype, class uint16) *ValEvent {
	return &ValEvent{
		engine:   engine,
		state:    StateInit,
		class:    class,
		qtype:    qtype,
		qname:    dnsname.Canonical(qname),
		response: msg,
		Verdict:  rrset.SecurityUnchecked,
	}
}

// Process runs the event loop to completion, returning the aggregate
// verdict and (if not SECURE) a reason token.
func (e *ValEvent) Process(ctx context.Context) (rrset.Security, reason.Token) {
	for e.state != StateFinished {
		select {
		case <-ctx.Done():
			e.finish(rrset.SecurityIndeterminate, reason.Cancelled)

			return e.Verdict, e.Reason
		default:
		}

		switch e.state {
		case StateInit:
			e.stepInit()
		case StateFindkey:
			e.stepFindkey(ctx)
		case StateValidate:
			e.stepValidate(ctx)
		case StateCNAME:
			e.stepCNAME(ctx)
		default:
			e.state = StateFinished
		}
	}

	return e.Verdict, e.Reason
}

func (e *ValEvent) finish(v rrset.Security, r reason.Token) {
	e.Verdict = v
	e.Reason = r
	e.state = StateFinished
}

// stepInit implements spec.md §4.I's INIT: look up the longest-suffix
// trust anchor for the target zone; without one, the chain cannot be
// evaluated at all.
func (e *ValEvent) stepInit() {
	zone := signerZone(e.response, e.qname)

	if len(e.engine.TrustAnchors.Find(zone, e.class)) == 0 {
		e.finish(rrset.SecurityIndeterminate, reason.New(reason.PhaseFindkey, "no_trust_anchor"))

		return
	}

	e.signerName = zone
	e.state = StateFindkey
}

// stepFindkey implements spec.md §4.I's FINDKEY: walk delegations from the
// nearest trust anchor down to signerName, validating DS→DNSKEY bindings
// at each step and caching the result.
func (e *ValEvent) stepFindkey(ctx context.Context) {
	entry, tok := e.findKey(ctx, e.signerName)
	if entry.IsBad() {
		e.finish(rrset.SecurityBogus, tok)

		return
	}

	e.keyEntry = entry

	if entry.IsNull() {
		e.state = StateValidate

		return
	}

	e.state = StateValidate
}

// findKey resolves (and caches) the KeyEntry for zone by walking from the
// closest ancestor with a cached or trust-anchored entry down to zone,
// one label at a time (spec.md §4.I points 1-4).
func (e *ValEvent) findKey(ctx context.Context, zone string) (keycache.KeyEntry, reason.Token) {
	zone = dnsname.Canonical(zone)

	if cached, ok := e.engine.KeyCache.Lookup(zone, e.class); ok {
		return cached, ""
	}

	if e.engine.TrustAnchors.HasAnchor(zone, e.class) {
		return e.primeFromTrustAnchor(ctx, zone)
	}

	parent := dnsname.Parent(zone)
	if parent == "" {
		return keycache.Bad(zone, e.class, "no_parent"), reason.FindkeyChainDepth
	}

	parentEntry, tok := e.findKey(ctx, parent)
	if parentEntry.IsBad() {
		return parentEntry, tok
	}

	if parentEntry.IsNull() {
		null := keycache.Null(zone, e.class, 3600)
		e.engine.KeyCache.Store(null, cacheTTL(null))

		return null, ""
	}

	return e.primeChild(ctx, zone, parentEntry)
}

// primeFromTrustAnchor fetches zone's live DNSKEY RRset and verifies it
// directly against the configured trust anchor keys (no DS indirection).
func (e *ValEvent) primeFromTrustAnchor(ctx context.Context, zone string) (keycache.KeyEntry, reason.Token) {
	anchorKeys := e.engine.TrustAnchors.Find(zone, e.class)

	resp, err := e.query(ctx, zone, dns.TypeDNSKEY)
	if err != nil {
		bad := keycache.Bad(zone, e.class, err.Error())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.New(reason.PhaseFindkey, "upstream_query_failed")
	}

	liveKeys, sigs, ttl := extractDNSKEY(resp)

	signed := rrset.NewSRRset(dnskeysToRR(liveKeys), sigs)
	signed.Name = zone
	signed.Type = dns.TypeDNSKEY

	if _, err := verify.VerifyAny(signed, sigs, matchAny(liveKeys, anchorKeys), time.Now(), e.engine.Config.VerifyOpts); err != nil {
		bad := keycache.Bad(zone, e.class, reason.FindkeyDNSKEYSelfSign.String())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.FindkeyDNSKEYSelfSign
	}

	good := keycache.Good(zone, e.class, liveKeys, ttl)
	e.engine.KeyCache.Store(good, cacheTTL(good))

	return good, ""
}

// primeChild implements the DS→DNSKEY chain step for a zone whose parent
// is already validated (spec.md §4.I FINDKEY points 1-4).
func (e *ValEvent) primeChild(ctx context.Context, zone string, parentEntry keycache.KeyEntry) (keycache.KeyEntry, reason.Token) {
	dsResp, err := e.query(ctx, zone, dns.TypeDS)
	if err != nil {
		bad := keycache.Bad(zone, e.class, err.Error())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.New(reason.PhaseFindkey, "upstream_query_failed")
	}

	dsRecords, dsSigs, _ := extractDS(dsResp)

	if len(dsRecords) == 0 {
		if provenInsecure(dsResp, zone, dns.TypeDS) {
			null := keycache.Null(zone, e.class, 3600)
			e.engine.KeyCache.Store(null, cacheTTL(null))

			return null, ""
		}

		bad := keycache.Bad(zone, e.class, reason.FindkeyDSNoMatch.String())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.FindkeyDSNoMatch
	}

	dsSet := rrset.NewSRRset(dsRR(dsRecords), dsSigs)
	dsSet.Name = zone
	dsSet.Type = dns.TypeDS

	if _, err := verifyUnderKeySet(dsSet, dsSigs, parentEntry.Keys, e.engine.Config.VerifyOpts); err != nil {
		bad := keycache.Bad(zone, e.class, reason.AnswerSignatureInvalid.String())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.AnswerSignatureInvalid
	}

	supportedDS := keys.FilterSupportedDS(dsRecords, keys.DefaultMatrix())
	if len(supportedDS) == 0 {
		null := keycache.Null(zone, e.class, 3600)
		e.engine.KeyCache.Store(null, cacheTTL(null))

		return null, ""
	}

	dnskeyResp, err := e.query(ctx, zone, dns.TypeDNSKEY)
	if err != nil {
		bad := keycache.Bad(zone, e.class, err.Error())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.New(reason.PhaseFindkey, "upstream_query_failed")
	}

	liveKeys, keySigs, ttl := extractDNSKEY(dnskeyResp)

	var ksk *dns.DNSKEY

	for _, ds := range supportedDS {
		if k := keys.MatchingDNSKEY(liveKeys, ds, keys.DefaultMatrix()); k != nil {
			ksk = k

			break
		}
	}

	if ksk == nil {
		bad := keycache.Bad(zone, e.class, reason.FindkeyDSNoMatch.String())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.FindkeyDSNoMatch
	}

	keySet := rrset.NewSRRset(dnskeysToRR(liveKeys), keySigs)
	keySet.Name = zone
	keySet.Type = dns.TypeDNSKEY

	if _, err := verify.VerifyAny(keySet, keySigs, ksk, time.Now(), e.engine.Config.VerifyOpts); err != nil {
		bad := keycache.Bad(zone, e.class, reason.FindkeyDNSKEYSelfSign.String())
		e.engine.KeyCache.Store(bad, 0)

		return bad, reason.FindkeyDNSKEYSelfSign
	}

	good := keycache.Good(zone, e.class, liveKeys, ttl)
	e.engine.KeyCache.Store(good, cacheTTL(good))

	return good, ""
}

// stepValidate implements spec.md §4.I's VALIDATE: branch on the
// response classification and run the matching proof.
func (e *ValEvent) stepValidate(ctx context.Context) {
	class := classify.Classify(e.response, e.qname, e.qtype)

	switch class {
	case classify.Positive, classify.ANY:
		e.validatePositive()
	case classify.NODATA:
		e.validateNoData()
	case classify.NAMEERROR:
		e.validateNameError()
	case classify.Referral:
		e.validateReferral(ctx)
	case classify.CNAME, classify.CNAMENoData, classify.CNAMENameError:
		e.validateCNAME(class)
	default:
		e.finish(rrset.SecurityBogus, reason.UnknownClassification)
	}
}

func (e *ValEvent) validatePositive() {
	answerSet := rrset.GroupByOwnerType(e.response.Answer)

	var sigsVerified uint

	for _, set := range answerSet {
		sigs := rrset.SigsFor(sigsIn(e.response.Answer), set.Name, set.Type)

		sigsVerified += uint(len(sigs))
		if cap := e.engine.Config.MaxRRSIGsPerResponse; cap > 0 && sigsVerified > cap {
			e.finish(rrset.SecurityBogus, reason.AnswerRRSIGBudget)

			return
		}

		sig, err := verifyUnderKeySet(set, sigs, e.keyEntry.Keys, e.engine.Config.VerifyOpts)
		if err != nil {
			e.finish(rrset.SecurityBogus, reason.AnswerSignatureInvalid)

			return
		}

		if set.Wildcard {
			nsecs := nsecIn(e.response.Ns)
			if len(nsecs) > 0 {
				if !nsec.ProveWildcard(e.qname, nsecs) {
					e.finish(rrset.SecurityBogus, reason.AnswerWildcardProof)

					return
				}
			} else if n3s := nsec3In(e.response.Ns); len(n3s) > 0 {
				params, ok := nsec3.ParamsOf(n3s)
				if !ok || !nsec3.ProveWildcard(e.qname, signerZone(e.response, e.qname), n3s, params) {
					e.finish(rrset.SecurityBogus, reason.AnswerWildcardProof)

					return
				}
			} else {
				e.finish(rrset.SecurityBogus, reason.AnswerWildcardProof)

				return
			}
		}

		_ = sig
	}

	e.finish(rrset.SecuritySecure, "")
}

func (e *ValEvent) validateNoData() {
	nsecs := nsecIn(e.response.Ns)
	if len(nsecs) > 0 {
		result, tok := nsec.ProveNoData(e.qname, e.qtype, nsecs)
		e.finishFromDenial(result == nsec.ResultSecure, result == nsec.ResultInsecure, tok)

		return
	}

	n3s := nsec3In(e.response.Ns)
	if len(n3s) == 0 {
		e.finish(rrset.SecurityBogus, reason.NoDataPositiveNoData)

		return
	}

	params, ok := nsec3.ParamsOf(n3s)
	if !ok {
		e.finish(rrset.SecurityBogus, reason.NoDataPositiveNoData)

		return
	}

	zone := signerZone(e.response, e.qname)

	result, tok := nsec3.ProveNoData(e.qname, zone, e.qtype, n3s, params, e.engine.Config.Ceilings, defaultKeySize)
	e.finishFromDenial(result == nsec3.ResultSecure, result == nsec3.ResultInsecure, tok)
}

func (e *ValEvent) validateNameError() {
	nsecs := nsecIn(e.response.Ns)
	if len(nsecs) > 0 {
		result, tok := nsec.ProveNameError(e.qname, nsecs)
		e.finishFromDenial(result == nsec.ResultSecure, result == nsec.ResultInsecure, tok)

		return
	}

	n3s := nsec3In(e.response.Ns)
	if len(n3s) == 0 {
		e.finish(rrset.SecurityBogus, reason.NXDomainNSEC3Bogus)

		return
	}

	params, ok := nsec3.ParamsOf(n3s)
	if !ok {
		e.finish(rrset.SecurityBogus, reason.NXDomainNSEC3Bogus)

		return
	}

	zone := signerZone(e.response, e.qname)

	result, tok := nsec3.ProveNameError(e.qname, zone, n3s, params, e.engine.Config.Ceilings, defaultKeySize)

	// spec.md §4.I: an NSEC3 opt-out proof covering the next-closer while
	// the classifier reported NXDOMAIN is a NODATA-vs-NXDOMAIN downgrade
	// attack, not a legitimate insecure delegation — treat as BOGUS.
	if result == nsec3.ResultInsecure {
		e.finish(rrset.SecurityBogus, reason.NXDomainNSEC3Bogus)

		return
	}

	e.finishFromDenial(result == nsec3.ResultSecure, false, tok)
}

func (e *ValEvent) finishFromDenial(secure, insecure bool, tok reason.Token) {
	switch {
	case secure:
		e.finish(rrset.SecuritySecure, "")
	case insecure:
		e.finish(rrset.SecurityInsecure, "")
	default:
		e.finish(rrset.SecurityBogus, tok)
	}
}

func (e *ValEvent) validateReferral(ctx context.Context) {
	childZone := referralOwner(e.response)
	if childZone == "" {
		e.finish(rrset.SecurityBogus, reason.New(reason.PhaseAnswer, "referral_no_owner"))

		return
	}

	entry, tok := e.findKey(ctx, childZone)
	if entry.IsBad() {
		e.finish(rrset.SecurityBogus, tok)

		return
	}

	if entry.IsNull() {
		e.finish(rrset.SecurityInsecure, "")

		return
	}

	e.finish(rrset.SecuritySecure, "")
}

func (e *ValEvent) validateCNAME(class classify.Classification) {
	if e.cnameDepth >= maxCNAMEChain {
		e.finish(rrset.SecurityBogus, reason.CNAMELoop)

		return
	}

	answerSet := rrset.GroupByOwnerType(e.response.Answer)

	for _, set := range answerSet {
		if set.Type != dns.TypeCNAME {
			continue
		}

		sigs := rrset.SigsFor(sigsIn(e.response.Answer), set.Name, set.Type)
		if _, err := verifyUnderKeySet(set, sigs, e.keyEntry.Keys, e.engine.Config.VerifyOpts); err != nil {
			e.finish(rrset.SecurityBogus, reason.AnswerSignatureInvalid)

			return
		}
	}

	switch class {
	case classify.CNAME:
		e.finish(rrset.SecuritySecure, "")
	case classify.CNAMENoData:
		e.validateNoData()
	case classify.CNAMENameError:
		e.validateNameError()
	}

	e.cnameDepth++
}

// stepCNAME exists for spec.md §3's named state, but is never reached in
// practice: validateCNAME proves the whole chain (signature plus any
// trailing NODATA/NAMEERROR denial) out of the one response message the
// ValEvent was constructed with, since the priming resolver's answer
// already carries every RRset needed for a same-message CNAME chain. A
// chain spanning multiple upstream messages is outside this validator's
// scope (spec.md §1: iterative resolution is an external collaborator).
func (e *ValEvent) stepCNAME(ctx context.Context) {
	_ = ctx

	e.state = StateFinished
}

// query performs a budgeted upstream lookup via the priming resolver,
// setting the DO bit so the response carries RRSIGs (spec.md §4.J).
func (e *ValEvent) query(ctx context.Context, domain string, qtype uint16) (*dns.Msg, error) {
	if e.queriesUsed >= e.engine.Config.MaxUpstreamQueries {
		return nil, errQueryBudgetExhausted
	}

	e.queriesUsed++

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.SetEdns0(4096, true)

	resp, err := e.engine.Resolver.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("upstream query for %s %d failed: %w", domain, qtype, err)
	}

	return resp, nil
}

// signerZone derives the zone whose KeyEntry should validate qname's
// data: the longest RRSIG signer name found across the response,
// defaulting to qname itself when no signature is present yet (e.g. the
// very first DS/DNSKEY priming query).
func signerZone(msg *dns.Msg, qname string) string {
	best := ""

	consider := func(rrs []dns.RR) {
		for _, rr := range rrs {
			sig, ok := rr.(*dns.RRSIG)
			if !ok {
				continue
			}

			signer := dnsname.Canonical(sig.SignerName)
			if !dnsname.IsSubdomainOf(signer, qname) {
				continue
			}

			if best == "" || dnsname.LabelCount(signer) > dnsname.LabelCount(best) {
				best = signer
			}
		}
	}

	consider(msg.Answer)
	consider(msg.Ns)

	if best == "" {
		return dnsname.Canonical(qname)
	}

	return best
}

func referralOwner(msg *dns.Msg) string {
	for _, rr := range msg.Ns {
		if ns, ok := rr.(*dns.NS); ok {
			return dnsname.Canonical(ns.Header().Name)
		}
	}

	return ""
}

func provenInsecure(msg *dns.Msg, owner string, qtype uint16) bool {
	nsecs := nsecIn(msg.Ns)
	if len(nsecs) > 0 {
		return nsec.ProveInsecureReferral(owner, nsecs)
	}

	n3s := nsec3In(msg.Ns)
	if len(n3s) == 0 {
		return false
	}

	params, ok := nsec3.ParamsOf(n3s)
	if !ok {
		return false
	}

	result, _ := nsec3.ProveNoData(owner, nsec3.ZoneFromOwner(owner), qtype, n3s, params, nsec3.DefaultIterationCeilings(), defaultKeySize)

	return result == nsec3.ResultInsecure
}

func sigsIn(rrs []dns.RR) []*dns.RRSIG {
	var out []*dns.RRSIG

	for _, rr := range rrs {
		if sig, ok := rr.(*dns.RRSIG); ok {
			out = append(out, sig)
		}
	}

	return out
}

func nsecIn(rrs []dns.RR) []*dns.NSEC {
	var out []*dns.NSEC

	for _, rr := range rrs {
		if n, ok := rr.(*dns.NSEC); ok {
			out = append(out, n)
		}
	}

	return out
}

func nsec3In(rrs []dns.RR) []*dns.NSEC3 {
	var out []*dns.NSEC3

	for _, rr := range rrs {
		if n, ok := rr.(*dns.NSEC3); ok {
			out = append(out, n)
		}
	}

	return out
}

func extractDNSKEY(msg *dns.Msg) ([]*dns.DNSKEY, []*dns.RRSIG, uint32) {
	var keys []*dns.DNSKEY

	ttl := uint32(0)

	for _, rr := range msg.Answer {
		if k, ok := rr.(*dns.DNSKEY); ok {
			keys = append(keys, k)

			if ttl == 0 || rr.Header().Ttl < ttl {
				ttl = rr.Header().Ttl
			}
		}
	}

	return keys, sigsIn(msg.Answer), ttl
}

func extractDS(msg *dns.Msg) ([]*dns.DS, []*dns.RRSIG, uint32) {
	var ds []*dns.DS

	ttl := uint32(0)

	for _, rr := range msg.Answer {
		if d, ok := rr.(*dns.DS); ok {
			ds = append(ds, d)

			if ttl == 0 || rr.Header().Ttl < ttl {
				ttl = rr.Header().Ttl
			}
		}
	}

	return ds, sigsIn(msg.Answer), ttl
}

func dnskeysToRR(keys []*dns.DNSKEY) []dns.RR {
	out := make([]dns.RR, len(keys))
	for i, k := range keys {
		out[i] = k
	}

	return out
}

func dsRR(ds []*dns.DS) []dns.RR {
	out := make([]dns.RR, len(ds))
	for i, d := range ds {
		out[i] = d
	}

	return out
}

// cacheTTL converts a Good/Null KeyEntry's originating TTL (seconds) into
// the time.Duration the KeyCache expects, falling back to a conservative
// floor so a zero-TTL record doesn't fall out of the cache immediately
// (ttlcache.Put treats ttl<=0 as a no-op).
func cacheTTL(entry keycache.KeyEntry) time.Duration {
	if entry.TTL == 0 {
		return 60 * time.Second
	}

	return time.Duration(entry.TTL) * time.Second
}

// verifyUnderKeySet tries every key in keySet, strongest signature first
// per key, and succeeds as soon as any (sig, key) pair verifies — spec.md
// §4.C: "An RRset is SECURE if at least one RRSIG over it verifies under
// at least one DNSKEY in the supplied key set."
func verifyUnderKeySet(set *rrset.SRRset, sigs []*dns.RRSIG, keySet []*dns.DNSKEY, opts verify.Options) (*dns.RRSIG, error) {
	var errs *multierror.Error

	for _, key := range keySet {
		sig, err := verify.VerifyAny(set, sigs, key, time.Now(), opts)
		if err == nil {
			return sig, nil
		}

		errs = multierror.Append(errs, err)
	}

	if errs.ErrorOrNil() == nil {
		return nil, errors.New("no keys available")
	}

	return nil, errs.ErrorOrNil()
}

// matchAny picks the first live DNSKEY whose key tag matches any
// configured anchor key, used to verify the zone's DNSKEY RRset directly
// against a trust-anchored key.
func matchAny(live []*dns.DNSKEY, anchors []*dns.DNSKEY) *dns.DNSKEY {
	for _, a := range anchors {
		if k := keys.KeyTagMatch(live, a.KeyTag(), a.Algorithm); k != nil {
			return k
		}
	}

	if len(anchors) > 0 {
		return anchors[0]
	}

	return nil
}
