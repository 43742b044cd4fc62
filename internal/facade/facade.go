// Package facade implements spec component J, the resolver facade: the
// module's sole public entry point. It is grounded on the teacher's
// DNSSECResolver (resolver/dnssec_resolver.go): set the DO/CD bits on the
// outgoing query, call the priming resolver, feed the response through
// valevent.Engine, and translate the verdict back onto the wire the same
// way createServFailResponseDNSSEC/the AD-flag branch in Resolve do.
package facade

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/miekg/dns"

	"github.com/dnsval/resolver/internal/reason"
	"github.com/dnsval/resolver/internal/rrset"
	"github.com/dnsval/resolver/internal/valevent"
	"github.com/dnsval/resolver/log"
	"github.com/dnsval/resolver/metrics"
)

// ednsUDPSize mirrors the teacher's DNSSECResolver buffer size, large
// enough to carry RRSIG/DNSKEY records without TCP fallback in the common
// case.
const ednsUDPSize = 4096

// Facade is spec.md §4.J's Resolver facade: one blocking method, send,
// wrapping a *valevent.Engine.
type Facade struct {
	Engine *valevent.Engine

	// Timeout bounds the wall-clock budget of the entire Send call,
	// per spec.md §5.
	Timeout time.Duration

	// RetryAttempts bounds retries of the priming resolver's initial
	// send on Transport failure (spec.md §7's Transport kind); 1 means
	// no retry.
	RetryAttempts uint
}

// New builds a Facade around an already-assembled engine.
func New(engine *valevent.Engine, timeout time.Duration, retryAttempts uint) *Facade {
	if retryAttempts == 0 {
		retryAttempts = 1
	}

	return &Facade{Engine: engine, Timeout: timeout, RetryAttempts: retryAttempts}
}

// Outcome reports what Send decided, the "API accessor" side channel
// spec.md §4.J names alongside the debug log line, so a caller that wants
// more than the wire RCODE (the query CLI subcommand, tests) can inspect
// the verdict and reason token directly instead of re-parsing EDNS0.
type Outcome struct {
	Verdict rrset.Security
	Reason  reason.Token
}

// Send implements spec.md §4.J: set DO+CD on query, fetch the upstream
// response, validate it, and return a wire message with AD/RCODE set
// according to the verdict.
func (f *Facade) Send(ctx context.Context, query *dns.Msg) (*dns.Msg, Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	reqID := uuid.NewString()
	logger := log.PrefixedLog("facade").WithField("request_id", reqID)

	if len(query.Question) != 1 {
		return nil, Outcome{}, fmt.Errorf("facade: query must carry exactly one question, got %d", len(query.Question))
	}

	q := query.Question[0]
	outgoing := prepareOutgoing(query)

	var upstream *dns.Msg

	err := retry.Do(
		func() error {
			resp, sendErr := f.Engine.Resolver.Send(ctx, outgoing)
			if sendErr != nil {
				return sendErr
			}

			upstream = resp

			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.RetryAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		metrics.ObserveTransportFailure()
		logger.WithError(err).Warn("priming resolver transport failure")

		// spec.md §7: Transport failures are propagated unchanged,
		// AD=0. There is no upstream response to propagate, so the
		// caller must treat the error as the signal; a synthetic
		// SERVFAIL "unchanged" in that sense is the honest RCODE to
		// hand back over the wire if one is required anyway.
		return transportFailureResponse(query), Outcome{Verdict: rrset.SecurityIndeterminate}, err
	}

	start := time.Now()
	ev := valevent.New(f.Engine, upstream, q.Name, q.Qtype, q.Qclass)
	verdict, tok := ev.Process(ctx)
	metrics.ObserveVerificationDuration(time.Since(start))

	metrics.ObserveVerdict(verdict)
	metrics.ObserveKeyCacheSize(f.Engine.KeyCache.TotalCount())

	resp := buildResponse(query, upstream, verdict, tok)

	logFields := logger.WithField("qname", q.Name).WithField("verdict", verdict.String())
	if tok != "" {
		logFields = logFields.WithField("reason", tok.String())
	}

	logFields.Debug("validation finished")

	return resp, Outcome{Verdict: verdict, Reason: tok}, nil
}

// prepareOutgoing clones query and sets the DO and CD bits per spec.md
// §4.J, mirroring the teacher's DO-bit branch in DNSSECResolver.Resolve
// (resolver/dnssec_resolver.go): reuse an existing OPT if present, add one
// otherwise, and always request a large enough UDP buffer for signed
// answers.
func prepareOutgoing(query *dns.Msg) *dns.Msg {
	out := query.Copy()

	if opt := out.IsEdns0(); opt != nil {
		opt.SetDo(true)

		if opt.UDPSize() < ednsUDPSize {
			opt.SetUDPSize(ednsUDPSize)
		}
	} else {
		out.SetEdns0(ednsUDPSize, true)
	}

	out.CheckingDisabled = true

	return out
}

// buildResponse stamps the upstream response's AD flag / RCODE according
// to verdict, per spec.md §4.J/§6/§7:
//   - SECURE:                AD=1, RCODE/sections unchanged
//   - INSECURE:               AD=0, RCODE/sections unchanged (normal,
//     non-error outcome)
//   - INDETERMINATE:          AD=0, RCODE/sections unchanged (no trust
//     anchor covers the query)
//   - BOGUS:                  RCODE rewritten to SERVFAIL, AD=0, original
//     RCODE/sections preserved for debugging, plus an EDNS0_EDE option
//     when the query carried EDNS0 (SPEC_FULL's EDE supplement, grounded
//     on createServFailResponseDNSSEC)
func buildResponse(original, upstream *dns.Msg, verdict rrset.Security, tok reason.Token) *dns.Msg {
	resp := upstream.Copy()
	resp.Id = original.Id

	switch verdict {
	case rrset.SecuritySecure:
		resp.AuthenticatedData = true
	case rrset.SecurityBogus:
		resp.AuthenticatedData = false
		resp.Rcode = dns.RcodeServerFailure

		if original.IsEdns0() != nil {
			appendEDE(resp, tok)
		}
	case rrset.SecurityInsecure, rrset.SecurityIndeterminate, rrset.SecurityUnchecked:
		resp.AuthenticatedData = false
	}

	return resp
}

// appendEDE attaches an RFC 8914 Extended DNS Error option carrying the
// reason token, the same pattern as createServFailResponseDNSSEC
// (resolver/dnssec_resolver.go), generalized to carry the typed reason
// token text instead of a fixed string.
func appendEDE(resp *dns.Msg, tok reason.Token) {
	opt := resp.IsEdns0()
	if opt == nil {
		opt = new(dns.OPT)
		opt.Hdr.Name = "."
		opt.Hdr.Rrtype = dns.TypeOPT
		opt.SetUDPSize(ednsUDPSize)
		resp.Extra = append(resp.Extra, opt)
	}

	opt.Option = append(opt.Option, &dns.EDNS0_EDE{
		InfoCode:  dns.ExtendedErrorCodeDNSBogus,
		ExtraText: tok.String(),
	})
}

// transportFailureResponse returns original unchanged except for a
// SERVFAIL rcode, the closest wire-level signal available when the
// priming resolver itself could not be reached; spec.md §7 treats
// Transport failures as the upstream resolver's own failure, not a
// validation verdict, so AD is left clear and no EDE is attached.
func transportFailureResponse(original *dns.Msg) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetRcode(original, dns.RcodeServerFailure)

	return resp
}
