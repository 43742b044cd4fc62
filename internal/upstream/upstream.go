// Package upstream implements the priming resolver collaborator spec.md
// §4.J/§5 names: the validator's one blocking external call. Grounded on
// the teacher's UpstreamResolver/dnsUpstreamClient (resolver/
// upstream_resolver.go), trimmed to the single net.JoinHostPort(host,port)
// UDP-with-TCP-fallback path that resolver used for plain "tcp+udp"
// upstreams — DoH/DoT transports aren't named by any spec.md component, so
// they're left out rather than carried unused.
package upstream

import (
	"context"
	"fmt"

	"github.com/miekg/dns"
)

// Resolver sends a DNS query to one fixed upstream address, falling back
// to TCP when the UDP reply is truncated, same as the teacher's
// dnsUpstreamClient.callExternal.
type Resolver struct {
	addr      string
	udpClient *dns.Client
	tcpClient *dns.Client
}

// New builds a Resolver for addr ("host:port").
func New(addr string) *Resolver {
	return &Resolver{
		addr:      addr,
		udpClient: &dns.Client{Net: "udp"},
		tcpClient: &dns.Client{Net: "tcp"},
	}
}

// Send implements valevent.Resolver and facade's priming-resolver call.
func (r *Resolver) Send(ctx context.Context, query *dns.Msg) (*dns.Msg, error) {
	resp, _, err := r.udpClient.ExchangeContext(ctx, query, r.addr)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: %w", r.addr, err)
	}

	if resp != nil && resp.Truncated {
		resp, _, err = r.tcpClient.ExchangeContext(ctx, query, r.addr)
		if err != nil {
			return nil, fmt.Errorf("upstream %s (tcp retry): %w", r.addr, err)
		}
	}

	return resp, nil
}
