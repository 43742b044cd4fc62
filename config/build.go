package config

import (
	"fmt"
	"time"

	"github.com/dnsval/resolver/internal/facade"
	"github.com/dnsval/resolver/internal/keycache"
	"github.com/dnsval/resolver/internal/upstream"
	"github.com/dnsval/resolver/internal/valevent"
)

// ValEventConfig converts Validation into internal/valevent's Config,
// the bridge between the yaml-facing option names and the tunables
// spec.md §4.I's state machine actually reads.
func (v *Validation) ValEventConfig() valevent.Config {
	return valevent.Config{
		MaxChainDepth:        v.MaxChainDepth,
		MaxUpstreamQueries:   v.MaxUpstreamQueries,
		Ceilings:             v.NSEC3Ceilings(),
		VerifyOpts:           v.VerifyOptions(),
		MaxRRSIGsPerResponse: v.MaxValidateRRSIGs,
	}
}

// BuildFacade assembles a *facade.Facade from the resolved configuration:
// the trust-anchor store (from file or IANA defaults), a bounded KeyCache,
// the priming resolver pointed at Upstream, and spec.md §5's wall-clock
// timeout. This is the wiring point that turns a parsed Config into the
// module's sole public entry point, the way the teacher's NewServer wires
// config into a resolver chain (server/server.go).
func (c *Config) BuildFacade() (*facade.Facade, error) {
	anchors, err := c.Validation.TrustAnchors()
	if err != nil {
		return nil, fmt.Errorf("build facade: %w", err)
	}

	if c.Upstream.Host == "" {
		return nil, fmt.Errorf("build facade: no upstream configured")
	}

	engine := &valevent.Engine{
		Config:       c.Validation.ValEventConfig(),
		KeyCache:     keycache.New(c.Validation.KeyCacheMaxEntries),
		TrustAnchors: anchors,
		Resolver:     upstream.New(c.Upstream.Addr()),
	}

	timeout := time.Duration(c.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return facade.New(engine, timeout, 3), nil
}
