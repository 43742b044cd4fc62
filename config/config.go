// Package config loads and validates the validator's configuration: one
// priming-resolver upstream plus the DNSSEC validation options spec.md §6
// names. It keeps the teacher's self-contained Upstream/ParseUpstream
// (config/config.go) and NewConfig/defaults-then-unmarshal shape, trimmed
// of every option block (CustomDNS, Conditional, Blocking, ClientLookup,
// Caching, QueryLog, HTTPS/Prometheus service addresses, ...) that belonged
// to the teacher's filtering proxy and has no SPEC_FULL.md component.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	logrus "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/dnsval/resolver/log"
)

const validUpstream = `(?P<Host>(?:\[[^\]]+\])|[^\s/:]+):?(?P<Port>[^\s/:]*)?(?P<Path>/[^\s]*)?`

// deprecated net prefixes, accepted and normalized to NetTCPUDP, same
// behavior as the teacher's extractNet.
const (
	NetUDP    = "udp"
	NetTCP    = "tcp"
	NetTCPUDP = "tcp+udp"
	NetTCPTLS = "tcp-tls"
)

// nolint:gochecknoglobals
var netDefaultPort = map[string]uint16{
	NetTCPUDP: 53,
	NetTCPTLS: 853,
}

// Upstream is the priming resolver's address, spec.md §4.J/§5's sole
// blocking-call collaborator.
type Upstream struct {
	Net  string
	Host string
	Port uint16
}

func (u *Upstream) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	upstream, err := ParseUpstream(s)
	if err != nil {
		return err
	}

	*u = upstream

	return nil
}

// Addr returns the host:port pair internal/upstream.New expects.
func (u Upstream) Addr() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(int(u.Port)))
}

// ParseUpstream creates a new Upstream from a string in format
// [net:]host[:port], same grammar the teacher's ParseUpstream accepts
// (the DoH "/path" suffix is dropped along with the HTTPS transport it
// belonged to, per SPEC_FULL.md's dropped-deps ledger).
func ParseUpstream(upstream string) (result Upstream, err error) {
	if strings.TrimSpace(upstream) == "" {
		return Upstream{}, nil
	}

	var n string

	n, upstream = extractNet(upstream)

	r := regexp.MustCompile(validUpstream)

	match := r.FindStringSubmatch(upstream)
	if len(match) == 0 {
		err = fmt.Errorf("wrong configuration, couldn't parse input '%s', please enter [net:]host[:port]", upstream)
		return
	}

	if _, ok := netDefaultPort[n]; !ok {
		err = fmt.Errorf("wrong configuration, couldn't parse net '%s', please use one of %s",
			n, reflect.ValueOf(netDefaultPort).MapKeys())
		return
	}

	host := match[1]
	if len(host) == 0 {
		err = errors.New("wrong configuration, host wasn't specified")
		return
	}

	portPart := match[2]

	var port uint16

	if len(portPart) > 0 {
		var p int

		p, err = strconv.Atoi(strings.TrimSpace(portPart))
		if err != nil {
			err = fmt.Errorf("can't convert port to number %w", err)
			return
		}

		if p < 1 || p > 65535 {
			err = fmt.Errorf("invalid port %d", p)
			return
		}

		port = uint16(p)
	} else {
		port = netDefaultPort[n]
	}

	return Upstream{Net: n, Host: host, Port: port}, nil
}

func extractNet(upstream string) (string, string) {
	if strings.HasPrefix(upstream, NetTCP+":") {
		logrus.Warn("net prefix tcp is deprecated, using tcp+udp as default fallback")

		return NetTCPUDP, strings.Replace(upstream, NetTCP+":", "", 1)
	}

	if strings.HasPrefix(upstream, NetUDP+":") {
		logrus.Warn("net prefix udp is deprecated, using tcp+udp as default fallback")

		return NetTCPUDP, strings.Replace(upstream, NetUDP+":", "", 1)
	}

	if strings.HasPrefix(upstream, NetTCPUDP+":") {
		return NetTCPUDP, strings.Replace(upstream, NetTCPUDP+":", "", 1)
	}

	if strings.HasPrefix(upstream, NetTCPTLS+":") {
		return NetTCPTLS, strings.Replace(upstream, NetTCPTLS+":", "", 1)
	}

	return NetTCPUDP, upstream
}

// Config is the validator's whole configuration, spec.md §6's recognized
// options plus the ambient logging block every teacher config carries.
type Config struct {
	Upstream   Upstream   `yaml:"upstream"`
	Validation Validation `yaml:"validation"`
	Log        log.Config `yaml:"log"`
	// TimeoutSeconds bounds the wall-clock budget of one Facade.Send
	// call, spec.md §5's "Timeout is enforced by the facade."
	TimeoutSeconds uint `yaml:"timeoutSeconds" default:"5"`
}

// LoadConfig reads path, applies creasty/defaults, then unmarshals yaml
// over the defaulted struct, the same two-step NewConfig the teacher uses
// (config/config.go), trimmed of the log-format validation that belonged
// to option blocks this module dropped.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: applying defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validation.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// LogConfig logs the resolved configuration, the teacher's
// self-describing-config convention (config/dnssec.go's LogConfig).
func (c *Config) LogConfig(logger *logrus.Entry) {
	logger.Infof("Upstream = %s:%s:%d", c.Upstream.Net, c.Upstream.Host, c.Upstream.Port)
	logger.Infof("Timeout = %ds", c.TimeoutSeconds)
	c.Validation.LogConfig(logger)
}
