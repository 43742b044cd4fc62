// Package metrics registers the validator's prometheus collectors, same
// registration pattern the teacher uses (a package-private registry plus
// RegisterMetric), trimmed down from the list-refresh/cache/blocking event
// listeners (resolver/dnssec_resolver.go's validator has no such events) to
// the DNSSEC verdict counters and verification-duration histogram spec.md
// §4.I/§4.J's validation path actually produces.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dnsval/resolver/internal/rrset"
)

//nolint:gochecknoglobals
var reg = prometheus.NewRegistry()

// RegisterMetric registers a prometheus collector against the module's
// registry.
func RegisterMetric(c prometheus.Collector) {
	_ = reg.Register(c)
}

// Registry exposes the registry for a metrics HTTP handler, should one be
// wired in by an embedder; the CLI itself does not start one (spec.md §6
// names only the wire DNS contract and a config file, no HTTP API).
func Registry() *prometheus.Registry {
	return reg
}

//nolint:gochecknoglobals
var (
	verdictTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dnsval_verdict_total",
		Help: "Number of validations completed, by verdict",
	}, []string{"verdict"})

	verificationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dnsval_verification_duration_seconds",
		Help:    "Wall-clock time spent in ValEvent.Process per query",
		Buckets: prometheus.DefBuckets,
	})

	transportFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dnsval_transport_failure_total",
		Help: "Number of priming-resolver Send calls that failed after retries",
	})

	keyCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dnsval_keycache_entries",
		Help: "Current number of entries in the KeyCache",
	})
)

//nolint:gochecknoinits
func init() {
	RegisterMetric(verdictTotal)
	RegisterMetric(verificationDuration)
	RegisterMetric(transportFailureTotal)
	RegisterMetric(keyCacheSize)
}

// ObserveVerdict increments the per-verdict counter, called once per
// completed Facade.Send (internal/facade).
func ObserveVerdict(v rrset.Security) {
	verdictTotal.WithLabelValues(v.String()).Inc()
}

// ObserveVerificationDuration records how long one ValEvent.Process call
// took.
func ObserveVerificationDuration(d time.Duration) {
	verificationDuration.Observe(d.Seconds())
}

// ObserveTransportFailure increments the transport-failure counter,
// called when the priming resolver's Send exhausts its retries.
func ObserveTransportFailure() {
	transportFailureTotal.Inc()
}

// ObserveKeyCacheSize reports the KeyCache's current entry count.
func ObserveKeyCacheSize(n int) {
	keyCacheSize.Set(float64(n))
}

// StartCollection registers the standard process/go runtime collectors,
// same as the teacher's StartCollection.
func StartCollection() {
	RegisterMetric(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	RegisterMetric(collectors.NewGoCollector())
}
