// Package metrics tracks counters for one CLI run (extract or audit) using
// a private Prometheus registry. Nothing here is served over HTTP — the
// registry exists purely so the run's counters are structured,
// thread-safe-by-construction, and easy to render as a one-line summary at
// exit, instead of a handful of ad-hoc int64 fields passed around by
// pointer.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run accumulates counters for a single extract or audit invocation.
type Run struct {
	registry *prometheus.Registry
	start    time.Time

	KeysSeen        prometheus.Counter
	RSAKeysParsed   prometheus.Counter
	NonRSASkipped   prometheus.Counter
	MalformedKeys   prometheus.Counter
	DuplicateMods   prometheus.Counter
	ModuliAudited   prometheus.Counter
	MatchesFound    prometheus.Counter
}

// NewRun registers a fresh set of counters under namespace (e.g.
// "rsakeyaudit_extract" or "rsakeyaudit_audit").
func NewRun(namespace string) *Run {
	reg := prometheus.NewRegistry()
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	return &Run{
		registry:      reg,
		start:         time.Now(),
		KeysSeen:      counter("keys_seen_total", "authorized_keys lines examined"),
		RSAKeysParsed: counter("rsa_keys_parsed_total", "ssh-rsa keys successfully parsed"),
		NonRSASkipped: counter("non_rsa_skipped_total", "non ssh-rsa keys skipped"),
		MalformedKeys: counter("malformed_keys_total", "ssh-rsa keys with corrupt wire framing"),
		DuplicateMods: counter("duplicate_moduli_total", "moduli dropped as duplicates"),
		ModuliAudited: counter("moduli_audited_total", "moduli fed into batch-GCD"),
		MatchesFound:  counter("matches_found_total", "moduli with a non-trivial shared factor"),
	}
}

// Summary renders a single human-readable line for the end of a run.
func (r *Run) Summary() string {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Sprintf("metrics: gather failed: %v", err)
	}

	var parts []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			parts = append(parts, fmt.Sprintf("%s=%g", f.GetName(), m.GetCounter().GetValue()))
		}
	}
	parts = append(parts, fmt.Sprintf("elapsed=%s", time.Since(r.start).Round(time.Millisecond)))
	return strings.Join(parts, " ")
}
