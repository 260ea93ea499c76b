// Package metrics exports fleet statistics in the Prometheus text format, for
// node_exporter's textfile collector or any scraper reading a file.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/eligibility"
)

// Exporter holds the gauges for one observed fleet. It owns a private
// registry, so several exporters can live in one process.
type Exporter struct {
	registry *prometheus.Registry

	contracts       *prometheus.GaugeVec
	byStatus        *prometheus.GaugeVec
	bountyLocked    prometheus.Gauge
	realBids        prometheus.Gauge
	actions         *prometheus.GaugeVec
	nearingDeadline prometheus.Gauge
	pastDeadline    prometheus.Gauge
	observedAt      prometheus.Gauge
}

// NewExporter creates an exporter with every gauge registered and zero.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		contracts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paragon_contracts",
			Help: "Contracts in the fleet by lifecycle group.",
		}, []string{"group"}),
		byStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paragon_contracts_by_status",
			Help: "Contracts in the fleet by status.",
		}, []string{"status"}),
		bountyLocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paragon_bounty_locked_satoshis",
			Help: "Satoshis held by contracts that are not resolved.",
		}),
		realBids: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paragon_bids",
			Help: "Real bids across the fleet, placeholders excluded.",
		}),
		actions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paragon_actions_available",
			Help: "Contracts on which the role may take the action.",
		}, []string{"role", "action"}),
		nearingDeadline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paragon_deadline_approaching",
			Help: "Unresolved contracts whose completion deadline is within 24 hours.",
		}),
		pastDeadline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paragon_deadline_passed",
			Help: "Unresolved contracts whose completion deadline has passed.",
		}),
		observedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paragon_observed_timestamp_seconds",
			Help: "Unix time the fleet was observed at.",
		}),
	}
	e.registry.MustRegister(
		e.contracts,
		e.byStatus,
		e.bountyLocked,
		e.realBids,
		e.actions,
		e.nearingDeadline,
		e.pastDeadline,
		e.observedAt,
	)
	return e
}

// Registry returns the exporter's registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Observe replaces every gauge with the state of snaps as seen by role at now.
func (e *Exporter) Observe(snaps []contract.Snapshot, role contract.Role, identityKey string, now int64) {
	st := eligibility.Aggregate(snaps)

	e.contracts.Reset()
	e.contracts.WithLabelValues("total").Set(float64(st.TotalContracts))
	e.contracts.WithLabelValues("open").Set(float64(st.OpenContracts))
	e.contracts.WithLabelValues("active").Set(float64(st.ActiveContracts))
	e.contracts.WithLabelValues("completed").Set(float64(st.CompletedContracts))
	e.contracts.WithLabelValues("disputed").Set(float64(st.DisputedContracts))
	e.bountyLocked.Set(float64(st.TotalBountyLocked))

	statusCounts := make(map[contract.Status]int, len(contract.Statuses))
	actionCounts := make(map[eligibility.Action]int, len(eligibility.Actions))
	var bidCount, nearing, passed int
	for _, s := range snaps {
		statusCounts[s.Record.Status]++
		bidCount += contract.RealBidCount(s)
		for _, a := range eligibility.ActionsFor(role, identityKey, s) {
			actionCounts[a]++
		}
		if s.Record.Status == contract.StatusResolved {
			continue
		}
		switch {
		case eligibility.IsDeadlinePassed(s.Record.WorkCompletionDeadline, now):
			passed++
		case eligibility.IsDeadlineApproaching(s.Record.WorkCompletionDeadline, now):
			nearing++
		}
	}

	e.byStatus.Reset()
	for _, status := range contract.Statuses {
		e.byStatus.WithLabelValues(string(status)).Set(float64(statusCounts[status]))
	}

	e.actions.Reset()
	for _, a := range eligibility.Actions {
		e.actions.WithLabelValues(string(role), string(a)).Set(float64(actionCounts[a]))
	}

	e.realBids.Set(float64(bidCount))
	e.nearingDeadline.Set(float64(nearing))
	e.pastDeadline.Set(float64(passed))
	e.observedAt.Set(float64(now))
}

// WriteText writes every metric in the Prometheus text format.
func (e *Exporter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// WriteTextfile writes every metric to path atomically, for the
// node_exporter textfile collector.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("write textfile: %w", err)
	}
	return nil
}
