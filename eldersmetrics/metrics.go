// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package eldersmetrics exposes Prometheus collectors for the consensus
// kernel and its drivers. A nil *Collectors is always safe to call methods
// on: metrics are ambient observability, never a correctness dependency.
package eldersmetrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the counters and histograms the kernel updates as it
// adopts votes, records faults, and reaches decisions.
type Collectors struct {
	VotesAdopted     *prometheus.CounterVec
	FaultsRecorded   *prometheus.CounterVec
	Decisions        prometheus.Counter
	RoundsPerDecision prometheus.Histogram
	BallotsEmitted   *prometheus.CounterVec
}

// New creates collectors and registers them against reg. reg may be a
// prometheus.Registry or the default registerer.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		VotesAdopted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elders",
			Name:      "votes_adopted_total",
			Help:      "Number of signed votes adopted into consensus state, by voter.",
		}, []string{"voter"}),
		FaultsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elders",
			Name:      "faults_recorded_total",
			Help:      "Number of faults recorded, by kind.",
		}, []string{"kind"}),
		Decisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "elders",
			Name:      "decisions_total",
			Help:      "Number of generations that reached a decision.",
		}),
		RoundsPerDecision: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "elders",
			Name:      "votes_per_decision",
			Help:      "Number of adopted votes observed before a decision was reached.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		BallotsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elders",
			Name:      "ballots_emitted_total",
			Help:      "Number of ballots this node emitted, by kind.",
		}, []string{"kind"}),
	}
	for _, collector := range []prometheus.Collector{
		c.VotesAdopted, c.FaultsRecorded, c.Decisions, c.RoundsPerDecision, c.BallotsEmitted,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// VoteAdopted records that a signed vote from voter was folded into a
// consensus state's book.
func (c *Collectors) VoteAdopted(voter string) {
	if c == nil {
		return
	}
	c.VotesAdopted.WithLabelValues(voter).Inc()
}

// FaultRecorded records that a fault of the given kind was merged into a
// consensus state's fault set.
func (c *Collectors) FaultRecorded(kind string) {
	if c == nil {
		return
	}
	c.FaultsRecorded.WithLabelValues(kind).Inc()
}

// Decided records that a generation reached a decision after the given
// number of adopted-vote rounds.
func (c *Collectors) Decided(rounds int) {
	if c == nil {
		return
	}
	c.Decisions.Inc()
	c.RoundsPerDecision.Observe(float64(rounds))
}

// BallotEmitted records that this node emitted a ballot of the given kind.
func (c *Collectors) BallotEmitted(kind string) {
	if c == nil {
		return
	}
	c.BallotsEmitted.WithLabelValues(kind).Inc()
}
