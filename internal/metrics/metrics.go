package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts controller-level user actions by operation and
	// outcome ("ok", "rejected", "invalid", "error").
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_operations_total",
		Help: "Collection operations triggered by the user",
	}, []string{"op", "outcome"})

	// ReconcileApplies counts server-confirmed results merged into the store.
	ReconcileApplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_reconcile_applies_total",
		Help: "Mutation results applied to the local collection",
	}, []string{"kind"})

	// Resyncs counts full re-fetches forced by rejected mutations.
	Resyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_resyncs_total",
		Help: "Full collection re-fetches after a rejected mutation",
	}, []string{"collection"})

	// InFlightRejections counts mutations refused because another one was
	// already running for the same entity.
	InFlightRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookden_inflight_rejections_total",
		Help: "Mutations rejected by the per-entity in-flight guard",
	})
)
