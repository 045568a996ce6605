package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmops",
		Name:      "status_transitions_total",
		Help:      "Applied account status transitions.",
	}, []string{"from", "to"})

	IllegalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmops",
		Name:      "illegal_transitions_total",
		Help:      "Rejected account status transitions by requested target.",
	}, []string{"to"})

	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmops",
		Name:      "settlements_total",
		Help:      "Settled payment entries by result.",
	}, []string{"result"})

	OutboxDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmops",
		Name:      "outbox_events_total",
		Help:      "Outbox events by kind and delivery result.",
	}, []string{"kind", "result"})

	DurationCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmops",
		Name:      "duration_cache_lookups_total",
		Help:      "Status duration cache lookups by result.",
	}, []string{"result"})
)
