package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incident_tracker"

const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

var (
	IncidentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_created_total",
			Help:      "Incident reports created, by category",
		},
		[]string{"category"},
	)

	IncidentsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_imported_total",
			Help:      "Incident reports inserted by spreadsheet import",
		},
	)

	LedgerMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Employee point ledger mutations, by operation",
		},
		[]string{"operation"},
	)

	OutboxRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_relayed_total",
			Help:      "Notification outbox rows published to Kafka, by result",
		},
		[]string{"result"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Disciplinary notifications dispatched, by kind and result",
		},
		[]string{"kind", "result"},
	)
)
