package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики конвейера. Экспортируются на /metrics
// планировщиком.
var (
	// RunsTotal — количество запусков конвейера по финальному статусу.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfwise_pipeline_runs_total",
		Help: "Pipeline runs by final status.",
	}, []string{"status"})

	// EntitiesProcessed — количество обработанных сущностей.
	EntitiesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shelfwise_entities_processed_total",
		Help: "Entities that went through classification.",
	})

	// FlagsRaised — количество выставленных флагов по типу.
	FlagsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfwise_flags_raised_total",
		Help: "Inventory flags raised during classification.",
	}, []string{"flag"})

	// ProposalsGenerated — количество предложений по виду.
	ProposalsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfwise_proposals_generated_total",
		Help: "Replenishment and pricing proposals generated.",
	}, []string{"kind"})

	// OrdersPlaced — количество размещённых заказов.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shelfwise_orders_placed_total",
		Help: "Orders persisted by the commit stage.",
	})

	// OracleFailures — количество отказов советников по виду вызова.
	OracleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfwise_oracle_failures_total",
		Help: "Advisory oracle calls that failed and degraded to defaults.",
	}, []string{"kind"})

	// RunDuration — длительность запуска конвейера.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shelfwise_pipeline_run_duration_seconds",
		Help:    "Wall-clock duration of a pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)
