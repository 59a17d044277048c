package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Generation metrics
	GenerationsTotal    *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec
	GenerationErrors    *prometheus.CounterVec
	RecordsGenerated    prometheus.Counter
	RecordsStored       prometheus.Counter
	UnbalancedCharges   prometheus.Counter
	CollectedItemErrors prometheus.Counter

	// Rate lookups
	RateLookups   *prometheus.CounterVec
	RateCacheHits prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		GenerationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_generations_total",
				Help: "Total ledger generation runs by charge type and mode",
			},
			[]string{"charge_type", "mode"},
		),
		GenerationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergen_generation_duration_seconds",
				Help:    "Duration of ledger generation runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"charge_type"},
		),
		GenerationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_generation_errors_total",
				Help: "Total fatal generation errors by charge type",
			},
			[]string{"charge_type"},
		),
		RecordsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgergen_records_generated_total",
			Help: "Total draft ledger records produced",
		}),
		RecordsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgergen_records_stored_total",
			Help: "Total ledger records persisted",
		}),
		UnbalancedCharges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgergen_unbalanced_charges_total",
			Help: "Total generation runs that ended unbalanced",
		}),
		CollectedItemErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgergen_collected_item_errors_total",
			Help: "Total per-item errors collected during generation",
		}),

		RateLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_rate_lookups_total",
				Help: "Total exchange rate lookups by currency",
			},
			[]string{"currency"},
		),
		RateCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgergen_rate_cache_hits_total",
			Help: "Total exchange rate lookups served from cache",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergen_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergen_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledgergen_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergen_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
