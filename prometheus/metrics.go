package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/suteetoe/merchant-dashboard/pkg/config"
)

var (
	// Authentication metrics
	AuthAttemptsCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Merchant metrics
	MerchantCreatedCounter prometheus.Counter

	// Product metrics
	ProductOperationsCounter *prometheus.CounterVec

	// Order metrics
	OrderTransitionsCounter *prometheus.CounterVec

	// Upload metrics
	UploadsCounter *prometheus.CounterVec

	// Dashboard metrics
	DashboardBuildDuration prometheus.Histogram
)

// InitMetrics creates the domain collectors and registers them with reg.
// Record helpers are no-ops until InitMetrics has run.
func InitMetrics(config *config.Config, reg prometheus.Registerer) {
	prefix := config.Metrics.Prefix

	AuthAttemptsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of register, login and logout attempts by result",
		},
		[]string{"action", "result"},
	)

	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	MerchantCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_merchants_created_total",
			Help: "Total number of merchant records created lazily",
		},
	)

	ProductOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	OrderTransitionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_transitions_total",
			Help: "Total number of order status changes by target status and result",
		},
		[]string{"to", "result"},
	)

	UploadsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_uploads_total",
			Help: "Total number of image uploads by kind and result",
		},
		[]string{"kind", "result"},
	)

	DashboardBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_dashboard_build_duration_seconds",
			Help:    "Time spent loading and aggregating one dashboard",
			Buckets: prometheus.DefBuckets,
		},
	)

	reg.MustRegister(
		AuthAttemptsCounter,
		DbOperationDuration,
		MerchantCreatedCounter,
		ProductOperationsCounter,
		OrderTransitionsCounter,
		UploadsCounter,
		DashboardBuildDuration,
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAuthAttempt counts an auth action with result "success" or "failure"
func RecordAuthAttempt(action, result string) {
	if AuthAttemptsCounter != nil {
		AuthAttemptsCounter.WithLabelValues(action, result).Inc()
	}
}

// RecordMerchantCreated increments the lazily created merchant counter
func RecordMerchantCreated() {
	if MerchantCreatedCounter != nil {
		MerchantCreatedCounter.Inc()
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	if ProductOperationsCounter != nil {
		ProductOperationsCounter.WithLabelValues(operation).Inc()
	}
}

// RecordOrderTransition counts a status change attempt
func RecordOrderTransition(to, result string) {
	if OrderTransitionsCounter != nil {
		OrderTransitionsCounter.WithLabelValues(to, result).Inc()
	}
}

// RecordUpload counts a logo or product image upload
func RecordUpload(kind, result string) {
	if UploadsCounter != nil {
		UploadsCounter.WithLabelValues(kind, result).Inc()
	}
}

// ObserveDashboardBuild records how long a dashboard took to assemble
func ObserveDashboardBuild(startTime time.Time) {
	if DashboardBuildDuration != nil {
		DashboardBuildDuration.Observe(time.Since(startTime).Seconds())
	}
}
