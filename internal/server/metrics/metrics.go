// Package metrics provides Prometheus metrics for the API server: HTTP
// request volume/latency and database pool stats.
package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "conduit"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Auth metrics - token issuance and rejected credentials
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "tokens_issued_total",
			Help:      "Total number of JWTs issued via registration and login",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Total number of rejected authentication attempts by reason",
		},
		[]string{"reason"},
	)

	// Database metrics - connection pool stats
	DBConnectionPoolSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Database connection pool stats",
		},
		[]string{"state"},
	)
)

// PoolStats is the subset of sql.DBStats the collector exports. An interface
// so tests can feed synthetic numbers.
type PoolStats interface {
	OpenConnections() int
	IdleConnections() int
	InUseConnections() int
}

// PoolStatsProvider yields a stats snapshot on demand.
type PoolStatsProvider interface {
	Stat() PoolStats
}

type sqlDBStats struct {
	stats sql.DBStats
}

func (s sqlDBStats) OpenConnections() int  { return s.stats.OpenConnections }
func (s sqlDBStats) IdleConnections() int  { return s.stats.Idle }
func (s sqlDBStats) InUseConnections() int { return s.stats.InUse }

type sqlDBAdapter struct {
	db *sql.DB
}

func (a *sqlDBAdapter) Stat() PoolStats {
	return sqlDBStats{stats: a.db.Stats()}
}

// PoolStatsCollector samples database pool statistics periodically.
type PoolStatsCollector struct {
	provider PoolStatsProvider
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewPoolStatsCollector(db *sql.DB) *PoolStatsCollector {
	return &PoolStatsCollector{
		provider: &sqlDBAdapter{db: db},
		stopChan: make(chan struct{}),
	}
}

// NewPoolStatsCollectorWithProvider constructs a collector with a custom
// provider, for tests.
func NewPoolStatsCollectorWithProvider(provider PoolStatsProvider) *PoolStatsCollector {
	return &PoolStatsCollector{
		provider: provider,
		stopChan: make(chan struct{}),
	}
}

// Start begins collecting pool stats every interval.
func (c *PoolStatsCollector) Start(interval time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// collect immediately on start
		c.Collect()

		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.stopChan:
				return
			}
		}
	}()
}

// Collect takes one stats snapshot and publishes it.
func (c *PoolStatsCollector) Collect() {
	stats := c.provider.Stat()
	DBConnectionPoolSize.WithLabelValues("total").Set(float64(stats.OpenConnections()))
	DBConnectionPoolSize.WithLabelValues("idle").Set(float64(stats.IdleConnections()))
	DBConnectionPoolSize.WithLabelValues("in_use").Set(float64(stats.InUseConnections()))
}

// Stop stops the pool stats collector.
func (c *PoolStatsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

// Timer measures an operation's duration.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}
