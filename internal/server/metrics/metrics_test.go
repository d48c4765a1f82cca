package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakePoolStats struct {
	open, idle, inUse int
}

func (s fakePoolStats) OpenConnections() int  { return s.open }
func (s fakePoolStats) IdleConnections() int  { return s.idle }
func (s fakePoolStats) InUseConnections() int { return s.inUse }

type fakeStatsProvider struct {
	stats fakePoolStats
}

func (p *fakeStatsProvider) Stat() PoolStats { return p.stats }

func TestHTTPMetricsExist(t *testing.T) {
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInFlight)

	initial := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200").Inc()
	assert.Equal(t, initial+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")))
}

func TestAuthMetrics(t *testing.T) {
	initialIssued := testutil.ToFloat64(TokensIssued)
	TokensIssued.Inc()
	assert.Equal(t, initialIssued+1, testutil.ToFloat64(TokensIssued))

	initialFailed := testutil.ToFloat64(AuthFailures.WithLabelValues("invalid_token"))
	AuthFailures.WithLabelValues("invalid_token").Inc()
	assert.Equal(t, initialFailed+1, testutil.ToFloat64(AuthFailures.WithLabelValues("invalid_token")))
}

func TestPoolStatsCollector(t *testing.T) {
	provider := &fakeStatsProvider{stats: fakePoolStats{open: 7, idle: 4, inUse: 3}}
	c := NewPoolStatsCollectorWithProvider(provider)

	c.Collect()

	assert.Equal(t, float64(7), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("total")))
	assert.Equal(t, float64(4), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("idle")))
	assert.Equal(t, float64(3), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("in_use")))
}

func TestPoolStatsCollector_StartStop(t *testing.T) {
	provider := &fakeStatsProvider{stats: fakePoolStats{open: 1, idle: 1}}
	c := NewPoolStatsCollectorWithProvider(provider)

	c.Start(10 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	c.Stop()

	assert.Equal(t, float64(1), testutil.ToFloat64(DBConnectionPoolSize.WithLabelValues("total")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)

	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_timer_histogram",
		Help:    "Test histogram for timer",
		Buckets: []float64{.001, .01, .1, 1},
	})
	timer.ObserveDuration(h)

	assert.Equal(t, 1, testutil.CollectAndCount(h))
}
