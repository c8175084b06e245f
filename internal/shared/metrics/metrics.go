package metrics

import (
	"net/http"
	"strconv"
	"time"

	"go-erp/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are nil-safe so callers built without metrics need no guard.
type Metrics struct {
	registry        *prometheus.Registry
	httpReqCnt      *prometheus.CounterVec
	httpDur         *prometheus.HistogramVec
	httpInfl        *prometheus.GaugeVec
	payrollRunCnt   *prometheus.CounterVec
	payrollRunDur   *prometheus.HistogramVec
	payrollEntries  prometheus.Counter
	payrollSkipped  *prometheus.CounterVec
	outboxPublished *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	payrollRunCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Subsystem: "payroll", Name: "runs_total"}, []string{"result"})
	payrollRunDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Subsystem: "payroll", Name: "run_duration_seconds", Buckets: buckets}, []string{"result"})
	payrollEntries := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Subsystem: "payroll", Name: "entries_generated_total"})
	payrollSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Subsystem: "payroll", Name: "employees_skipped_total"}, []string{"reason"})
	r.MustRegister(payrollRunCnt, payrollRunDur, payrollEntries, payrollSkipped)

	outboxPublished := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Subsystem: "outbox", Name: "events_total"}, []string{"event_type", "result"})
	r.MustRegister(outboxPublished)

	return &Metrics{
		registry:        r,
		httpReqCnt:      httpReqCnt,
		httpDur:         httpDur,
		httpInfl:        httpInfl,
		payrollRunCnt:   payrollRunCnt,
		payrollRunDur:   payrollRunDur,
		payrollEntries:  payrollEntries,
		payrollSkipped:  payrollSkipped,
		outboxPublished: outboxPublished,
	}
}

// PayrollRunDone records one generation attempt; result is "completed" or "failed".
func (m *Metrics) PayrollRunDone(result string, since time.Time, entries int) {
	if m == nil {
		return
	}
	m.payrollRunCnt.WithLabelValues(result).Inc()
	m.payrollRunDur.WithLabelValues(result).Observe(time.Since(since).Seconds())
	m.payrollEntries.Add(float64(entries))
}

func (m *Metrics) PayrollEmployeeSkipped(reason string) {
	if m == nil {
		return
	}
	m.payrollSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) OutboxPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.outboxPublished.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
