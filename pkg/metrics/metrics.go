// Package metrics 提供 Prometheus 指标集合与暴露端点
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Metrics 指标集合，nil 接收者上的记录方法均为空操作
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 需求检查周期计数，result: ok, skipped, panic
	DemandCyclesTotal *prometheus.CounterVec
	// 需求检查周期耗时
	DemandCycleDuration prometheus.Histogram

	// 按类型统计的新建通知数
	NotificationsCreated *prometheus.CounterVec
	// 因去重被抑制的通知数，rule: category, product
	NotificationsSuppressed *prometheus.CounterVec
	// 过期清理的通知数
	NotificationsPurged prometheus.Counter
}

// New 创建指标实例，使用独立的 registry
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DemandCyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "demand",
			Name:      "cycles_total",
			Help:      "Demand check cycles by result",
		}, []string{"result"}),
		DemandCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "demand",
			Name:      "cycle_duration_seconds",
			Help:      "Demand check cycle duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		NotificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "created_total",
			Help:      "Notifications created by type",
		}, []string{"type"}),
		NotificationsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "suppressed_total",
			Help:      "High-demand notifications suppressed by the dedup window",
		}, []string{"rule"}),
		NotificationsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "purged_total",
			Help:      "Notifications removed by the retention sweep",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DemandCyclesTotal,
		m.DemandCycleDuration,
		m.NotificationsCreated,
		m.NotificationsSuppressed,
		m.NotificationsPurged,
	)
	return m
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP 记录 HTTP 请求
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveCycle 记录一次需求检查周期
func (m *Metrics) ObserveCycle(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DemandCyclesTotal.WithLabelValues(result).Inc()
	m.DemandCycleDuration.Observe(duration.Seconds())
}

// NotificationCreated 记录新建通知
func (m *Metrics) NotificationCreated(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsCreated.WithLabelValues(notificationType).Inc()
}

// NotificationSuppressed 记录被去重抑制的通知
func (m *Metrics) NotificationSuppressed(rule string) {
	if m == nil {
		return
	}
	m.NotificationsSuppressed.WithLabelValues(rule).Inc()
}

// NotificationsPurgedAdd 记录清理数量
func (m *Metrics) NotificationsPurgedAdd(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.NotificationsPurged.Add(float64(n))
}

// Serve 在独立端口暴露指标，ctx 取消后关闭
func (m *Metrics) Serve(ctx context.Context, addr, path string) error {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting Prometheus HTTP server", "addr", addr, "path", path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
