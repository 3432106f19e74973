// Package metrics 提供基于 Prometheus 的统一指标采集能力.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 封装了基于 Prometheus 的指标采集注册表及预定义的标准监控指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心

	// 预定义的标准指标，减少各业务模块的样板代码
	HTTPRequestsTotal     *prometheus.CounterVec   // HTTP 请求总量 (维度: method, path, status)
	HTTPRequestDuration   *prometheus.HistogramVec // HTTP 请求耗时分布
	HTTPInFlight          *prometheus.GaugeVec     // 处理中的 HTTP 请求数
	HTTPSlowRequestsTotal *prometheus.CounterVec   // 超过慢阈值的 HTTP 请求总量
	HTTPRequestSizeBytes  *prometheus.HistogramVec // 请求体大小分布（按需注册）
	HTTPResponseSizeBytes *prometheus.HistogramVec // 响应体大小分布（按需注册）
	BuildInfo             *prometheus.GaugeVec     // 构建信息（按需注册）

	// 查询引擎相关指标
	SolverBuildsTotal   *prometheus.CounterVec   // 求解器构建次数 (维度: kind, result)
	SolverBuildDuration *prometheus.HistogramVec // 求解器构建耗时分布 (维度: kind)
	SolverQueriesTotal  *prometheus.CounterVec   // 区间查询次数 (维度: kind)
	DatasetsRegistered  *prometheus.GaugeVec     // 当前注册的数据集数量 (维度: type)
}

// NewMetrics 初始化并返回一个新的指标采集器。
// 它会自动注册 Go 运行时指标和进程指标。
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	// 初始化各标准指标...
	m.HTTPRequestsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "http_server_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_server_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.HTTPInFlight = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_server_in_flight_requests",
		Help: "Number of HTTP requests currently being served",
	}, []string{"method", "path"})

	m.HTTPSlowRequestsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "http_server_slow_requests_total",
		Help: "Total number of HTTP requests slower than the configured threshold",
	}, []string{"method", "path"})

	m.SolverBuildsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "rangequery_solver_builds_total",
		Help: "Total number of solver constructions",
	}, []string{"kind", "result"})

	m.SolverBuildDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rangequery_solver_build_duration_seconds",
		Help:    "Solver construction latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	m.SolverQueriesTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "rangequery_queries_total",
		Help: "Total number of range queries served",
	}, []string{"kind"})

	m.DatasetsRegistered = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rangequery_datasets_registered",
		Help: "Number of datasets currently registered",
	}, []string{"type"})

	slog.Info("unified metrics registry initialized", "service", serviceName)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Handler 返回用于暴露指标的 HTTP 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ExposeHTTP 在指定端口启动一个独立的 HTTP 服务器用于暴露指标数据。
// 返回一个清理函数用于优雅关闭该服务器。
func (m *Metrics) ExposeHTTP(port string) func() {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: m.Handler(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown metrics server", "error", err)
		}
	}
}
