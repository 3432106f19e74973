// Package app 提供了应用程序生命周期管理的基础设施.
package app

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/rangequery/config"
	"github.com/wyfcoding/rangequery/health"
	"github.com/wyfcoding/rangequery/logging"
	"github.com/wyfcoding/rangequery/metrics"
	"github.com/wyfcoding/rangequery/middleware"
	"github.com/wyfcoding/rangequery/response"
	"github.com/wyfcoding/rangequery/server"
	"github.com/wyfcoding/rangequery/tracing"
)

const (
	defaultMetricsPath = "/metrics"
	defaultConfigPath  = "configs/config.toml"
)

// Registrar 定义业务层向 HTTP 引擎注册路由的契约.
type Registrar interface {
	RegisterRoutes(engine *gin.Engine)
}

// ServiceInitFunc 定义核心业务初始化钩子.
// 返回的清理函数会在应用关闭时执行.
type ServiceInitFunc func(conf *config.Config, m *metrics.Metrics, logger *logging.Logger) (Registrar, func(), error)

type namedChecker struct {
	name  string
	check health.Checker
}

// Builder 提供了构建 App 的灵活方式.
type Builder struct {
	serviceName   string
	version       string
	conf          config.Config
	initService   ServiceInitFunc
	ginMiddleware []gin.HandlerFunc
	checkers      []namedChecker
	appOpts       []Option
}

// NewBuilder 创建一个新的应用构建器.
func NewBuilder(serviceName, version string) *Builder {
	return &Builder{
		serviceName: serviceName,
		version:     version,
	}
}

// WithService 注册核心业务初始化逻辑.
func (b *Builder) WithService(init ServiceInitFunc) *Builder {
	b.initService = init

	return b
}

// WithGinMiddleware 添加业务自定义的 Gin 中间件，排在治理中间件之后.
func (b *Builder) WithGinMiddleware(mw ...gin.HandlerFunc) *Builder {
	b.ginMiddleware = append(b.ginMiddleware, mw...)

	return b
}

// WithHealthChecker 添加命名的健康检查探测器，由 /sys/health 聚合执行.
func (b *Builder) WithHealthChecker(name string, checker health.Checker) *Builder {
	b.checkers = append(b.checkers, namedChecker{name: name, check: checker})

	return b
}

// Build 构建并组装完整的 App 实例.
func (b *Builder) Build() *App {
	b.loadConfig()
	loggerInstance := b.initLogger()
	config.PrintWithMask(&b.conf)

	if b.conf.Tracing.Enabled {
		b.initTracing(loggerInstance)
	}

	metricsInstance := b.initMetrics()

	chain := b.buildMiddlewareChain(loggerInstance, metricsInstance)

	registrar := b.assembleService(metricsInstance, loggerInstance)

	b.registerServers(chain, registrar, metricsInstance, loggerInstance)

	return New(b.serviceName, loggerInstance.Logger, b.appOpts...)
}

func (b *Builder) loadConfig() {
	var flagPath string
	flag.StringVar(&flagPath, "conf", defaultConfigPath, "path to config file")
	flag.Parse()

	if err := config.Load(flagPath, &b.conf); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
}

func (b *Builder) initLogger() *logging.Logger {
	logConfig := logging.Config{
		Service:    b.serviceName,
		Module:     "app",
		Level:      b.conf.Log.Level,
		File:       b.conf.Log.File,
		MaxSize:    b.conf.Log.MaxSize,
		MaxBackups: b.conf.Log.MaxBackups,
		MaxAge:     b.conf.Log.MaxAge,
		Compress:   b.conf.Log.Compress,
	}

	if b.conf.Log.Output != "file" {
		logConfig.File = ""
	}

	loggerInstance := logging.NewFromConfig(logConfig)
	logging.SetDefault(loggerInstance)

	return loggerInstance
}

func (b *Builder) initTracing(logger *logging.Logger) {
	tracingConf := b.conf.Tracing
	if tracingConf.ServiceName == "" {
		tracingConf.ServiceName = b.serviceName
	}

	shutdown, err := tracing.InitTracer(tracingConf)
	if err != nil {
		logger.Logger.Error("failed to initialize tracer", "error", err)

		return
	}

	b.appOpts = append(b.appOpts, WithCleanup(func() {
		if cleanupErr := shutdown(context.Background()); cleanupErr != nil {
			logger.Logger.Error("failed to shutdown tracer", "error", cleanupErr)
		}
	}))
}

func (b *Builder) initMetrics() *metrics.Metrics {
	metricsInstance := metrics.NewMetrics(b.serviceName)
	metricsInstance.RegisterBuildInfo(b.serviceName, b.version)
	// 请求与响应体大小指标在启动期注册，避免中间件内的惰性注册竞争。
	metricsInstance.RegisterRequestSizeMetrics()
	metricsInstance.RegisterResponseSizeMetrics()

	if b.conf.Metrics.Port != "" {
		cleanup := metricsInstance.ExposeHTTP(b.conf.Metrics.Port)
		b.appOpts = append(b.appOpts, WithCleanup(cleanup))
	}

	return metricsInstance
}

// buildMiddlewareChain 组装治理中间件链，顺序为:
// 追踪 -> 恢复 -> 跨域 -> 安全头 -> 请求体限制 -> 请求 ID -> 上下文增强 -> 访问日志 -> 限流 -> 指标 -> 报文大小 -> 业务自定义。
func (b *Builder) buildMiddlewareChain(logger *logging.Logger, m *metrics.Metrics) []gin.HandlerFunc {
	var chain []gin.HandlerFunc

	if b.conf.Tracing.Enabled {
		chain = append(chain, middleware.TracingMiddleware(b.serviceName))
	}

	chain = append(chain,
		middleware.Recovery(logger.Logger),
		middleware.CORS(),
		middleware.SecurityHeaders(),
		middleware.MaxBodyBytes(b.conf.Server.HTTP.MaxBodyBytes),
		middleware.RequestID(),
		middleware.RequestContextEnricher(),
		middleware.Logger(logger.Logger),
	)

	if b.conf.RateLimit.Enabled {
		chain = append(chain, middleware.NewLocalRateLimitMiddleware(b.conf.RateLimit.Rate, b.conf.RateLimit.Burst))
	}

	chain = append(chain, middleware.HTTPMetricsMiddlewareWithOptions(m, middleware.MetricsOptions{
		SlowThreshold: b.conf.Log.SlowThreshold,
		SkipPaths:     []string{b.metricsPath()},
	}))
	chain = append(chain,
		middleware.HTTPRequestSizeMiddleware(m),
		middleware.HTTPResponseSizeMiddleware(m),
	)

	chain = append(chain, b.ginMiddleware...)

	return chain
}

func (b *Builder) assembleService(m *metrics.Metrics, logger *logging.Logger) Registrar {
	if b.initService == nil {
		return nil
	}

	registrar, cleanup, err := b.initService(&b.conf, m, logger)
	if err != nil {
		logger.Logger.Error("failed to initialize service", "error", err)
		panic(err)
	}

	if cleanup != nil {
		b.appOpts = append(b.appOpts, WithCleanup(cleanup))
	}

	return registrar
}

func (b *Builder) registerServers(chain []gin.HandlerFunc, registrar Registrar, m *metrics.Metrics, logger *logging.Logger) {
	if b.conf.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := server.NewDefaultGinEngine(chain...)

	if proxies := b.conf.Server.HTTP.TrustedProxies; len(proxies) > 0 {
		if err := engine.SetTrustedProxies(proxies); err != nil {
			logger.Logger.Warn("failed to set trusted proxies", "error", err)
		}
	}

	b.registerAdminRoutes(engine, m)

	if registrar != nil {
		registrar.RegisterRoutes(engine)
	}

	addr := fmt.Sprintf("%s:%d", b.conf.Server.HTTP.Addr, b.conf.Server.HTTP.Port)
	srv := server.NewGinServerWithOptions(engine, addr, logger.Logger, server.HTTPOptions{
		ReadTimeout:       b.conf.Server.HTTP.ReadTimeout,
		ReadHeaderTimeout: b.conf.Server.HTTP.ReadHeaderTimeout,
		WriteTimeout:      b.conf.Server.HTTP.WriteTimeout,
		IdleTimeout:       b.conf.Server.HTTP.IdleTimeout,
		MaxHeaderBytes:    b.conf.Server.HTTP.MaxHeaderBytes,
	})

	b.appOpts = append(b.appOpts, WithServer(srv))
}

func (b *Builder) registerAdminRoutes(engine *gin.Engine, m *metrics.Metrics) {
	sys := engine.Group("/sys")
	sys.GET("/health", func(c *gin.Context) {
		failures := gin.H{}
		for _, checker := range b.checkers {
			if err := checker.check(); err != nil {
				failures[checker.name] = err.Error()
			}
		}

		if len(failures) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "DOWN",
				"service":   b.serviceName,
				"failures":  failures,
				"timestamp": time.Now().Unix(),
			})

			return
		}

		response.SuccessWithRawData(c, gin.H{
			"status":    "UP",
			"service":   b.serviceName,
			"version":   b.version,
			"timestamp": time.Now().Unix(),
		})
	})

	if b.conf.Metrics.Enabled && m != nil {
		engine.GET(b.metricsPath(), gin.WrapH(m.Handler()))
	}
}

func (b *Builder) metricsPath() string {
	if b.conf.Metrics.Path != "" {
		return b.conf.Metrics.Path
	}

	return defaultMetricsPath
}
