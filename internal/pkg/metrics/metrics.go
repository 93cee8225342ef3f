package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fieldgate",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fieldgate",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Provider API metrics
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Total upstream provider API requests by status code",
	}, []string{"provider", "status"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fieldgate",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Upstream provider API request latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider"})

	ProviderRequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "provider",
		Name:      "request_errors_total",
		Help:      "Total upstream provider transport failures",
	}, []string{"provider"})

	ProviderPagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "provider",
		Name:      "pages_fetched_total",
		Help:      "Total hypermedia pages fetched during collection aggregation",
	}, []string{"provider"})

	// OAuth metrics
	OAuthExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "oauth",
		Name:      "exchanges_total",
		Help:      "Total authorization-code exchanges by result",
	}, []string{"result"})

	OAuthRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "oauth",
		Name:      "refreshes_total",
		Help:      "Total refresh grants by result",
	}, []string{"result"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Weather metrics
	WeatherFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fieldgate",
		Subsystem: "weather",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of National Weather Service fetches",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	WeatherFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldgate",
		Subsystem: "weather",
		Name:      "fetch_errors_total",
		Help:      "Total National Weather Service fetch failures",
	}, []string{"endpoint"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
