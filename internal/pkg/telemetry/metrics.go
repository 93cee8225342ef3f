package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Upstream health
	MetricProviderLatency   = "provider.request_latency"
	MetricProviderErrorRate = "provider.error_rate"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricFieldsServed    = "business.fields_served"
	MetricTokenExchanges  = "business.token_exchanges"
	MetricWeatherRequests = "business.weather_requests"
)
