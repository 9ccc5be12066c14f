package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// routeOperations names the secret engine operation served by each route.
var routeOperations = map[string]string{
	"GET /v1/secrets":                           "secret_describe",
	"POST /v1/secrets/:name":                    "secret_store",
	"GET /v1/secrets/:name":                     "secret_get",
	"DELETE /v1/secrets/:name":                  "secret_erase",
	"POST /v1/secrets/:name/rotate":             "secret_rotate",
	"PUT /v1/secrets/:name/authorized-entities": "secret_update",
	"POST /v1/secrets/:name/deprecate":          "secret_deprecate",
	"POST /v1/secrets/:name/activate":           "secret_activate",
	"GET /health":                               "health",
	"GET /ready":                                "ready",
}

// HTTPMetricsMiddleware returns a Gin middleware that counts and times requests by
// method, route pattern, secret operation and status code. Route patterns keep
// secret names out of the labels.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)
	next := func(c *gin.Context) { c.Next() }

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return next
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return next
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := routeLabel(c.FullPath())
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("operation", operationFor(c.Request.Method, route)),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		requestCounter.Add(c.Request.Context(), 1, attrs)
		durationHisto.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

// routeLabel returns the matched route pattern, or "unknown" when no route matched.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

func operationFor(method, route string) string {
	if operation, ok := routeOperations[method+" "+route]; ok {
		return operation
	}
	return "other"
}
