// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels:
	//   - method, route: gin method and full route pattern
	//   - status: response status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// ShortLinkResolutions counts /s/<token> lookups.
	// Labels:
	//   - outcome: "redirect", "invalid_token", "unknown_recipe", "rate_limited"
	ShortLinkResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_short_link_resolutions_total",
			Help: "Total number of short link resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// ShoppingListExports counts rendered shopping lists by format.
	ShoppingListExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Total number of shopping list downloads by format",
		},
		[]string{"format"},
	)

	// ShoppingListItems observes the number of aggregated line items per export.
	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Number of aggregated line items per shopping list export",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	// RelationConflicts counts duplicate favorite/cart/subscription inserts.
	RelationConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_conflicts_total",
			Help: "Total number of rejected duplicate relation inserts",
		},
		[]string{"relation"},
	)
)

// Short-link outcomes.
const (
	OutcomeRedirect      = "redirect"
	OutcomeInvalidToken  = "invalid_token"
	OutcomeUnknownRecipe = "unknown_recipe"
	OutcomeRateLimited   = "rate_limited"
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
