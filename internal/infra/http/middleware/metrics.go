package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_scored_total",
			Help: "Total number of leads scored on intake",
		},
		[]string{"tier", "segment"},
	)

	triggersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triggers_fired_total",
			Help: "Total number of behavioral triggers fired",
		},
		[]string{"type"},
	)

	promoValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_validations_total",
			Help: "Total number of promo code validations",
		},
		[]string{"valid"},
	)

	promoRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_redemptions_total",
			Help: "Total number of promo code redemptions",
		},
		[]string{"status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadScored(tier, segment string) {
	leadsScored.WithLabelValues(tier, segment).Inc()
}

func RecordTriggerFired(triggerType string) {
	triggersFired.WithLabelValues(triggerType).Inc()
}

func RecordPromoValidation(valid bool) {
	promoValidations.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

func RecordPromoRedemption(success bool) {
	status := "rejected"
	if success {
		status = "redeemed"
	}
	promoRedemptions.WithLabelValues(status).Inc()
}
