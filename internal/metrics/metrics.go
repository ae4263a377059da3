package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_http_requests_total",
		Help: "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route template.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_reservations_created_total",
		Help: "Reservations committed.",
	})

	ReservationsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_reservations_deleted_total",
		Help: "Reservations cancelled through the API.",
	})

	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_reservation_conflicts_total",
		Help: "Reservation attempts rejected because the car or spot was taken.",
	})

	IntegrityViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_integrity_violations_total",
		Help: "Commits rejected by a database constraint.",
	})

	ReservationsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_reservations_expired_total",
		Help: "Reservations removed by the expiry job.",
	})
)
