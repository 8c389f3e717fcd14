package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	BookingFailures   *prometheus.CounterVec // reason label

	AvailabilityChecks prometheus.Counter

	RequestDuration *prometheus.HistogramVec // method, status labels
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_created_total",
			Help: "Total bookings created.",
		}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_cancelled_total",
			Help: "Total bookings cancelled.",
		}),
		BookingFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_failures_total",
			Help: "Booking attempts rejected, by reason.",
		}, []string{"reason"}),
		AvailabilityChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seat_availability_checks_total",
			Help: "Seat availability scans performed.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		c.BookingsCreated, c.BookingsCancelled, c.BookingFailures,
		c.AvailabilityChecks, c.RequestDuration,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }
