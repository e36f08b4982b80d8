package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed at checkout",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of checkout attempts rejected",
	}, []string{"reason"})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of automatic order status transitions",
	}, []string{"status"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	ActiveOrderTrackers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "order_trackers_active",
		Help: "Number of orders with a running status tracker",
	})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	WishlistMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_mutations_total",
		Help: "Total number of wishlist mutations",
	}, []string{"op"})

	CatalogFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_fallback_total",
		Help: "Total number of catalog loads that fell back to the sample catalog",
	})

	StorageWriteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storage_write_latency_seconds",
		Help:    "Latency of background storage writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	StorageWriteFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_write_failures_total",
		Help: "Total number of failed background storage writes",
	}, []string{"op"})

	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_dropped_total",
		Help: "Total number of events not delivered to a slow subscriber",
	})

	EventsForwardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_forwarded_total",
		Help: "Total number of events forwarded to the broker",
	}, []string{"type", "result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
