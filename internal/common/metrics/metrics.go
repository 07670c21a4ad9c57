package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the tracking core.
var (
	TransitionsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_applied_total",
			Help: "Total number of order status transitions applied",
		},
		[]string{"status"},
	)

	TransitionsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_rejected_total",
			Help: "Total number of rejected order status transitions",
		},
		[]string{"reason"},
	)

	TrackingEventsFannedOutTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracking_events_fanned_out_total",
			Help: "Total number of tracking events delivered to room members",
		},
	)

	LocationPingsAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "location_pings_accepted_total",
			Help: "Total number of accepted driver location pings",
		},
	)

	LocationPingsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_pings_rejected_total",
			Help: "Total number of rejected driver location pings",
		},
		[]string{"reason"},
	)

	RouteProviderCallsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "route_provider_calls_total",
			Help: "Total number of calls to the external directions provider",
		},
	)

	RouteProviderFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "route_provider_failures_total",
			Help: "Total number of failed directions provider calls",
		},
	)

	OpenRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracking_open_rooms",
			Help: "Number of currently open tracking rooms",
		},
	)

	ConnectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracking_connected_clients",
			Help: "Number of currently connected WebSocket clients",
		},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(TransitionsAppliedTotal)
	prometheus.MustRegister(TransitionsRejectedTotal)
	prometheus.MustRegister(TrackingEventsFannedOutTotal)
	prometheus.MustRegister(LocationPingsAcceptedTotal)
	prometheus.MustRegister(LocationPingsRejectedTotal)
	prometheus.MustRegister(RouteProviderCallsTotal)
	prometheus.MustRegister(RouteProviderFailuresTotal)
	prometheus.MustRegister(OpenRooms)
	prometheus.MustRegister(ConnectedClients)
}
