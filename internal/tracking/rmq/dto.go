package rmq

import (
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

// StatusChangedMessage announces a committed transition on the order topic
// exchange (routing key order.status.<status>).
type StatusChangedMessage struct {
	OrderID         string                `json:"order_id"`
	Status          model.OrderStatus     `json:"status"`
	PreviousStatus  model.OrderStatus     `json:"previous_status"`
	DriverID        *string               `json:"driver_id,omitempty"`
	TrackingHistory []model.TrackingEntry `json:"tracking_history"`
	ChangedAt       time.Time             `json:"changed_at"`
}

// DriverAvailabilityMessage forwards a driver's availability toggle to the
// dispatch service.
type DriverAvailabilityMessage struct {
	DriverID    string    `json:"driver_id"`
	IsAvailable bool      `json:"is_available"`
	ReportedAt  time.Time `json:"reported_at"`
}

// AssignmentMessage is how the dispatch service drives the system-gated
// ready_for_pickup -> assigned edge.
type AssignmentMessage struct {
	OrderID  string `json:"order_id"`
	DriverID string `json:"driver_id"`
}

// LocationPingMessage is the MQ ingress for vehicles that report positions
// over AMQP instead of a socket.
type LocationPingMessage struct {
	DriverID  string    `json:"driver_id"`
	OrderID   string    `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}
