package event

import (
	"encoding/json"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

// Wire event types pushed through a tracking room.
const (
	TypeLocationUpdate = "driver:location-update"
	TypeStatusChanged  = "order:status-changed"
	TypeRouteUpdated   = "route:updated"
	TypeError          = "error"
)

// LocationUpdate is delivered to non-driver room members on every accepted
// location ping.
type LocationUpdate struct {
	Type     string               `json:"type"`
	OrderID  string               `json:"order_id"`
	Location model.DriverLocation `json:"location"`
}

// StatusChanged is delivered to all room members after a successful
// transition. The history snapshot lets clients rebuild their timeline view
// without a follow-up fetch.
type StatusChanged struct {
	Type            string                `json:"type"`
	OrderID         string                `json:"order_id"`
	Status          model.OrderStatus     `json:"status"`
	TrackingHistory []model.TrackingEntry `json:"tracking_history"`
}

// RouteUpdated carries a freshly computed path for the order's active leg.
type RouteUpdated struct {
	Type        string      `json:"type"`
	OrderID     string      `json:"order_id"`
	Leg         model.Leg   `json:"leg"`
	Geometry    []geo.Point `json:"geometry"`
	DistanceM   float64     `json:"distance_m"`
	DurationS   float64     `json:"duration_s"`
	ComputedAt  time.Time   `json:"computed_at"`
	Destination geo.Point   `json:"destination"`
}

// ErrorEvent is sent to a single client when a request of theirs is rejected.
type ErrorEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error"`
}

func NewLocationUpdate(loc model.DriverLocation) LocationUpdate {
	return LocationUpdate{Type: TypeLocationUpdate, OrderID: loc.OrderID, Location: loc}
}

func NewStatusChanged(o *model.Order) StatusChanged {
	return StatusChanged{
		Type:            TypeStatusChanged,
		OrderID:         o.ID,
		Status:          o.Status,
		TrackingHistory: o.TrackingHistory,
	}
}

// Marshal encodes v, swallowing the error: every event type here is a plain
// struct that cannot fail to encode.
func Marshal(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}
