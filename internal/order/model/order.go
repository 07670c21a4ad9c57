package model

import (
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

// TrackingEntry is one row of an order's append-only tracking history.
type TrackingEntry struct {
	Status    OrderStatus `json:"status" db:"status"`
	Timestamp time.Time   `json:"timestamp" db:"created_at"`
	Note      string      `json:"note,omitempty" db:"note"`
}

type Order struct {
	ID                   string          `json:"id" db:"id"`
	Status               OrderStatus     `json:"status" db:"status"`
	StoreID              string          `json:"store_id" db:"store_id"`
	CustomerID           string          `json:"customer_id" db:"customer_id"`
	DriverID             *string         `json:"driver_id,omitempty" db:"driver_id"`
	Pickup               geo.Point       `json:"pickup"`
	Dropoff              geo.Point       `json:"dropoff"`
	DeliveryInstructions string          `json:"delivery_instructions,omitempty" db:"delivery_instructions"`
	TotalAmount          float64         `json:"total_amount" db:"total_amount"`
	TrackingHistory      []TrackingEntry `json:"tracking_history"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy so callers can hand snapshots out without
// exposing the store's internal slice.
func (o *Order) Clone() *Order {
	cp := *o
	if o.DriverID != nil {
		id := *o.DriverID
		cp.DriverID = &id
	}
	cp.TrackingHistory = make([]TrackingEntry, len(o.TrackingHistory))
	copy(cp.TrackingHistory, o.TrackingHistory)
	return &cp
}

// DriverLocation is the most recent known position of a driver on one order.
// It lives only in memory for the lifetime of the active order.
type DriverLocation struct {
	DriverID  string    `json:"driver_id"`
	OrderID   string    `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func (l DriverLocation) Point() geo.Point {
	return geo.Point{Lat: l.Latitude, Lon: l.Longitude}
}
