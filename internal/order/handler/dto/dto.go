package dto

import (
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

type CreateOrderRequest struct {
	StoreID              string  `json:"store_id" validate:"required,uuid4"`
	CustomerID           string  `json:"customer_id" validate:"required,uuid4"`
	PickupLat            float64 `json:"pickup_lat" validate:"latitude"`
	PickupLon            float64 `json:"pickup_lon" validate:"longitude"`
	DropoffLat           float64 `json:"dropoff_lat" validate:"latitude"`
	DropoffLon           float64 `json:"dropoff_lon" validate:"longitude"`
	DeliveryInstructions string  `json:"delivery_instructions"`
	TotalAmount          float64 `json:"total_amount" validate:"gte=0"`
}

type CreateOrderResponse struct {
	OrderID   string            `json:"order_id"`
	Status    model.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type UpdateStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Note     string `json:"note"`
	DriverID string `json:"driver_id,omitempty"`
}

type UpdateStatusResponse struct {
	OrderID         string                `json:"order_id"`
	Status          model.OrderStatus     `json:"status"`
	TrackingHistory []model.TrackingEntry `json:"tracking_history"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type TrackingResponse struct {
	Order          *model.Order          `json:"order"`
	DriverLocation *model.DriverLocation `json:"driver_location,omitempty"`
}
