package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/auth"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/handler/dto"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/service"
	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

// LocationReader is the hub's read side, used by the one-shot tracking fetch.
type LocationReader interface {
	LocationFor(orderID string) (model.DriverLocation, bool)
}

type OrderHandler struct {
	Engine   *service.TransitionEngine
	Store    service.OrderStore
	Location LocationReader

	validate *validator.Validate
}

func NewOrderHandler(engine *service.TransitionEngine, store service.OrderStore, location LocationReader) *OrderHandler {
	return &OrderHandler{
		Engine:   engine,
		Store:    store,
		Location: location,
		validate: validator.New(),
	}
}

// CreateOrder is the seam for the out-of-scope order-creation flow: orders
// enter this core already placed.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	const action = "CreateOrder"
	requestID := r.Header.Get("X-Request-ID")

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(action, "invalid JSON in request body", requestID, "", err.Error())
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn(action, "request failed validation", requestID, "", err.Error())
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	ord := &model.Order{
		ID:                   uuid.NewString(),
		Status:               model.StatusPlaced,
		StoreID:              req.StoreID,
		CustomerID:           req.CustomerID,
		Pickup:               geo.Point{Lat: req.PickupLat, Lon: req.PickupLon},
		Dropoff:              geo.Point{Lat: req.DropoffLat, Lon: req.DropoffLon},
		DeliveryInstructions: req.DeliveryInstructions,
		TotalAmount:          req.TotalAmount,
		TrackingHistory: []model.TrackingEntry{
			{Status: model.StatusPlaced, Timestamp: now, Note: "order placed"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Store.CreateOrder(r.Context(), ord); err != nil {
		logger.Error(action, "failed to create order", requestID, ord.ID, err.Error())
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	logger.Info(action, "order created", requestID, ord.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto.CreateOrderResponse{
		OrderID:   ord.ID,
		Status:    ord.Status,
		CreatedAt: ord.CreatedAt,
	})
}

// UpdateStatus is the only legitimate entry point for status changes.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const action = "UpdateStatus"
	requestID := r.Header.Get("X-Request-ID")

	claims := auth.FromContext(r)
	if claims == nil {
		http.Error(w, "forbidden: not authorized", http.StatusUnauthorized)
		return
	}

	orderID := r.PathValue("order_id")
	if orderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(action, "invalid JSON in request body", requestID, orderID, err.Error())
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	opts := service.TransitionOptions{Note: req.Note}
	if req.DriverID != "" {
		opts.DriverID = &req.DriverID
	}

	updated, err := h.Engine.ApplyTransition(r.Context(), orderID, model.OrderStatus(req.Status), model.Role(claims.Role), opts)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, model.ErrOrderNotFound):
			status = http.StatusNotFound
		case errors.Is(err, model.ErrUnauthorized):
			status = http.StatusForbidden
		case errors.Is(err, model.ErrInvalidTransition):
			status = http.StatusConflict
		}
		logger.Warn(action, "transition rejected", requestID, orderID, err.Error())
		http.Error(w, err.Error(), status)
		return
	}

	logger.Info(action, fmt.Sprintf("status updated to %s", updated.Status), requestID, orderID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.UpdateStatusResponse{
		OrderID:         updated.ID,
		Status:          updated.Status,
		TrackingHistory: updated.TrackingHistory,
		UpdatedAt:       updated.UpdatedAt,
	})
}

// GetTracking is the authoritative re-sync read: reconnecting clients call it
// before resubscribing, since missed room events are not replayed.
func (h *OrderHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	const action = "GetTracking"
	requestID := r.Header.Get("X-Request-ID")

	orderID := r.PathValue("order_id")
	if orderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	ord, err := h.Store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		logger.Error(action, "failed to load order", requestID, orderID, err.Error())
		http.Error(w, "failed to load order", http.StatusInternalServerError)
		return
	}

	resp := dto.TrackingResponse{Order: ord}
	if loc, ok := h.Location.LocationFor(orderID); ok {
		resp.DriverLocation = &loc
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
