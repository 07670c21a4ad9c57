package hub

import (
	"fmt"
	"sync"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/metrics"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/event"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/room"
	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

type locKey struct {
	orderID  string
	driverID string
}

// Hub accepts inbound tracking events, resolves the room and fans them out.
// It also owns the ephemeral most-recent driver location per active order.
type Hub struct {
	registry *room.Registry

	mu        sync.RWMutex
	locations map[locKey]model.DriverLocation
}

func NewHub(registry *room.Registry) *Hub {
	return &Hub{
		registry:  registry,
		locations: make(map[locKey]model.DriverLocation),
	}
}

// PublishLocation stores the driver's position and fans a location update out
// to every room member except the publishing driver.
//
// Pings with non-finite or exact-origin coordinates are rejected: the mobile
// clients report (0,0) while the GPS fix is still pending. Pings carrying a
// timestamp strictly older than the stored one are rejected too, so
// out-of-order delivery results in stale-then-fresh overwrites only, never
// fresh-then-stale.
func (h *Hub) PublishLocation(orderID, driverID string, lat, lon float64, ts time.Time) (model.DriverLocation, error) {
	p := geo.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		metrics.LocationPingsRejectedTotal.WithLabelValues("invalid_coordinates").Inc()
		return model.DriverLocation{}, fmt.Errorf("%w: (%v, %v)", model.ErrInvalidCoordinates, lat, lon)
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	loc := model.DriverLocation{
		DriverID:  driverID,
		OrderID:   orderID,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: ts,
	}

	key := locKey{orderID: orderID, driverID: driverID}
	h.mu.Lock()
	if prev, ok := h.locations[key]; ok && ts.Before(prev.Timestamp) {
		h.mu.Unlock()
		metrics.LocationPingsRejectedTotal.WithLabelValues("stale").Inc()
		return prev, model.ErrStaleLocation
	}
	h.locations[key] = loc
	h.mu.Unlock()

	metrics.LocationPingsAcceptedTotal.Inc()
	h.fanOut(orderID, event.Marshal(event.NewLocationUpdate(loc)), driverID)
	return loc, nil
}

// PublishStatus pushes a status-changed event to every current room member.
// Lifecycle facts are not optional for any role, so there is no filtering.
func (h *Hub) PublishStatus(o *model.Order) {
	h.fanOut(o.ID, event.Marshal(event.NewStatusChanged(o)), "")
}

// PublishRoute pushes a freshly computed route to the room.
func (h *Hub) PublishRoute(orderID string, ev event.RouteUpdated) {
	h.fanOut(orderID, event.Marshal(ev), "")
}

// fanOut is at-most-once best effort: a member with a full send buffer misses
// the event and is evicted from the room; a reconnecting client re-fetches
// authoritative state before resubscribing.
func (h *Hub) fanOut(orderID string, payload []byte, exceptID string) {
	rm := h.registry.Lookup(orderID)
	if rm == nil {
		return
	}
	delivered, stalled := rm.Broadcast(payload, exceptID)
	metrics.TrackingEventsFannedOutTotal.Add(float64(delivered))
	for _, id := range stalled {
		logger.Warn("fanout_evict", "evicting stalled room member", "", orderID, "send buffer full")
		h.registry.Leave(orderID, id)
	}
}

// LastLocation returns the most recent stored position for the pair, if any.
func (h *Hub) LastLocation(orderID, driverID string) (model.DriverLocation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	loc, ok := h.locations[locKey{orderID: orderID, driverID: driverID}]
	return loc, ok
}

// LocationFor returns the order's driver position regardless of driver id,
// for the one-shot tracking read used after reconnects.
func (h *Hub) LocationFor(orderID string) (model.DriverLocation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for key, loc := range h.locations {
		if key.orderID == orderID {
			return loc, true
		}
	}
	return model.DriverLocation{}, false
}

// DropLocations discards stored positions when the order leaves an active
// status.
func (h *Hub) DropLocations(orderID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key := range h.locations {
		if key.orderID == orderID {
			delete(h.locations, key)
		}
	}
}
