package route

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

// ErrNoRouteNeeded signals that the order's status implies no active driving
// leg, so there is nothing to draw.
var ErrNoRouteNeeded = errors.New("no route needed for current status")

// Route is a computed path plus the waypoints and leg it was computed for.
type Route struct {
	OrderID     string      `json:"order_id"`
	Leg         model.Leg   `json:"leg"`
	Origin      geo.Point   `json:"origin"`
	Destination geo.Point   `json:"destination"`
	Geometry    []geo.Point `json:"geometry"`
	DistanceM   float64     `json:"distance_m"`
	DurationS   float64     `json:"duration_s"`
	ComputedAt  time.Time   `json:"computed_at"`
}

// Oracle caches the last successful route per order and only goes back to the
// external provider when the leg changes or the driver moved beyond the
// recompute threshold, bounding call volume to the upstream service.
type Oracle struct {
	provider        DirectionsProvider
	recomputeMeters float64

	mu    sync.Mutex
	cache map[string]*Route
}

func NewOracle(provider DirectionsProvider, recomputeMeters float64) *Oracle {
	return &Oracle{
		provider:        provider,
		recomputeMeters: recomputeMeters,
		cache:           make(map[string]*Route),
	}
}

// GetRoute resolves the order's active leg and returns a path from the
// driver's position to the leg's destination. Provider failures are non-fatal
// when a cached route exists: the stale route is returned so the client keeps
// its last drawn path, and the call is retried on the next qualifying update.
func (o *Oracle) GetRoute(ctx context.Context, ord *model.Order, driverLoc model.DriverLocation) (*Route, error) {
	leg := model.DestinationLeg(ord.Status)
	if leg == model.LegNone {
		return nil, ErrNoRouteNeeded
	}

	origin := driverLoc.Point()
	dest := ord.Dropoff
	if leg == model.LegToStore {
		dest = ord.Pickup
	}
	if !origin.Valid() || !dest.Valid() {
		return nil, model.ErrMissingWaypoint
	}

	o.mu.Lock()
	cached := o.cache[ord.ID]
	o.mu.Unlock()

	if cached != nil && cached.Leg == leg &&
		geo.DistanceMeters(cached.Origin, origin) < o.recomputeMeters {
		return cached, nil
	}

	path, err := o.provider.Directions(ctx, origin, dest)
	if err != nil {
		if cached != nil && cached.Leg == leg {
			logger.Warn("route_provider_failed", "keeping cached route", "", ord.ID, err.Error())
			return cached, nil
		}
		return nil, fmt.Errorf("%w: %v", model.ErrRouteUnavailable, err)
	}

	r := &Route{
		OrderID:     ord.ID,
		Leg:         leg,
		Origin:      origin,
		Destination: dest,
		Geometry:    path.Geometry,
		DistanceM:   path.DistanceM,
		DurationS:   path.DurationS,
		ComputedAt:  time.Now().UTC(),
	}

	o.mu.Lock()
	o.cache[ord.ID] = r
	o.mu.Unlock()

	return r, nil
}

// Invalidate drops the cached route, forcing a recompute on the next call.
// The transition engine calls this whenever the status-implied destination
// changes.
func (o *Oracle) Invalidate(orderID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.cache, orderID)
}
