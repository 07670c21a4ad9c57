package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/service"
	"github.com/DigamberMehta/Store2Door-sub001/internal/route"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/event"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/hub"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/room"
)

// EventPublisher pushes lifecycle facts onto the message fabric for the
// out-of-scope dispatch and analytics consumers. May be nil when the service
// runs without RabbitMQ.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, o *model.Order, previous model.OrderStatus) error
	PublishDriverAvailability(ctx context.Context, driverID string, available bool) error
}

// Service glues the broadcast hub, room registry and route oracle together
// and implements the transition engine's Notifier port.
type Service struct {
	Hub      *hub.Hub
	Registry *room.Registry
	Oracle   *route.Oracle
	Store    service.OrderStore
	MQ       EventPublisher

	GracePeriod time.Duration

	mu        sync.Mutex
	lastRoute map[string]time.Time
}

func NewService(h *hub.Hub, reg *room.Registry, oracle *route.Oracle, store service.OrderStore, mq EventPublisher, grace time.Duration) *Service {
	return &Service{
		Hub:         h,
		Registry:    reg,
		Oracle:      oracle,
		Store:       store,
		MQ:          mq,
		GracePeriod: grace,
		lastRoute:   make(map[string]time.Time),
	}
}

// OrderStatusChanged runs the post-commit side effects of a transition: room
// fan-out, MQ publish, route invalidation on leg changes and teardown
// scheduling for terminal orders.
func (s *Service) OrderStatusChanged(ctx context.Context, o *model.Order, previous model.OrderStatus) {
	s.Hub.PublishStatus(o)

	if s.MQ != nil {
		if err := s.MQ.PublishStatusChanged(ctx, o, previous); err != nil {
			logger.Warn("mq_status_publish_failed", "status event not published to MQ", "", o.ID, err.Error())
		}
	}

	newLeg := model.DestinationLeg(o.Status)
	if model.DestinationLeg(previous) != newLeg {
		s.Oracle.Invalidate(o.ID)
	}
	if newLeg != model.LegNone && o.DriverID != nil {
		if loc, ok := s.Hub.LastLocation(o.ID, *o.DriverID); ok {
			s.refreshRoute(ctx, o.ID, loc)
		}
	}

	if o.Status.IsTerminal() {
		s.Hub.DropLocations(o.ID)
		s.Registry.ScheduleClose(o.ID, s.GracePeriod)
	}
}

// HandleDriverLocation feeds one location ping into the hub and, when the
// driver has moved far enough for the oracle to recompute, pushes the fresh
// route to the room.
func (s *Service) HandleDriverLocation(ctx context.Context, orderID, driverID string, lat, lon float64, ts time.Time) (model.DriverLocation, error) {
	loc, err := s.Hub.PublishLocation(orderID, driverID, lat, lon, ts)
	if err != nil {
		return loc, err
	}
	s.refreshRoute(ctx, orderID, loc)
	return loc, nil
}

// HandleDriverAvailability forwards the dispatch signal to MQ. This core
// accepts the event but does not act on it.
func (s *Service) HandleDriverAvailability(ctx context.Context, driverID string, available bool) {
	if s.MQ == nil {
		return
	}
	if err := s.MQ.PublishDriverAvailability(ctx, driverID, available); err != nil {
		logger.Warn("mq_availability_publish_failed", "availability not published to MQ", "", "", err.Error())
	}
}

func (s *Service) refreshRoute(ctx context.Context, orderID string, loc model.DriverLocation) {
	ord, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return
	}
	if !ord.Status.IsActiveDelivery() {
		return
	}

	r, err := s.Oracle.GetRoute(ctx, ord, loc)
	if err != nil {
		if errors.Is(err, route.ErrNoRouteNeeded) || errors.Is(err, model.ErrMissingWaypoint) {
			return
		}
		// Route stays hidden until the next qualifying ping.
		logger.Warn("route_refresh_failed", "no route available for order", "", orderID, err.Error())
		return
	}

	s.mu.Lock()
	seen := s.lastRoute[orderID]
	if !r.ComputedAt.After(seen) {
		s.mu.Unlock()
		return
	}
	s.lastRoute[orderID] = r.ComputedAt
	s.mu.Unlock()

	s.Hub.PublishRoute(orderID, event.RouteUpdated{
		Type:        event.TypeRouteUpdated,
		OrderID:     orderID,
		Leg:         r.Leg,
		Geometry:    r.Geometry,
		DistanceM:   r.DistanceM,
		DurationS:   r.DurationS,
		ComputedAt:  r.ComputedAt,
		Destination: r.Destination,
	})
}
