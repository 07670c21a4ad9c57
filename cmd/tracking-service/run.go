package tracking_service

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/auth"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/config"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/db"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/metrics"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/mq"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/handler"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/repository"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/service"
	"github.com/DigamberMehta/Store2Door-sub001/internal/route"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/hub"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/room"
	trackingrmq "github.com/DigamberMehta/Store2Door-sub001/internal/tracking/rmq"
	trackingws "github.com/DigamberMehta/Store2Door-sub001/internal/tracking/websocket"
)

// Run wires the tracking core and serves it. pg and rabbit may be nil: the
// service then falls back to the in-memory order store and skips the MQ
// bridge, which is how local development runs.
func Run(cfg *config.Config, pg *db.Postgres, rabbit *mq.RabbitMQ) error {
	logger.SetServiceName("tracking-service")
	metrics.Register()

	var store service.OrderStore
	if pg != nil {
		store = repository.NewOrderRepository(pg.Pool)
	} else {
		logger.Warn("store_fallback", "running with in-memory order store", "", "", "")
		store = repository.NewMemoryStore()
	}

	registry := room.NewRegistry()
	trackingHub := hub.NewHub(registry)

	provider := route.NewOSRMProvider(cfg.Routing.ProviderURL, cfg.Routing.RequestTimeout)
	oracle := route.NewOracle(provider, cfg.Routing.RecomputeMeters)

	var mqClient *trackingrmq.Client
	var publisher tracking.EventPublisher
	if rabbit != nil {
		var err error
		mqClient, err = trackingrmq.NewClient(rabbit.Conn, cfg.RabbitMQ.Exchange)
		if err != nil {
			return fmt.Errorf("failed to set up MQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	svc := tracking.NewService(trackingHub, registry, oracle, store, publisher, cfg.Tracking.RoomGracePeriod)
	engine := service.NewTransitionEngine(store, svc)

	if mqClient != nil {
		err := mqClient.ConsumeAssignments("tracking.assignments", func(msg trackingrmq.AssignmentMessage) {
			_, err := engine.ApplyTransition(context.Background(), msg.OrderID, model.StatusAssigned, model.RoleSystem,
				service.TransitionOptions{Note: "driver assigned by dispatch", DriverID: &msg.DriverID})
			if err != nil {
				logger.Warn("assignment_rejected", "dispatch assignment not applied", "", msg.OrderID, err.Error())
			}
		})
		if err != nil {
			return fmt.Errorf("failed to consume assignments: %w", err)
		}

		err = mqClient.ConsumeLocationPings("tracking.locations", func(msg trackingrmq.LocationPingMessage) {
			if _, err := svc.HandleDriverLocation(context.Background(), msg.OrderID, msg.DriverID, msg.Latitude, msg.Longitude, msg.Timestamp); err != nil {
				logger.Debug("mq_location_rejected", err.Error(), "", msg.OrderID)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to consume location pings: %w", err)
		}
	}

	authManager := auth.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	orderHandler := handler.NewOrderHandler(engine, store, trackingHub)
	gateway := trackingws.NewGateway(svc, registry, authManager)

	mux := http.NewServeMux()
	handler.SetupRoutes(mux, orderHandler, authManager)
	mux.HandleFunc("/ws", gateway.Handler)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	log.Printf("🚀 Tracking service running on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}
