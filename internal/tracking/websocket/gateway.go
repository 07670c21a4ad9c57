package websocket

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/auth"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/metrics"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/event"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/room"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inboundMessage is the union of every client-to-server event on the socket
// surface.
type inboundMessage struct {
	Type        string    `json:"type" validate:"required"`
	Token       string    `json:"token,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	DriverID    string    `json:"driver_id,omitempty"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	IsAvailable bool      `json:"is_available,omitempty"`
}

// Gateway exposes the tracking core on a WebSocket endpoint. Each connection
// authenticates once with a "join" message, then joins per-order rooms.
type Gateway struct {
	Service  *tracking.Service
	Registry *room.Registry
	Auth     *auth.Manager

	validate *validator.Validate
}

func NewGateway(svc *tracking.Service, reg *room.Registry, authManager *auth.Manager) *Gateway {
	return &Gateway{
		Service:  svc,
		Registry: reg,
		Auth:     authManager,
		validate: validator.New(),
	}
}

func (g *Gateway) Handler(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with its own error response.
		logger.Error("ws_upgrade_failed", "Failed to upgrade connection", requestID, "", err.Error())
		return
	}
	defer conn.Close()

	// The first message must be the join handshake.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var joinMsg inboundMessage
	if err := conn.ReadJSON(&joinMsg); err != nil {
		logger.Error("ws_auth_read_failed", "Failed to read join message", requestID, "", err.Error())
		conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"auth_timeout"}`))
		return
	}
	if joinMsg.Type != "join" {
		logger.Warn("ws_invalid_join_message", "First message was not a join", requestID, "", "")
		conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid_join_message"}`))
		return
	}

	claims, err := g.Auth.ValidateToken(joinMsg.Token)
	if err != nil {
		logger.Warn("ws_invalid_token", "Join token invalid", requestID, "", err.Error())
		conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid_token"}`))
		return
	}

	role := model.Role(claims.Role)
	switch role {
	case model.RoleCustomer, model.RoleDriver, model.RoleStore:
	default:
		conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unsupported_role"}`))
		return
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"joined"}`))
	logger.Info("ws_connected", fmt.Sprintf("%s connected", role), requestID, "")

	client := room.NewClient(claims.UserID, role)
	metrics.ConnectedClients.Inc()
	defer metrics.ConnectedClients.Dec()

	joined := make(map[string]bool)
	defer func() {
		for orderID := range joined {
			g.Registry.Leave(orderID, client.ParticipantID)
		}
	}()

	done := make(chan struct{})
	defer close(done)

	// Writer goroutine: the only WriteMessage caller after the handshake.
	go func() {
		for {
			select {
			case <-done:
				return
			case message, ok := <-client.Send:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					logger.Error("ws_write_failed", "Failed to send to client", requestID, "", err.Error())
					return
				}
			}
		}
	}()

	// Keepalive pings; WriteControl is safe alongside the writer goroutine.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Info("ws_disconnected", fmt.Sprintf("%s %s disconnected", role, client.ParticipantID), requestID, "")
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		g.dispatch(r, client, joined, msg, requestID)
	}
}

func (g *Gateway) dispatch(r *http.Request, client *room.Client, joined map[string]bool, msg inboundMessage, requestID string) {
	ctx := r.Context()

	switch msg.Type {
	case "customer:join-order", "driver:join-order", "store:join-order":
		prefix := strings.SplitN(msg.Type, ":", 2)[0]
		if prefix != string(client.Role) {
			g.sendError(client, msg.OrderID, "role_mismatch")
			return
		}
		if msg.OrderID == "" {
			g.sendError(client, "", "order_id_required")
			return
		}
		if err := g.Registry.Join(msg.OrderID, client); err != nil {
			logger.Warn("ws_join_rejected", "join rejected for closed room", requestID, msg.OrderID, err.Error())
			g.sendError(client, msg.OrderID, "room_unavailable")
			return
		}
		joined[msg.OrderID] = true

	case "leave-order":
		if msg.OrderID == "" {
			return
		}
		g.Registry.Leave(msg.OrderID, client.ParticipantID)
		delete(joined, msg.OrderID)

	case "driver:location":
		if client.Role != model.RoleDriver {
			g.sendError(client, msg.OrderID, "role_mismatch")
			return
		}
		if err := g.validateLocation(msg); err != nil {
			g.sendError(client, msg.OrderID, "invalid_location_payload")
			return
		}
		_, err := g.Service.HandleDriverLocation(ctx, msg.OrderID, client.ParticipantID, msg.Latitude, msg.Longitude, msg.Timestamp)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrStaleLocation):
			// Superseded ping, drop without complaint.
			logger.Debug("ws_stale_location", "stale ping dropped", requestID, msg.OrderID)
		case errors.Is(err, model.ErrInvalidCoordinates):
			g.sendError(client, msg.OrderID, "invalid_coordinates")
		default:
			logger.Error("ws_location_failed", "location publish failed", requestID, msg.OrderID, err.Error())
		}

	case "driver:availability-update":
		if client.Role != model.RoleDriver {
			g.sendError(client, "", "role_mismatch")
			return
		}
		g.Service.HandleDriverAvailability(ctx, client.ParticipantID, msg.IsAvailable)

	default:
		logger.Debug("ws_unknown_event", fmt.Sprintf("ignoring event type %q", msg.Type), requestID, msg.OrderID)
	}
}

type locationPayload struct {
	OrderID   string  `validate:"required"`
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

func (g *Gateway) validateLocation(msg inboundMessage) error {
	return g.validate.Struct(locationPayload{
		OrderID:   msg.OrderID,
		Latitude:  msg.Latitude,
		Longitude: msg.Longitude,
	})
}

// sendError delivers a per-client rejection without going through a room.
func (g *Gateway) sendError(client *room.Client, orderID, code string) {
	payload := event.Marshal(event.ErrorEvent{Type: event.TypeError, OrderID: orderID, Error: code})
	select {
	case client.Send <- payload:
	default:
	}
}
