package room

import (
	"sync"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/metrics"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

// Room holds the live connections interested in one order. Membership
// mutation and fan-out are serialized through mu so an event is never
// delivered to a handle that is concurrently being removed.
type Room struct {
	orderID string
	mu      sync.RWMutex
	members map[string]*Client
	gone    bool
}

// Broadcast delivers payload to every member except exceptID, using a
// non-blocking send so one slow connection never stalls the others. It
// returns the ids of members whose buffers were full; the caller evicts them.
func (r *Room) Broadcast(payload []byte, exceptID string) (delivered int, stalled []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.members {
		if id == exceptID {
			continue
		}
		select {
		case c.Send <- payload:
			delivered++
		default:
			stalled = append(stalled, id)
		}
	}
	return delivered, stalled
}

// Registry maps order ids to rooms. Orders that reached a terminal status and
// passed their grace period are remembered as closed so late joins are
// rejected rather than silently resurrecting the room.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	closed map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		closed: make(map[string]time.Time),
	}
}

// Join registers the client in the order's room, creating the room on first
// join. Re-joining with the same participant id replaces the prior handle
// (last-writer-wins on reconnect).
func (reg *Registry) Join(orderID string, c *Client) error {
	for {
		reg.mu.Lock()
		if _, shut := reg.closed[orderID]; shut {
			reg.mu.Unlock()
			return model.ErrRoomUnavailable
		}
		rm, ok := reg.rooms[orderID]
		if !ok {
			rm = &Room{orderID: orderID, members: make(map[string]*Client)}
			reg.rooms[orderID] = rm
			metrics.OpenRooms.Inc()
		}
		reg.mu.Unlock()

		rm.mu.Lock()
		if rm.gone {
			// The room was torn down between the two critical sections.
			// Re-evaluate from the registry: a Close means the order is over,
			// a Leave-triggered deletion means a fresh room is fine.
			rm.mu.Unlock()
			continue
		}
		rm.members[c.ParticipantID] = c
		rm.mu.Unlock()

		logger.Debug("room_join", "participant joined room", "", orderID)
		return nil
	}
}

// Leave removes the participant; an emptied room is deleted immediately.
func (reg *Registry) Leave(orderID, participantID string) {
	reg.mu.RLock()
	rm, ok := reg.rooms[orderID]
	reg.mu.RUnlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	delete(rm.members, participantID)
	empty := len(rm.members) == 0
	rm.mu.Unlock()

	if empty {
		reg.mu.Lock()
		// Re-check under the registry lock: someone may have joined between
		// our two critical sections.
		rm.mu.Lock()
		if len(rm.members) == 0 && reg.rooms[orderID] == rm {
			rm.gone = true
			delete(reg.rooms, orderID)
			metrics.OpenRooms.Dec()
		}
		rm.mu.Unlock()
		reg.mu.Unlock()
	}
}

// MembersOf returns a snapshot of the room's current clients. Unknown rooms
// yield an empty slice, not an error.
func (reg *Registry) MembersOf(orderID string) []*Client {
	reg.mu.RLock()
	rm, ok := reg.rooms[orderID]
	reg.mu.RUnlock()
	if !ok {
		return nil
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	members := make([]*Client, 0, len(rm.members))
	for _, c := range rm.members {
		members = append(members, c)
	}
	return members
}

// Lookup returns the room for fan-out, or nil when no one is listening.
func (reg *Registry) Lookup(orderID string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[orderID]
}

// closedRetention bounds how long a closed order id is remembered. Late joins
// inside the window get ErrRoomUnavailable; after it the entry is swept and a
// join would start an empty room, which is harmless for an order that old.
const closedRetention = time.Hour

// Close tears the room down regardless of membership and marks the order id
// closed so subsequent joins fail with ErrRoomUnavailable.
func (reg *Registry) Close(orderID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if rm, ok := reg.rooms[orderID]; ok {
		rm.mu.Lock()
		rm.gone = true
		rm.mu.Unlock()
		delete(reg.rooms, orderID)
		metrics.OpenRooms.Dec()
	}

	now := time.Now()
	reg.closed[orderID] = now
	for id, closedAt := range reg.closed {
		if now.Sub(closedAt) > closedRetention {
			delete(reg.closed, id)
		}
	}
	logger.Info("room_closed", "tracking room torn down", "", orderID)
}

// ScheduleClose closes the room after the grace period, letting in-flight
// events reach clients mid-transition to their final view.
func (reg *Registry) ScheduleClose(orderID string, after time.Duration) {
	time.AfterFunc(after, func() {
		reg.Close(orderID)
	})
}
