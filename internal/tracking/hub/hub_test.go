package hub

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/event"
	"github.com/DigamberMehta/Store2Door-sub001/internal/tracking/room"
)

func drain(c *room.Client) [][]byte {
	var out [][]byte
	for {
		select {
		case msg := <-c.Send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestPublishLocation_FanOutExcludesPublisher(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	driver := room.NewClient("driver-1", model.RoleDriver)
	customer := room.NewClient("customer-1", model.RoleCustomer)
	store := room.NewClient("store-1", model.RoleStore)
	reg.Join("order-1", driver)
	reg.Join("order-1", customer)
	reg.Join("order-1", store)

	if _, err := h.PublishLocation("order-1", "driver-1", 51.5, -0.12, time.Time{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if got := drain(driver); len(got) != 0 {
		t.Fatalf("publisher received its own location update")
	}
	for _, c := range []*room.Client{customer, store} {
		msgs := drain(c)
		if len(msgs) != 1 {
			t.Fatalf("%s received %d messages, want 1", c.ParticipantID, len(msgs))
		}
		var ev event.LocationUpdate
		if err := json.Unmarshal(msgs[0], &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		if ev.Type != event.TypeLocationUpdate || ev.Location.Latitude != 51.5 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
}

func TestPublishLocation_RejectsOrigin(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)
	customer := room.NewClient("customer-1", model.RoleCustomer)
	reg.Join("order-1", customer)

	if _, err := h.PublishLocation("order-1", "driver-1", 51.5, -0.12, time.Unix(100, 0)); err != nil {
		t.Fatalf("valid publish failed: %v", err)
	}
	drain(customer)

	_, err := h.PublishLocation("order-1", "driver-1", 0, 0, time.Unix(200, 0))
	if !errors.Is(err, model.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}

	// The previously stored valid location must survive.
	loc, ok := h.LastLocation("order-1", "driver-1")
	if !ok || loc.Latitude != 51.5 || loc.Longitude != -0.12 {
		t.Fatalf("valid location overwritten by origin ping: %+v", loc)
	}
	if got := drain(customer); len(got) != 0 {
		t.Fatalf("rejected ping was broadcast")
	}
}

func TestPublishLocation_LastWriteWinsByTimestamp(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	if _, err := h.PublishLocation("order-1", "driver-1", 1, 1, time.Unix(100, 0)); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	// Out-of-order delivery: an older ping arrives second.
	_, err := h.PublishLocation("order-1", "driver-1", 2, 2, time.Unix(50, 0))
	if !errors.Is(err, model.ErrStaleLocation) {
		t.Fatalf("expected ErrStaleLocation, got %v", err)
	}

	loc, ok := h.LastLocation("order-1", "driver-1")
	if !ok || loc.Latitude != 1 || loc.Longitude != 1 {
		t.Fatalf("stale ping overwrote fresher location: %+v", loc)
	}
	if !loc.Timestamp.Equal(time.Unix(100, 0)) {
		t.Fatalf("timestamp = %v, want t=100", loc.Timestamp)
	}
}

func TestPublishLocation_IndependentPerOrder(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	h.PublishLocation("order-1", "driver-1", 1, 1, time.Unix(100, 0))
	h.PublishLocation("order-2", "driver-1", 2, 2, time.Unix(50, 0))

	a, _ := h.LastLocation("order-1", "driver-1")
	b, _ := h.LastLocation("order-2", "driver-1")
	if a.Latitude != 1 || b.Latitude != 2 {
		t.Fatalf("locations bled across orders: %+v %+v", a, b)
	}
}

func TestPublishStatus_ReachesAllMembers(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	driver := room.NewClient("driver-1", model.RoleDriver)
	customer := room.NewClient("customer-1", model.RoleCustomer)
	reg.Join("order-1", driver)
	reg.Join("order-1", customer)

	ord := &model.Order{
		ID:     "order-1",
		Status: model.StatusOnTheWay,
		TrackingHistory: []model.TrackingEntry{
			{Status: model.StatusOnTheWay, Timestamp: time.Now()},
		},
	}
	h.PublishStatus(ord)

	for _, c := range []*room.Client{driver, customer} {
		msgs := drain(c)
		if len(msgs) != 1 {
			t.Fatalf("%s received %d status events, want 1", c.ParticipantID, len(msgs))
		}
		var ev event.StatusChanged
		json.Unmarshal(msgs[0], &ev)
		if ev.Status != model.StatusOnTheWay || len(ev.TrackingHistory) != 1 {
			t.Fatalf("unexpected status event: %+v", ev)
		}
	}
}

func TestDoubleJoin_SingleDelivery(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	// Same participant joins twice (reconnect); only the latest handle
	// receives events, and only once.
	stale := room.NewClient("customer-1", model.RoleCustomer)
	fresh := room.NewClient("customer-1", model.RoleCustomer)
	reg.Join("order-1", stale)
	reg.Join("order-1", fresh)

	h.PublishLocation("order-1", "driver-1", 51.5, -0.12, time.Time{})

	if got := drain(fresh); len(got) != 1 {
		t.Fatalf("fresh handle received %d events, want 1", len(got))
	}
	if got := drain(stale); len(got) != 0 {
		t.Fatalf("stale handle still receives events after re-join")
	}
}

func TestFanOut_SlowMemberEvictedOthersUnaffected(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	slow := &room.Client{ParticipantID: "customer-1", Role: model.RoleCustomer, Send: make(chan []byte)} // no buffer
	healthy := room.NewClient("store-1", model.RoleStore)
	reg.Join("order-1", slow)
	reg.Join("order-1", healthy)

	h.PublishLocation("order-1", "driver-1", 51.5, -0.12, time.Time{})

	if got := drain(healthy); len(got) != 1 {
		t.Fatalf("healthy member missed the event")
	}
	members := reg.MembersOf("order-1")
	if len(members) != 1 || members[0] != healthy {
		t.Fatalf("slow member not evicted: %d members", len(members))
	}
}

func TestDropLocations(t *testing.T) {
	reg := room.NewRegistry()
	h := NewHub(reg)

	h.PublishLocation("order-1", "driver-1", 51.5, -0.12, time.Time{})
	h.DropLocations("order-1")

	if _, ok := h.LastLocation("order-1", "driver-1"); ok {
		t.Fatalf("location survived DropLocations")
	}
	if _, ok := h.LocationFor("order-1"); ok {
		t.Fatalf("LocationFor still finds dropped location")
	}
}

func TestPublishLocation_NoRoomStillStores(t *testing.T) {
	h := NewHub(room.NewRegistry())

	if _, err := h.PublishLocation("order-1", "driver-1", 51.5, -0.12, time.Time{}); err != nil {
		t.Fatalf("publish without room failed: %v", err)
	}
	loc, ok := h.LocationFor("order-1")
	if !ok {
		t.Fatalf("location not stored without a room")
	}
	if !loc.Point().Valid() {
		t.Fatalf("stored location invalid: %+v", loc)
	}
}
