package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/repository"
	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

// Both concrete stores must satisfy the engine's port in full, including the
// creation path the REST handler drives through the same interface.
var (
	_ OrderStore = (*repository.MemoryStore)(nil)
	_ OrderStore = (*repository.OrderRepository)(nil)
)

type recordingNotifier struct {
	changes []model.OrderStatus
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, o *model.Order, _ model.OrderStatus) {
	n.changes = append(n.changes, o.Status)
}

func seedOrder(t *testing.T, store OrderStore, status model.OrderStatus) *model.Order {
	t.Helper()
	now := time.Now().UTC()
	ord := &model.Order{
		ID:         "order-1",
		Status:     status,
		StoreID:    "store-1",
		CustomerID: "customer-1",
		Pickup:     geo.Point{Lat: 51.5, Lon: -0.12},
		Dropoff:    geo.Point{Lat: 51.52, Lon: -0.1},
		TrackingHistory: []model.TrackingEntry{
			{Status: status, Timestamp: now, Note: "seeded"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateOrder(context.Background(), ord); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return ord
}

func TestOrderStore_CreateThenRead(t *testing.T) {
	var store OrderStore = repository.NewMemoryStore()
	seeded := seedOrder(t, store, model.StatusPlaced)

	got, err := store.GetOrder(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetOrder after create: %v", err)
	}
	if got.Status != model.StatusPlaced || got.CustomerID != seeded.CustomerID {
		t.Fatalf("read back %+v, want the seeded order", got)
	}
}

func TestApplyTransition_ValidEdge(t *testing.T) {
	store := repository.NewMemoryStore()
	notifier := &recordingNotifier{}
	engine := NewTransitionEngine(store, notifier)
	seedOrder(t, store, model.StatusPlaced)

	updated, err := engine.ApplyTransition(context.Background(), "order-1", model.StatusConfirmed, model.RoleStore, TransitionOptions{Note: "accepted"})
	if err != nil {
		t.Fatalf("ApplyTransition error: %v", err)
	}
	if updated.Status != model.StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", updated.Status)
	}

	last := updated.TrackingHistory[len(updated.TrackingHistory)-1]
	if last.Status != model.StatusConfirmed {
		t.Fatalf("history last entry status = %s, want confirmed", last.Status)
	}
	if last.Note != "accepted" {
		t.Fatalf("history note = %q, want %q", last.Note, "accepted")
	}
	if last.Timestamp.IsZero() {
		t.Fatalf("history entry missing server timestamp")
	}
	if len(notifier.changes) != 1 || notifier.changes[0] != model.StatusConfirmed {
		t.Fatalf("notifier saw %v, want [confirmed]", notifier.changes)
	}
}

func TestApplyTransition_HistoryMonotonic(t *testing.T) {
	store := repository.NewMemoryStore()
	engine := NewTransitionEngine(store, nil)
	seedOrder(t, store, model.StatusPlaced)

	steps := []struct {
		status model.OrderStatus
		role   model.Role
	}{
		{model.StatusConfirmed, model.RoleStore},
		{model.StatusPreparing, model.RoleStore},
		{model.StatusReadyForPickup, model.RoleStore},
		{model.StatusAssigned, model.RoleSystem},
		{model.StatusPickedUp, model.RoleDriver},
		{model.StatusOnTheWay, model.RoleDriver},
		{model.StatusDelivered, model.RoleDriver},
	}

	var final *model.Order
	for _, step := range steps {
		var err error
		final, err = engine.ApplyTransition(context.Background(), "order-1", step.status, step.role, TransitionOptions{})
		if err != nil {
			t.Fatalf("transition to %s: %v", step.status, err)
		}
	}

	if final.Status != model.StatusDelivered {
		t.Fatalf("final status = %s, want delivered", final.Status)
	}
	for i := 1; i < len(final.TrackingHistory); i++ {
		if final.TrackingHistory[i].Timestamp.Before(final.TrackingHistory[i-1].Timestamp) {
			t.Fatalf("history timestamps decrease at index %d", i)
		}
	}
	last := final.TrackingHistory[len(final.TrackingHistory)-1]
	if last.Status != final.Status {
		t.Fatalf("history invariant broken: last=%s status=%s", last.Status, final.Status)
	}
}

func TestApplyTransition_InvalidEdgeLeavesOrderUnchanged(t *testing.T) {
	store := repository.NewMemoryStore()
	notifier := &recordingNotifier{}
	engine := NewTransitionEngine(store, notifier)
	seedOrder(t, store, model.StatusPlaced)

	before, _ := store.GetOrder(context.Background(), "order-1")

	_, err := engine.ApplyTransition(context.Background(), "order-1", model.StatusPickedUp, model.RoleDriver, TransitionOptions{})
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	after, _ := store.GetOrder(context.Background(), "order-1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("order mutated on rejected transition:\nbefore %+v\nafter  %+v", before, after)
	}
	if len(notifier.changes) != 0 {
		t.Fatalf("notifier fired on rejected transition")
	}
}

func TestApplyTransition_UnauthorizedActor(t *testing.T) {
	store := repository.NewMemoryStore()
	engine := NewTransitionEngine(store, nil)
	seedOrder(t, store, model.StatusPlaced)

	_, err := engine.ApplyTransition(context.Background(), "order-1", model.StatusConfirmed, model.RoleDriver, TransitionOptions{})
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	after, _ := store.GetOrder(context.Background(), "order-1")
	if after.Status != model.StatusPlaced {
		t.Fatalf("status changed despite unauthorized actor: %s", after.Status)
	}
}

func TestApplyTransition_UnknownOrder(t *testing.T) {
	engine := NewTransitionEngine(repository.NewMemoryStore(), nil)

	_, err := engine.ApplyTransition(context.Background(), "missing", model.StatusConfirmed, model.RoleStore, TransitionOptions{})
	if !errors.Is(err, model.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestApplyTransition_AssignmentSetsDriver(t *testing.T) {
	store := repository.NewMemoryStore()
	engine := NewTransitionEngine(store, nil)
	seedOrder(t, store, model.StatusReadyForPickup)

	driverID := "driver-7"
	updated, err := engine.ApplyTransition(context.Background(), "order-1", model.StatusAssigned, model.RoleSystem,
		TransitionOptions{DriverID: &driverID})
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if updated.DriverID == nil || *updated.DriverID != driverID {
		t.Fatalf("driver id not recorded: %v", updated.DriverID)
	}
}

func TestApplyTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []model.OrderStatus{
		model.StatusPlaced, model.StatusConfirmed, model.StatusPreparing,
		model.StatusReadyForPickup, model.StatusAssigned, model.StatusPickedUp, model.StatusOnTheWay,
	} {
		store := repository.NewMemoryStore()
		engine := NewTransitionEngine(store, nil)
		seedOrder(t, store, from)

		updated, err := engine.ApplyTransition(context.Background(), "order-1", model.StatusCancelled, model.RoleStore, TransitionOptions{})
		if err != nil {
			t.Fatalf("cancel from %s: %v", from, err)
		}
		if updated.Status != model.StatusCancelled {
			t.Fatalf("cancel from %s left status %s", from, updated.Status)
		}
	}
}
