package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/common/metrics"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

// OrderStore is the authoritative state store the engine mutates. Declared
// here, at the point of use; implemented by the Postgres repository and the
// in-memory store.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, entry model.TrackingEntry, driverID *string) (*model.Order, error)
}

// Notifier receives the post-commit side effects of a successful transition:
// room fan-out, route invalidation, terminal-room teardown. The store is
// always updated before Notify runs, so a read following the event never
// observes older state than the event reflects.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *model.Order, previous model.OrderStatus)
}

// TransitionOptions carries the optional inputs of a transition. DriverID is
// only meaningful on the assignment edge.
type TransitionOptions struct {
	Note     string
	DriverID *string
}

// TransitionEngine validates and applies order status changes against the
// lifecycle state machine.
type TransitionEngine struct {
	store    OrderStore
	notifier Notifier
}

func NewTransitionEngine(store OrderStore, notifier Notifier) *TransitionEngine {
	return &TransitionEngine{store: store, notifier: notifier}
}

// ApplyTransition moves the order to requested if the edge exists and actor
// is authorized for it. On any error the order is left untouched. On success
// the returned snapshot carries the new status and a history entry with a
// server-assigned timestamp.
func (e *TransitionEngine) ApplyTransition(ctx context.Context, orderID string, requested model.OrderStatus, actor model.Role, opts TransitionOptions) (*model.Order, error) {
	ord, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			metrics.TransitionsRejectedTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if !model.CanTransition(ord.Status, requested) {
		metrics.TransitionsRejectedTotal.WithLabelValues("invalid_transition").Inc()
		logger.Warn("transition_rejected",
			fmt.Sprintf("no edge %s -> %s", ord.Status, requested), "", orderID, "")
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, ord.Status, requested)
	}

	if !model.ActorAllowed(ord.Status, requested, actor) {
		metrics.TransitionsRejectedTotal.WithLabelValues("unauthorized").Inc()
		logger.Warn("transition_unauthorized",
			fmt.Sprintf("%s may not apply %s -> %s", actor, ord.Status, requested), "", orderID, "")
		return nil, fmt.Errorf("%w: %s may not apply %s -> %s", model.ErrUnauthorized, actor, ord.Status, requested)
	}

	entry := model.TrackingEntry{
		Status:    requested,
		Timestamp: time.Now().UTC(),
		Note:      opts.Note,
	}

	var driverID *string
	if requested == model.StatusAssigned {
		driverID = opts.DriverID
	}

	previous := ord.Status
	updated, err := e.store.UpdateStatus(ctx, orderID, requested, entry, driverID)
	if err != nil {
		return nil, err
	}

	metrics.TransitionsAppliedTotal.WithLabelValues(string(requested)).Inc()
	logger.Info("transition_applied",
		fmt.Sprintf("%s -> %s by %s", previous, requested, actor), "", orderID)

	if e.notifier != nil {
		e.notifier.OrderStatusChanged(ctx, updated, previous)
	}

	return updated, nil
}
