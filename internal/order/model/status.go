package model

// OrderStatus is the lifecycle state of a delivery order.
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "placed"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusAssigned       OrderStatus = "assigned"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusOnTheWay       OrderStatus = "on_the_way"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRefunded       OrderStatus = "refunded"
)

// Role identifies who is asking for a transition or joining a room.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleStore    Role = "store"
	RoleSystem   Role = "system"
)

// Leg is the active directed segment of a delivery implied by order status.
type Leg string

const (
	LegNone       Leg = ""
	LegToStore    Leg = "to_store"
	LegToCustomer Leg = "to_customer"
)

type edge struct {
	to    OrderStatus
	actor []Role
}

// transitions holds every engine-managed edge of the order state machine.
// cancelled is handled separately since it is reachable from any non-terminal
// state; refunded belongs to the out-of-scope refund flow and is only listed
// so IsTerminal stays accurate.
var transitions = map[OrderStatus][]edge{
	StatusPlaced:         {{StatusConfirmed, []Role{RoleStore}}},
	StatusConfirmed:      {{StatusPreparing, []Role{RoleStore}}},
	StatusPreparing:      {{StatusReadyForPickup, []Role{RoleStore}}},
	StatusReadyForPickup: {{StatusAssigned, []Role{RoleSystem}}},
	StatusAssigned:       {{StatusPickedUp, []Role{RoleDriver}}},
	StatusPickedUp:       {{StatusOnTheWay, []Role{RoleDriver}}},
	StatusOnTheWay:       {{StatusDelivered, []Role{RoleDriver}}},
}

// IsTerminal reports whether the engine manages no outgoing transitions from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// IsActiveDelivery reports whether a driver location is meaningful for s.
func (s OrderStatus) IsActiveDelivery() bool {
	switch s {
	case StatusAssigned, StatusPickedUp, StatusOnTheWay:
		return true
	}
	return false
}

// CanTransition reports whether from→to is a legal edge at all, regardless of
// who is asking.
func CanTransition(from, to OrderStatus) bool {
	if to == StatusCancelled {
		return !from.IsTerminal()
	}
	for _, e := range transitions[from] {
		if e.to == to {
			return true
		}
	}
	return false
}

// ActorAllowed reports whether role is authorized for the from→to edge.
// Callers must check CanTransition first.
func ActorAllowed(from, to OrderStatus, role Role) bool {
	if to == StatusCancelled {
		return role == RoleStore || role == RoleSystem
	}
	for _, e := range transitions[from] {
		if e.to != to {
			continue
		}
		for _, r := range e.actor {
			if r == role {
				return true
			}
		}
	}
	return false
}

// DestinationLeg maps an order status to the leg the driver is currently on.
// This is the single place the "going to store vs. going to customer" choice
// lives; both tracking views consume it through the route oracle.
func DestinationLeg(s OrderStatus) Leg {
	switch s {
	case StatusReadyForPickup, StatusAssigned:
		return LegToStore
	case StatusPickedUp, StatusOnTheWay:
		return LegToCustomer
	}
	return LegNone
}
