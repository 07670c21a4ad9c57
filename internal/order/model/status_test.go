package model

import "testing"

func TestCanTransition_ValidEdges(t *testing.T) {
	valid := []struct {
		from, to OrderStatus
	}{
		{StatusPlaced, StatusConfirmed},
		{StatusConfirmed, StatusPreparing},
		{StatusPreparing, StatusReadyForPickup},
		{StatusReadyForPickup, StatusAssigned},
		{StatusAssigned, StatusPickedUp},
		{StatusPickedUp, StatusOnTheWay},
		{StatusOnTheWay, StatusDelivered},
		{StatusPlaced, StatusCancelled},
		{StatusOnTheWay, StatusCancelled},
	}
	for _, tc := range valid {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be a valid edge", tc.from, tc.to)
		}
	}
}

func TestCanTransition_InvalidEdges(t *testing.T) {
	invalid := []struct {
		from, to OrderStatus
	}{
		{StatusPlaced, StatusPickedUp},
		{StatusConfirmed, StatusDelivered},
		{StatusDelivered, StatusOnTheWay},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusCancelled},
		{StatusAssigned, StatusConfirmed},
	}
	for _, tc := range invalid {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestActorAllowed(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		role     Role
		want     bool
	}{
		{StatusPlaced, StatusConfirmed, RoleStore, true},
		{StatusPlaced, StatusConfirmed, RoleDriver, false},
		{StatusReadyForPickup, StatusAssigned, RoleSystem, true},
		{StatusReadyForPickup, StatusAssigned, RoleStore, false},
		{StatusAssigned, StatusPickedUp, RoleDriver, true},
		{StatusAssigned, StatusPickedUp, RoleCustomer, false},
		{StatusPreparing, StatusCancelled, RoleStore, true},
		{StatusPreparing, StatusCancelled, RoleSystem, true},
		{StatusPreparing, StatusCancelled, RoleDriver, false},
	}
	for _, tc := range cases {
		if got := ActorAllowed(tc.from, tc.to, tc.role); got != tc.want {
			t.Errorf("ActorAllowed(%s, %s, %s) = %v, want %v", tc.from, tc.to, tc.role, got, tc.want)
		}
	}
}

func TestDestinationLeg(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   Leg
	}{
		{StatusPlaced, LegNone},
		{StatusConfirmed, LegNone},
		{StatusReadyForPickup, LegToStore},
		{StatusAssigned, LegToStore},
		{StatusPickedUp, LegToCustomer},
		{StatusOnTheWay, LegToCustomer},
		{StatusDelivered, LegNone},
		{StatusCancelled, LegNone},
	}
	for _, tc := range cases {
		if got := DestinationLeg(tc.status); got != tc.want {
			t.Errorf("DestinationLeg(%s) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled, StatusRefunded} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusPlaced, StatusAssigned, StatusOnTheWay} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
