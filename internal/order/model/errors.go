package model

import "errors"

var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnauthorized       = errors.New("actor not authorized for transition")
	ErrOrderNotFound      = errors.New("order not found")
	ErrRoomUnavailable    = errors.New("tracking room unavailable")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrStaleLocation      = errors.New("stale location update")
	ErrMissingWaypoint    = errors.New("missing route waypoint")
	ErrRouteUnavailable   = errors.New("route unavailable")
)
