package room

import "github.com/DigamberMehta/Store2Door-sub001/internal/order/model"

// Client is one participant's connection handle inside a room. The transport
// (WebSocket gateway, test harness) owns the far side of Send and is
// responsible for draining it.
type Client struct {
	ParticipantID string
	Role          model.Role
	Send          chan []byte
}

func NewClient(participantID string, role model.Role) *Client {
	return &Client{
		ParticipantID: participantID,
		Role:          role,
		Send:          make(chan []byte, 256),
	}
}
