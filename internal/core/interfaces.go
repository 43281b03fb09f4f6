package core

import (
	"errors"

	"github.com/livetranslate/bridge/internal/domain"
)

// Frame is a JSON payload ready for the wire (SSE data or WS text).
type Frame []byte

var ErrRoomNotFound = errors.New("room not found")

// Subscription is one viewer's attachment to a room channel.
// Cancel must be called when the viewer goes away; Events is closed after.
type Subscription interface {
	Events() <-chan Frame
	Cancel()
}

// RoomRegistry is the process-wide mapping from room id to its fan-out
// channel. Rooms live for the process lifetime; there is no deletion.
// Publish must never block on a slow subscriber.
type RoomRegistry interface {
	Create() domain.RoomID
	Lookup(id domain.RoomID) bool
	Publish(id domain.RoomID, f Frame) error
	Subscribe(id domain.RoomID) (Subscription, error)
}
