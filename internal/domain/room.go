// Package domain contains entity without logic, just meta-data
package domain

import "github.com/google/uuid"

type RoomID string

// Room is a broadcast topic: one speaker, any number of viewers.
type Room struct {
	ID RoomID
}

// NewRoomID allocates a fresh opaque room identifier.
func NewRoomID() RoomID {
	return RoomID(uuid.NewString())
}
