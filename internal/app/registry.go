package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/core"
	"github.com/livetranslate/bridge/internal/domain"
)

// subBuffer is the per-viewer channel depth. A viewer that falls this far
// behind starts losing events rather than stalling the publisher.
const subBuffer = 256

// roomHub is one room's fan-out channel: many producers, many consumers,
// bounded-drop delivery. No backlog: a subscriber only sees events
// published after it attached.
type roomHub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan core.Frame
}

func newRoomHub() *roomHub {
	return &roomHub{subs: make(map[int]chan core.Frame)}
}

func (h *roomHub) publish(f core.Frame) (sent, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- f:
			sent++
		default:
			dropped++
		}
	}
	return sent, dropped
}

func (h *roomHub) subscribe() *subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan core.Frame, subBuffer)
	h.subs[id] = ch
	return &subscription{hub: h, id: id, ch: ch}
}

func (h *roomHub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

type subscription struct {
	hub  *roomHub
	id   int
	ch   chan core.Frame
	once sync.Once
}

func (s *subscription) Events() <-chan core.Frame { return s.ch }

func (s *subscription) Cancel() {
	s.once.Do(func() { s.hub.unsubscribe(s.id) })
}

// Registry is the process-wide room table. Rooms are never deleted; they
// live for the process lifetime.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomHub
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*roomHub)}
}

func (r *Registry) Create() domain.RoomID {
	id := domain.NewRoomID()
	r.mu.Lock()
	r.rooms[id] = newRoomHub()
	roomsTotal.Set(float64(len(r.rooms)))
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room created")
	return id
}

func (r *Registry) Lookup(id domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok
}

func (r *Registry) hub(id domain.RoomID) (*roomHub, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.rooms[id]
	return h, ok
}

func (r *Registry) Publish(id domain.RoomID, f core.Frame) error {
	h, ok := r.hub(id)
	if !ok {
		return core.ErrRoomNotFound
	}
	sent, dropped := h.publish(f)
	if dropped > 0 {
		log.Warn().Str("module", "app.registry").Str("room", string(id)).Int("dropped", dropped).Msg("slow subscribers dropped")
	}
	log.Debug().Str("module", "app.registry").Str("room", string(id)).Int("sent_to", sent).Msg("published")
	return nil
}

func (r *Registry) Subscribe(id domain.RoomID) (core.Subscription, error) {
	h, ok := r.hub(id)
	if !ok {
		return nil, core.ErrRoomNotFound
	}
	return h.subscribe(), nil
}
