// Package realtime implements the meeting-scoped broadcast layer: a hub of
// websocket clients grouped into per-meeting rooms, with FIFO delivery per
// room and fire-and-forget semantics per member.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the wire frame for every server-emitted event.
type Envelope struct {
	Event string      `json:"event"`
	Room  string      `json:"room"`
	Data  interface{} `json:"data"`
}

// RoomKey returns the channel name clients see for a meeting room.
func RoomKey(meetingID uuid.UUID) string {
	return "meeting:" + meetingID.String()
}

// Hub maintains the meeting→subscriber mapping and fans events out to room
// members. Membership is keyed by meeting ID, not by a free-form string, so
// a typo cannot silently create an empty room.
type Hub struct {
	mu sync.RWMutex
	// rooms maps a meeting to its current subscriber set.
	rooms map[uuid.UUID]map[*Client]struct{}
	// memberships maps a client back to every room it joined, so a dead
	// connection can be scrubbed from all of them at once.
	memberships map[*Client]map[uuid.UUID]struct{}

	logger *zap.Logger
	closed bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:       make(map[uuid.UUID]map[*Client]struct{}),
		memberships: make(map[*Client]map[uuid.UUID]struct{}),
		logger:      logger,
	}
}

// Join adds a client to a meeting's subscriber set. Re-joining is a no-op.
func (h *Hub) Join(client *Client, meetingID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	room, ok := h.rooms[meetingID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[meetingID] = room
	}
	if _, already := room[client]; already {
		return
	}
	room[client] = struct{}{}

	joined, ok := h.memberships[client]
	if !ok {
		joined = make(map[uuid.UUID]struct{})
		h.memberships[client] = joined
	}
	joined[meetingID] = struct{}{}

	if h.logger != nil {
		h.logger.Debug("client joined room",
			zap.String("room", RoomKey(meetingID)),
			zap.Int("members", len(room)),
		)
	}
}

// Leave removes a client from a meeting's subscriber set. Safe to call for
// a client that is not a member.
func (h *Hub) Leave(client *Client, meetingID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, meetingID)
}

func (h *Hub) leaveLocked(client *Client, meetingID uuid.UUID) {
	if room, ok := h.rooms[meetingID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, meetingID)
		}
	}
	if joined, ok := h.memberships[client]; ok {
		delete(joined, meetingID)
		if len(joined) == 0 {
			delete(h.memberships, client)
		}
	}
}

// RemoveClient scrubs a client from every room it joined. Called on
// connection termination, whatever the cause.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for meetingID := range h.memberships[client] {
		if room, ok := h.rooms[meetingID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, meetingID)
			}
		}
	}
	delete(h.memberships, client)
}

// Broadcast delivers an event to every current member of the meeting's
// room. Enqueueing happens under the room lock, so two Broadcast calls
// deliver to any given member in call order (FIFO per room). Delivery to
// each member is fire and forget: a member whose send buffer is full is
// disconnected rather than allowed to stall the rest of the room.
func (h *Hub) Broadcast(meetingID uuid.UUID, event string, payload interface{}) {
	frame, err := json.Marshal(Envelope{
		Event: event,
		Room:  RoomKey(meetingID),
		Data:  payload,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode broadcast frame",
				zap.String("event", event),
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return
	}

	// Full lock: enqueueing to the whole room must be atomic with respect
	// to other broadcasts, otherwise two members could observe two events
	// in different orders.
	h.mu.Lock()
	room := h.rooms[meetingID]
	var stalled []*Client
	for client := range room {
		if !client.enqueue(frame) {
			stalled = append(stalled, client)
		}
	}
	h.mu.Unlock()

	for _, client := range stalled {
		if h.logger != nil {
			h.logger.Warn("dropping slow subscriber",
				zap.String("room", RoomKey(meetingID)),
			)
		}
		client.closeSlow()
	}
}

// MemberCount returns the current size of a meeting's subscriber set.
func (h *Hub) MemberCount(meetingID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[meetingID])
}

// Close disconnects every client and rejects further joins.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.memberships))
	for client := range h.memberships {
		clients = append(clients, client)
	}
	h.rooms = make(map[uuid.UUID]map[*Client]struct{})
	h.memberships = make(map[*Client]map[uuid.UUID]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
