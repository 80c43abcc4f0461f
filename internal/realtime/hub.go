package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/unilink-app/unilink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNoActiveConnection means the acting user has no registered
	// connection to originate a room delivery from.
	ErrNoActiveConnection = errors.New("user has no active connection")
	// ErrRoomNameRequired means a room operation was attempted without a
	// room name.
	ErrRoomNameRequired = errors.New("room name is required")
)

// RoomDirectory is the slice of the room store the hub needs for join
// handling.
type RoomDirectory interface {
	FindOrCreateGlobal(ctx context.Context) (*models.Room, error)
	FindOrCreatePrivate(ctx context.Context, a, b primitive.ObjectID) (*models.Room, error)
}

// Hub owns the connection lifecycle and room membership, and exposes the
// delivery primitives (send-to-user, send-to-room, broadcast) built on the
// Registry. Join and leave failures are emitted back over the socket as
// error events, not returned; the socket is a best-effort notification
// channel, not request/response.
type Hub struct {
	registry *Registry
	roomDir  RoomDirectory

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

// NewHub creates a Hub over the given registry and room directory.
func NewHub(registry *Registry, roomDir RoomDirectory) *Hub {
	return &Hub{
		registry: registry,
		roomDir:  roomDir,
		rooms:    make(map[string]map[*Client]bool),
	}
}

// Registry exposes the connection registry for online checks.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// register puts a freshly authenticated connection into the registry,
// tearing down any older connection the same user had. The evicted
// connection is closed without a userOffline broadcast since the user is
// still reachable through the new one.
func (h *Hub) register(c *Client) {
	if evicted := h.registry.Register(c.UserID, c); evicted != nil {
		h.removeFromRooms(evicted)
		evicted.Close()
	}
}

// Disconnect tears a connection down: membership dropped, registry entry
// removed, and an offline notice broadcast to everyone else. The registry
// removal is guarded so the teardown of an evicted connection leaves its
// replacement registered.
func (h *Hub) Disconnect(c *Client) {
	h.removeFromRooms(c)
	wasCurrent := h.registry.Unregister(c.UserID, c)
	c.Close()
	if wasCurrent {
		h.BroadcastAll(EventUserOffline, c.UserID)
	}
}

// dispatch routes one inbound event frame. Transport ordering guarantees
// per-connection sequencing, so joins and leaves from the same client are
// handled in the order they were sent.
func (h *Hub) dispatch(c *Client, env Envelope) {
	ctx := context.Background()
	switch env.Event {
	case EventJoinGlobalRoom:
		h.JoinGlobalRoom(ctx, c)
	case EventJoinRoom:
		var ids []string
		if err := decodeData(env.Data, &ids); err != nil {
			h.emitError(c, env.Event, "join_room expects an array of user ids")
			return
		}
		h.JoinPrivateRoom(ctx, c, ids)
	case EventLeaveRoom:
		var roomName string
		if err := decodeData(env.Data, &roomName); err != nil {
			h.emitError(c, env.Event, "leave_room expects a room name")
			return
		}
		h.LeaveRoom(c, roomName)
	default:
		h.emitError(c, env.Event, "unknown event")
	}
}

// JoinGlobalRoom subscribes the connection to the well-known global room,
// creating it on first use.
func (h *Hub) JoinGlobalRoom(ctx context.Context, c *Client) {
	room, err := h.roomDir.FindOrCreateGlobal(ctx)
	if err != nil {
		h.emitError(c, EventJoinGlobalRoom, "could not resolve global room")
		return
	}
	h.subscribe(room.Name, c)
	c.enqueue(encodeEvent(EventRoomJoined, "", map[string]string{"roomName": room.Name}))
}

// JoinPrivateRoom subscribes the connection to the room for a pair of
// users, resolving it by the deterministic sorted-pair name. Exactly two
// ids are required.
func (h *Hub) JoinPrivateRoom(ctx context.Context, c *Client, userIDs []string) {
	if len(userIDs) != 2 {
		h.emitError(c, EventJoinRoom, "join_room requires exactly two user ids")
		return
	}
	a, errA := primitive.ObjectIDFromHex(userIDs[0])
	b, errB := primitive.ObjectIDFromHex(userIDs[1])
	if errA != nil || errB != nil {
		h.emitError(c, EventJoinRoom, "join_room user ids are malformed")
		return
	}
	room, err := h.roomDir.FindOrCreatePrivate(ctx, a, b)
	if err != nil {
		h.emitError(c, EventJoinRoom, "could not resolve room")
		return
	}
	h.subscribe(room.Name, c)
	c.enqueue(encodeEvent(EventRoomJoined, "", map[string]string{"roomName": room.Name}))
}

// LeaveRoom unsubscribes the connection from a room by name.
func (h *Hub) LeaveRoom(c *Client, roomName string) {
	if roomName == "" {
		h.emitError(c, EventLeaveRoom, "room name is required")
		return
	}
	h.unsubscribe(roomName, c)
	c.enqueue(encodeEvent(EventRoomLeft, "", map[string]string{"roomName": roomName}))
}

// SendToUser delivers an event directly to a user's connection. A user with
// no registered connection is a silent no-op: nothing is queued.
func (h *Hub) SendToUser(event, userID string, payload interface{}) {
	c, ok := h.registry.Resolve(userID)
	if !ok {
		return
	}
	c.enqueue(encodeEvent(event, "", payload))
}

// SendToRoom delivers an event to every member of a room other than the
// acting user. The acting user must currently be registered; the sender
// never receives its own broadcast.
func (h *Hub) SendToRoom(actingUserID, event, roomName string, payload interface{}) error {
	if roomName == "" {
		return ErrRoomNameRequired
	}
	if _, ok := h.registry.Resolve(actingUserID); !ok {
		return ErrNoActiveConnection
	}

	frame := encodeEvent(event, "", payload)
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomName]))
	for member := range h.rooms[roomName] {
		members = append(members, member)
	}
	h.mu.RUnlock()

	for _, member := range members {
		if member.UserID == actingUserID {
			continue
		}
		member.enqueue(frame)
	}
	return nil
}

// BroadcastAll delivers an event to every registered connection.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	frame := encodeEvent(event, "", payload)
	for _, c := range h.registry.All() {
		c.enqueue(frame)
	}
}

// RoomMembers reports how many connections are subscribed to a room.
func (h *Hub) RoomMembers(roomName string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomName])
}

func (h *Hub) subscribe(roomName string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomName] == nil {
		h.rooms[roomName] = make(map[*Client]bool)
	}
	h.rooms[roomName][c] = true
}

func (h *Hub) unsubscribe(roomName string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members := h.rooms[roomName]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomName)
		}
	}
}

func (h *Hub) removeFromRooms(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, name)
		}
	}
}

func (h *Hub) emitError(c *Client, ref, reason string) {
	c.enqueue(encodeEvent(EventError, ref, reason))
}
