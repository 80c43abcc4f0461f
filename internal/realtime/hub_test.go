package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/unilink-app/unilink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRoomDir struct {
	err error
}

func (f *fakeRoomDir) FindOrCreateGlobal(ctx context.Context) (*models.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Room{ID: primitive.NewObjectID(), Name: models.GlobalRoomName}, nil
}

func (f *fakeRoomDir) FindOrCreatePrivate(ctx context.Context, a, b primitive.ObjectID) (*models.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Room{
		ID:           primitive.NewObjectID(),
		Name:         models.PrivateRoomName(a, b),
		Participants: []primitive.ObjectID{a, b},
	}, nil
}

func newTestHub() *Hub {
	return NewHub(NewRegistry(), &fakeRoomDir{})
}

// connect registers a pumpless client; frames accumulate in its send channel.
func connect(h *Hub, userID, username string) *Client {
	c := newClient(h, nil, userID, username)
	h.register(c)
	return c
}

func takeFrame(t *testing.T, c *Client) (Envelope, bool) {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		if !ok {
			return Envelope{}, false
		}
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("malformed frame %q: %v", frame, err)
		}
		return env, true
	default:
		return Envelope{}, false
	}
}

func TestHubJoinGlobalRoom(t *testing.T) {
	h := newTestHub()
	c := connect(h, "u1", "alice")

	h.JoinGlobalRoom(context.Background(), c)

	env, ok := takeFrame(t, c)
	if !ok {
		t.Fatal("expected a room_joined frame")
	}
	if env.Event != EventRoomJoined {
		t.Fatalf("event = %q, want %q", env.Event, EventRoomJoined)
	}
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if data["roomName"] != models.GlobalRoomName {
		t.Errorf("roomName = %q, want %q", data["roomName"], models.GlobalRoomName)
	}
	if h.RoomMembers(models.GlobalRoomName) != 1 {
		t.Errorf("RoomMembers() = %d, want 1", h.RoomMembers(models.GlobalRoomName))
	}
}

func TestHubJoinPrivateRoomValidation(t *testing.T) {
	h := newTestHub()
	c := connect(h, "u1", "alice")

	tests := []struct {
		name string
		ids  []string
	}{
		{name: "no ids", ids: nil},
		{name: "one id", ids: []string{primitive.NewObjectID().Hex()}},
		{name: "three ids", ids: []string{
			primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(),
		}},
		{name: "malformed ids", ids: []string{"nope", "also-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.JoinPrivateRoom(context.Background(), c, tt.ids)
			env, ok := takeFrame(t, c)
			if !ok {
				t.Fatal("expected an error frame")
			}
			if env.Event != EventError {
				t.Errorf("event = %q, want %q", env.Event, EventError)
			}
			if env.Ref != EventJoinRoom {
				t.Errorf("ref = %q, want %q", env.Ref, EventJoinRoom)
			}
		})
	}
}

func TestHubJoinPrivateRoomSymmetric(t *testing.T) {
	h := newTestHub()
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	ca := connect(h, a.Hex(), "alice")
	cb := connect(h, b.Hex(), "bob")

	h.JoinPrivateRoom(context.Background(), ca, []string{a.Hex(), b.Hex()})
	h.JoinPrivateRoom(context.Background(), cb, []string{b.Hex(), a.Hex()})

	envA, _ := takeFrame(t, ca)
	envB, _ := takeFrame(t, cb)

	var dataA, dataB map[string]string
	_ = json.Unmarshal(envA.Data, &dataA)
	_ = json.Unmarshal(envB.Data, &dataB)

	if dataA["roomName"] != dataB["roomName"] {
		t.Errorf("room names differ: %q vs %q", dataA["roomName"], dataB["roomName"])
	}
	if h.RoomMembers(dataA["roomName"]) != 2 {
		t.Errorf("RoomMembers() = %d, want 2", h.RoomMembers(dataA["roomName"]))
	}
}

func TestHubRoomResolutionFailureEmitsError(t *testing.T) {
	h := NewHub(NewRegistry(), &fakeRoomDir{err: errors.New("db down")})
	c := connect(h, "u1", "alice")

	h.JoinGlobalRoom(context.Background(), c)

	env, ok := takeFrame(t, c)
	if !ok || env.Event != EventError {
		t.Fatalf("expected error frame, got %+v ok=%v", env, ok)
	}
}

func TestHubLeaveRoom(t *testing.T) {
	h := newTestHub()
	c := connect(h, "u1", "alice")
	h.subscribe("some-room", c)

	h.LeaveRoom(c, "some-room")

	env, _ := takeFrame(t, c)
	if env.Event != EventRoomLeft {
		t.Errorf("event = %q, want %q", env.Event, EventRoomLeft)
	}
	if h.RoomMembers("some-room") != 0 {
		t.Error("client still a member after LeaveRoom")
	}

	h.LeaveRoom(c, "")
	env, _ = takeFrame(t, c)
	if env.Event != EventError || env.Ref != EventLeaveRoom {
		t.Errorf("empty room name: event = %q ref = %q, want error/leave_room", env.Event, env.Ref)
	}
}

func TestHubSendToRoomExcludesSender(t *testing.T) {
	h := newTestHub()
	sender := connect(h, "u1", "alice")
	peer := connect(h, "u2", "bob")
	outsider := connect(h, "u3", "carol")

	h.subscribe("room-x", sender)
	h.subscribe("room-x", peer)

	if err := h.SendToRoom("u1", EventReceiveMessage, "room-x", map[string]string{"content": "hi"}); err != nil {
		t.Fatalf("SendToRoom() error: %v", err)
	}

	if env, ok := takeFrame(t, peer); !ok || env.Event != EventReceiveMessage {
		t.Errorf("peer frame = %+v ok=%v, want receive_message", env, ok)
	}
	if _, ok := takeFrame(t, sender); ok {
		t.Error("sender received its own broadcast")
	}
	if _, ok := takeFrame(t, outsider); ok {
		t.Error("non-member received room broadcast")
	}
}

func TestHubSendToRoomFailures(t *testing.T) {
	h := newTestHub()
	connect(h, "u1", "alice")

	if err := h.SendToRoom("u1", EventReceiveMessage, "", nil); !errors.Is(err, ErrRoomNameRequired) {
		t.Errorf("empty room name error = %v, want ErrRoomNameRequired", err)
	}
	if err := h.SendToRoom("ghost", EventReceiveMessage, "room-x", nil); !errors.Is(err, ErrNoActiveConnection) {
		t.Errorf("unregistered sender error = %v, want ErrNoActiveConnection", err)
	}
}

func TestHubSendToUserOfflineIsNoop(t *testing.T) {
	h := newTestHub()
	// Nothing registered; must not panic or queue anywhere.
	h.SendToUser(EventNotification, "ghost", map[string]string{"hello": "there"})

	c := connect(h, "u1", "alice")
	h.SendToUser(EventNotification, "u1", map[string]string{"hello": "there"})
	if env, ok := takeFrame(t, c); !ok || env.Event != EventNotification {
		t.Errorf("online user frame = %+v ok=%v, want notification", env, ok)
	}
}

func TestHubDisconnectBroadcastsOffline(t *testing.T) {
	h := newTestHub()
	a := connect(h, "u1", "alice")
	b := connect(h, "u2", "bob")
	h.subscribe("room-x", a)

	h.Disconnect(a)

	if h.Registry().IsOnline("u1") {
		t.Error("IsOnline() = true after Disconnect")
	}
	if h.RoomMembers("room-x") != 0 {
		t.Error("disconnected client still a room member")
	}

	env, ok := takeFrame(t, b)
	if !ok || env.Event != EventUserOffline {
		t.Fatalf("peer frame = %+v ok=%v, want userOffline", env, ok)
	}
	var offlineID string
	if err := json.Unmarshal(env.Data, &offlineID); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if offlineID != "u1" {
		t.Errorf("offline id = %q, want u1", offlineID)
	}

	// Delivery to the departed user is now a silent no-op.
	h.SendToUser(EventNotification, "u1", "anything")
}

func TestHubEvictionKeepsReplacementRegistered(t *testing.T) {
	h := newTestHub()
	old := connect(h, "u1", "alice")
	replacement := connect(h, "u1", "alice") // evicts old
	witness := connect(h, "u2", "bob")

	// The evicted connection's teardown runs after the replacement took over.
	h.Disconnect(old)

	if !h.Registry().IsOnline("u1") {
		t.Error("IsOnline() = false, want true while replacement connected")
	}
	got, _ := h.Registry().Resolve("u1")
	if got != replacement {
		t.Error("Resolve() did not return the replacement connection")
	}
	if env, ok := takeFrame(t, witness); ok && env.Event == EventUserOffline {
		t.Error("userOffline broadcast although the user is still connected")
	}
}
