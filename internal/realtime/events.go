package realtime

import (
	"encoding/json"
	"errors"
	"log"
)

// Client → server events.
const (
	EventJoinGlobalRoom = "join_global_room"
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
)

// Server → client events.
const (
	EventRoomJoined               = "room_joined"
	EventRoomLeft                 = "room_left"
	EventError                    = "error"
	EventReceiveMessage           = "receive_message"
	EventReceiveDeleteMessage     = "receive_delete_message"
	EventReceiveDeleteAllMessages = "receive_delete_all_messages"
	EventUserOffline              = "userOffline"
	EventNotification             = "notification"
)

// Envelope is the wire frame for every socket event. Ref carries the name
// of the client event an error refers to, since error events are
// fire-and-forget and have no other correlation.
type Envelope struct {
	Event string          `json:"event"`
	Ref   string          `json:"ref,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func decodeData(data json.RawMessage, dest interface{}) error {
	if len(data) == 0 {
		return errors.New("missing event data")
	}
	return json.Unmarshal(data, dest)
}

func encodeEvent(event, ref string, payload interface{}) []byte {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			log.Printf("realtime: failed to encode %s payload: %v", event, err)
			return nil
		}
		data = b
	}
	frame, err := json.Marshal(Envelope{Event: event, Ref: ref, Data: data})
	if err != nil {
		log.Printf("realtime: failed to encode %s envelope: %v", event, err)
		return nil
	}
	return frame
}
