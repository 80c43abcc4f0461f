package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat message document. Immutable once created; it is only
// ever removed, either individually or together with the rest of its room.
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomID    primitive.ObjectID `json:"room_id" bson:"room_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// MessageView is the public projection of a message, joined with the
// author's display name.
type MessageView struct {
	ID        primitive.ObjectID `json:"id"`
	Content   string             `json:"content"`
	Username  string             `json:"username"`
	RoomName  string             `json:"room_name"`
	CreatedAt time.Time          `json:"created_at"`
}

type SendMessageRequest struct {
	RoomName string `json:"roomName" validate:"required"`
	Content  string `json:"content" validate:"required"`
}
