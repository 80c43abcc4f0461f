package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request status values. A request only ever persists as pending:
// acceptance and decline both delete the document, acceptance additionally
// mutating both users' friend sets.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

// FriendRequest is a directional proposal from Sender to Receiver.
type FriendRequest struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	ReceiverID primitive.ObjectID `json:"receiver_id" bson:"receiver_id"`
	Status     string             `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// SendFriendRequestRequest targets the receiver by username.
type SendFriendRequestRequest struct {
	Username string `json:"username" validate:"required"`
}

type RespondFriendRequestRequest struct {
	RequestID string `json:"requestId" validate:"required"`
}

type RemoveFriendRequest struct {
	FriendID string `json:"friendId" validate:"required"`
}
