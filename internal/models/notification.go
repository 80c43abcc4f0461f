package models

import "gorm.io/gorm"

// Notification types emitted by the friendship layer.
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
)

// Notification is a persisted friend-event notice for a recipient.
type Notification struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	RecipientID string `json:"recipient_id" gorm:"index"` // Mongo user id hex
	ActorID     string `json:"actor_id"`
	ActorName   string `json:"actor_name"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsRead      bool   `json:"is_read" gorm:"default:false"`
}
