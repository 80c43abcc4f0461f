package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GlobalRoomName is the reserved name of the single broadcast room every
// verified connection may join.
const GlobalRoomName = "Global"

// Room is a named message channel. Private rooms carry exactly two
// participants; the global room carries none.
type Room struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name         string               `json:"name" bson:"name"`
	Participants []primitive.ObjectID `json:"participants,omitempty" bson:"participants,omitempty"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
}

// PrivateRoomName derives the canonical name for the room between two users:
// the two ids sorted lexicographically and joined. The sort makes the name
// identical no matter which side asks, so name equality is the single
// uniqueness key for a pair.
func PrivateRoomName(a, b primitive.ObjectID) string {
	ids := []string{a.Hex(), b.Hex()}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}
