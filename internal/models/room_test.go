package models

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPrivateRoomName(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	ab := PrivateRoomName(a, b)
	ba := PrivateRoomName(b, a)

	if ab != ba {
		t.Errorf("PrivateRoomName() not symmetric: %q vs %q", ab, ba)
	}

	parts := strings.Split(ab, "-")
	if len(parts) != 2 {
		t.Fatalf("PrivateRoomName() = %q, want two ids joined by -", ab)
	}
	if parts[0] > parts[1] {
		t.Errorf("PrivateRoomName() parts not sorted: %q", ab)
	}
}

func TestUserHasFriend(t *testing.T) {
	friend := primitive.NewObjectID()
	u := User{Friends: []primitive.ObjectID{primitive.NewObjectID(), friend}}

	if !u.HasFriend(friend) {
		t.Error("HasFriend() = false, want true for member id")
	}
	if u.HasFriend(primitive.NewObjectID()) {
		t.Error("HasFriend() = true, want false for unknown id")
	}
}
