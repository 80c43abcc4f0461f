// Package chat composes the room directory, the message store and the
// realtime hub into the send-message and history flows.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/unilink-app/unilink/backend/internal/models"
	"github.com/unilink-app/unilink/backend/internal/realtime"
	"github.com/unilink-app/unilink/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrContentRequired  = errors.New("message content is required")
	ErrRoomNameRequired = errors.New("room name is required")
	ErrInvalidMessageID = errors.New("invalid message id")
)

// Notifier is the slice of the hub the chat flows deliver through.
type Notifier interface {
	SendToRoom(actingUserID, event, roomName string, payload interface{}) error
	SendToUser(event, userID string, payload interface{})
}

// Service implements the message flows over the repositories and the hub.
type Service struct {
	rooms    repositories.RoomRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	notifier Notifier
}

// NewService creates a chat Service.
func NewService(rooms repositories.RoomRepository, messages repositories.MessageRepository, users repositories.UserRepository, notifier Notifier) *Service {
	return &Service{rooms: rooms, messages: messages, users: users, notifier: notifier}
}

// SendMessage persists a message to an existing room and fans it out to the
// other connected room members. Sending never creates a room. The store
// write completes before any delivery, so a client that receives the event
// can immediately fetch the message from history.
func (s *Service) SendMessage(ctx context.Context, userID primitive.ObjectID, roomName, content string) (*models.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	if roomName == "" {
		return nil, ErrRoomNameRequired
	}

	author, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.FindByName(ctx, roomName)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.Append(ctx, room.ID, author.ID, content)
	if err != nil {
		return nil, err
	}

	view := &models.MessageView{
		ID:        msg.ID,
		Content:   msg.Content,
		Username:  author.Username,
		RoomName:  room.Name,
		CreatedAt: msg.CreatedAt,
	}

	// Best-effort live delivery; a sender without an active connection
	// still gets the message persisted.
	if err := s.notifier.SendToRoom(userID.Hex(), realtime.EventReceiveMessage, room.Name, map[string]interface{}{"message": view}); err != nil {
		if !errors.Is(err, realtime.ErrNoActiveConnection) {
			log.Printf("chat: room delivery failed for %s: %v", room.Name, err)
		}
	}
	return view, nil
}

// History lists a room's messages in ascending creation-time order, capped
// at the store's default limit and joined with author display names.
func (s *Service) History(ctx context.Context, roomName string, limit int64) ([]models.MessageView, error) {
	if roomName == "" {
		return nil, ErrRoomNameRequired
	}
	room, err := s.rooms.FindByName(ctx, roomName)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByRoom(ctx, room.ID, limit)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]primitive.ObjectID, 0, len(messages))
	seen := make(map[primitive.ObjectID]bool)
	for _, m := range messages {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			authorIDs = append(authorIDs, m.UserID)
		}
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(authors))
	for _, a := range authors {
		names[a.ID] = a.Username
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, models.MessageView{
			ID:        m.ID,
			Content:   m.Content,
			Username:  names[m.UserID],
			RoomName:  room.Name,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, nil
}

// DeleteMessage removes one message from a room and notifies the other
// connected members.
func (s *Service) DeleteMessage(ctx context.Context, userID primitive.ObjectID, roomName, messageID string) error {
	if roomName == "" {
		return ErrRoomNameRequired
	}
	msgID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return ErrInvalidMessageID
	}
	if _, err := s.rooms.FindByName(ctx, roomName); err != nil {
		return err
	}
	if err := s.messages.DeleteOne(ctx, msgID); err != nil {
		return err
	}

	if err := s.notifier.SendToRoom(userID.Hex(), realtime.EventReceiveDeleteMessage, roomName, map[string]string{"messageId": messageID}); err != nil {
		if !errors.Is(err, realtime.ErrNoActiveConnection) {
			log.Printf("chat: delete notification failed for %s: %v", roomName, err)
		}
	}
	return nil
}

// DeleteAllMessages wipes a room's history and notifies the other
// connected members.
func (s *Service) DeleteAllMessages(ctx context.Context, userID primitive.ObjectID, roomName string) error {
	if roomName == "" {
		return ErrRoomNameRequired
	}
	room, err := s.rooms.FindByName(ctx, roomName)
	if err != nil {
		return err
	}
	if err := s.messages.DeleteAllInRoom(ctx, room.ID); err != nil {
		return err
	}

	if err := s.notifier.SendToRoom(userID.Hex(), realtime.EventReceiveDeleteAllMessages, roomName, map[string]string{}); err != nil {
		if !errors.Is(err, realtime.ErrNoActiveConnection) {
			log.Printf("chat: delete-all notification failed for %s: %v", roomName, err)
		}
	}
	return nil
}
