// Package friends implements the friend-request lifecycle: a pending
// request either collapses into a friendship or disappears, and the two
// friend lists are always mutated together.
package friends

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/unilink-app/unilink/backend/internal/models"
	"github.com/unilink-app/unilink/backend/internal/realtime"
	"github.com/unilink-app/unilink/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrDuplicatePending = errors.New("a pending request already exists")
	ErrNotReceiver      = errors.New("only the receiver can respond to a request")
)

// Notifier delivers realtime events to individual users.
type Notifier interface {
	SendToUser(event, userID string, payload interface{})
}

// PendingRequestView is a pending request hydrated with the sender's profile.
type PendingRequestView struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    models.UserSummary `json:"sender"`
	CreatedAt string             `json:"createdAt"`
}

// Service implements the friendship flows over the repositories.
type Service struct {
	users         repositories.UserRepository
	requests      repositories.FriendshipRepository
	notifications repositories.NotificationRepository
	notifier      Notifier
}

// NewService creates a friends Service.
func NewService(users repositories.UserRepository, requests repositories.FriendshipRepository, notifications repositories.NotificationRepository, notifier Notifier) *Service {
	return &Service{users: users, requests: requests, notifications: notifications, notifier: notifier}
}

// SendRequest creates a pending request from the sender to the named user.
// If the receiver already has a pending request toward the sender, the two
// requests collapse into an immediate friendship and mutual is true.
func (s *Service) SendRequest(ctx context.Context, senderID primitive.ObjectID, receiverUsername string) (receiver *models.UserSummary, mutual bool, err error) {
	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, false, err
	}
	target, err := s.users.GetUserByUsername(ctx, receiverUsername)
	if err != nil {
		return nil, false, err
	}

	if target.ID == sender.ID {
		return nil, false, ErrSelfRequest
	}
	if sender.HasFriend(target.ID) {
		return nil, false, ErrAlreadyFriends
	}

	if _, err := s.requests.FindPending(ctx, sender.ID, target.ID); err == nil {
		return nil, false, ErrDuplicatePending
	} else if !errors.Is(err, repositories.ErrRequestNotFound) {
		return nil, false, err
	}

	// A pending request in the opposite direction means both sides want
	// the friendship: accept it instead of stacking a second request.
	reverse, err := s.requests.FindPending(ctx, target.ID, sender.ID)
	if err == nil {
		if err := s.users.AddFriends(ctx, sender.ID, target.ID); err != nil {
			return nil, false, err
		}
		if err := s.requests.Delete(ctx, reverse.ID); err != nil && !errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, false, err
		}
		s.notifyAccepted(target, sender)
		summary := target.Summary()
		return &summary, true, nil
	}
	if !errors.Is(err, repositories.ErrRequestNotFound) {
		return nil, false, err
	}

	req := &models.FriendRequest{SenderID: sender.ID, ReceiverID: target.ID}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, false, err
	}
	s.notifyRequested(sender, target)
	summary := target.Summary()
	return &summary, false, nil
}

// Accept turns a pending request into a friendship. Only the receiver may
// accept; the request document is deleted once both friend lists are updated.
func (s *Service) Accept(ctx context.Context, userID primitive.ObjectID, requestID primitive.ObjectID) (*models.UserSummary, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != userID {
		return nil, ErrNotReceiver
	}

	sender, err := s.users.GetUserByID(ctx, req.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddFriends(ctx, req.SenderID, req.ReceiverID); err != nil {
		return nil, err
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil && !errors.Is(err, repositories.ErrRequestNotFound) {
		return nil, err
	}

	s.notifyAccepted(sender, receiver)
	summary := sender.Summary()
	return &summary, nil
}

// Decline removes a pending request without touching either friend list.
func (s *Service) Decline(ctx context.Context, userID primitive.ObjectID, requestID primitive.ObjectID) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != userID {
		return ErrNotReceiver
	}
	return s.requests.Delete(ctx, req.ID)
}

// Remove deletes the friendship from both friend lists. Removing a user who
// is not on the list is not an error.
func (s *Service) Remove(ctx context.Context, userID, friendID primitive.ObjectID) (*models.UserSummary, error) {
	friend, err := s.users.GetUserByID(ctx, friendID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RemoveFriends(ctx, userID, friendID); err != nil {
		return nil, err
	}
	summary := friend.Summary()
	return &summary, nil
}

// Friends lists a user's friends as profile summaries.
func (s *Service) Friends(ctx context.Context, userID primitive.ObjectID) ([]models.UserSummary, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Friends) == 0 {
		return []models.UserSummary{}, nil
	}
	friends, err := s.users.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(friends))
	for _, f := range friends {
		summaries = append(summaries, f.Summary())
	}
	return summaries, nil
}

// PendingRequests lists the pending requests addressed to a user, hydrated
// with the senders' profiles.
func (s *Service) PendingRequests(ctx context.Context, userID primitive.ObjectID) ([]PendingRequestView, error) {
	requests, err := s.requests.ListPendingForReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.SenderID)
	}
	senders, err := s.users.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.UserSummary, len(senders))
	for _, u := range senders {
		byID[u.ID] = u.Summary()
	}

	views := make([]PendingRequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, PendingRequestView{
			ID:        r.ID,
			Sender:    byID[r.SenderID],
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return views, nil
}

func (s *Service) notifyRequested(sender, receiver *models.User) {
	n := &models.Notification{
		RecipientID: receiver.ID.Hex(),
		ActorID:     sender.ID.Hex(),
		ActorName:   sender.Username,
		Type:        models.NotificationFriendRequest,
		Message:     fmt.Sprintf("%s sent you a friend request", sender.Username),
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		log.Printf("friends: notification write failed: %v", err)
	}
	s.notifier.SendToUser(realtime.EventNotification, receiver.ID.Hex(), n)
}

func (s *Service) notifyAccepted(sender, receiver *models.User) {
	n := &models.Notification{
		RecipientID: sender.ID.Hex(),
		ActorID:     receiver.ID.Hex(),
		ActorName:   receiver.Username,
		Type:        models.NotificationFriendAccepted,
		Message:     fmt.Sprintf("%s accepted your friend request", receiver.Username),
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		log.Printf("friends: notification write failed: %v", err)
	}
	s.notifier.SendToUser(realtime.EventNotification, sender.ID.Hex(), n)
}
