package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/unilink-app/unilink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrRequestNotFound is returned when a friend request lookup matches no document.
var ErrRequestNotFound = errors.New("friend request not found")

// FriendshipRepository defines the interface for friend request data operations
type FriendshipRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	FindPending(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error)
	ListPendingForReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoFriendshipRepository implements FriendshipRepository for MongoDB
type MongoFriendshipRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendshipRepository creates a new MongoFriendshipRepository
func NewMongoFriendshipRepository(db *mongo.Database) *MongoFriendshipRepository {
	return &MongoFriendshipRepository{collection: db.Collection("friend_requests")}
}

// Create inserts a new pending friend request
func (r *MongoFriendshipRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	req.ID = primitive.NewObjectID()
	req.Status = models.FriendRequestPending
	req.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, req)
	return err
}

// GetByID retrieves a friend request by id
func (r *MongoFriendshipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindPending retrieves the pending request from sender to receiver, if any.
// Callers check both directions before inserting a new request.
func (r *MongoFriendshipRepository) FindPending(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"status":      models.FriendRequestPending,
	}
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListPendingForReceiver retrieves all pending requests addressed to a user
func (r *MongoFriendshipRepository) ListPendingForReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"receiver_id": receiverID, "status": models.FriendRequestPending}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.FriendRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Delete removes a friend request by id. A request is deleted, not archived,
// the moment it is accepted or declined.
func (r *MongoFriendshipRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRequestNotFound
	}
	return nil
}
