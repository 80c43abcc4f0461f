package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/unilink-app/unilink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyContent is returned when a message with no text is appended.
var ErrEmptyContent = errors.New("message content is empty")

// DefaultHistoryLimit bounds room history listings.
const DefaultHistoryLimit = 50

// MessageRepository is the append-only store of chat messages.
type MessageRepository interface {
	Append(ctx context.Context, roomID, userID primitive.ObjectID, content string) (*models.Message, error)
	ListByRoom(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]models.Message, error)
	DeleteOne(ctx context.Context, messageID primitive.ObjectID) error
	DeleteAllInRoom(ctx context.Context, roomID primitive.ObjectID) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// Append persists a new message for a room.
func (r *MongoMessageRepository) Append(ctx context.Context, roomID, userID primitive.ObjectID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	msg := &models.Message{
		ID:        primitive.NewObjectID(),
		RoomID:    roomID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListByRoom returns up to limit messages in ascending creation-time order,
// bounded to the most recent ones. The query sorts descending with a limit
// and the slice is reversed afterwards.
func (r *MongoMessageRepository) ListByRoom(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]models.Message, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"room_id": roomID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteOne removes a message by id. Deleting a missing id is not an error
// at this layer; callers decide whether to surface not-found.
func (r *MongoMessageRepository) DeleteOne(ctx context.Context, messageID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": messageID})
	return err
}

// DeleteAllInRoom removes every message of a room.
func (r *MongoMessageRepository) DeleteAllInRoom(ctx context.Context, roomID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"room_id": roomID})
	return err
}
