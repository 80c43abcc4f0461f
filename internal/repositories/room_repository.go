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

// ErrRoomNotFound is returned when a room lookup matches no document.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepository resolves and creates rooms. The deterministic sorted-pair
// name is the only lookup key for private rooms; uniqueness is enforced by
// a unique index on name.
type RoomRepository interface {
	FindOrCreateGlobal(ctx context.Context) (*models.Room, error)
	FindOrCreatePrivate(ctx context.Context, a, b primitive.ObjectID) (*models.Room, error)
	FindByName(ctx context.Context, name string) (*models.Room, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoRoomRepository implements RoomRepository for MongoDB
type MongoRoomRepository struct {
	collection *mongo.Collection
}

// NewMongoRoomRepository creates a new MongoRoomRepository
func NewMongoRoomRepository(db *mongo.Database) *MongoRoomRepository {
	return &MongoRoomRepository{collection: db.Collection("rooms")}
}

// EnsureIndexes creates the unique name index that backs the find-or-create
// race policy.
func (r *MongoRoomRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// FindOrCreateGlobal resolves the reserved global room, creating it once.
func (r *MongoRoomRepository) FindOrCreateGlobal(ctx context.Context) (*models.Room, error) {
	return r.findOrCreate(ctx, &models.Room{Name: models.GlobalRoomName})
}

// FindOrCreatePrivate resolves the room for an unordered pair of users.
// Concurrent calls from both directions converge on one document: the
// loser of the insert race hits the unique name index and re-fetches.
func (r *MongoRoomRepository) FindOrCreatePrivate(ctx context.Context, a, b primitive.ObjectID) (*models.Room, error) {
	room := &models.Room{
		Name:         models.PrivateRoomName(a, b),
		Participants: []primitive.ObjectID{a, b},
	}
	return r.findOrCreate(ctx, room)
}

func (r *MongoRoomRepository) findOrCreate(ctx context.Context, room *models.Room) (*models.Room, error) {
	existing, err := r.FindByName(ctx, room.Name)
	if err == nil {
		return existing, nil
	}
	if err != ErrRoomNotFound {
		return nil, err
	}

	room.ID = primitive.NewObjectID()
	room.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Someone else just created it.
			return r.FindByName(ctx, room.Name)
		}
		return nil, err
	}
	return room, nil
}

// FindByName retrieves a room by its unique name
func (r *MongoRoomRepository) FindByName(ctx context.Context, name string) (*models.Room, error) {
	var room models.Room
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}
