package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// RoomRepository owns the rooms collection.
type RoomRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *mongo.Database, timeout time.Duration) *RoomRepository {
	return &RoomRepository{col: db.Collection("rooms"), timeout: timeout}
}

// Insert stores a new room.
func (r *RoomRepository) Insert(ctx context.Context, room *models.Room) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("insert room %s: %w", room.Room, err)
	}
	return nil
}

// FindByRoom returns the room document, or mongo.ErrNoDocuments.
func (r *RoomRepository) FindByRoom(ctx context.Context, room string) (*models.Room, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc models.Room
	if err := r.col.FindOne(ctx, bson.M{"room": room}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns every room.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var rooms []models.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	return rooms, nil
}
