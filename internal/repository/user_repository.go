package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// UserRepository owns the users collection.
type UserRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{col: db.Collection("users"), timeout: timeout}
}

// Insert stores a new user account.
func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user %s: %w", user.UserID, err)
	}
	return nil
}

// FindByUserID returns the account for a profile id, or mongo.ErrNoDocuments.
func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether an account exists for the profile id.
func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return false, fmt.Errorf("count users %s: %w", userID, err)
	}
	return count > 0, nil
}
